package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/alexanderramin/dealflow/internal/db"
	"github.com/alexanderramin/dealflow/internal/domain"
)

// SQLDealRepo stores each deal as one row: indexed summary columns plus the
// full aggregate as a JSON payload.
type SQLDealRepo struct {
	conn db.DBTX
	sb   sq.StatementBuilderType
}

// NewSQLDealRepo creates a repo over conn, which may be a *sql.DB or a *sql.Tx.
func NewSQLDealRepo(conn db.DBTX, dialect db.Dialect) *SQLDealRepo {
	return &SQLDealRepo{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(dialect.Placeholder()),
	}
}

var _ DealRepo = (*SQLDealRepo)(nil)

func (r *SQLDealRepo) Save(ctx context.Context, d *domain.Deal) error {
	next := *d
	next.Version = d.Version + 1
	payload, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("encoding deal %s: %w", d.ID, err)
	}

	if d.Version == 0 {
		query, args, err := r.sb.Insert("deals").
			Columns("id", "company_name", "country", "sector", "search_text", "current_stage", "risk_category",
				"version", "payload", "created_at", "updated_at").
			Values(d.ID, d.CompanyName, d.Country, d.Sector, searchText(d), string(d.CurrentStage), string(d.RiskCategory),
				next.Version, string(payload), formatTimestamp(d.CreatedAt), formatTimestamp(d.UpdatedAt)).
			ToSql()
		if err != nil {
			return fmt.Errorf("building insert: %w", err)
		}
		if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting deal %s: %w", d.ID, err)
		}
		d.Version = next.Version
		return nil
	}

	query, args, err := r.sb.Update("deals").
		Set("company_name", d.CompanyName).
		Set("country", d.Country).
		Set("sector", d.Sector).
		Set("search_text", searchText(d)).
		Set("current_stage", string(d.CurrentStage)).
		Set("risk_category", string(d.RiskCategory)).
		Set("version", next.Version).
		Set("payload", string(payload)).
		Set("updated_at", formatTimestamp(d.UpdatedAt)).
		Where(sq.Eq{"id": d.ID, "version": d.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building update: %w", err)
	}
	res, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating deal %s: %w", d.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating deal %s: %w", d.ID, err)
	}
	if n == 0 {
		if _, getErr := r.Get(ctx, d.ID); errors.Is(getErr, ErrNotFound) {
			return fmt.Errorf("updating deal %s: %w", d.ID, ErrNotFound)
		}
		return fmt.Errorf("updating deal %s at version %d: %w", d.ID, d.Version, ErrVersionConflict)
	}
	d.Version = next.Version
	return nil
}

func (r *SQLDealRepo) Get(ctx context.Context, id string) (*domain.Deal, error) {
	query, args, err := r.sb.Select("version", "payload").From("deals").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}
	var (
		version int
		payload string
	)
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&version, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading deal %s: %w", id, err)
	}
	return decodeDeal(id, version, payload)
}

func (r *SQLDealRepo) List(ctx context.Context) ([]*domain.Deal, error) {
	return r.query(ctx, r.selectDeals().OrderBy("created_at", "id"))
}

func (r *SQLDealRepo) ListByStage(ctx context.Context, stage domain.Stage) ([]*domain.Deal, error) {
	return r.query(ctx, r.selectDeals().Where(sq.Eq{"current_stage": string(stage)}).OrderBy("created_at", "id"))
}

// ListByStatus returns deals in stage whose current stage record has status.
func (r *SQLDealRepo) ListByStatus(ctx context.Context, stage domain.Stage, status domain.StageStatus) ([]*domain.Deal, error) {
	deals, err := r.ListByStage(ctx, stage)
	if err != nil {
		return nil, err
	}
	out := deals[:0]
	for _, d := range deals {
		if sd, ok := d.CurrentStageData(); ok && sd.Status == status {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *SQLDealRepo) ListActive(ctx context.Context) ([]*domain.Deal, error) {
	terminal := []string{string(domain.StageExited), string(domain.StageRejected)}
	return r.query(ctx, r.selectDeals().Where(sq.NotEq{"current_stage": terminal}).OrderBy("created_at", "id"))
}

// Search matches query case-insensitively against company name, country and sector.
func (r *SQLDealRepo) Search(ctx context.Context, query string) ([]*domain.Deal, error) {
	return r.query(ctx, r.selectDeals().
		Where(sq.Expr(`search_text LIKE ? ESCAPE '\'`, likePattern(query))).
		OrderBy("created_at", "id"))
}

func (r *SQLDealRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Deal, error) {
	if limit <= 0 {
		return nil, nil
	}
	return r.query(ctx, r.selectDeals().OrderBy("updated_at DESC", "id").Limit(uint64(limit)))
}

func (r *SQLDealRepo) Delete(ctx context.Context, id string) error {
	query, args, err := r.sb.Delete("deals").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}
	res, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting deal %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting deal %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (r *SQLDealRepo) selectDeals() sq.SelectBuilder {
	return r.sb.Select("id", "version", "payload").From("deals")
}

func (r *SQLDealRepo) query(ctx context.Context, b sq.SelectBuilder) ([]*domain.Deal, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing deals: %w", err)
	}
	defer rows.Close()

	var deals []*domain.Deal
	for rows.Next() {
		var (
			id      string
			version int
			payload string
		)
		if err := rows.Scan(&id, &version, &payload); err != nil {
			return nil, fmt.Errorf("scanning deal: %w", err)
		}
		d, err := decodeDeal(id, version, payload)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

// decodeDeal parses a stored payload. Unknown enum values fail the load.
func decodeDeal(id string, version int, payload string) (*domain.Deal, error) {
	var d domain.Deal
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		return nil, fmt.Errorf("decoding deal %s: %w", id, err)
	}
	d.Version = version
	return &d, nil
}
