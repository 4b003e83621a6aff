package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/alexanderramin/dealflow/internal/classification"
	"github.com/alexanderramin/dealflow/internal/db"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/eligibility"
	"github.com/alexanderramin/dealflow/internal/repository"
)

// Store bundles what the services need to read and write deals. Deals serves
// plain reads; writes go through UoW with a repository bound to the transaction.
type Store struct {
	Deals   repository.DealRepo
	UoW     db.UnitOfWork
	Dialect db.Dialect
}

// NewStore wires a Store over an open database.
func NewStore(database *sql.DB, dialect db.Dialect) Store {
	return Store{
		Deals:   repository.NewSQLDealRepo(database, dialect),
		UoW:     db.NewSQLUnitOfWork(database),
		Dialect: dialect,
	}
}

type clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// update loads a deal inside a transaction, applies fn and saves it. The deal
// is returned only when the save committed.
func (s Store) update(ctx context.Context, id string, fn func(d *domain.Deal) error) (*domain.Deal, error) {
	var out *domain.Deal
	err := s.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		deals := repository.NewSQLDealRepo(tx, s.Dialect)
		d, err := deals.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(d); err != nil {
			return err
		}
		if err := deals.Save(ctx, d); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// deriveAssessment recomputes the fields that follow from the deal's profile:
// risk category, applicable standards and the gender-lens outcome.
func deriveAssessment(d *domain.Deal) {
	d.RiskCategory = classification.Classify(d.Sector, d.Subsector).Category
	d.ApplicableStandards = classification.StandardCodes(d.Sector)
	d.RecordTwoXResult(eligibility.Score(d.TwoX, d.Sector))
}
