package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/dealflow/internal/db"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/testutil"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (Store, *sql.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return NewStore(database, db.DialectSQLite), database
}

func fixedClock(at time.Time) clock {
	return func() time.Time { return at }
}

func seedDeal(t *testing.T, store Store, d *domain.Deal) *domain.Deal {
	t.Helper()
	require.NoError(t, store.Deals.Save(context.Background(), d))
	return d
}

// recordingObserver keeps every event it receives.
type recordingObserver struct {
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	if len(o.events) == 0 {
		return UseCaseEvent{}
	}
	return o.events[len(o.events)-1]
}
