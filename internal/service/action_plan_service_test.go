package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/eligibility"
	"github.com/alexanderramin/dealflow/internal/repository"
	"github.com/alexanderramin/dealflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestActionPlanService(store Store, at time.Time) *actionPlanService {
	svc := NewActionPlanService(store).(*actionPlanService)
	svc.now = fixedClock(at)
	return svc
}

func TestActionPlanService_ItemLifecycle(t *testing.T) {
	store, _ := newTestStore(t)
	svc := newTestActionPlanService(store, testutil.Epoch)
	ctx := context.Background()
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro", testutil.AtStage(domain.StageMonitoring)))

	deadline := testutil.Epoch.AddDate(0, 1, 0)
	first, err := svc.AddItem(ctx, deal.ID, domain.ActionItem{
		Category: domain.CategoryHSE, Action: "Publish HSE policy", Deadline: &deadline, Priority: domain.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, "ESAP_001", first.ID)

	second, err := svc.AddItem(ctx, deal.ID, domain.ActionItem{Category: domain.CategoryGender, Action: "Gender action plan"})
	require.NoError(t, err)
	assert.Equal(t, "ESAP_002", second.ID)

	require.NoError(t, svc.UpdateStatus(ctx, deal.ID, "ESAP_002", domain.ActionCompleted, "board approved"))
	require.NoError(t, svc.RemoveItem(ctx, deal.ID, "ESAP_001"))

	third, err := svc.AddItem(ctx, deal.ID, domain.ActionItem{Category: domain.CategoryClimate, Action: "Energy audit"})
	require.NoError(t, err)
	assert.Equal(t, "ESAP_003", third.ID, "removed ids are not reused")

	plan, err := svc.Plan(ctx, deal.ID)
	require.NoError(t, err)
	require.Len(t, plan.Items, 2)
	assert.Equal(t, domain.ActionCompleted, plan.Items[0].Status)
	require.Len(t, plan.Items[0].ProgressNotes, 1)
	assert.Equal(t, "board approved", plan.Items[0].ProgressNotes[0].Note)
	assert.Equal(t, domain.ESAPSummary{Total: 2, Completed: 1, NotStarted: 1, CompletionRate: 50}, plan.Summary)
}

func TestActionPlanService_Errors(t *testing.T) {
	store, _ := newTestStore(t)
	svc := newTestActionPlanService(store, testutil.Epoch)
	ctx := context.Background()
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))

	_, err := svc.AddItem(ctx, deal.ID, domain.ActionItem{Category: "Finance", Action: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, deal.ID, "ESAP_404", domain.ActionCompleted, ""), domain.ErrActionItemNotFound)
	assert.ErrorIs(t, svc.RemoveItem(ctx, deal.ID, "ESAP_404"), domain.ErrActionItemNotFound)
	_, err = svc.AddItem(ctx, "NOPE", domain.ActionItem{Category: domain.CategoryHSE, Action: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	stored, err := store.Deals.Get(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Version)
}

func TestActionPlanService_PlanFlagsOverdue(t *testing.T) {
	store, _ := newTestStore(t)
	svc := newTestActionPlanService(store, testutil.Epoch)
	ctx := context.Background()
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))

	deadline := testutil.Epoch.Add(24 * time.Hour)
	_, err := svc.AddItem(ctx, deal.ID, domain.ActionItem{Category: domain.CategoryHSE, Action: "Fire drill", Deadline: &deadline})
	require.NoError(t, err)

	plan, err := svc.Plan(ctx, deal.ID)
	require.NoError(t, err)
	assert.Zero(t, plan.Summary.Overdue)

	svc.now = fixedClock(deadline.Add(time.Hour))
	plan, err = svc.Plan(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Summary.Overdue)
}

func TestActionPlanService_RecordKPIsReevaluatesEligibility(t *testing.T) {
	store, _ := newTestStore(t)
	svc := newTestActionPlanService(store, testutil.Epoch.Add(time.Hour))
	ctx := context.Background()
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro",
		testutil.AtStage(domain.StageMonitoring),
		testutil.WithTwoX(domain.TwoXInput{WomenEmployeesPct: 20})))
	require.False(t, deal.TwoXEligible)

	got, err := svc.RecordKPIs(ctx, deal.ID, map[string]float64{"jobs": 120, domain.KPIWomenEmployees: 25})
	require.NoError(t, err)
	assert.False(t, got.TwoXEligible)

	svc.now = fixedClock(testutil.Epoch.Add(2 * time.Hour))
	got, err = svc.RecordKPIs(ctx, deal.ID, map[string]float64{"jobs": 150, domain.KPIWomenEmployees: 32})
	require.NoError(t, err)
	assert.True(t, got.TwoXEligible, "32% clears the 30% agribusiness employment threshold")
	assert.Equal(t, 1, got.TwoXCriteriaMet)
	assert.Equal(t, 32.0, got.TwoX.WomenEmployeesPct)

	report, err := svc.KPIHistory(ctx, deal.ID)
	require.NoError(t, err)
	require.Len(t, report.Snapshots, 2)
	assert.Equal(t, testutil.Epoch.Add(2*time.Hour), report.Snapshots[1].At)
	require.Len(t, report.Deltas, 2)
	assert.Equal(t, domain.KPIDelta{Metric: "jobs", Latest: 150, SinceFirst: 30, SincePrevious: 30, HasPrevious: true}, report.Deltas[0])
	assert.True(t, report.TwoX.Eligible)
	cr, ok := report.TwoX.Criterion(eligibility.Employment)
	require.True(t, ok)
	assert.True(t, cr.Met)

	_, err = svc.RecordKPIs(ctx, deal.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
}

func TestActionPlanService_EmptyHistory(t *testing.T) {
	store, _ := newTestStore(t)
	svc := newTestActionPlanService(store, testutil.Epoch)
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))

	report, err := svc.KPIHistory(context.Background(), deal.ID)
	require.NoError(t, err)
	assert.Empty(t, report.Snapshots)
	assert.NotNil(t, report.Snapshots)
	assert.Nil(t, report.Deltas)
}
