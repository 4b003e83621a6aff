package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/repository"
	"github.com/alexanderramin/dealflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDealService(store Store, obs ...UseCaseObserver) *dealService {
	svc := NewDealService(store, obs...).(*dealService)
	svc.now = fixedClock(testutil.Epoch)
	return svc
}

func TestDealService_CreateDerivesAssessment(t *testing.T) {
	store, _ := newTestStore(t)
	obs := &recordingObserver{}
	svc := newTestDealService(store, obs)
	ctx := context.Background()

	deal, err := svc.Create(ctx, CreateDealInput{
		CompanyName: "  Acme Agro ",
		Country:     "Senegal",
		Sector:      "Agribusiness",
		Subsector:   "Food distribution",
		TwoX:        domain.TwoXInput{WomenOwnershipPct: 60, WomenEmployeesPct: 0.1},
		Analyst:     "amina",
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Agro", deal.CompanyName)
	assert.Equal(t, domain.RiskC, deal.RiskCategory, "subsector overrides the sector category")
	assert.Equal(t, []string{"PS1", "PS2", "PS3", "PS4", "PS5", "PS6"}, deal.ApplicableStandards)
	assert.True(t, deal.TwoXEligible)
	assert.Equal(t, 1, deal.TwoXCriteriaMet)
	assert.Equal(t, 1, deal.Version)
	assert.Equal(t, testutil.Epoch, deal.CreatedAt)
	sd, ok := deal.CurrentStageData()
	require.True(t, ok)
	assert.Equal(t, "amina", sd.Analyst)

	stored, err := svc.Get(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, deal, stored)

	ev := obs.last()
	assert.Equal(t, "create-deal", ev.Name)
	assert.True(t, ev.Success)
	assert.Equal(t, deal.ID, ev.Fields["deal_id"])
}

func TestDealService_CreateUnknownSectorFallsBack(t *testing.T) {
	store, _ := newTestStore(t)
	svc := newTestDealService(store)

	deal, err := svc.Create(context.Background(), CreateDealInput{CompanyName: "Deep Mines", Country: "Atlantis", Sector: "Mining"})
	require.NoError(t, err)
	assert.Equal(t, domain.RiskBMinus, deal.RiskCategory)
	assert.Equal(t, []string{"PS1", "PS2"}, deal.ApplicableStandards)
	assert.False(t, deal.TwoXEligible)
}

func TestDealService_CreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		in    CreateDealInput
		field string
	}{
		{"missing name", CreateDealInput{Country: "Kenya", Sector: "Health"}, "company_name"},
		{"blank name", CreateDealInput{CompanyName: "  ", Country: "Kenya", Sector: "Health"}, "company_name"},
		{"missing country", CreateDealInput{CompanyName: "Clinic", Sector: "Health"}, "country"},
		{"missing sector", CreateDealInput{CompanyName: "Clinic", Country: "Kenya"}, "sector"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(t)
			obs := &recordingObserver{}
			svc := newTestDealService(store, obs)

			_, err := svc.Create(context.Background(), tt.in)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.ErrorIs(t, err, domain.ErrInvalidValue)
			assert.False(t, obs.last().Success)

			all, err := svc.List(context.Background(), DealFilter{})
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestDealService_AdvanceRequiresApproval(t *testing.T) {
	store, _ := newTestStore(t)
	svc := newTestDealService(store)
	ctx := context.Background()
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))

	_, err := svc.Advance(ctx, deal.ID, domain.StageDueDiligence, "amina")
	require.Error(t, err)
	assert.True(t, domain.IsTransitionReason(err, domain.ReasonNotApproved))

	stored, err := svc.Get(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Version, "failed transition must not be saved")
	assert.Equal(t, domain.StageScreening, stored.CurrentStage)

	_, err = svc.SetStatus(ctx, deal.ID, domain.StatusApproved)
	require.NoError(t, err)
	later := testutil.Epoch.Add(time.Hour)
	svc.now = fixedClock(later)
	advanced, err := svc.Advance(ctx, deal.ID, domain.StageDueDiligence, "amina")
	require.NoError(t, err)

	assert.Equal(t, domain.StageDueDiligence, advanced.CurrentStage)
	assert.Equal(t, 3, advanced.Version)
	assert.Equal(t, later, advanced.UpdatedAt)
	dd, ok := advanced.CurrentStageData()
	require.True(t, ok)
	assert.Equal(t, "amina", dd.Analyst)
}

func TestDealService_RejectThenTerminal(t *testing.T) {
	store, _ := newTestStore(t)
	svc := newTestDealService(store)
	ctx := context.Background()
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro", testutil.AtStage(domain.StageInvestmentCommittee)))

	rejected, err := svc.Reject(ctx, deal.ID, "governance concerns")
	require.NoError(t, err)
	assert.Equal(t, domain.StageRejected, rejected.CurrentStage)
	ic := rejected.StageHistory[domain.StageInvestmentCommittee]
	require.NotNil(t, ic.Decision)
	assert.Equal(t, domain.DecisionNoGo, *ic.Decision)

	_, err = svc.Reject(ctx, deal.ID, "again")
	assert.True(t, domain.IsTransitionReason(err, domain.ReasonAlreadyTerminal))
	_, err = svc.Comment(ctx, deal.ID, "late note", "amina")
	assert.ErrorIs(t, err, domain.ErrNoCurrentStage)
}

func TestDealService_ExitFromMonitoring(t *testing.T) {
	store, _ := newTestStore(t)
	svc := newTestDealService(store)
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro", testutil.AtStage(domain.StageMonitoring)))

	exited, err := svc.Exit(context.Background(), deal.ID, "trade sale")
	require.NoError(t, err)
	assert.Equal(t, domain.StageExited, exited.CurrentStage)
	assert.False(t, exited.IsActive())
}

func TestDealService_Annotations(t *testing.T) {
	store, _ := newTestStore(t)
	svc := newTestDealService(store)
	ctx := context.Background()
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))

	_, err := svc.Decide(ctx, deal.ID, domain.DecisionGoWithConditions, "pending audit")
	require.NoError(t, err)
	_, err = svc.AddCondition(ctx, deal.ID, "hire an HSE officer")
	require.NoError(t, err)
	got, err := svc.Comment(ctx, deal.ID, "site visit scheduled", "amina")
	require.NoError(t, err)

	sd, ok := got.CurrentStageData()
	require.True(t, ok)
	require.NotNil(t, sd.Decision)
	assert.Equal(t, domain.DecisionGoWithConditions, *sd.Decision)
	assert.Equal(t, "pending audit", sd.DecisionRationale)
	assert.Equal(t, []string{"hire an HSE officer"}, sd.Conditions)
	require.Len(t, sd.Comments, 1)
	assert.Equal(t, "amina", sd.Comments[0].Author)
	assert.Equal(t, 4, got.Version)

	_, err = svc.Comment(ctx, deal.ID, "   ", "amina")
	assert.ErrorIs(t, err, domain.ErrEmptyComment)
	_, err = svc.SetStatus(ctx, deal.ID, "finished")
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
}

func TestDealService_UpdateProfileRederives(t *testing.T) {
	store, _ := newTestStore(t)
	svc := newTestDealService(store)
	ctx := context.Background()
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))

	sector := "Financial Services"
	sub := "Microfinance"
	got, err := svc.UpdateProfile(ctx, deal.ID, ProfileUpdate{
		Sector:    &sector,
		Subsector: &sub,
		TwoX:      &domain.TwoXInput{WomenEmployeesPct: 45},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RiskC, got.RiskCategory)
	assert.Equal(t, []string{"PS1", "PS2"}, got.ApplicableStandards)
	assert.True(t, got.TwoXEligible, "45% employees meets the 40% financial services threshold")
	assert.Equal(t, "Senegal", got.Country)

	empty := " "
	_, err = svc.UpdateProfile(ctx, deal.ID, ProfileUpdate{Sector: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
}

func TestDealService_NotFound(t *testing.T) {
	store, _ := newTestStore(t)
	svc := newTestDealService(store)
	ctx := context.Background()

	_, err := svc.Get(ctx, "NOPE")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = svc.Advance(ctx, "NOPE", domain.StageDueDiligence, "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "NOPE"), repository.ErrNotFound)
}

func TestDealService_ListFilters(t *testing.T) {
	store, _ := newTestStore(t)
	svc := newTestDealService(store)
	ctx := context.Background()

	seedDeal(t, store, testutil.NewTestDeal("Screening One"))
	seedDeal(t, store, testutil.NewTestDeal("Screening Approved", testutil.WithStatus(domain.StatusApproved), testutil.WithCreatedAt(testutil.Epoch.Add(time.Minute))))
	seedDeal(t, store, testutil.NewTestDeal("In DD", testutil.WithCreatedAt(testutil.Epoch.Add(2*time.Minute)), testutil.AtStage(domain.StageDueDiligence)))
	seedDeal(t, store, testutil.NewTestDeal("Gone", testutil.WithCreatedAt(testutil.Epoch.Add(3*time.Minute)), testutil.AtStage(domain.StageRejected)))

	names := func(deals []*domain.Deal) []string {
		out := make([]string, len(deals))
		for i, d := range deals {
			out[i] = d.CompanyName
		}
		return out
	}

	all, err := svc.List(ctx, DealFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	active, err := svc.List(ctx, DealFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Screening One", "Screening Approved", "In DD"}, names(active))

	screening, err := svc.List(ctx, DealFilter{Stage: domain.StageScreening})
	require.NoError(t, err)
	assert.Equal(t, []string{"Screening One", "Screening Approved"}, names(screening))

	approved, err := svc.List(ctx, DealFilter{Stage: domain.StageScreening, Status: domain.StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, []string{"Screening Approved"}, names(approved))

	found, err := svc.Search(ctx, "  dd ")
	require.NoError(t, err)
	assert.Equal(t, []string{"In DD"}, names(found))
}

func TestDealService_RollbackOnSaveFailure(t *testing.T) {
	store, database := newTestStore(t)
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro", testutil.WithStatus(domain.StatusApproved)))

	failing := &testutil.FailingUoW{DB: database, FailOn: 1}
	store.UoW = failing
	obs := &recordingObserver{}
	svc := newTestDealService(store, obs)
	ctx := context.Background()

	_, err := svc.Advance(ctx, deal.ID, domain.StageDueDiligence, "amina")
	require.ErrorIs(t, err, testutil.ErrInjected)
	assert.Equal(t, 1, failing.Writes())
	assert.False(t, obs.last().Success)

	stored, err := store.Deals.Get(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageScreening, stored.CurrentStage)
	assert.Equal(t, 1, stored.Version)
}

func TestDealService_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	svc := newTestDealService(store)
	ctx := context.Background()
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))

	require.NoError(t, svc.Delete(ctx, deal.ID))
	_, err := svc.Get(ctx, deal.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDealService_RecordAnalysis(t *testing.T) {
	store, _ := newTestStore(t)
	svc := newTestDealService(store)
	ctx := context.Background()
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))

	prev, err := svc.RecordAnalysis(ctx, deal.ID, "first draft")
	require.NoError(t, err)
	assert.Empty(t, prev)

	prev, err = svc.RecordAnalysis(ctx, deal.ID, "second draft")
	require.NoError(t, err)
	assert.Equal(t, "first draft", prev)

	got, err := svc.Get(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, "second draft", got.StageHistory[domain.StageScreening].AnalysisResult)

	_, err = svc.Reject(ctx, deal.ID, "out of scope")
	require.NoError(t, err)
	_, err = svc.RecordAnalysis(ctx, deal.ID, "third draft")
	assert.ErrorIs(t, err, domain.ErrNoCurrentStage)
}
