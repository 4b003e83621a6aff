package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestDeal(t *testing.T) *Deal {
	t.Helper()
	d := NewDeal("Acme Agro", "Senegal", "Agribusiness", t0)
	require.Equal(t, StageScreening, d.CurrentStage)
	return d
}

func approveAndAdvance(t *testing.T, d *Deal, target Stage, now time.Time) {
	t.Helper()
	require.NoError(t, d.SetStageStatus(StatusApproved, now))
	require.NoError(t, d.Advance(target, "analyst", now))
}

func TestNewDeal_StartsInScreening(t *testing.T) {
	d := newTestDeal(t)

	sd, ok := d.CurrentStageData()
	require.True(t, ok)
	assert.Equal(t, StatusInProgress, sd.Status)
	assert.Equal(t, t0, sd.StartedAt)
	assert.Len(t, d.ID, 12)
	assert.Equal(t, t0, d.CreatedAt)
}

func TestGenerateDealID_DistinctForSameInstant(t *testing.T) {
	a := GenerateDealID("Acme", t0)
	b := GenerateDealID("Acme", t0)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^[0-9A-F]{12}$`, a)
}

func TestAdvance_BlockedUntilApproved(t *testing.T) {
	d := newTestDeal(t)
	later := t0.Add(time.Hour)

	err := d.Advance(StageDueDiligence, "amina", later)
	require.Error(t, err)
	assert.True(t, IsTransitionReason(err, ReasonNotApproved))
	assert.Equal(t, StageScreening, d.CurrentStage)
	assert.Equal(t, t0, d.UpdatedAt, "failed advance must not touch the deal")
	_, exists := d.StageHistory[StageDueDiligence]
	assert.False(t, exists)

	require.NoError(t, d.SetStageStatus(StatusApproved, later))
	require.NoError(t, d.Advance(StageDueDiligence, "amina", later))

	assert.Equal(t, StageDueDiligence, d.CurrentStage)
	dd, ok := d.CurrentStageData()
	require.True(t, ok)
	assert.Equal(t, StatusInProgress, dd.Status)
	assert.Equal(t, "amina", dd.Analyst)
	assert.Equal(t, later, dd.StartedAt)
	require.NotNil(t, d.StageHistory[StageScreening].CompletedAt)
	assert.Equal(t, later, *d.StageHistory[StageScreening].CompletedAt)
	assert.Equal(t, later, d.UpdatedAt)
}

func TestAdvance_RejectsAnythingButNextStage(t *testing.T) {
	tests := []struct {
		name   string
		target Stage
	}{
		{"skip ahead", StageInvestmentCommittee},
		{"same stage", StageScreening},
		{"terminal target", StageRejected},
		{"far ahead", StageMonitoring},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDeal(t)
			require.NoError(t, d.SetStageStatus(StatusApproved, t0))
			err := d.Advance(tt.target, "", t0.Add(time.Minute))
			assert.True(t, IsTransitionReason(err, ReasonInvalidTarget), "got %v", err)
			assert.Equal(t, StageScreening, d.CurrentStage)
		})
	}
}

func TestAdvance_NoBackwardMove(t *testing.T) {
	d := newTestDeal(t)
	approveAndAdvance(t, d, StageDueDiligence, t0)
	require.NoError(t, d.SetStageStatus(StatusApproved, t0))

	err := d.Advance(StageScreening, "", t0)
	assert.True(t, IsTransitionReason(err, ReasonInvalidTarget))
}

func TestAdvance_NoGoBlocksDueDiligence(t *testing.T) {
	d := newTestDeal(t)
	require.NoError(t, d.SetStageStatus(StatusApproved, t0))
	require.NoError(t, d.RecordDecision(DecisionNoGo, "too risky", t0))

	err := d.Advance(StageDueDiligence, "", t0)
	assert.True(t, IsTransitionReason(err, ReasonNoGoBlock))
	assert.Equal(t, StageScreening, d.CurrentStage)
}

func TestAdvance_MissingStageData(t *testing.T) {
	d := newTestDeal(t)
	delete(d.StageHistory, StageScreening)

	err := d.Advance(StageDueDiligence, "", t0)
	assert.True(t, IsTransitionReason(err, ReasonStageDataMissing))
}

func TestAdvance_FullPipelineThenStops(t *testing.T) {
	d := newTestDeal(t)
	approveAndAdvance(t, d, StageDueDiligence, t0.Add(1*time.Hour))
	approveAndAdvance(t, d, StageInvestmentCommittee, t0.Add(2*time.Hour))
	approveAndAdvance(t, d, StageMonitoring, t0.Add(3*time.Hour))

	require.NoError(t, d.SetStageStatus(StatusApproved, t0))
	err := d.Advance(StageExited, "", t0)
	assert.True(t, IsTransitionReason(err, ReasonStageNotAdvanceable))
	assert.Len(t, d.StageHistory, 4)
}

func TestAdvance_BlockedStatuses(t *testing.T) {
	for _, status := range []StageStatus{StatusDraft, StatusInProgress, StatusPendingReview, StatusRejected, StatusOnHold} {
		t.Run(string(status), func(t *testing.T) {
			d := newTestDeal(t)
			require.NoError(t, d.SetStageStatus(status, t0))
			err := d.Advance(StageDueDiligence, "", t0)
			assert.True(t, IsTransitionReason(err, ReasonNotApproved))
		})
	}
}

func TestReject_FromEveryLiveStage(t *testing.T) {
	stages := []Stage{StageDueDiligence, StageInvestmentCommittee, StageMonitoring}
	for i, stop := range stages {
		t.Run(string(stop), func(t *testing.T) {
			d := newTestDeal(t)
			for _, st := range stages[:i+1] {
				approveAndAdvance(t, d, st, t0)
			}
			require.NoError(t, d.SetStageStatus(StatusOnHold, t0))

			rejectedAt := t0.Add(48 * time.Hour)
			require.NoError(t, d.Reject("governance concerns", rejectedAt))

			assert.Equal(t, StageRejected, d.CurrentStage)
			sd := d.StageHistory[stop]
			require.NotNil(t, sd.Decision)
			assert.Equal(t, DecisionNoGo, *sd.Decision)
			assert.Equal(t, StatusRejected, sd.Status)
			assert.Equal(t, "governance concerns", sd.DecisionRationale)
			require.NotNil(t, sd.CompletedAt)
			assert.Equal(t, rejectedAt, *sd.CompletedAt)
			assert.Equal(t, rejectedAt, d.UpdatedAt)
		})
	}
}

func TestReject_TerminalDealRefused(t *testing.T) {
	d := newTestDeal(t)
	require.NoError(t, d.Reject("no", t0))
	updated := d.UpdatedAt

	err := d.Reject("again", t0.Add(time.Hour))
	assert.True(t, IsTransitionReason(err, ReasonAlreadyTerminal))
	assert.Equal(t, updated, d.UpdatedAt)

	err = d.Exit("exit", t0.Add(time.Hour))
	assert.True(t, IsTransitionReason(err, ReasonAlreadyTerminal))
}

func TestTransitionError_OmitsEmptyTarget(t *testing.T) {
	d := newTestDeal(t)
	require.NoError(t, d.Reject("no", t0))

	next, _ := d.CurrentStage.Next()
	err := d.CanAdvanceTo(next)
	require.True(t, IsTransitionReason(err, ReasonStageNotAdvanceable))
	assert.Equal(t, "cannot move deal from Rejected: Rejected is not a stage that can advance", err.Error())

	te := &TransitionError{From: StageScreening, To: StageMonitoring, Message: "skip"}
	assert.Equal(t, "cannot move deal from Screening to Monitoring: skip", te.Error())
}

func TestExit_FromMonitoring(t *testing.T) {
	d := newTestDeal(t)
	approveAndAdvance(t, d, StageDueDiligence, t0)
	approveAndAdvance(t, d, StageInvestmentCommittee, t0)
	approveAndAdvance(t, d, StageMonitoring, t0)

	require.NoError(t, d.Exit("trade sale", t0.Add(time.Hour)))
	assert.Equal(t, StageExited, d.CurrentStage)
	st, sd := d.LastActiveStage()
	assert.Equal(t, StageMonitoring, st)
	assert.Equal(t, "trade sale", sd.DecisionRationale)
	assert.Nil(t, sd.Decision)
}

func TestAnnotations_TouchOnlyCurrentStage(t *testing.T) {
	d := newTestDeal(t)
	approveAndAdvance(t, d, StageDueDiligence, t0)
	later := t0.Add(2 * time.Hour)

	require.NoError(t, d.AddComment("site visit done", "amina", later))
	require.NoError(t, d.SetChecklistMark("gov_1", MarkCompliant, later))
	require.NoError(t, d.AddCondition("hire HSE officer", later))

	dd := d.StageHistory[StageDueDiligence]
	require.Len(t, dd.Comments, 1)
	assert.Equal(t, "amina", dd.Comments[0].Author)
	assert.Equal(t, MarkCompliant, dd.ChecklistStatus["gov_1"])
	assert.Equal(t, []string{"hire HSE officer"}, dd.Conditions)
	assert.Empty(t, d.StageHistory[StageScreening].Comments)
	assert.Equal(t, StageDueDiligence, d.CurrentStage)
	assert.Equal(t, later, d.UpdatedAt)
}

func TestAnnotations_RequireLiveStage(t *testing.T) {
	d := newTestDeal(t)
	require.NoError(t, d.Reject("no", t0))

	assert.ErrorIs(t, d.AddComment("late", "x", t0), ErrNoCurrentStage)
	assert.ErrorIs(t, d.SetChecklistMark("gov_1", MarkPartial, t0), ErrNoCurrentStage)
	assert.ErrorIs(t, d.SetStageStatus(StatusApproved, t0), ErrNoCurrentStage)
}

func TestAnnotations_ValidateInput(t *testing.T) {
	d := newTestDeal(t)

	assert.ErrorIs(t, d.AddComment("   ", "x", t0), ErrEmptyComment)
	assert.ErrorIs(t, d.SetStageStatus("finished", t0), ErrInvalidValue)
	assert.ErrorIs(t, d.RecordDecision("MAYBE", "", t0), ErrInvalidValue)
	assert.ErrorIs(t, d.SetChecklistMark("gov_1", "ok", t0), ErrInvalidValue)
}

func TestSetAnalysis_ReturnsPrevious(t *testing.T) {
	d := newTestDeal(t)

	prev, err := d.SetAnalysis("first draft", t0)
	require.NoError(t, err)
	assert.Empty(t, prev)

	prev, err = d.SetAnalysis("second draft", t0)
	require.NoError(t, err)
	assert.Equal(t, "first draft", prev)
}
