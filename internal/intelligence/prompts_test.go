package intelligence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/testutil"
)

func TestBuildAnalysisPrompt_Screening(t *testing.T) {
	d := testutil.NewTestDeal("Acme Agro",
		testutil.WithCountry("Mali"),
		testutil.WithTwoX(domain.TwoXInput{WomenOwnershipPct: 60}))

	system, user := BuildAnalysisPrompt(NewPromptContext(d, domain.StageScreening, testutil.Epoch))

	assert.Contains(t, system, "IFC Performance Standards")
	assert.Contains(t, user, "# Screening analysis: Acme Agro")
	assert.Contains(t, user, "COUNTRY CONTEXT - Mali")
	assert.Contains(t, user, "- Ownership: 60% (threshold 51%), met")
	assert.Contains(t, user, "Recommendation: GO")
	assert.Contains(t, user, "## Executive Summary")
	assert.NotContains(t, user, "Due diligence checklist", "screening prompts skip the checklist")
}

func TestBuildAnalysisPrompt_UnknownCountryAndSector(t *testing.T) {
	d := testutil.NewTestDeal("Nordic Fish", testutil.WithCountry("Norway"), testutil.WithSector("Fisheries", ""))

	_, user := BuildAnalysisPrompt(NewPromptContext(d, domain.StageScreening, testutil.Epoch))

	assert.Contains(t, user, "No country profile is on file")
	assert.Contains(t, user, "generic default")
	assert.Contains(t, user, "Risk category: B-")
}

func TestBuildAnalysisPrompt_DueDiligenceChecklist(t *testing.T) {
	d := testutil.NewTestDeal("Acme Agro", testutil.AtStage(domain.StageDueDiligence))
	require.NoError(t, d.SetChecklistMark("gov_1", domain.MarkNonCompliant, testutil.Epoch))
	require.NoError(t, d.AddComment("Visited the plant", "amina", testutil.Epoch))

	pc := NewPromptContext(d, domain.StageDueDiligence, testutil.Epoch)
	_, user := BuildAnalysisPrompt(pc)

	assert.Contains(t, user, "# Due Diligence analysis: Acme Agro")
	assert.Contains(t, user, "- non_compliant: 1")
	assert.Contains(t, user, "Open findings:")
	assert.Contains(t, user, "- Visited the plant")
}

func TestBuildAnalysisPrompt_MonitoringIncludesESAPAndKPIs(t *testing.T) {
	d := testutil.NewTestDeal("Solar Co", testutil.AtStage(domain.StageMonitoring))
	_, err := d.AddActionItem(domain.ActionItem{Category: domain.CategoryHSE, Action: "Fire drill"}, testutil.Epoch)
	require.NoError(t, err)
	d.AddKPISnapshot(map[string]float64{"jobs": 100}, nil, testutil.Epoch)
	d.AddKPISnapshot(map[string]float64{"jobs": 130}, nil, testutil.Epoch.Add(time.Hour))

	_, user := BuildAnalysisPrompt(NewPromptContext(d, domain.StageMonitoring, testutil.Epoch))

	assert.Contains(t, user, "## ESAP progress")
	assert.Contains(t, user, "ESAP_001 [HSE] Fire drill")
	assert.Contains(t, user, "- jobs: 130 (+30 since first, +30 since previous)")
	assert.Contains(t, user, "overall rating")
}
