package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/dealflow/internal/db"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/llm"
	"github.com/alexanderramin/dealflow/internal/service"
	"github.com/alexanderramin/dealflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
// Intelligence services are left nil so the LLM paths report their absence.
func testApp(t *testing.T) (*App, service.Store) {
	t.Helper()
	store := service.NewStore(testutil.NewTestDB(t), db.DialectSQLite)
	return &App{
		Deals:       service.NewDealService(store),
		Checklists:  service.NewChecklistService(store),
		ActionPlans: service.NewActionPlanService(store),
		Portfolio:   service.NewPortfolioService(store),
		Documents:   service.NewDocumentService(store),
		Now:         func() time.Time { return testNow },
	}, store
}

func seedDeal(t *testing.T, store service.Store, d *domain.Deal) *domain.Deal {
	t.Helper()
	require.NoError(t, store.Deals.Save(context.Background(), d))
	return d
}

// executeCmd runs the root command with args and returns stdout.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCreateCmd_FromFlags(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "create",
		"--company", "Acme Agro",
		"--country", "Kenya",
		"--sector", "Agribusiness",
		"--women-ownership", "55",
		"--employees", "40",
		"--tag", "cashew")
	require.NoError(t, err)
	assert.Contains(t, out, "Created deal")
	assert.Contains(t, out, "Acme Agro")

	deals, err := app.Deals.List(context.Background(), listAll)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	d := deals[0]
	assert.Equal(t, "Kenya", d.Country)
	assert.Equal(t, domain.StageScreening, d.CurrentStage)
	require.NotNil(t, d.Employees)
	assert.Equal(t, 40, *d.Employees)
	assert.Equal(t, []string{"cashew"}, d.Tags)
	assert.Contains(t, out, d.ID)
}

func TestCreateCmd_RequiresCompanyWhenNotInteractive(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "create", "--country", "Kenya", "--sector", "Agribusiness")
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
}

func TestListAndShowCmd(t *testing.T) {
	app, store := testApp(t)

	out, err := executeCmd(t, app, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No deals found.")

	acme := seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))
	seedDeal(t, store, testutil.NewTestDeal("Solar Co", testutil.WithSector("Energy", ""), testutil.AtStage(domain.StageDueDiligence)))

	out, err = executeCmd(t, app, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme Agro")
	assert.Contains(t, out, "Solar Co")

	out, err = executeCmd(t, app, "list", "--stage", "due_diligence")
	require.NoError(t, err)
	assert.NotContains(t, out, "Acme Agro")
	assert.Contains(t, out, "Solar Co")

	out, err = executeCmd(t, app, "list", "-q", "solar")
	require.NoError(t, err)
	assert.Contains(t, out, "Solar Co")
	assert.NotContains(t, out, "Acme Agro")

	out, err = executeCmd(t, app, "show", acme.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "ACME AGRO")
	assert.Contains(t, out, "Senegal")
}

func TestResolveDealID(t *testing.T) {
	app, store := testApp(t)
	ctx := context.Background()
	acme := seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))
	seedDeal(t, store, testutil.NewTestDeal("Solar Co"))

	id, err := resolveDealID(ctx, app, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, acme.ID, id)

	id, err = resolveDealID(ctx, app, "acme agro")
	require.NoError(t, err)
	assert.Equal(t, acme.ID, id)

	_, err = resolveDealID(ctx, app, "Nobody Ltd")
	assert.ErrorContains(t, err, "deal not found")

	_, err = resolveDealID(ctx, app, " ")
	assert.Error(t, err)
}

func TestAdvanceCmd_RequiresApproval(t *testing.T) {
	app, store := testApp(t)
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))

	_, err := executeCmd(t, app, "advance", deal.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[not_approved]")

	_, err = executeCmd(t, app, "status", deal.ID, "approved")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "advance", deal.ID, "--analyst", "Awa")
	require.NoError(t, err)
	assert.Contains(t, out, "moved from")

	got, err := app.Deals.Get(context.Background(), deal.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageDueDiligence, got.CurrentStage)
}

func TestStageCmds_DecideCommentCondition(t *testing.T) {
	app, store := testApp(t)
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))
	ctx := context.Background()

	out, err := executeCmd(t, app, "decide", deal.ID, "go", "-r", "Strong 2X profile")
	require.NoError(t, err)
	assert.Contains(t, out, "GO")

	_, err = executeCmd(t, app, "decide", deal.ID, "maybe")
	assert.ErrorIs(t, err, domain.ErrInvalidValue)

	out, err = executeCmd(t, app, "comment", deal.ID, "Site", "visit", "booked", "--author", "Awa")
	require.NoError(t, err)
	assert.Contains(t, out, "Comment added to")

	out, err = executeCmd(t, app, "condition", deal.ID, "Adopt", "an", "ESMS")
	require.NoError(t, err)
	assert.Contains(t, out, "Condition 1 added to")

	got, err := app.Deals.Get(ctx, deal.ID)
	require.NoError(t, err)
	sd := got.StageHistory[domain.StageScreening]
	require.NotNil(t, sd)
	require.NotNil(t, sd.Decision)
	assert.Equal(t, domain.DecisionGo, *sd.Decision)
	require.Len(t, sd.Comments, 1)
	assert.Equal(t, "Site visit booked", sd.Comments[0].Text)
	assert.Equal(t, []string{"Adopt an ESMS"}, sd.Conditions)
}

func TestRejectCmd(t *testing.T) {
	app, store := testApp(t)
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))

	out, err := executeCmd(t, app, "reject", deal.ID, "-r", "Outside mandate")
	require.NoError(t, err)
	assert.Contains(t, out, "rejected")

	_, err = executeCmd(t, app, "advance", deal.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[stage_not_advanceable]")
	assert.Contains(t, err.Error(), "cannot move deal from Rejected:")
}

func TestChecklistCmd(t *testing.T) {
	app, store := testApp(t)
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))

	out, err := executeCmd(t, app, "checklist", deal.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "CHECKLIST: SCREENING")

	out, err = executeCmd(t, app, "checklist", "mark", deal.ID, "gov_1", "compliant")
	require.NoError(t, err)
	assert.Contains(t, out, "gov_1 marked")
	assert.Contains(t, out, "1 of")

	_, err = executeCmd(t, app, "checklist", "mark", deal.ID, "frag_1", "compliant")
	assert.ErrorIs(t, err, service.ErrUnknownChecklistItem)

	_, err = executeCmd(t, app, "checklist", "mark", deal.ID, "gov_1", "great")
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
}

func TestESAPCmds(t *testing.T) {
	app, store := testApp(t)
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro", testutil.AtStage(domain.StageMonitoring)))

	out, err := executeCmd(t, app, "esap", "list", deal.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "No action items.")

	out, err = executeCmd(t, app, "esap", "add", deal.ID,
		"--category", "HSE",
		"--action", "Run a fire drill",
		"--deadline", "2025-06-30",
		"--priority", "high")
	require.NoError(t, err)
	assert.Contains(t, out, "Added ESAP_001: Run a fire drill")

	_, err = executeCmd(t, app, "esap", "add", deal.ID, "--category", "HSE")
	assert.Error(t, err, "action is required")

	_, err = executeCmd(t, app, "esap", "add", deal.ID, "--category", "Marketing", "--action", "x")
	assert.Error(t, err)

	_, err = executeCmd(t, app, "esap", "update", deal.ID, "ESAP_001", "--status", "completed", "--note", "done")
	require.NoError(t, err)

	plan, err := app.ActionPlans.Plan(context.Background(), deal.ID)
	require.NoError(t, err)
	require.Len(t, plan.Items, 1)
	assert.Equal(t, domain.ActionCompleted, plan.Items[0].Status)
	assert.Equal(t, domain.PriorityHigh, plan.Items[0].Priority)
	require.NotNil(t, plan.Items[0].Deadline)
	assert.Equal(t, "2025-06-30", plan.Items[0].Deadline.Format(time.DateOnly))

	out, err = executeCmd(t, app, "esap", "list", deal.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Run a fire drill")

	_, err = executeCmd(t, app, "esap", "remove", deal.ID, "ESAP_001")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "esap", "remove", deal.ID, "ESAP_001")
	assert.ErrorIs(t, err, domain.ErrActionItemNotFound)
}

func TestKPICmds(t *testing.T) {
	app, store := testApp(t)
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro", testutil.AtStage(domain.StageMonitoring)))

	out, err := executeCmd(t, app, "kpi", "record", deal.ID, "jobs=120", "women_employees=0.4")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded 2 metric(s)")

	_, err = executeCmd(t, app, "kpi", "record", deal.ID, "jobs")
	assert.ErrorContains(t, err, "name=value")

	out, err = executeCmd(t, app, "kpi", "history", deal.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "1 snapshot(s)")
	assert.Contains(t, out, "jobs")
}

func TestExportCmd_WritesFile(t *testing.T) {
	app, store := testApp(t)
	seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))
	path := filepath.Join(t.TempDir(), "portfolio.json")

	_, err := executeCmd(t, app, "export", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var exp service.PortfolioExport
	require.NoError(t, json.Unmarshal(data, &exp))
	assert.Equal(t, 1, exp.Stats.Total)
	require.Len(t, exp.Deals, 1)
	assert.Equal(t, "Acme Agro", exp.Deals[0].CompanyName)
}

func TestStatsAndRecentCmds(t *testing.T) {
	app, store := testApp(t)
	seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))
	seedDeal(t, store, testutil.NewTestDeal("Solar Co", testutil.WithCreatedAt(testutil.Epoch.Add(time.Hour))))

	out, err := executeCmd(t, app, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "2 total, 2 active")

	out, err = executeCmd(t, app, "recent", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Solar Co")
	assert.NotContains(t, out, "Acme Agro")
}

func TestUploadCmd_TextFile(t *testing.T) {
	app, store := testApp(t)
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Women hold 60% of the shares."), 0o644))

	out, err := executeCmd(t, app, "upload", deal.ID, path)
	require.NoError(t, err)
	assert.Contains(t, out, "notes.txt")

	got, err := app.Deals.Get(context.Background(), deal.ID)
	require.NoError(t, err)
	require.Len(t, got.Documents, 1)

	_, err = executeCmd(t, app, "upload", deal.ID, path, "--extract")
	assert.ErrorIs(t, err, llm.ErrNoProviders)

	_, err = executeCmd(t, app, "upload", deal.ID, filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorContains(t, err, "reading")
}

func TestAnalyzeCmd_WithoutProvider(t *testing.T) {
	app, store := testApp(t)
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))

	_, err := executeCmd(t, app, "analyze", deal.ID)
	assert.ErrorIs(t, err, llm.ErrNoProviders)
}

func TestDeleteCmd(t *testing.T) {
	app, store := testApp(t)
	deal := seedDeal(t, store, testutil.NewTestDeal("Acme Agro"))

	_, err := executeCmd(t, app, "delete", deal.ID)
	assert.ErrorContains(t, err, "without --yes")

	out, err := executeCmd(t, app, "delete", deal.ID, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted Acme Agro")

	_, err = executeCmd(t, app, "show", deal.ID)
	assert.ErrorContains(t, err, "deal not found")
}

func TestEnumFlags_RejectUnknownValues(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "list", "--stage", "closing")
	assert.ErrorContains(t, err, "invalid argument")

	_, err = executeCmd(t, app, "list", "--status", "pending")
	assert.ErrorContains(t, err, "invalid argument")

	_, err = executeCmd(t, app, "advance", "whatever", "--to", "closing")
	assert.ErrorContains(t, err, "--to")
}

func TestParseMetrics(t *testing.T) {
	got, err := parseMetrics([]string{"jobs=120", " revenue = 1.5e6 "})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"jobs": 120, "revenue": 1.5e6}, got)

	_, err = parseMetrics([]string{"=3"})
	assert.Error(t, err)
	_, err = parseMetrics([]string{"jobs=many"})
	assert.Error(t, err)
}

func TestBoardCmd_RequiresTerminal(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "board")
	assert.ErrorContains(t, err, "interactive terminal")
}
