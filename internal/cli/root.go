package cli

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/dealflow/internal/intelligence"
	"github.com/alexanderramin/dealflow/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Deals       service.DealService
	Checklists  service.ChecklistService
	ActionPlans service.ActionPlanService
	Portfolio   service.PortfolioService
	Documents   service.DocumentService

	// Analysis and Extractor are nil when no text-generation provider is
	// configured.
	Analysis  intelligence.AnalysisService
	Extractor intelligence.ProfileExtractor

	Logger   *slog.Logger
	HTTPAddr string

	// IsInteractive reports whether stdin is a terminal; forms and the
	// spinner are only used when it is.
	IsInteractive func() bool
	Now           func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// NewRootCmd creates the top-level "dealflow" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "dealflow",
		Short:         "ESG deal pipeline for impact investment screening",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddGroup(
		&cobra.Group{ID: "deals", Title: "Deals:"},
		&cobra.Group{ID: "stage", Title: "Stage workflow:"},
		&cobra.Group{ID: "review", Title: "Review and monitoring:"},
		&cobra.Group{ID: "portfolio", Title: "Portfolio:"},
	)

	for _, c := range []*cobra.Command{
		newCreateCmd(app), newListCmd(app), newShowCmd(app), newUpdateCmd(app), newDeleteCmd(app),
	} {
		c.GroupID = "deals"
		root.AddCommand(c)
	}
	for _, c := range []*cobra.Command{
		newAdvanceCmd(app), newRejectCmd(app), newExitCmd(app), newStatusCmd(app),
		newDecideCmd(app), newCommentCmd(app), newConditionCmd(app),
	} {
		c.GroupID = "stage"
		root.AddCommand(c)
	}
	for _, c := range []*cobra.Command{
		newChecklistCmd(app), newESAPCmd(app), newKPICmd(app), newUploadCmd(app), newAnalyzeCmd(app),
	} {
		c.GroupID = "review"
		root.AddCommand(c)
	}
	for _, c := range []*cobra.Command{
		newStatsCmd(app), newRecentCmd(app), newExportCmd(app), newBoardCmd(app), newServeCmd(app),
	} {
		c.GroupID = "portfolio"
		root.AddCommand(c)
	}

	return root
}
