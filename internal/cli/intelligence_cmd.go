package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/llm"
	"github.com/alexanderramin/dealflow/internal/service"
	"github.com/spf13/cobra"
)

var errNoLLM = fmt.Errorf("%w: set ANTHROPIC_API_KEY, OPENAI_API_KEY or DEALFLOW_LLM_OLLAMA_ENDPOINT", llm.ErrNoProviders)

func newUploadCmd(app *App) *cobra.Command {
	var extract, apply bool

	cmd := &cobra.Command{
		Use:   "upload DEAL FILE...",
		Short: "Attach documents to the current stage",
		Long: "Attach documents to the current stage. With --extract the text is read by the " +
			"model for company profile fields; --apply also writes them to the deal.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if (extract || apply) && app.Extractor == nil {
				return errNoLLM
			}
			id, err := resolveDealID(ctx, app, args[0])
			if err != nil {
				return err
			}

			uploads := make([]service.Upload, 0, len(args)-1)
			for _, path := range args[1:] {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}
				uploads = append(uploads, service.Upload{Filename: filepath.Base(path), Data: data})
			}

			results, err := app.Documents.Upload(ctx, id, uploads)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var texts []string
			for _, r := range results {
				line := fmt.Sprintf("  %s %s %s", formatter.StyleGreen.Render("✔"), r.Document.Filename,
					formatter.Dim(fmt.Sprintf("(%s, %d bytes)", r.Document.DocType, r.Document.SizeBytes)))
				if r.Document.PageCount != nil {
					line += formatter.Dim(fmt.Sprintf(" %d pages", *r.Document.PageCount))
				}
				fmt.Fprintln(out, line)
				if r.Note != "" {
					fmt.Fprintln(out, "    "+formatter.StyleYellow.Render(r.Note))
				}
				if strings.TrimSpace(r.Text) != "" {
					texts = append(texts, r.Text)
				}
			}
			if !extract && !apply {
				return nil
			}

			stop := app.startSpinner(cmd, "Reading documents...")
			profile, err := app.Extractor.Extract(ctx, strings.Join(texts, "\n\n"))
			stop()
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatExtractedProfile(profile))
			if !apply {
				return nil
			}

			deal, err := app.Deals.Get(ctx, id)
			if err != nil {
				return err
			}
			deal, err = app.Deals.UpdateProfile(ctx, id, profile.ProfileUpdate(deal.TwoX))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Applied to %s: category %s, %s\n", deal.CompanyName,
				formatter.RiskBadge(deal.RiskCategory), twoXLine(deal))
			return nil
		},
	}
	cmd.Flags().BoolVar(&extract, "extract", false, "Extract company profile fields from the text")
	cmd.Flags().BoolVar(&apply, "apply", false, "Write extracted fields to the deal (implies --extract)")
	return cmd
}

func newAnalyzeCmd(app *App) *cobra.Command {
	var stage domain.Stage
	var preview, raw, showDiff bool

	cmd := &cobra.Command{
		Use:   "analyze DEAL",
		Short: "Draft the AI analysis for a stage",
		Long: "Draft the analysis for the current stage and store it on the deal. --preview " +
			"generates for any stage without storing.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Analysis == nil {
				return errNoLLM
			}
			ctx := cmd.Context()
			id, err := resolveDealID(ctx, app, args[0])
			if err != nil {
				return err
			}

			draft := app.Analysis.Draft
			if preview {
				draft = app.Analysis.Preview
			}
			stop := app.startSpinner(cmd, "Drafting analysis...")
			analysis, err := draft(ctx, id, stage)
			stop()
			if err != nil {
				if errors.Is(err, llm.ErrNoProviders) {
					return errNoLLM
				}
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprintln(out, analysis.Text)
			} else {
				fmt.Fprint(out, formatter.FormatAnalysis(analysis))
			}
			if showDiff && analysis.Patch != "" {
				fmt.Fprintln(out, "\n"+formatter.Header("Changes since previous draft"))
				fmt.Fprint(out, analysis.Patch)
			}
			return nil
		},
	}
	cmd.Flags().Var(newEnumValue(&stage, "stage", domain.ParseStage), "stage", "Stage to analyse (defaults to the current one)")
	cmd.Flags().BoolVar(&preview, "preview", false, "Generate without storing")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the generated markdown as is")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Show the patch against the previous draft")
	return cmd
}

// startSpinner animates on interactive terminals and returns the stop function.
func (a *App) startSpinner(cmd *cobra.Command, message string) func() {
	if !a.interactive() {
		return func() {}
	}
	return formatter.StartSpinner(cmd.ErrOrStderr(), message)
}
