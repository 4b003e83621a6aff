package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/spf13/cobra"
)

func newAdvanceCmd(app *App) *cobra.Command {
	var target domain.Stage
	var analyst string

	cmd := &cobra.Command{
		Use:   "advance DEAL",
		Short: "Move an approved deal to the next stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := getDeal(cmd, app, args[0])
			if err != nil {
				return err
			}
			to := target
			if to == "" {
				to, _ = current.CurrentStage.Next()
			}
			deal, err := app.Deals.Advance(cmd.Context(), current.ID, to, analyst)
			if err != nil {
				return explainTransition(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s moved from %s to %s\n", deal.CompanyName,
				current.CurrentStage.Label(), formatter.StageStyle(deal.CurrentStage).Render(deal.CurrentStage.Label()))
			return nil
		},
	}
	cmd.Flags().Var(newEnumValue(&target, "stage", domain.ParseStage), "to", "Target stage (defaults to the next one)")
	cmd.Flags().StringVar(&analyst, "analyst", "", "Analyst for the new stage")
	return cmd
}

func newRejectCmd(app *App) *cobra.Command {
	return newTerminateCmd(app, "reject", "Reject a live deal", "rejected",
		func(cmd *cobra.Command, id, reason string) (*domain.Deal, error) {
			return app.Deals.Reject(cmd.Context(), id, reason)
		})
}

func newExitCmd(app *App) *cobra.Command {
	return newTerminateCmd(app, "exit", "Record the exit of a deal in monitoring", "exited",
		func(cmd *cobra.Command, id, reason string) (*domain.Deal, error) {
			return app.Deals.Exit(cmd.Context(), id, reason)
		})
}

func newTerminateCmd(app *App, use, short, verb string, run func(*cobra.Command, string, string) (*domain.Deal, error)) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   use + " DEAL",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveDealID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			deal, err := run(cmd, id, reason)
			if err != nil {
				return explainTransition(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", deal.CompanyName, verb)
			return nil
		},
	}
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Rationale recorded with the decision")
	return cmd
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status DEAL STATUS",
		Short: "Set the workflow status of the current stage",
		Long:  "Set the workflow status: draft, in_progress, pending_review, approved, rejected or on_hold.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := domain.ParseStageStatus(args[1])
			if err != nil {
				return err
			}
			id, err := resolveDealID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			deal, err := app.Deals.SetStatus(cmd.Context(), id, status)
			if err != nil {
				return explainTransition(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", deal.CompanyName, deal.CurrentStage.Label(), formatter.StatusPill(status))
			return nil
		},
	}
}

func newDecideCmd(app *App) *cobra.Command {
	var rationale string
	cmd := &cobra.Command{
		Use:   "decide DEAL DECISION",
		Short: "Record the decision for the current stage",
		Long: "Record a decision. Screening takes GO, NO-GO or GO_WITH_CONDITIONS; the investment " +
			"committee takes APPROVED, APPROVED_WITH_CONDITIONS or REJECTED.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			decision, err := domain.ParseDecision(strings.ToUpper(args[1]))
			if err != nil {
				return err
			}
			id, err := resolveDealID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			deal, err := app.Deals.Decide(cmd.Context(), id, decision, rationale)
			if err != nil {
				return explainTransition(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s decision: %s\n", deal.CompanyName, deal.CurrentStage.Label(), formatter.Bold(string(decision)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&rationale, "rationale", "r", "", "Why the decision was taken")
	return cmd
}

func newCommentCmd(app *App) *cobra.Command {
	var author string
	cmd := &cobra.Command{
		Use:   "comment DEAL TEXT...",
		Short: "Add a comment to the current stage",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveDealID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			deal, err := app.Deals.Comment(cmd.Context(), id, strings.Join(args[1:], " "), author)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Comment added to %s (%s)\n", deal.CompanyName, deal.CurrentStage.Label())
			return nil
		},
	}
	cmd.Flags().StringVarP(&author, "author", "a", "", "Comment author")
	return cmd
}

func newConditionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "condition DEAL TEXT...",
		Short: "Attach a condition to the current stage decision",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveDealID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			deal, err := app.Deals.AddCondition(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			sd, _ := deal.CurrentStageData()
			fmt.Fprintf(cmd.OutOrStdout(), "Condition %d added to %s\n", len(sd.Conditions), deal.CompanyName)
			return nil
		},
	}
}

// explainTransition appends the refusal reason code so scripts can match on it.
func explainTransition(err error) error {
	var te *domain.TransitionError
	if errors.As(err, &te) {
		return fmt.Errorf("%w [%s]", err, te.Reason)
	}
	return err
}
