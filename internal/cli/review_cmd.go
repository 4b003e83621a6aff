package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/spf13/cobra"
)

func newChecklistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checklist DEAL",
		Short: "Show the due-diligence checklist for a deal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveDealID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			cl, err := app.Checklists.ForDeal(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatChecklist(cl))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "mark DEAL ITEM MARK",
		Short: "Record a review mark on a checklist item",
		Long:  "Record a review mark: pending, compliant, partial, non_compliant or not_applicable.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			mark, err := domain.ParseChecklistMark(args[2])
			if err != nil {
				return err
			}
			id, err := resolveDealID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			cl, err := app.Checklists.Mark(cmd.Context(), id, args[1], mark)
			if err != nil {
				return err
			}
			reviewed := cl.Summary.Total - cl.Progress[domain.MarkPending]
			fmt.Fprintf(cmd.OutOrStdout(), "%s marked %s (%d of %d reviewed)\n",
				args[1], formatter.MarkPill(mark), reviewed, cl.Summary.Total)
			return nil
		},
	})
	return cmd
}

func newESAPCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "esap",
		Aliases: []string{"actions"},
		Short:   "Manage the environmental and social action plan",
	}
	cmd.AddCommand(newESAPListCmd(app), newESAPAddCmd(app), newESAPUpdateCmd(app), newESAPRemoveCmd(app))
	return cmd
}

func newESAPListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list DEAL",
		Short: "Show action plan items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveDealID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			plan, err := app.ActionPlans.Plan(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActionPlan(plan, app.now()))
			return nil
		},
	}
}

func newESAPAddCmd(app *App) *cobra.Command {
	var item domain.ActionItem
	item.Priority = domain.PriorityMedium

	cmd := &cobra.Command{
		Use:   "add DEAL",
		Short: "Add an action plan item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveDealID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			added, err := app.ActionPlans.AddItem(cmd.Context(), id, item)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", added.ID, added.Action)
			return nil
		},
	}

	f := cmd.Flags()
	f.Var(newEnumValue(&item.Category, "category", domain.ParseActionCategory), "category", "E&S, Governance, Gender, HSE, Climate or Social")
	f.StringVar(&item.Action, "action", "", "What must be done")
	f.StringVar(&item.Responsible, "responsible", "", "Who is responsible")
	f.Var(&dateValue{target: &item.Deadline}, "deadline", "Deadline (YYYY-MM-DD)")
	f.Var(newEnumValue(&item.Priority, "priority", domain.ParsePriority), "priority", "high, medium or low")
	f.StringVar(&item.KPI, "kpi", "", "Indicator that shows completion")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func newESAPUpdateCmd(app *App) *cobra.Command {
	var status domain.ActionStatus
	var note string

	cmd := &cobra.Command{
		Use:   "update DEAL ITEM",
		Short: "Change the status of an action plan item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveDealID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			itemID := strings.ToUpper(args[1])
			if err := app.ActionPlans.UpdateStatus(cmd.Context(), id, itemID, status, note); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", itemID, formatter.ActionStatusPill(status, false))
			return nil
		},
	}
	cmd.Flags().Var(newEnumValue(&status, "status", domain.ParseActionStatus), "status", "not_started, in_progress or completed")
	cmd.Flags().StringVar(&note, "note", "", "Progress note")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func newESAPRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove DEAL ITEM",
		Short: "Remove an action plan item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveDealID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			itemID := strings.ToUpper(args[1])
			if err := app.ActionPlans.RemoveItem(cmd.Context(), id, itemID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", itemID)
			return nil
		},
	}
}

func newKPICmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kpi",
		Short: "Record and review monitoring KPIs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "record DEAL METRIC=VALUE...",
		Short: "Record a KPI snapshot",
		Long: "Record a KPI snapshot. The women_ownership_pct, women_management_pct and " +
			"women_employees_pct metrics also update the gender-lens profile.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			metrics, err := parseMetrics(args[1:])
			if err != nil {
				return err
			}
			id, err := resolveDealID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			before, err := app.Deals.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			deal, err := app.ActionPlans.RecordKPIs(cmd.Context(), id, metrics)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(metrics))
			for k := range metrics {
				names = append(names, k)
			}
			sort.Strings(names)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recorded %d metric(s) for %s at %s: %s\n", len(metrics), deal.CompanyName,
				deal.UpdatedAt.Format(time.DateOnly), strings.Join(names, ", "))
			if before.TwoXEligible != deal.TwoXEligible {
				fmt.Fprintf(out, "2X eligibility changed: %s\n", twoXLine(deal))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "history DEAL",
		Short: "Show KPI snapshots and their movement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveDealID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			report, err := app.ActionPlans.KPIHistory(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatKPIReport(report))
			return nil
		},
	})
	return cmd
}
