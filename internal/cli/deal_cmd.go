package cli

import (
	"fmt"

	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/service"
	"github.com/spf13/cobra"
)

func newCreateCmd(app *App) *cobra.Command {
	var in service.CreateDealInput
	var benefitsWomen bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new deal in screening",
		Long: "Register a new deal. Without --company on an interactive terminal a form " +
			"collects the profile instead of flags.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.CompanyName == "" && app.interactive() {
				if err := runDealForm(&in); err != nil {
					return err
				}
			} else {
				in.TwoX.BenefitsWomen = domain.Beneficiary(benefitsWomen)
			}

			deal, err := app.Deals.Create(cmd.Context(), in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created deal %s [%s]\n", formatter.Bold(deal.CompanyName), deal.ID)
			fmt.Fprintf(out, "  E&S category %s, %s\n", formatter.RiskBadge(deal.RiskCategory), twoXLine(deal))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.CompanyName, "company", "", "Company name")
	f.StringVar(&in.Country, "country", "", "Country of operation")
	f.StringVar(&in.Sector, "sector", "", "Sector")
	f.StringVar(&in.Subsector, "subsector", "", "Subsector")
	f.StringVar(&in.Description, "description", "", "Business description")
	f.StringVar(&in.Revenue, "revenue", "", "Annual revenue")
	f.StringVar(&in.TargetMarket, "market", "", "Target market")
	f.StringSliceVar(&in.GeographicScope, "scope", nil, "Countries of operation (repeatable)")
	f.StringSliceVar(&in.Tags, "tag", nil, "Tags (repeatable)")
	f.StringVar(&in.Analyst, "analyst", "", "Screening analyst")
	f.Float64Var(&in.TwoX.WomenOwnershipPct, "women-ownership", 0, "Share owned by women (percent or fraction)")
	f.Float64Var(&in.TwoX.WomenManagementPct, "women-management", 0, "Share of senior management that is women")
	f.Float64Var(&in.TwoX.WomenEmployeesPct, "women-employees", 0, "Share of the workforce that is women")
	f.BoolVar(&benefitsWomen, "benefits-women", false, "Products or services benefit women")
	intPtrFlag(cmd, &in.Employees, "employees", "Number of employees")
	intPtrFlag(cmd, &in.YearFounded, "founded", "Year founded")

	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var filter service.DealFilter
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deals",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				deals []*domain.Deal
				err   error
			)
			if search != "" {
				deals, err = app.Deals.Search(cmd.Context(), search)
			} else {
				deals, err = app.Deals.List(cmd.Context(), filter)
			}
			if err != nil {
				return err
			}

			if len(deals) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No deals found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDealList(deals))
			return nil
		},
	}

	cmd.Flags().Var(newEnumValue(&filter.Stage, "stage", domain.ParseStage), "stage", "Only deals in this stage")
	cmd.Flags().Var(newEnumValue(&filter.Status, "status", domain.ParseStageStatus), "status", "Only deals whose stage has this status (needs --stage)")
	cmd.Flags().BoolVar(&filter.ActiveOnly, "active", false, "Only deals that are not exited or rejected")
	cmd.Flags().StringVarP(&search, "search", "q", "", "Match company, country or sector")

	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show DEAL",
		Short: "Show deal details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deal, err := getDeal(cmd, app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDealDetail(deal))
			return nil
		},
	}
}

func newUpdateCmd(app *App) *cobra.Command {
	var (
		sector, subsector, description, revenue, market string
		employees, founded                              int
		scope, tags                                     []string
		ownership, management, workforce                float64
		benefitsWomen                                   bool
	)

	cmd := &cobra.Command{
		Use:   "update DEAL",
		Short: "Change profile fields of a deal",
		Long:  "Change profile fields. Only flags that are given are applied; gender-lens changes re-run the 2X evaluation.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveDealID(ctx, app, args[0])
			if err != nil {
				return err
			}
			current, err := app.Deals.Get(ctx, id)
			if err != nil {
				return err
			}

			f := cmd.Flags()
			var upd service.ProfileUpdate
			setIfChanged(f.Changed("sector"), &upd.Sector, sector)
			setIfChanged(f.Changed("subsector"), &upd.Subsector, subsector)
			setIfChanged(f.Changed("description"), &upd.Description, description)
			setIfChanged(f.Changed("revenue"), &upd.Revenue, revenue)
			setIfChanged(f.Changed("market"), &upd.TargetMarket, market)
			setIfChanged(f.Changed("employees"), &upd.Employees, employees)
			setIfChanged(f.Changed("founded"), &upd.YearFounded, founded)
			if f.Changed("scope") {
				upd.GeographicScope = scope
			}
			if f.Changed("tag") {
				upd.Tags = tags
			}
			if f.Changed("women-ownership") || f.Changed("women-management") ||
				f.Changed("women-employees") || f.Changed("benefits-women") {
				twoX := current.TwoX
				if f.Changed("women-ownership") {
					twoX.WomenOwnershipPct = ownership
				}
				if f.Changed("women-management") {
					twoX.WomenManagementPct = management
				}
				if f.Changed("women-employees") {
					twoX.WomenEmployeesPct = workforce
				}
				if f.Changed("benefits-women") {
					twoX.BenefitsWomen = domain.Beneficiary(benefitsWomen)
				}
				upd.TwoX = &twoX
			}

			deal, err := app.Deals.UpdateProfile(ctx, id, upd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: category %s, %s\n",
				deal.CompanyName, formatter.RiskBadge(deal.RiskCategory), twoXLine(deal))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&sector, "sector", "", "Sector")
	f.StringVar(&subsector, "subsector", "", "Subsector")
	f.StringVar(&description, "description", "", "Business description")
	f.StringVar(&revenue, "revenue", "", "Annual revenue")
	f.StringVar(&market, "market", "", "Target market")
	f.IntVar(&employees, "employees", 0, "Number of employees")
	f.IntVar(&founded, "founded", 0, "Year founded")
	f.StringSliceVar(&scope, "scope", nil, "Countries of operation")
	f.StringSliceVar(&tags, "tag", nil, "Tags")
	f.Float64Var(&ownership, "women-ownership", 0, "Share owned by women")
	f.Float64Var(&management, "women-management", 0, "Share of senior management that is women")
	f.Float64Var(&workforce, "women-employees", 0, "Share of the workforce that is women")
	f.BoolVar(&benefitsWomen, "benefits-women", false, "Products or services benefit women")

	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete DEAL",
		Short: "Delete a deal permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deal, err := getDeal(cmd, app, args[0])
			if err != nil {
				return err
			}
			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete %s without --yes", deal.ID)
				}
				confirmed := false
				if err := confirmForm(fmt.Sprintf("Delete %s (%s)?", deal.CompanyName, deal.ID), &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := app.Deals.Delete(cmd.Context(), deal.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s [%s]\n", deal.CompanyName, deal.ID)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func getDeal(cmd *cobra.Command, app *App, ref string) (*domain.Deal, error) {
	id, err := resolveDealID(cmd.Context(), app, ref)
	if err != nil {
		return nil, err
	}
	return app.Deals.Get(cmd.Context(), id)
}

func twoXLine(d *domain.Deal) string {
	if d.TwoXEligible {
		return formatter.StyleGreen.Render(fmt.Sprintf("2X eligible (%d criteria)", d.TwoXCriteriaMet))
	}
	return formatter.Dim("not 2X eligible")
}

func setIfChanged[T any](changed bool, dst **T, v T) {
	if changed {
		*dst = &v
	}
}

// intPtrFlag binds an optional integer flag that stays nil unless given.
func intPtrFlag(cmd *cobra.Command, dst **int, name, usage string) {
	var v int
	cmd.Flags().IntVar(&v, name, 0, usage)
	prev := cmd.PreRunE
	cmd.PreRunE = func(c *cobra.Command, args []string) error {
		if c.Flags().Changed(name) {
			*dst = &v
		}
		if prev != nil {
			return prev(c, args)
		}
		return nil
	}
}
