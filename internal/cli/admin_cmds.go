package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/directory-client/internal/domain"
	apperrors "github.com/spec-kit/directory-client/pkg/util/errorutil"
)

func newAdminCmd(app appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administration (admins only)",
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if err := a.requireRole(domain.RoleAdmin); err != nil {
				return err
			}
			s, err := a.API.AdminStats(cmd.Context())
			if err != nil {
				return err
			}
			table := a.Printer.NewTable("METRIC", "VALUE")
			table.AddRow("advertisers", strconv.Itoa(s.TotalAdvertisers))
			table.AddRow("active advertisers", strconv.Itoa(s.ActiveAdvertisers))
			table.AddRow("users", strconv.Itoa(s.TotalUsers))
			table.AddRow("reviews", strconv.Itoa(s.TotalReviews))
			table.AddRow("pending reports", strconv.Itoa(s.PendingReports))
			return table.Render()
		},
	}

	cmd.AddCommand(stats, newPricingCmd(app), newReportsCmd(app), newToggleCmd(app))
	return cmd
}

func newPricingCmd(app appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pricing",
		Short: "View or change plan prices",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List plan prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if err := a.requireRole(domain.RoleAdmin); err != nil {
				return err
			}
			pricing, err := a.API.ListPricing(cmd.Context())
			if err != nil {
				return err
			}
			table := a.Printer.NewTable("PLAN", "PRICE", "CURRENCY", "UPDATED")
			for _, p := range pricing {
				table.AddRow(p.PlanType, fmt.Sprintf("%.2f", p.Price), p.Currency, p.UpdatedAt)
			}
			return table.Render()
		},
	}

	set := &cobra.Command{
		Use:     "set <plan> <price>",
		Short:   "Change the price of a plan",
		Example: `  directoryctl admin pricing set monthly 39.90`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.requireRole(domain.RoleAdmin); err != nil {
				return err
			}
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return apperrors.NewValidationError("price must be a number", map[string]any{"price": args[1]})
			}
			msg, err := a.API.UpdatePricing(cmd.Context(), domain.PlanType(strings.ToLower(args[0])), price)
			if err != nil {
				return err
			}
			a.Printer.Success("%s", msg)
			return nil
		},
	}

	cmd.AddCommand(list, set)
	return cmd
}

func newReportsCmd(app appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List moderation reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if err := a.requireRole(domain.RoleAdmin); err != nil {
				return err
			}
			reports, err := a.API.ListReports(cmd.Context())
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				a.Printer.Info("No reports")
				return nil
			}
			table := a.Printer.NewTable("ID", "ADVERTISER", "REASON", "STATUS")
			for _, r := range reports {
				table.AddRow(strconv.FormatInt(r.ID, 10), strconv.FormatInt(r.AdvertiserID, 10), r.Reason, r.Status)
			}
			return table.Render()
		},
	}

	resolve := &cobra.Command{
		Use:   "resolve <report>",
		Short: "Mark a report resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.requireRole(domain.RoleAdmin); err != nil {
				return err
			}
			id, err := parseID(args[0], "report")
			if err != nil {
				return err
			}
			if err := a.API.ResolveReport(cmd.Context(), id); err != nil {
				return err
			}
			a.Printer.Success("Report %d resolved", id)
			return nil
		},
	}

	cmd.AddCommand(resolve)
	return cmd
}

func newToggleCmd(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <advertiser>",
		Short: "Activate or deactivate an advertiser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.requireRole(domain.RoleAdmin); err != nil {
				return err
			}
			id, err := parseID(args[0], "advertiser")
			if err != nil {
				return err
			}
			if err := a.API.ToggleAdvertiser(cmd.Context(), id); err != nil {
				return err
			}
			a.Printer.Success("Advertiser %d toggled", id)
			return nil
		},
	}
}
