package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/directory-client/internal/domain"
)

func newPlansCmd(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List subscription plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			plans, err := a.API.ListPlans(cmd.Context())
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(plans))
			for k := range plans {
				keys = append(keys, k)
			}
			sort.Slice(keys, func(i, j int) bool { return plans[keys[i]].Price < plans[keys[j]].Price })

			table := a.Printer.NewTable("PLAN", "NAME", "PRICE", "SAVINGS")
			for _, k := range keys {
				p := plans[k]
				savings := ""
				if p.SavingsAmount > 0 {
					savings = fmt.Sprintf("%.2f (%.0f%%)", p.SavingsAmount, p.SavingsPercentage)
				}
				table.AddRow(k, p.Name, fmt.Sprintf("%.2f", p.Price), savings)
			}
			return table.Render()
		},
	}
}

func newSubscriptionCmd(app appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscription",
		Short: "Show your subscription (advertisers only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if err := a.requireRole(domain.RoleAdvertiser); err != nil {
				return err
			}
			status, err := a.API.SubscriptionStatus(cmd.Context())
			if err != nil {
				return err
			}
			table := a.Printer.NewTable("FIELD", "VALUE")
			table.AddRow("status", status.Status)
			table.AddRow("active", fmt.Sprint(status.IsActive))
			if status.Message != "" {
				table.AddRow("message", status.Message)
			}
			return table.Render()
		},
	}

	start := &cobra.Command{
		Use:   "start <plan>",
		Short: "Start a subscription and print the payment link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.requireRole(domain.RoleAdvertiser); err != nil {
				return err
			}
			intent, err := a.API.Subscribe(cmd.Context(), domain.PlanType(strings.ToLower(args[0])))
			if err != nil {
				return err
			}
			a.Printer.Success("Subscription to %s started (reference %s)", intent.Plan.Name, intent.ReferenceID)
			a.Printer.Print("Pay %.2f at %s", intent.Plan.Price, intent.Plan.PaymentURL)
			return nil
		},
	}

	paymentInfo := &cobra.Command{
		Use:   "payment-info <plan>",
		Short: "Show manual payment instructions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.requireRole(domain.RoleAdvertiser); err != nil {
				return err
			}
			info, err := a.API.PaymentInfo(cmd.Context(), domain.PlanType(strings.ToLower(args[0])))
			if err != nil {
				return err
			}
			table := a.Printer.NewTable("FIELD", "VALUE")
			table.AddRow("plan", info.PlanType)
			table.AddRow("amount", fmt.Sprintf("%.2f", info.Amount))
			if pix := info.PaymentMethods.Pix; pix != nil {
				table.AddRow("pix key", pix.Key)
				table.AddRow("pix beneficiary", pix.Beneficiary)
			}
			return table.Render()
		},
	}

	var method string
	confirm := &cobra.Command{
		Use:   "confirm <plan>",
		Short: "Report a manual payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.requireRole(domain.RoleAdvertiser); err != nil {
				return err
			}
			conf, err := a.API.ConfirmPayment(cmd.Context(), domain.PlanType(strings.ToLower(args[0])), method)
			if err != nil {
				return err
			}
			a.Printer.Success("%s (payment %s)", conf.Message, conf.PaymentID)
			return nil
		},
	}
	confirm.Flags().StringVar(&method, "method", "pix", "payment method")

	cmd.AddCommand(start, paymentInfo, confirm)
	return cmd
}
