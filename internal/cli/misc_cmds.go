package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/directory-client/internal/api/http"
	"github.com/spec-kit/directory-client/internal/api/http/handlers"
	"github.com/spec-kit/directory-client/internal/domain"
)

func newRegisterCmd(app appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
	}

	var consumer domain.ConsumerRegistration
	consumerCmd := &cobra.Command{
		Use:   "consumer",
		Short: "Create a consumer account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			msg, err := a.API.RegisterConsumer(cmd.Context(), consumer)
			if err != nil {
				return err
			}
			a.Printer.Success("%s", msg)
			return nil
		},
	}
	consumerCmd.Flags().StringVar(&consumer.Email, "email", "", "account email")
	consumerCmd.Flags().StringVar(&consumer.Password, "password", "", "account password")
	consumerCmd.Flags().StringVar(&consumer.Name, "name", "", "display name")

	var adv domain.AdvertiserRegistration
	advertiserCmd := &cobra.Command{
		Use:   "advertiser",
		Short: "Create an advertiser account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			msg, err := a.API.RegisterAdvertiser(cmd.Context(), adv)
			if err != nil {
				return err
			}
			a.Printer.Success("%s", msg)
			return nil
		},
	}
	flags := advertiserCmd.Flags()
	flags.StringVar(&adv.Email, "email", "", "account email")
	flags.StringVar(&adv.Password, "password", "", "account password")
	flags.StringVar(&adv.Name, "name", "", "owner name")
	flags.StringVar(&adv.BirthDate, "birth-date", "", "owner birth date (YYYY-MM-DD)")
	flags.StringVar(&adv.CPF, "cpf", "", "owner CPF")
	flags.StringVar(&adv.BusinessName, "business-name", "", "business name")
	flags.StringVar(&adv.Description, "description", "", "business description")
	flags.StringVar(&adv.Phone, "phone", "", "contact phone")
	flags.StringVar(&adv.Website, "website", "", "website")
	flags.StringVar(&adv.Address, "address", "", "street address")
	flags.Int64Var(&adv.CityID, "city", 0, "city id")
	flags.Int64Var(&adv.CategoryID, "category", 0, "category id")

	cmd.AddCommand(consumerCmd, advertiserCmd)
	return cmd
}

func newBetaCmd(app appFunc) *cobra.Command {
	var dismiss bool
	cmd := &cobra.Command{
		Use:   "beta",
		Short: "Show the beta banner and migration notice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			ctx := cmd.Context()
			if dismiss {
				if err := a.Banner.DismissBanner(ctx); err != nil {
					return err
				}
				a.Printer.Success("Beta banner dismissed")
				return nil
			}

			status, err := a.API.BetaStatus(ctx)
			if err != nil {
				return err
			}
			if !status.IsBeta {
				a.Printer.Info("The directory is out of beta")
				return nil
			}
			if !a.Banner.BannerDismissed(ctx) {
				a.Printer.Header("Beta")
				a.Printer.Print("%s", status.Message)
			}

			now := time.Now()
			if status.MigrationNotice != nil && a.Banner.ShouldShowMigrationNotice(ctx, now) {
				a.Printer.Warning("%s", *status.MigrationNotice)
				if err := a.Banner.DismissMigrationNotice(ctx, now); err != nil {
					a.Logger.Warn("failed to record migration notice", zap.Error(err))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dismiss, "dismiss", false, "hide the beta banner from now on")
	return cmd
}

func newServeCmd(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local web console",
		Long: `Serve a local HTTP console that shares this CLI's session.

Routes under /admin, /me and /advertiser are guarded by the session's role.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			cfg := a.Config

			console := httptransport.NewApp(a.Logger, a.Metrics, cfg.App.RequestTimeout(), httptransport.RouteConfig{
				Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, a.Store, a.Metrics),
				Session:   handlers.NewSessionHandler(a.Sessions, a.API),
				Directory: handlers.NewDirectoryHandler(a.API),
				Account:   handlers.NewAccountHandler(a.API),
				Admin:     handlers.NewAdminHandler(a.API),
				Sessions:  a.Sessions,
			})

			errCh := make(chan error, 1)
			go func() {
				errCh <- console.Listen(cfg.App.Addr())
			}()
			a.Printer.Info("Console listening on http://%s", cfg.App.Addr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			a.Logger.Info("shutting down console")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return console.ShutdownWithContext(shutdownCtx)
		},
	}
}
