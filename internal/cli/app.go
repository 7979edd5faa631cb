// Package cli implements directoryctl, a command line client for the business
// directory. Every invocation restores the persisted session before running
// its command.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/spec-kit/directory-client/internal/apiclient"
	"github.com/spec-kit/directory-client/internal/config"
	"github.com/spec-kit/directory-client/internal/domain"
	"github.com/spec-kit/directory-client/internal/events"
	"github.com/spec-kit/directory-client/internal/observability"
	"github.com/spec-kit/directory-client/internal/persistence"
	"github.com/spec-kit/directory-client/internal/preferences"
	"github.com/spec-kit/directory-client/internal/service"
	"github.com/spec-kit/directory-client/internal/session"
	apperrors "github.com/spec-kit/directory-client/pkg/util/errorutil"
)

// Options lets callers replace pieces of the runtime, mostly for tests.
type Options struct {
	// Config skips environment loading when set.
	Config     *config.Config
	Store      persistence.Store
	HTTPClient *fasthttp.Client
	Logger     *zap.Logger
	Out        io.Writer
	Err        io.Writer
	Version    string
}

// App is the runtime shared by all commands of one invocation.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	Store    persistence.Store
	Sessions *session.Manager
	API      *apiclient.Client
	Banner   *preferences.Banner
	Printer  *Printer

	notifications *service.NotificationService
	ownsStore     bool
}

func newApp(ctx context.Context, opts Options, apiURL string, verbose, colors bool) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if verbose {
		cfg.Logger.Level = "debug"
	}
	if opts.Version != "" && opts.Version != "dev" {
		cfg.App.Version = opts.Version
	}

	logger := opts.Logger
	if logger == nil {
		built, err := observability.NewLogger(cfg.Logger)
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		logger = built
	}

	store := opts.Store
	ownsStore := false
	if store == nil {
		opened, err := persistence.Open(*cfg, logger)
		if err != nil {
			return nil, err
		}
		store = opened
		ownsStore = true
	}

	printer := NewPrinter(opts.Out, opts.Err, colors)
	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, logger, func(msg string) {
		printer.Warning("%s", msg)
	})
	notifications.RegisterHandlers()

	sessions := session.NewManager(session.Options{
		Store:      store,
		TokenKey:   cfg.Storage.TokenKey,
		Logger:     logger,
		Dispatcher: dispatcher,
	})
	sessions.Hydrate(ctx)

	metrics := observability.NewMetrics()
	apiOpts := apiclient.Options{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout(),
		Credentials: sessions,
		Logger:      logger,
		Metrics:     metrics,
		HTTPClient:  opts.HTTPClient,
	}
	if cfg.Session.LogoutOnUnauthorized {
		apiOpts.OnUnauthorized = sessions.ExpireSession
	}

	return &App{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics,
		Store:    store,
		Sessions: sessions,
		API:      apiclient.New(apiOpts),
		Banner:   preferences.NewBanner(store),
		Printer:  printer,

		notifications: notifications,
		ownsStore:     ownsStore,
	}, nil
}

// Close releases what newApp opened.
func (a *App) Close() error {
	a.notifications.Stop()
	_ = a.Logger.Sync()
	if a.ownsStore {
		return a.Store.Close()
	}
	return nil
}

// requireRole gates a command on the current session before any API call.
func (a *App) requireRole(roles ...domain.Role) error {
	if !a.Sessions.Authenticated() {
		return apperrors.NewUnauthorized("not logged in; run `directoryctl login` first")
	}
	for _, role := range roles {
		if a.Sessions.HasRole(role) {
			return nil
		}
	}
	identity, _ := a.Sessions.Identity()
	return apperrors.NewForbidden(fmt.Sprintf("this command is not available to %s accounts", identity.Role))
}
