package cli

import (
	"context"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	apperrors "github.com/spec-kit/directory-client/pkg/util/errorutil"
)

type rootState struct {
	opts    Options
	apiURL  string
	verbose bool
	noColor bool
	app     *App
}

// Execute runs directoryctl with args and releases the runtime afterwards.
func Execute(ctx context.Context, opts Options, args []string) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	cmd, state := newRootCmd(opts)
	cmd.SetArgs(args)
	cmd.SetOut(opts.Out)
	cmd.SetErr(opts.Err)
	defer state.close()
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(opts Options) (*cobra.Command, *rootState) {
	state := &rootState{opts: opts}

	root := &cobra.Command{
		Use:   "directoryctl",
		Short: "Business directory client",
		Long: `directoryctl browses the business directory and manages your account.

Your session is kept between runs; log in once and later commands reuse it.

Example usage:
  directoryctl login --email ana@example.com --password secret
  directoryctl advertisers search padaria
  directoryctl favorites list
  directoryctl admin stats`,
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), state.opts, state.apiURL, state.verbose, !state.noColor)
			if err != nil {
				return err
			}
			state.app = app
			return nil
		},
	}

	root.PersistentFlags().StringVar(&state.apiURL, "api-url", "", "directory API base URL (overrides DIRECTORY_API_URL)")
	root.PersistentFlags().BoolVarP(&state.verbose, "verbose", "v", false, "debug logging on stderr")
	root.PersistentFlags().BoolVar(&state.noColor, "no-color", false, "disable colored output")

	app := func() *App { return state.app }
	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newRegisterCmd(app),
		newAdvertisersCmd(app),
		newReviewsCmd(app),
		newFavoritesCmd(app),
		newAdminCmd(app),
		newPlansCmd(app),
		newSubscriptionCmd(app),
		newBetaCmd(app),
		newServeCmd(app),
	)
	return root, state
}

func (s *rootState) close() {
	if s.app != nil {
		_ = s.app.Close()
		s.app = nil
	}
}

// appFunc defers App access until the root pre-run has built it.
type appFunc func() *App

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(what+" must be a positive integer", map[string]any{what: raw})
	}
	return id, nil
}
