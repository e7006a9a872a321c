package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/KaruG1999/roster/config"
	"github.com/KaruG1999/roster/internal/api"
	"github.com/KaruG1999/roster/internal/notify"
	"github.com/KaruG1999/roster/internal/registry"
	"github.com/KaruG1999/roster/internal/upstream"
	"github.com/KaruG1999/roster/internal/verify"
)

// serveCmd is the cobra command that starts the roster API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the roster api server",
	Run: func(cmd *cobra.Command, _ []string) {
		err := serve(cmd.Context())
		cobra.CheckErr(err)
	},
}

// init registers the serve command on the root command
func init() {
	rootCmd.AddCommand(serveCmd)
}

// serve initializes dependencies and starts the roster API server
func serve(ctx context.Context) error {
	cfg := config.New()

	store, err := registry.Open(cfg.SnapshotPath)
	if err != nil {
		return fmt.Errorf("opening registry snapshot: %w", err)
	}

	log.Info().Str("snapshot", cfg.SnapshotPath).Int("users", len(store.List())).Msg("registry loaded")

	upstreamClient := setupUpstream(cfg)
	controller, err := setupController(cfg, store)
	if err != nil {
		return fmt.Errorf("setting up validation controller: %w", err)
	}

	handler := api.NewRouter(api.RouterConfig{
		Store:       store,
		Upstream:    upstreamClient,
		Controller:  controller,
		MaxBodySize: cfg.MaxBodySize,
		ValidateRPS: cfg.ValidateRPS,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	log.Info().Str("listen", srv.Addr).Msg("starting roster service")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}

// setupUpstream initializes the provider client from config, returning nil
// when no credential is configured. The validate-email endpoint reports the
// missing credential per request.
func setupUpstream(cfg *config.Config) *upstream.Client {
	if cfg.APIKey == "" {
		log.Warn().Msg("upstream credential not configured, email validation will fail per request")
		return nil
	}

	client, err := upstream.New(
		cfg.APIKey,
		upstream.WithBaseURL(cfg.UpstreamURL),
		upstream.WithTimeout(cfg.UpstreamTimeout),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize upstream client")
		return nil
	}

	log.Info().Msg("upstream email validation configured")

	return client
}

// setupController wires the verifier and validation controller from config
func setupController(cfg *config.Config, store *registry.Store) (*verify.Controller, error) {
	endpoint := cfg.ProxyURL
	if endpoint == "" {
		// The verifier goes through the service's own proxy endpoint so
		// the credential stays server-side on one code path.
		endpoint = fmt.Sprintf("http://127.0.0.1:%s/api/validate-email", cfg.Port)
	}

	verifier, err := verify.NewVerifier(endpoint, verify.WithTimeout(cfg.VerifyTimeout))
	if err != nil {
		return nil, err
	}

	opts := []verify.ControllerOption{
		verify.WithBulkDelay(cfg.BulkDelay),
	}

	if notifier := setupNotifier(cfg); notifier != nil {
		opts = append(opts, verify.WithNotifier(notifier))
	}

	return verify.NewController(store, verifier, opts...), nil
}

// setupNotifier initializes the webhook notifier from config, returning nil
// when unconfigured
func setupNotifier(cfg *config.Config) *notify.Client {
	if cfg.WebhookURL == "" {
		log.Info().Msg("outcome notifications not configured, skipping")
		return nil
	}

	client, err := notify.New(
		cfg.WebhookURL,
		notify.WithHTTPClient(&http.Client{Timeout: cfg.WebhookTimeout}),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize webhook notifier")
		return nil
	}

	log.Info().Msg("outcome notifications configured")

	return client
}
