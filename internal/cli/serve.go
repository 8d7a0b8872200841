package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"psicocitas-web/internal/attention"
	"psicocitas-web/internal/catalog"
	"psicocitas-web/internal/config"
	"psicocitas-web/internal/dashboard"
	"psicocitas-web/internal/handlers"
	"psicocitas-web/internal/psiapi"
	"psicocitas-web/internal/report"
	"psicocitas-web/internal/routes"
	"psicocitas-web/internal/session"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server and the session token refresher.

Configuration is read from the environment (and the --env-file, if present).
The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

// newRouter wires handlers, middleware and routes for cfg.
func newRouter(cfg *config.Config, sessions *session.Manager, api *psiapi.Client) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	cat := catalog.Default()
	loc := cfg.Location()
	secure := cfg.Environment != "development"
	attentionSvc := attention.NewService(api, cat, loc)

	routes.SetupRoutes(router, sessions, routes.Handlers{
		Auth:    handlers.NewAuthHandler(sessions, session.NewLoginFlow(cfg.Google), api, secure),
		Profile: handlers.NewProfileHandler(sessions, api, secure),
		Dashboard: handlers.NewDashboardHandler(
			dashboard.NewService(api, cat, cfg.Dashboard.PendingOnly),
			loc, cfg.Schedule.DashboardPollInterval, cfg.Schedule.JobTimeout,
		),
		Appointment: handlers.NewAppointmentHandler(attentionSvc, attention.NewSlotFinder(api)),
		Referral:    handlers.NewReferralHandler(attentionSvc),
		Report:      handlers.NewReportHandler(report.NewService(api, cat, loc)),
	})
	return router
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sealer := session.NewSealer(cfg.Session.Secret)
	store, closeStore, err := session.OpenStore(ctx, cfg.Session, sealer)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			slog.Error("session store close error", "error", err)
		}
	}()
	sessions := session.NewManager(store, sealer, cfg.Session)
	api := psiapi.NewClient(cfg.API)

	refresher := session.NewRefresher(store, api).
		Task(cfg.Schedule.TokenRefreshInterval, cfg.Schedule.JobTimeout).
		Start(ctx)
	defer refresher.Stop()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, sessions, api),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "port", cfg.Port, "store", cfg.Session.Store, "env", cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	return nil
}
