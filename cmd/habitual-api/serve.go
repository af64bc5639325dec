package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/JonnyWalker81/habitual/internal/clock"
	"github.com/JonnyWalker81/habitual/internal/config"
	"github.com/JonnyWalker81/habitual/internal/handlers"
	"github.com/JonnyWalker81/habitual/internal/logger"
	"github.com/JonnyWalker81/habitual/internal/middleware"
	"github.com/JonnyWalker81/habitual/internal/repository"
	"github.com/JonnyWalker81/habitual/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	requestsPerMinute = 300
	shutdownTimeout   = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeDB(db, log)

	if port != "" {
		cfg.Server.Port = port
	}
	if err := repository.Migrate(db); err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	limiter := middleware.NewRateLimiter(requestsPerMinute, time.Minute, "api")
	defer limiter.Close()

	router := newRouter(cfg, log, db, clock.NewSystem(loc), limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			logger.String("port", cfg.Server.Port),
			logger.String("env", cfg.Server.Env),
			logger.String("timezone", loc.String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(cfg *config.Config, log logger.Logger, db *gorm.DB, c clock.Clock, limiter *middleware.RateLimiter) *gin.Engine {
	habitRepo := repository.NewHabitRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	journalRepo := repository.NewJournalRepository(db)

	insights := service.NewInsightsService(habitRepo, goalRepo, journalRepo, c)
	h := &handlers.Handlers{
		Habits: handlers.NewHabitHandler(service.NewHabitService(habitRepo, c)),
		Goals:  handlers.NewGoalHandler(service.NewGoalService(goalRepo, c)),
		Calendar: handlers.NewCalendarHandler(
			service.NewCalendarService(habitRepo, goalRepo, c),
			service.NewDashboardService(habitRepo, goalRepo, insights, c),
		),
		Insights: handlers.NewInsightsHandler(
			insights,
			service.NewProfileService(habitRepo, goalRepo, c),
		),
		Journal: handlers.NewJournalHandler(service.NewJournalService(journalRepo, c)),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID(log))
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    cfg.Server.Env,
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(middleware.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)))
	v1.Use(limiter.Middleware())
	h.Register(v1)

	return router
}
