package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yoockh/ayuda/internal/api/handlers"
	"github.com/yoockh/ayuda/internal/api/middleware"
	"github.com/yoockh/ayuda/internal/api/routes"
)

var shutdownGrace time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().DurationVar(&shutdownGrace, "shutdown-grace", 30*time.Second, "time allowed for in-flight requests on shutdown")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.WithError(err).Warn("shutdown cleanup")
		}
	}()

	if cfg.AppEnv != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.MaxMultipartMemory = 32 << 20

	routes.RegisterRoutes(r, routes.Deps{
		Upload:        handlers.NewUploadHandler(a.Pipeline, cfg.MaxUploadBytes),
		Summary:       handlers.NewSummaryHandler(a.Summaries),
		Transcription: handlers.NewTranscriptionHandler(a.Transcriptions),
		Auth: middleware.JWTConfig{
			Secret:   cfg.AuthJWTSecret,
			Issuer:   cfg.AuthJWTIssuer,
			Audience: cfg.AuthJWTAudience,
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
