package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	emailPkg "clubhouse/internal/adapters/email"
	web "clubhouse/internal/adapters/http"
	"clubhouse/internal/adapters/http/perf"
	"clubhouse/internal/adapters/storage"
	attendanceStore "clubhouse/internal/adapters/storage/attendance"
	categoryStore "clubhouse/internal/adapters/storage/category"
	lineupStore "clubhouse/internal/adapters/storage/lineup"
	memberStore "clubhouse/internal/adapters/storage/member"
	sessionStore "clubhouse/internal/adapters/storage/trainingsession"
	"clubhouse/internal/config"
)

// shutdownTimeout bounds how long in-flight requests may run after a signal.
const shutdownTimeout = 10 * time.Second

func newServeCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, g.cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	db, err := openDB(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQuery())

	stores := &web.Stores{
		Sessions:   sessionStore.NewSQLiteStore(timedDB),
		Attendance: attendanceStore.NewSQLiteStore(timedDB),
		Members:    memberStore.NewSQLiteStore(timedDB),
		Categories: categoryStore.NewSQLiteStore(timedDB),
		Lineups:    lineupStore.NewSQLiteStore(timedDB),
	}

	csrfKey, err := cfg.CSRFKeyBytes()
	if err != nil {
		return err
	}

	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.MailFrom, cfg.ReplyTo)
		slog.Info("email_sender_configured", "provider", "resend")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.Production() {
			slog.Warn("email_delivery_disabled", "hint", "set CLUBHOUSE_RESEND_KEY")
		} else {
			slog.Info("email_sender_configured", "provider", "noop")
		}
	}

	var accessLog io.Writer
	if cfg.AccessLog {
		accessLog = os.Stdout
	}

	handler := web.NewMux(ctx, stores, web.Options{
		CSRFKey:        csrfKey,
		SecureCookies:  cfg.Production(),
		TrustedOrigins: cfg.TrustedOrigins,
		RateLimit:      cfg.RateLimit,
		SlowRequest:    cfg.SlowRequest(),
		Location:       cfg.Location(),
		Locale:         cfg.Locale,
		EmailSender:    sender,
		MailFrom:       cfg.MailFrom,
		Collector:      collector,
		AccessLog:      accessLog,
		Ping:           timedDB.Ping,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting",
			"version", version,
			"addr", cfg.Addr,
			"env", cfg.Env,
			"schema", storage.LatestSchemaVersion(),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
