package server

import (
	"cinequiz/internal/analytics"
	"cinequiz/internal/broadcast"
	"cinequiz/internal/cache"
	"cinequiz/internal/config"
	"cinequiz/internal/db"
	"cinequiz/internal/events"
	"cinequiz/internal/history"
	"cinequiz/internal/metrics"
	"cinequiz/internal/rooms"
	"cinequiz/internal/wshub"
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	historyBuffer   = 64
	shutdownTimeout = 5 * time.Second
)

// Run serves until ctx is done, then shuts down and flushes pending game
// records.
func Run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	out := broadcast.NewBroadcaster(cfg.SendBuffer)
	m := metrics.New(out.Count)
	out.OnDrop = func(connID string, ev events.Event) {
		m.EventDropped(ev.Name)
		log.Debug("dropped event", zap.String("conn", connID), zap.String("event", ev.Name))
	}

	srv := &Server{Metrics: m, Log: log.Named("http")}
	var sinks []history.Sink

	// Optional database connection
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL, log.Named("db"))
		if err != nil {
			log.Warn("database unavailable, running without game history", zap.Error(err))
		} else if err := database.Migrate(ctx); err != nil {
			log.Warn("migration failed, running without game history", zap.Error(err))
			database.Close()
		} else {
			defer database.Close()
			srv.DB = database
			srv.Queries = analytics.NewQueries(database)
			sinks = append(sinks, database, analytics.LifetimeAwarder{Queries: srv.Queries})
		}
	} else {
		log.Info("database url not set, running without game history")
	}

	if cfg.RedisURL != "" {
		c, err := cache.Connect(ctx, cfg.RedisURL, log.Named("cache"))
		if err != nil {
			log.Warn("redis unavailable, results will not be published", zap.Error(err))
		} else {
			defer c.Close()
			srv.Cache = c
			sinks = append(sinks, c)
		}
	}

	writer := history.NewWriter(historyBuffer, log.Named("history"), sinks...)
	writer.OnDrop = func(history.GameRecord) { m.GameRecordDropped() }
	writerCtx, stopWriter := context.WithCancel(context.Background())
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writer.Run(writerCtx)
	}()

	reg := rooms.New(cfg.Rooms(), out,
		rooms.WithRecorder(writer),
		rooms.WithObserver(m),
		rooms.WithLogger(log.Named("rooms")),
	)
	srv.Rooms = reg
	srv.Hub = wshub.NewHub(reg, out, log.Named("ws"))

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Routes(),
		IdleTimeout:       10 * time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", "http://"+httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errs:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	reg.Close()
	stopWriter()
	<-writerDone
	log.Info("server stopped")
	return runErr
}
