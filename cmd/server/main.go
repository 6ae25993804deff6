package main

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"datewheel/internal/config"
	"datewheel/internal/db"
	"datewheel/internal/flow"
	mcpserver "datewheel/internal/mcp"
	"datewheel/internal/metrics"
	"datewheel/internal/persist"
	"datewheel/internal/remote"
	"datewheel/internal/store"
	"datewheel/internal/web"
	"datewheel/internal/wheel"

	"github.com/mark3labs/mcp-go/server"
)

//go:embed static
var staticFS embed.FS

func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	m := metrics.New("datewheel")

	// Context for startup
	ctx, cancel := context.WithTimeout(context.Background(), cfg.BootstrapTimeout)
	defer cancel()

	// Local fallback store
	local, closeLocal, err := openLocal(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open local store: %v", err)
	}
	defer closeLocal()

	// Remote backend
	var opts []persist.Option
	closeRemote := func() {}
	switch cfg.RemoteKind() {
	case "supabase":
		sb, err := remote.NewSupabase(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
		if err != nil {
			log.Fatalf("failed to create supabase client: %v", err)
		}
		opts = append(opts,
			persist.WithRemote(remote.WithBreaker(sb, remote.DefaultBreakerConfig(), logger)),
			persist.WithPhotoStore(sb),
		)
		logger.Info("using supabase backend", "url", cfg.SupabaseURL, "bucket", cfg.SupabaseBucket)
	case "postgres":
		pg, err := remote.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			// no remote this run; the local copy keeps the app usable
			logger.Warn("failed to connect to postgres, running offline", "error", err)
			break
		}
		if err := pg.Migrate(ctx); err != nil {
			logger.Warn("failed to migrate postgres schema", "error", err)
		}
		closeRemote = pg.Close
		opts = append(opts, persist.WithRemote(remote.WithBreaker(pg, remote.DefaultBreakerConfig(), logger)))
		logger.Info("using postgres backend")
	default:
		logger.Info("no remote backend configured, running offline")
	}
	defer closeRemote()

	// Wire dependencies
	adapter := persist.NewAdapter(local, logger, opts...)
	snap := adapter.Load(ctx)
	m.ObserveBootstrap(adapter.Source())
	logger.Info("catalog loaded",
		"source", adapter.Source(),
		"venues", len(snap.Venues),
		"districts", len(snap.Districts),
		"memories", len(snap.Memories),
	)

	st := store.New(adapter, snap,
		store.WithLogger(logger),
		store.WithMetrics(m),
		store.WithTimeout(cfg.RemoteTimeout),
	)
	sessions := flow.NewSessions(st,
		flow.WithTTL(cfg.SessionTTL),
		flow.WithWheelOptions(wheel.WithDuration(cfg.SpinDuration)),
		flow.WithSpinHook(m.ObserveSpin),
	)
	webHandler := web.NewHandler(st, sessions, logger,
		web.WithMaxPhotoBytes(cfg.MaxPhotoBytes),
		web.WithMetrics(m),
	)

	// Create MCP server
	mcpSrv := mcpserver.NewServer(st, m)

	// HTTP router
	mux := http.NewServeMux()

	// Static files
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatalf("failed to get static fs: %v", err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))

	// REST API and web UI
	webHandler.Register(mux)

	// MCP endpoint (HTTP transport)
	// MCP uses POST for requests and GET for SSE streams
	mcpHTTP := server.NewStreamableHTTPServer(mcpSrv)
	mux.Handle("POST /mcp", mcpHTTP)
	mux.Handle("GET /mcp", mcpHTTP)
	mux.Handle("DELETE /mcp", mcpHTTP)

	mux.Handle("GET /metrics", m.Handler())

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      m.Middleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Expired wheel sessions
	pruneCtx, stopPrune := context.WithCancel(context.Background())
	defer stopPrune()
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-pruneCtx.Done():
				return
			case <-ticker.C:
				if n := sessions.Prune(); n > 0 {
					logger.Debug("pruned wheel sessions", "count", n)
				}
			}
		}
	}()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	logger.Info("server starting", "port", cfg.Port, "local_store", cfg.LocalStore, "remote", cfg.RemoteKind())
	logger.Info("endpoints available",
		"web", "http://localhost:"+cfg.Port,
		"api", "http://localhost:"+cfg.Port+"/api",
		"mcp", "http://localhost:"+cfg.Port+"/mcp",
		"metrics", "http://localhost:"+cfg.Port+"/metrics",
	)

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}

	logger.Info("server stopped")
}

// openLocal opens the configured local fallback store and returns its closer
func openLocal(ctx context.Context, cfg config.Config, logger *slog.Logger) (persist.LocalStore, func(), error) {
	switch cfg.LocalStore {
	case config.LocalMongo:
		logger.Info("connecting to MongoDB", "uri", cfg.MongoURI)
		database, disconnect, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("connected to MongoDB")
		return persist.NewMongo(database), func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := disconnect(ctx); err != nil {
				logger.Warn("failed to disconnect from MongoDB", "error", err)
			}
		}, nil
	case config.LocalMemory:
		logger.Warn("using in-memory local store, data is lost on restart")
		return persist.NewMemory(), func() {}, nil
	default:
		sqlite, err := persist.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("opened local store", "path", cfg.SQLitePath)
		return sqlite, func() {
			if err := sqlite.Close(); err != nil {
				logger.Warn("failed to close local store", "error", err)
			}
		}, nil
	}
}
