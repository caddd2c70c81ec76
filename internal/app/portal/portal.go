package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"hrhub/internal/apiclient"
	"hrhub/internal/domain/account"
	"hrhub/internal/domain/dashboard"
	"hrhub/internal/domain/departments"
	"hrhub/internal/domain/nominations"
	"hrhub/internal/domain/notifications"
	"hrhub/internal/domain/people"
	"hrhub/internal/domain/profile"
	"hrhub/internal/domain/reviews"
	"hrhub/internal/domain/summaries"
	"hrhub/internal/platform/config"
	"hrhub/internal/platform/crypto"
	"hrhub/internal/platform/db"
	"hrhub/internal/platform/jobs"
	"hrhub/internal/platform/metrics"
	"hrhub/internal/querycache"
	"hrhub/internal/session"
	"hrhub/internal/transport/http/api"
	accounthandler "hrhub/internal/transport/http/handlers/account"
	dashboardhandler "hrhub/internal/transport/http/handlers/dashboard"
	departmentshandler "hrhub/internal/transport/http/handlers/departments"
	nominationshandler "hrhub/internal/transport/http/handlers/nominations"
	notificationshandler "hrhub/internal/transport/http/handlers/notifications"
	peoplehandler "hrhub/internal/transport/http/handlers/people"
	profilehandler "hrhub/internal/transport/http/handlers/profile"
	reviewshandler "hrhub/internal/transport/http/handlers/reviews"
	summarieshandler "hrhub/internal/transport/http/handlers/summaries"
	"hrhub/internal/transport/http/middleware"
	"hrhub/internal/transport/http/shared"
)

type App struct {
	Config   config.Config
	Router   http.Handler
	Sessions *session.Manager
	Jobs     *jobs.Service
	Metrics  *metrics.Collector

	notifications *notifications.Service
	readiness     map[string]func(context.Context) error
	closers       []func()
}

// New wires the portal: backend client, query cache, session store, services and routes.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	app := &App{
		Config:    cfg,
		Metrics:   metrics.New(),
		Jobs:      jobs.New(),
		readiness: map[string]func(context.Context) error{},
	}

	client, err := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithRetries(cfg.QueryRetries),
		apiclient.WithMetrics(app.Metrics),
	)
	if err != nil {
		return nil, err
	}

	cache, err := app.openCache(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	queries := querycache.NewStore(cache, cfg.CacheTTL, app.Metrics)

	persister, err := app.openPersister(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Sessions = session.NewManager(persister, cfg.SessionTTL, session.WithMetrics(app.Metrics))

	peopleSvc := people.NewService(people.NewStore(client), queries)
	departmentSvc := departments.NewService(departments.NewStore(client), queries)
	reviewSvc := reviews.NewService(reviews.NewStore(client), queries, time.Now)
	nominationSvc := nominations.NewService(nominations.NewStore(client), queries)
	summarySvc := summaries.NewService(summaries.NewStore(client), queries)
	profileSvc := profile.NewService(profile.NewStore(client))
	app.notifications = notifications.New(notifications.NewStore(client))
	accountSvc := account.NewService(client, app.notifications, cfg.SessionTTL, time.Now)
	dashboardSvc := &dashboard.Service{
		People:      peopleSvc,
		Departments: departmentSvc,
		Reviews:     reviewSvc,
		Nominations: nominationSvc,
		Summaries:   summarySvc,
	}

	cookies := shared.Cookies{Secure: cfg.IsProduction(), TTL: cfg.SessionTTL}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(app.Metrics))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", app.handleReady)
	router.Get("/metrics", app.handleMetrics)

	router.Route("/portal", func(r chi.Router) {
		r.Use(middleware.Sessions(app.Sessions, accountSvc, cookies))

		accounthandler.NewHandler(accountSvc, app.Sessions, cookies, middleware.SignInLimit(cfg.SignInRatePerMinute, cfg.TrustedProxies)).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			dashboardhandler.NewHandler(dashboardSvc).RegisterRoutes(r)
			peoplehandler.NewHandler(peopleSvc).RegisterRoutes(r)
			departmentshandler.NewHandler(departmentSvc).RegisterRoutes(r)
			reviewshandler.NewHandler(reviewSvc).RegisterRoutes(r)
			nominationshandler.NewHandler(nominationSvc).RegisterRoutes(r)
			summarieshandler.NewHandler(summarySvc).RegisterRoutes(r)
			profilehandler.NewHandler(profileSvc).RegisterRoutes(r)
			notificationshandler.NewHandler(app.notifications).RegisterRoutes(r)
		})
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})
	app.Router = router

	if err := app.schedule(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) openCache(ctx context.Context) (querycache.Cache, error) {
	if a.Config.CacheBackend != config.CacheBackendRedis {
		return querycache.NewMemory(), nil
	}
	rc := querycache.NewRedis(a.Config.RedisAddr, a.Config.RedisPassword, a.Config.RedisDB)
	if err := rc.Ping(ctx); err != nil {
		slog.Warn("redis unreachable at startup; cache reads will miss until it recovers", "addr", a.Config.RedisAddr, "err", err)
	}
	a.readiness["redis"] = rc.Ping
	a.closers = append(a.closers, func() { _ = rc.Close() })
	return rc, nil
}

func (a *App) openPersister(ctx context.Context) (session.Persister, error) {
	sealer, err := crypto.New(a.Config.SessionSealKey)
	if err != nil {
		return nil, err
	}
	switch a.Config.SessionBackend {
	case config.SessionBackendFile:
		return session.NewFilePersister(a.Config.SessionDir, sealer)
	case config.SessionBackendPostgres:
		pool, err := db.Connect(ctx, a.Config)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if err := db.Migrate(ctx, pool); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		a.readiness["postgres"] = pool.Ping
		return session.NewPostgresPersister(pool, sealer), nil
	default:
		return session.NewMemoryPersister(), nil
	}
}

func (a *App) schedule() error {
	if err := a.Jobs.Every(jobs.JobSessionSweep, a.Config.SessionSweep, func(ctx context.Context) (any, error) {
		removed, err := a.Sessions.Sweep(ctx)
		return map[string]int{"removed": removed}, err
	}); err != nil {
		return err
	}
	return a.Jobs.Every(jobs.JobNotificationPoll, a.Config.NotificationPoll, func(ctx context.Context) (any, error) {
		toasts := a.notifications.PollAll(ctx, a.Sessions.Authenticated())
		return map[string]int{"toasts": toasts}, nil
	})
}

// Start launches the background jobs; they stop when ctx ends or Close is called.
func (a *App) Start(ctx context.Context) {
	a.Jobs.Start(ctx)
	a.closers = append(a.closers, a.Jobs.Stop)
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	for name, ping := range a.readiness {
		if err := ping(ctx); err != nil {
			slog.Warn("readiness check failed", "dependency", name, "err", err)
			http.Error(w, name+" not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (a *App) handleMetrics(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]any{
		"counters": a.Metrics.Snapshot(),
		"jobs":     a.Jobs.LastRuns(),
	}, middleware.GetRequestID(r.Context()))
}

// Run loads configuration and serves until SIGINT or SIGTERM.
func Run() error {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	app.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HR Hub portal listening", "addr", cfg.Addr, "api", cfg.APIBaseURL, "cache", cfg.CacheBackend, "sessions", cfg.SessionBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func logLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, filepath.Clean("/"+r.URL.Path))
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
