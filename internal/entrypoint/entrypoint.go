package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/bookreviews/internal/config"
	"github.com/mrlokans/bookreviews/internal/database"
	"github.com/mrlokans/bookreviews/internal/database/catalog"
	http_controllers "github.com/mrlokans/bookreviews/internal/http"
	"github.com/mrlokans/bookreviews/internal/logger"
	"github.com/mrlokans/bookreviews/internal/notify"
	"github.com/mrlokans/bookreviews/internal/scheduler"
	"github.com/mrlokans/bookreviews/internal/tasks"
)

// dispatcher is a Notifier whose in-flight sends can be drained on shutdown.
type dispatcher interface {
	notify.Notifier
	Wait(ctx context.Context) error
}

// App holds the wired service.
type App struct {
	cfg *config.Config
	log *logger.Logger

	db         *database.Database
	repo       *catalog.Repository
	taskClient *tasks.Client
	taskCancel context.CancelFunc
	notifier   dispatcher
	stats      *scheduler.StatsReporter
	router     *gin.Engine
}

// Build opens the database and wires the store, notifier and router.
// Nothing is started until Run.
func Build(cfg *config.Config, version string, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	app := &App{cfg: cfg, log: log}

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db
	app.repo = catalog.NewRepository(db.DB)
	log.Info("database ready", "driver", db.Driver)

	mailer := notify.NewLogMailer(log)
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			TaskTimeout:     cfg.Tasks.TaskTimeout,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}
		app.taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg, log)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize task queue: %w", err)
		}
		app.taskClient.Register(tasks.NewReviewConfirmationQueue(mailer, taskCfg.TaskTimeout))
		app.notifier = notify.NewQueueNotifier(app.taskClient, log)
	} else {
		log.Info("task queue disabled, confirmations are sent in-process")
		app.notifier = notify.NewAsyncNotifier(mailer, cfg.Tasks.TaskTimeout, log)
	}

	app.stats = scheduler.NewStatsReporter(app.repo, cfg.StatsReport, log)

	if strings.EqualFold(cfg.Log.Mode, "production") {
		gin.SetMode(gin.ReleaseMode)
	}
	app.router = http_controllers.NewRouter(http_controllers.RouterConfig{
		Store:       app.repo,
		Notifier:    app.notifier,
		Health:      db,
		Logger:      log,
		CORSOrigins: cfg.CORS.AllowedOrigins,
		Version:     version,
	})

	return app, nil
}

// Router exposes the HTTP handler.
func (a *App) Router() http.Handler {
	return a.router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if a.taskClient != nil {
		var taskCtx context.Context
		taskCtx, a.taskCancel = context.WithCancel(context.Background())
		go a.taskClient.Start(taskCtx)
	}
	if err := a.stats.Start(ctx); err != nil {
		a.Close(context.Background())
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.HTTP.Host, a.cfg.HTTP.Port),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := time.Duration(a.cfg.Global.ShutdownTimeoutInSeconds) * time.Second
		a.log.Info("shutting down server", "timeout", timeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		a.Close(shutdownCtx)
		return nil
	})

	err := g.Wait()
	a.log.Info("server exiting")
	return err
}

// Close drains pending confirmations and releases every resource.
func (a *App) Close(ctx context.Context) {
	if a.stats != nil {
		a.stats.Stop()
	}
	if a.notifier != nil {
		if err := a.notifier.Wait(ctx); err != nil {
			a.log.Warn("pending review confirmations dropped", "error", err)
		}
	}
	if a.taskClient != nil {
		a.taskClient.Stop(ctx)
		if a.taskCancel != nil {
			a.taskCancel()
		}
		if err := a.taskClient.Close(); err != nil {
			a.log.Error("error closing task client", "error", err)
		}
		a.taskClient = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Error("error closing database", "error", err)
		}
		a.db = nil
	}
}

// Run starts the service and blocks until SIGINT or SIGTERM.
func Run(cfg *config.Config, version string) error {
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting book reviews", "version", version)

	app, err := Build(cfg, version, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx)
}
