package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/schooldesk/internal/config"
	"github.com/mrlokans/schooldesk/internal/database"
	"github.com/mrlokans/schooldesk/internal/database/attendance"
	"github.com/mrlokans/schooldesk/internal/database/fees"
	"github.com/mrlokans/schooldesk/internal/database/students"
	http_controllers "github.com/mrlokans/schooldesk/internal/http"
	"github.com/mrlokans/schooldesk/internal/scheduler"
	"github.com/mrlokans/schooldesk/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Background work stops before the listener so in-flight jobs can finish.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting school admin backend v%s", version)

	db, err := database.Open(database.OptionsFromConfig(cfg.Database))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	studentRepo := students.NewRepository(db.DB)
	feeLedger := fees.NewRepository(db.DB)
	attendanceRegister := attendance.NewRepository(db.DB).
		WithRecomputedTotals(cfg.Attendance.RecomputeTotals)
	if cfg.Attendance.RecomputeTotals {
		log.Printf("Attendance totals are recomputed from submitted rosters")
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.DefaultConfig()
		if cfg.Tasks.Workers > 0 {
			taskCfg.Workers = cfg.Tasks.Workers
		}
		if cfg.Tasks.ReleaseAfter > 0 {
			taskCfg.ReleaseAfter = cfg.Tasks.ReleaseAfter
		}
		if cfg.Tasks.CleanupInterval > 0 {
			taskCfg.CleanupInterval = cfg.Tasks.CleanupInterval
		}
		taskCfg.ConnMaxLifetime = cfg.Database.ConnMaxLifetime

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewReconcileFeesQueue(feeLedger))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Periodic fee reconciliation
	var reconcileScheduler *scheduler.FeeReconcileScheduler
	if cfg.FeeReconcile.Enabled {
		reconcileScheduler = scheduler.NewFeeReconcileScheduler(
			cfg.FeeReconcile.Schedule,
			reconcileJob(taskClient, feeLedger),
		)
		if err := reconcileScheduler.Start(context.Background()); err != nil {
			log.Printf("WARNING: fee reconcile scheduler not started: %v", err)
			reconcileScheduler = nil
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Students:       studentRepo,
		Fees:           feeLedger,
		Attendance:     attendanceRegister,
		Database:       db,
		TaskClient:     taskClient,
		StaticPath:     cfg.UI.StaticPath,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if reconcileScheduler != nil {
			reconcileScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

// reconcileJob enqueues reconciliation when the task queue runs, and
// reconciles inline otherwise.
func reconcileJob(client *tasks.Client, reconciler tasks.FeeReconciler) scheduler.Job {
	if client != nil {
		return func(ctx context.Context) error {
			id, err := client.Enqueue(ctx, tasks.ReconcileFeesTask{Trigger: "scheduler"})
			if err != nil {
				return err
			}
			log.Printf("[SCHEDULER] Fee reconcile enqueued as task %s", id)
			return nil
		}
	}
	return func(ctx context.Context) error {
		result, err := reconciler.Reconcile(ctx)
		if err != nil {
			return err
		}
		log.Printf("[SCHEDULER] Fee reconcile: %d students checked, %d corrected", result.Checked, result.Corrected)
		return nil
	}
}
