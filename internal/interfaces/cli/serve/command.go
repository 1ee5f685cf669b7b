// Package serve implements the serve command: the long-running process that
// hosts the local API, the hub websocket server on POS devices, and the
// outbound hub connection on satellite devices.
package serve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	deviceApp "github.com/slatepos/slate/internal/application/device"
	kitchenApp "github.com/slatepos/slate/internal/application/kitchen"
	posApp "github.com/slatepos/slate/internal/application/pos"
	queueApp "github.com/slatepos/slate/internal/application/queue"
	syncApp "github.com/slatepos/slate/internal/application/sync"
	workdayApp "github.com/slatepos/slate/internal/application/workday"
	deviceDomain "github.com/slatepos/slate/internal/domain/device"
	"github.com/slatepos/slate/internal/infrastructure/config"
	"github.com/slatepos/slate/internal/infrastructure/connectivity"
	"github.com/slatepos/slate/internal/infrastructure/database"
	"github.com/slatepos/slate/internal/infrastructure/migration"
	"github.com/slatepos/slate/internal/infrastructure/remote"
	"github.com/slatepos/slate/internal/infrastructure/repository"
	"github.com/slatepos/slate/internal/infrastructure/services"
	httpRouter "github.com/slatepos/slate/internal/interfaces/http"
	"github.com/slatepos/slate/internal/interfaces/http/handlers"
	hubHandlers "github.com/slatepos/slate/internal/interfaces/http/handlers/hub"
	"github.com/slatepos/slate/internal/shared/bus"
	apperrors "github.com/slatepos/slate/internal/shared/errors"
	"github.com/slatepos/slate/internal/shared/logger"
)

var configPath string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the device process",
		Long:  `Start the local API server, the hub websocket endpoint, and the sync loops for this device.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the config directory")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	log.Infow("starting slate", "database", cfg.Database.Path)

	gin.DefaultWriter = io.Discard

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	db := database.Get()
	if err := migration.Run(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	ticketRepo := repository.NewTicketRepository(db)
	workdayRepo := repository.NewWorkdayRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	kdsRepo := repository.NewKDSTicketRepository(db)
	queueRepo := repository.NewQueueTokenRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	appStateRepo := repository.NewAppStateRepository(db)

	eventBus := bus.NewInProcessBus(log)
	checker := connectivity.NewChecker(cfg.Backend, log)
	backendClient := remote.NewClient(cfg.Backend, log)

	syncSvc := syncApp.NewService(ticketRepo, workdayRepo, catalogRepo, appStateRepo, backendClient, checker, log)
	deviceSvc := deviceApp.NewService(deviceRepo, appStateRepo, ticketRepo, workdayRepo, kdsRepo, queueRepo, catalogRepo, eventBus, log)
	workdaySvc := workdayApp.NewService(workdayRepo, ticketRepo, log)

	deviceHub := services.NewDeviceHub(log.Named("hub"))

	startCtx, cancelStart := context.WithTimeout(context.Background(), 5*time.Second)
	deviceID, deviceName, deviceRole := currentIdentity(startCtx, deviceRepo)
	cancelStart()

	posSvc := posApp.NewService(ticketRepo, syncSvc, deviceHub, deviceID, log)
	deviceHub.RegisterMessageHandler(posApp.NewHubHandler(posSvc, ticketRepo, deviceHub, log))

	link := newSatelliteLink(log)
	kitchenSvc := kitchenApp.NewService(kdsRepo, link, deviceID, log)
	queueSvc := queueApp.NewService(queueRepo, link, deviceID, log)

	router := httpRouter.NewRouter(httpRouter.Deps{
		Device:  handlers.NewDeviceHandler(deviceSvc, syncSvc, deviceHub, log),
		Order:   handlers.NewOrderHandler(posSvc, log),
		Sync:    handlers.NewSyncHandler(syncSvc, log),
		Workday: handlers.NewWorkdayHandler(workdaySvc, log),
		KDS:     handlers.NewKDSHandler(kitchenSvc, log),
		Queue:   handlers.NewQueueHandler(queueSvc, log),
		HubWS:   hubHandlers.NewHandler(deviceHub, cfg.Hub, log.Named("hubws")),
		Logger:  log,
	})

	runtime := newRoleRuntime(cfg.Transport, cfg.Hub, link, kitchenSvc, queueSvc, log)
	runtime.Apply(deviceID, deviceName, deviceRole)
	defer runtime.Stop()

	unsubscribe := eventBus.Subscribe(bus.TopicRoleChanged, func(event any) {
		change, ok := event.(bus.RoleChangedEvent)
		if !ok {
			return
		}
		runtime.Apply(change.DeviceID, deviceName, change.NewRole)
	})
	defer unsubscribe()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

// currentIdentity loads the registered device profile, tolerating the
// pre-registration state where no profile row exists yet.
func currentIdentity(ctx context.Context, repo deviceDomain.Repository) (id, name, role string) {
	profile, err := repo.Get(ctx)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			logger.Warn("failed to load device profile", "error", err)
		}
		return "", "", ""
	}
	return profile.ID(), profile.Name(), profile.Role().String()
}
