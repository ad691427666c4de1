package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	grpcctx "github.com/dtroode/m2m-server/internal/api/grpc/context"
	"github.com/dtroode/m2m-server/internal/api/grpc/handler"
	"github.com/dtroode/m2m-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/m2m-server/internal/api/grpc/server"
	"github.com/dtroode/m2m-server/internal/api/http/mailproxy"
	"github.com/dtroode/m2m-server/internal/calculator"
	"github.com/dtroode/m2m-server/internal/calendar"
	"github.com/dtroode/m2m-server/internal/checklist"
	"github.com/dtroode/m2m-server/internal/config"
	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/mail"
	"github.com/dtroode/m2m-server/internal/model"
	"github.com/dtroode/m2m-server/internal/recordstore"
	"github.com/dtroode/m2m-server/internal/repository/memory"
	"github.com/dtroode/m2m-server/internal/repository/postgres"
	"github.com/dtroode/m2m-server/internal/server"
	"github.com/dtroode/m2m-server/internal/service"
	storage "github.com/dtroode/m2m-server/internal/storage/minio"
	"github.com/dtroode/m2m-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.NewWithWriter(os.Stdout, cfg.LogLevel, cfg.LogJSON)

	location, err := time.LoadLocation(cfg.Checklist.Timezone)
	if err != nil {
		logger.Fatal("failed to load timezone", "timezone", cfg.Checklist.Timezone, "error", err)
	}

	accessCode, err := service.NewAccessCode(cfg.Auth.AccessCode, cfg.Auth.AccessCodeHash)
	if err != nil {
		logger.Fatal("failed to configure access code", "error", err)
	}

	records, outbox, closeDB := openStores(ctx, cfg, logger)
	defer closeDB()

	objects, err := storage.Open(ctx, storage.Options{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	store := recordstore.New(records, logger.Component("recordstore"), recordstore.WithLegacyAccessCode(accessCode.Match))
	mailClient := mail.NewClient(cfg.Mail.ProxyURL, cfg.Mail.Timeout, logger.Component("mail"))

	tokenManager := token.NewJWT(cfg.JWT.Secret)
	tokenService := service.NewTokenService(tokenManager, store, store, logger)
	profileService := service.NewProfile(store, objects, logger)
	authService := service.NewAuth(accessCode, store, store, profileService, tokenService, logger)
	ledgerService := service.NewLedger(store, store, mailClient, logger)
	requestService := service.NewRequests(store, store, mailClient, location, logger)

	bank := calculator.BankAccount{AccountHolder: cfg.Bank.AccountHolder, IBAN: cfg.Bank.IBAN}
	workflow := calculator.NewWorkflow(ledgerService, store, bank, logger, calculator.WithLocation(location))
	view := calendar.NewView(store, calendar.WithLocation(location))

	positions := checklist.NewLastKnown(cfg.Checklist.PositionMaxAge)
	gateOpts := []checklist.Option{checklist.WithLocation(location)}
	if cfg.Checklist.GeofenceEnabled {
		fence := checklist.Geofence{Shops: checklist.DefaultShops, RadiusMeters: cfg.Checklist.GeofenceRadiusM}
		gateOpts = append(gateOpts, checklist.WithGeofence(positions, fence, cfg.Checklist.GeoTimeout))
	}
	gate := checklist.NewGate(store, logger, gateOpts...)

	store.OnReset(gate.Reset)
	store.OnReset(workflow.Cancel)

	ctxMgr := grpcctx.NewManager()
	r := router.New(router.Handlers{
		Auth:      handler.NewAuth(authService, logger),
		Profile:   handler.NewProfile(profileService, authService, logger),
		Ledger:    handler.NewLedger(ledgerService, workflow, view, requestService, logger),
		Checklist: handler.NewChecklist(gate, positions, logger),
	}, tokenService, ctxMgr, logger)

	proxy := mailproxy.New(mail.NewOutbox(outbox, logger), objects, cfg.Mail.SenderAddress, cfg.Mail.CenterAddress, location, logger.Component("mailproxy"))

	servers := []model.Server{
		grpcServer.NewGRPCServer(r.Register(), fmt.Sprintf(":%s", cfg.GRPC.Port)),
		mailproxy.NewHTTPServer(proxy.Handler(), fmt.Sprintf(":%s", cfg.HTTP.Port), cfg.HTTP.ReadTimeout),
	}
	sl := server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s)
	}

	poller := checklist.NewPoller(gate, cfg.Checklist.PollInterval, logger, func(snap checklist.Snapshot) {
		logger.Info("Checklist due", "type", snap.Type, "title", snap.Title)
	})
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(ctx)
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// openStores returns the device record backend and the mail outbox for the
// configured driver, plus a function releasing them.
func openStores(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.KeyValue, model.OutboxStore, func()) {
	if cfg.Store.Driver == "memory" {
		logger.Warn("using in-memory store, data is lost on restart")
		return memory.NewDeviceRecordRepository(), memory.NewOutboxRepository(), func() {}
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}

	return postgres.NewDeviceRecordRepository(db, cfg.Store.DeviceID),
		postgres.NewOutboxRepository(db),
		func() { _ = db.Close() }
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
