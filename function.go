// Package m2m exposes the mail proxy as Cloud Functions HTTP endpoints.
package m2m

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/dtroode/m2m-server/internal/api/http/mailproxy"
	"github.com/dtroode/m2m-server/internal/config"
	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/mail"
	"github.com/dtroode/m2m-server/internal/model"
	"github.com/dtroode/m2m-server/internal/repository/memory"
	"github.com/dtroode/m2m-server/internal/repository/postgres"
	storage "github.com/dtroode/m2m-server/internal/storage/minio"
)

func init() {
	functions.HTTP("sendGiftCardRequest", endpoints.handler(func(p *mailproxy.Proxy) http.HandlerFunc { return p.GiftCardRequest }))
	functions.HTTP("sendHolidayRequest", endpoints.handler(func(p *mailproxy.Proxy) http.HandlerFunc { return p.HolidayRequest }))
	functions.HTTP("sendMonthlyReport", endpoints.handler(func(p *mailproxy.Proxy) http.HandlerFunc { return p.MonthlyReport }))
}

const buildTimeout = 30 * time.Second

var endpoints = &lazyProxy{build: build}

// lazyProxy builds the proxy on first use and retries on later requests
// until construction succeeds.
type lazyProxy struct {
	mu    sync.Mutex
	proxy *mailproxy.Proxy
	log   *logger.Logger
	build func(ctx context.Context) (*mailproxy.Proxy, *logger.Logger, error)
}

func (l *lazyProxy) get() (*mailproxy.Proxy, *logger.Logger, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.proxy != nil {
		return l.proxy, l.log, nil
	}

	// Not tied to a request: a cancelled caller must not abort migrations.
	ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
	defer cancel()

	p, lg, err := l.build(ctx)
	if err != nil {
		return nil, nil, err
	}
	l.proxy, l.log = p, lg
	return p, lg, nil
}

func (l *lazyProxy) handler(pick func(*mailproxy.Proxy) http.HandlerFunc) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p, lg, err := l.get()
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(mail.Response{Error: "Failed to send email", Details: err.Error()})
			return
		}

		mailproxy.Chain(pick(p), mailproxy.Logging(lg), mailproxy.SecurityHeaders).ServeHTTP(w, r)
	}
}

func build(ctx context.Context) (*mailproxy.Proxy, *logger.Logger, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, err
	}
	lg := logger.NewWithWriter(os.Stdout, cfg.LogLevel, true).Component("mailproxy")

	location, err := time.LoadLocation(cfg.Checklist.Timezone)
	if err != nil {
		return nil, nil, err
	}

	var outbox model.OutboxStore
	if cfg.Store.Driver == "memory" {
		outbox = memory.NewOutboxRepository()
	} else {
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			lg.Error("failed to initialize storage", "error", err)
			return nil, nil, err
		}
		outbox = postgres.NewOutboxRepository(db)
	}

	objects, err := storage.Open(ctx, storage.Options{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		lg.Error("failed to initialize storage client", "error", err)
		return nil, nil, err
	}

	p := mailproxy.New(mail.NewOutbox(outbox, lg), objects, cfg.Mail.SenderAddress, cfg.Mail.CenterAddress, location, lg)
	return p, lg, nil
}
