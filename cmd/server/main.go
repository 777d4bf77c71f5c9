package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/database"
	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/identity"
	"github.com/iliyamo/table-reservation/internal/logger"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/reservation"
	"github.com/iliyamo/table-reservation/internal/router"
)

// stores groups the persistence the handlers need, whichever driver
// backs it.
type stores struct {
	tables       handler.TableStore
	catalog      reservation.Catalog
	reservations interface {
		reservation.Store
		handler.ReservationLister
	}
	users identity.UserStore
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("could not read .env")
	}
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, db, err := openStores(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("storage unavailable")
	}
	if db != nil {
		defer db.Close()
	}

	rdb := config.NewRedisClient(ctx, log)
	if rdb != nil {
		defer rdb.Close()
	}

	var events reservation.EventPublisher
	if cfg.AMQPURL != "" {
		pub, err := queue.NewPublisher(cfg.AMQPURL, log)
		if err != nil {
			log.WithError(err).Warn("broker unavailable; reservation events disabled")
		} else {
			defer pub.Close()
			events = pub
			go func() {
				if err := queue.StartReservationConsumer(ctx, cfg.AMQPURL, cfg.AuditLogDir, log); err != nil && !errors.Is(err, context.Canceled) {
					log.WithError(err).Error("reservation consumer stopped")
				}
			}()
		}
	}

	provider := identity.NewLocal(identity.LocalConfig{
		UserPoolID: cfg.UserPoolID,
		ClientID:   cfg.ClientID,
		Secret:     cfg.JWTSecret,
		TokenTTL:   cfg.AccessTTL(),
		BcryptCost: cfg.BcryptCost,
	}, st.users, log)
	admission := reservation.NewController(st.catalog, st.reservations, events, log)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Deps{
		Auth:           handler.NewAuthHandler(provider, cfg.UserPoolID, cfg.ClientID, log),
		Tables:         handler.NewTableHandler(st.tables, log),
		Reservations:   handler.NewReservationHandler(admission, st.reservations, log),
		Log:            log,
		Redis:          rdb,
		RateLimit:      config.LoadRateLimitConfig(),
		Cache:          config.LoadCacheConfig(),
		JWTSecret:      cfg.JWTSecret,
		UserPoolID:     cfg.UserPoolID,
		ClientID:       cfg.ClientID,
		AuthRequired:   cfg.AuthRequired,
		RequestTimeout: cfg.RequestTimeout,
	})

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env, "storage": cfg.StorageDriver}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	admission.Wait()
}

// openStores builds the repositories for the configured driver. The
// returned *sql.DB is nil for the memory driver.
func openStores(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (stores, *sql.DB, error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn("using in-memory storage; data is lost on restart")
		m := repository.NewMemoryStore()
		return stores{tables: m, catalog: m, reservations: m, users: m}, nil, nil
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		return stores{}, nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return stores{}, nil, err
	}
	tables := repository.NewTableRepo(db)
	return stores{
		tables:       tables,
		catalog:      tables,
		reservations: repository.NewReservationRepo(db),
		users:        repository.NewUserRepo(db),
	}, db, nil
}
