package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/juju/clock"
	"github.com/twmb/franz-go/pkg/kgo"

	bookinghandler "candilib/internal/booking/handler"
	bookingmetrics "candilib/internal/booking/metrics"
	bookingservice "candilib/internal/booking/service"
	archivestore "candilib/internal/booking/store/archive"
	candidatestore "candilib/internal/booking/store/candidate"
	slotstore "candilib/internal/booking/store/slot"
	"candilib/internal/calendar"
	centrehandler "candilib/internal/centre/handler"
	centreservice "candilib/internal/centre/service"
	centrestore "candilib/internal/centre/store"
	"candilib/internal/eligibility"
	jwttoken "candilib/internal/jwt_token"
	"candilib/internal/notification"
	"candilib/internal/platform/config"
	"candilib/internal/platform/database"
	"candilib/internal/platform/kafka"
	"candilib/internal/platform/metrics"
	"candilib/internal/platform/redis"
	"candilib/pkg/platform/audit"
	auditpostgres "candilib/pkg/platform/audit/store/postgres"
	"candilib/pkg/platform/middleware/request"
	"candilib/pkg/platform/middleware/requesttime"
)

const (
	topicPartitions  = 6
	topicReplication = 1
)

type app struct {
	cfg      config.Server
	logger   *slog.Logger
	clock    clock.Clock
	location *time.Location
	metrics  *metrics.Metrics

	db    *sql.DB
	redis *redis.Client
	kafka *kgo.Client

	notifications *notification.Dispatcher
	audit         *audit.Flusher

	booking *bookingservice.Service
	centres *centreservice.Service
	tokens  *jwttoken.JWTServiceAdapter
}

// build opens the configured backends and assembles the services.
func build(ctx context.Context, cfg config.Server, logger *slog.Logger) (a *app, err error) {
	a = &app{cfg: cfg, logger: logger, clock: clock.WallClock, metrics: metrics.New()}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	if cfg.Backend == config.BackendPostgres {
		if a.db, err = database.Open(ctx, cfg.Database); err != nil {
			return nil, err
		}
		if err = database.Migrate(ctx, a.db); err != nil {
			return nil, err
		}
	}
	if a.redis, err = redis.New(ctx, cfg.Redis); err != nil {
		return nil, err
	}
	if a.kafka, err = kafka.NewClient(ctx, cfg.Kafka); err != nil {
		return nil, err
	}

	a.notifications = notification.NewDispatcher(a.notificationSink(ctx),
		notification.WithCapacity(cfg.Notification.QueueCapacity),
		notification.WithFlushInterval(cfg.Notification.FlushInterval),
		notification.WithLogger(logger))
	a.audit = audit.NewFlusher(a.auditSink(),
		audit.WithCapacity(cfg.Audit.QueueCapacity),
		audit.WithFlushInterval(cfg.Audit.FlushInterval),
		audit.WithLogger(logger))

	if a.location, err = cfg.Calendar.Location(); err != nil {
		return nil, err
	}
	cal := calendar.New(a.clock,
		calendar.WithLocation(a.location),
		calendar.WithVisibility(cfg.Calendar.VisibilityLeadDays, cfg.Calendar.VisibilityHour))

	st := a.openStores()
	a.centres = centreservice.New(st.centres, st.slots, a.clock,
		centreservice.WithLogger(logger),
		centreservice.WithAuditor(a.audit),
		centreservice.WithTx(st.tx))
	policy := eligibility.Policy{
		TheoryValidityYears: cfg.Booking.TheoryValidityYears,
		RetryDelayDays:      cfg.Booking.RetryDelayDays,
		MaxFailures:         cfg.Booking.MaxFailures,
	}
	a.booking = bookingservice.New(st.slots, st.candidates, st.archive, cal, eligibility.NewEvaluator(policy),
		bookingservice.WithLogger(logger),
		bookingservice.WithMetrics(bookingmetrics.New(a.metrics.Registry)),
		bookingservice.WithNotifier(a.notifications),
		bookingservice.WithAuditor(a.audit),
		bookingservice.WithCentreDirectory(a.centres),
		bookingservice.WithStoreTx(st.tx))
	a.tokens = jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer))
	return a, nil
}

// slotBackend is what both the booking and centre services need from slots.
type slotBackend interface {
	bookingservice.SlotStore
	centreservice.SlotCounter
}

type stores struct {
	slots      slotBackend
	candidates bookingservice.CandidateStore
	archive    bookingservice.ArchiveStore
	centres    centrestore.Store
	tx         bookingservice.StoreTx
}

func (a *app) openStores() stores {
	var st stores
	if a.db != nil {
		st = stores{
			slots:      slotstore.NewPostgres(a.db),
			candidates: candidatestore.NewPostgres(a.db),
			archive:    archivestore.NewPostgres(a.db),
			centres:    centrestore.NewPostgres(a.db),
			tx:         bookingservice.NewPostgresTx(a.db, a.cfg.Booking.TxTimeout),
		}
	} else {
		st = stores{
			slots:      slotstore.NewInMemory(),
			candidates: candidatestore.NewInMemory(),
			archive:    archivestore.NewInMemory(),
			centres:    centrestore.NewInMemory(),
			tx:         bookingservice.NewShardedTx(a.cfg.Booking.TxTimeout),
		}
	}
	if a.redis != nil {
		st.centres = centrestore.NewCached(st.centres, a.redis.Client,
			centrestore.WithTTL(a.cfg.Redis.CentreCacheTTL),
			centrestore.WithCacheLogger(a.logger))
	}
	return st
}

func (a *app) notificationSink(ctx context.Context) notification.Sink {
	if a.kafka == nil {
		a.logger.Warn("no kafka broker configured, booking notifications are only logged")
		return notification.NewLogSink(a.logger)
	}
	if err := kafka.EnsureTopic(ctx, a.kafka, a.cfg.Kafka.Topic, topicPartitions, topicReplication); err != nil {
		a.logger.Warn("could not ensure notification topic", "topic", a.cfg.Kafka.Topic, "error", err)
	}
	return notification.NewKafkaSink(a.kafka, a.cfg.Kafka.Topic)
}

func (a *app) auditSink() audit.Sink {
	if a.db == nil {
		return audit.NewLogSink(a.logger)
	}
	return auditpostgres.New(a.db)
}

func (a *app) router() http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(a.logger))
	r.Use(request.Logger(a.logger))
	r.Use(requesttime.Middleware(a.clock))
	r.Use(a.metrics.Instrument)

	r.Get("/health", a.handleHealth)
	r.Handle("/metrics", a.metrics.Handler())

	bookinghandler.New(a.booking, a.tokens, a.logger, bookinghandler.WithLocation(a.location)).Register(r)
	centrehandler.New(a.centres, a.tokens, a.logger).Register(r)
	return r
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if a.db != nil {
		if err := a.db.PingContext(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	if a.redis != nil {
		if err := a.redis.Health(ctx); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

// reportQueues exports background queue depth until ctx is done.
func (a *app) reportQueues(ctx context.Context, every time.Duration) {
	a.metrics.BuildInfo.Set(1)
	defer a.metrics.BuildInfo.Set(0)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		a.metrics.ObserveQueue("notification", a.notifications.Pending(), a.notifications.Dropped())
		a.metrics.ObserveQueue("audit", a.audit.Pending(), a.audit.Dropped())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *app) close() {
	if a.kafka != nil {
		a.kafka.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("closing redis", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("closing database", "error", err)
		}
	}
}
