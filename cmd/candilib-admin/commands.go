package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/juju/clock"
	"github.com/olekukonko/tablewriter"
	"github.com/twmb/franz-go/pkg/kgo"

	"candilib/internal/aurige"
	bookingservice "candilib/internal/booking/service"
	archivestore "candilib/internal/booking/store/archive"
	candidatestore "candilib/internal/booking/store/candidate"
	slotstore "candilib/internal/booking/store/slot"
	"candilib/internal/calendar"
	"candilib/internal/eligibility"
	"candilib/internal/notification"
	"candilib/internal/platform/config"
	"candilib/internal/platform/database"
	"candilib/internal/platform/kafka"
	"candilib/internal/platform/redis"
	id "candilib/pkg/domain"
	"candilib/pkg/platform/audit"
	auditpostgres "candilib/pkg/platform/audit/store/postgres"
)

const flushTimeout = 5 * time.Second

type env struct {
	cfg           config.Server
	logger        *slog.Logger
	location      *time.Location
	db            *sql.DB
	redis         *redis.Client
	kafka         *kgo.Client
	auditLog      *auditpostgres.Store
	audit         *audit.Flusher
	notifications *notification.Dispatcher
	booking       *bookingservice.Service
}

func open(ctx context.Context, cfg config.Server, logger *slog.Logger) (*env, error) {
	loc, err := cfg.Calendar.Location()
	if err != nil {
		return nil, err
	}
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}
	cl, err := kafka.NewClient(ctx, cfg.Kafka)
	if err != nil {
		db.Close()
		if rdb != nil {
			rdb.Close()
		}
		return nil, err
	}
	e := &env{cfg: cfg, logger: logger, location: loc, db: db, redis: rdb, kafka: cl, auditLog: auditpostgres.New(db)}
	e.audit = audit.NewFlusher(e.auditLog, audit.WithLogger(logger))
	e.notifications = notification.NewDispatcher(notificationSink(ctx, cfg.Kafka, cl, logger),
		notification.WithCapacity(cfg.Notification.QueueCapacity),
		notification.WithLogger(logger))

	cal := calendar.New(clock.WallClock,
		calendar.WithLocation(loc),
		calendar.WithVisibility(cfg.Calendar.VisibilityLeadDays, cfg.Calendar.VisibilityHour))
	policy := eligibility.Policy{
		TheoryValidityYears: cfg.Booking.TheoryValidityYears,
		RetryDelayDays:      cfg.Booking.RetryDelayDays,
		MaxFailures:         cfg.Booking.MaxFailures,
	}
	e.booking = bookingservice.New(
		slotstore.NewPostgres(db), candidatestore.NewPostgres(db), archivestore.NewPostgres(db),
		cal, eligibility.NewEvaluator(policy),
		bookingservice.WithLogger(logger),
		bookingservice.WithAuditor(e.audit),
		bookingservice.WithNotifier(e.notifications),
		bookingservice.WithStoreTx(bookingservice.NewPostgresTx(db, cfg.Booking.TxTimeout)))
	return e, nil
}

// notificationSink publishes to Kafka when brokers are configured. The topic
// is owned by the server, so the CLI does not create it.
func notificationSink(ctx context.Context, cfg config.KafkaConfig, cl *kgo.Client, logger *slog.Logger) notification.Sink {
	if cl == nil {
		logger.WarnContext(ctx, "no kafka broker configured, booking notifications are only logged")
		return notification.NewLogSink(logger)
	}
	return notification.NewKafkaSink(cl, cfg.Topic)
}

// close writes out buffered notifications and audit entries before releasing
// connections.
func (e *env) close(ctx context.Context) {
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
	defer cancel()
	if err := e.notifications.Flush(fctx); err != nil {
		e.logger.Error("flushing notifications", "error", err)
	}
	if err := e.audit.Flush(fctx); err != nil {
		e.logger.Error("flushing audit entries", "error", err)
	}
	if e.kafka != nil {
		e.kafka.Close()
	}
	if e.redis != nil {
		e.redis.Close()
	}
	e.db.Close()
}

func (e *env) migrate(ctx context.Context) error {
	if err := database.Migrate(ctx, e.db); err != nil {
		return err
	}
	color.Green("schema is up to date")
	return nil
}

func (e *env) importAurige(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	records, err := aurige.Decode(f)
	if err != nil {
		return err
	}

	opts := []aurige.Option{aurige.WithLocation(e.location), aurige.WithLogger(e.logger)}
	if e.redis != nil {
		opts = append(opts, aurige.WithCache(aurige.NewRedisVerdictCache(e.redis.Client, e.cfg.Redis.AurigeCacheTTL)))
	}
	report, err := aurige.NewSyncer(e.booking, opts...).Apply(ctx, records)
	if err != nil {
		return err
	}

	color.Cyan("\n=== Aurige import: %s ===", path)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Total", "Updated", "Cancelled", "Unchanged", "Unknown", "Failed"})
	table.Append([]string{
		strconv.Itoa(report.Total), strconv.Itoa(report.Updated), strconv.Itoa(report.Cancelled),
		strconv.Itoa(report.Unchanged), strconv.Itoa(report.Unknown), strconv.Itoa(report.Failed),
	})
	table.Render()

	if len(report.Failures) > 0 {
		color.Yellow("\nRejected records:")
		failures := tablewriter.NewWriter(os.Stdout)
		failures.SetHeader([]string{"NEPH", "Error"})
		for _, f := range report.Failures {
			failures.Append([]string{f.CodeNEPH, f.Error})
		}
		failures.Render()
	}
	return nil
}

func (e *env) resetFailures(ctx context.Context, raw, actor string) error {
	candidateID, err := id.ParseCandidateID(raw)
	if err != nil {
		return err
	}
	c, err := e.booking.ResetFailures(ctx, candidateID, actor)
	if err != nil {
		return err
	}
	color.Green("failure history cleared for %s (%s)", c.BirthName, c.CodeNEPH)
	return nil
}

func (e *env) stats(ctx context.Context, rawFrom, rawTo string) error {
	from, err := time.ParseInLocation(time.DateOnly, rawFrom, e.location)
	if err != nil {
		return fmt.Errorf("invalid -from: %w", err)
	}
	to, err := time.ParseInLocation(time.DateOnly, rawTo, e.location)
	if err != nil {
		return fmt.Errorf("invalid -to: %w", err)
	}

	reasons, err := e.booking.ArchiveStats(ctx, from, to)
	if err != nil {
		return err
	}
	color.Cyan("\n=== Archived bookings %s to %s ===", rawFrom, rawTo)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Reason", "Count"})
	for _, r := range reasons {
		table.Append([]string{string(r.Reason), strconv.Itoa(r.Count)})
	}
	table.Render()

	outcomes, err := e.booking.OutcomeStats(ctx, from, to)
	if err != nil {
		return err
	}
	color.Cyan("\n=== Exam outcomes per centre ===")
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Centre", "Outcome", "Count"})
	for _, o := range outcomes {
		table.Append([]string{o.CentreID.String(), string(o.Reason), strconv.Itoa(o.Count)})
	}
	table.Render()
	return nil
}

func (e *env) recentAudit(ctx context.Context, limit int) error {
	entries, err := e.auditLog.ListRecent(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		color.Yellow("no audit entries")
		return nil
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Time", "Actor", "Action", "Subject", "Detail"})
	for _, en := range entries {
		table.Append([]string{
			en.Timestamp.In(e.location).Format(time.DateTime),
			en.Actor, string(en.Action), en.Subject, en.Detail,
		})
	}
	table.Render()
	return nil
}
