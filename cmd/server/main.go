// Command server runs the gavel case management API. main wires stores,
// services, and handlers together; business logic lives in the internal
// packages.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"gavel/internal/audit"
	courthandler "gavel/internal/court/handler"
	courtservice "gavel/internal/court/service"
	casestore "gavel/internal/court/store/cases"
	evidencestore "gavel/internal/court/store/evidence"
	hearingstore "gavel/internal/court/store/hearings"
	casereportstore "gavel/internal/court/store/reports"
	"gavel/internal/dashboard"
	identityhandler "gavel/internal/identity/handler"
	identity "gavel/internal/identity/models"
	identityservice "gavel/internal/identity/service"
	"gavel/internal/identity/store/revocation"
	userstore "gavel/internal/identity/store/user"
	"gavel/internal/notification"
	"gavel/internal/platform/config"
	"gavel/internal/platform/httpserver"
	"gavel/internal/platform/logger"
	platformmetrics "gavel/internal/platform/metrics"
	"gavel/internal/platform/middleware"
	"gavel/internal/platform/postgres"
	platformredis "gavel/internal/platform/redis"
	prisonhandler "gavel/internal/prison/handler"
	prisonservice "gavel/internal/prison/service"
	inmatereportstore "gavel/internal/prison/store/inmatereports"
	inmatestore "gavel/internal/prison/store/inmates"
	programstore "gavel/internal/prison/store/programs"
	visitorstore "gavel/internal/prison/store/visitors"
	"gavel/internal/token"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/httputil"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, cleanup, err := buildStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	tokens := token.NewService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience)

	var trl identityservice.RevocationStore = revocation.NewInMemoryTRL()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		trl = revocation.NewRedisTRL(redisClient.Client)
		log.Info("token revocation list backed by redis")
	}

	publisher := audit.NewPublisher(cfg.AuditBufferSize, log)
	worker := audit.NewWorker(st.audit, publisher.Inbox(), log)

	notifier := notification.NewService(st.notifications, log)

	identitySvc := identityservice.New(st.users, trl, tokens, publisher, cfg.JWT.AccessTokenTTL, log)
	courtSvc := courtservice.New(st.cases, st.evidence, st.hearings, st.caseReports, st.users, notifier, publisher, log)
	prisonSvc := prisonservice.New(st.inmates, st.inmateReports, st.visitors, st.programs, st.users, notifier, publisher, log)
	dashSvc := dashboard.New(st.cases, st.hearings, st.evidence, st.inmates, st.inmateReports, st.programs, st.visitors, cfg.ReleaseAlertWindowDays, log)

	httpMetrics := platformmetrics.NewHTTP()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Metadata)
	r.Use(middleware.Tracing)
	r.Use(middleware.Metrics(httpMetrics))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	identityHandler := identityhandler.New(identitySvc, log)
	r.Group(identityHandler.RegisterPublic)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens, trl, tokens, log))
		identityHandler.RegisterProtected(r)
		courthandler.New(courtSvc, log).Register(r)
		notification.NewHandler(notifier, log).Register(r)
		dashboard.NewHandler(dashSvc).Register(r)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(log, string(identity.RolePrisonOfficer)))
			prisonhandler.New(prisonSvc, log).Register(r)
		})
	})

	srv := httpserver.New(cfg.Addr, r)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := worker.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		log.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// evidenceStore extends the court contract with the unreviewed count the
// judge dashboard needs.
type evidenceStore interface {
	courtservice.EvidenceStore
	CountUnreviewed(ctx context.Context, caseIDs []id.CaseID) (int, error)
}

// stores bundles every persistence dependency behind the interfaces the
// services consume, so memory and PostgreSQL backends wire identically.
type stores struct {
	users         identityservice.UserStore
	cases         courtservice.CaseStore
	evidence      evidenceStore
	hearings      courtservice.HearingStore
	caseReports   courtservice.ReportStore
	inmates       prisonservice.InmateStore
	inmateReports prisonservice.ReportStore
	visitors      prisonservice.VisitorStore
	programs      prisonservice.ProgramStore
	notifications notification.Store
	audit         audit.Store
}

// buildStores selects PostgreSQL stores when a database URL is configured
// and in-memory stores otherwise, and layers Kafka onto the audit store when
// brokers are set. The returned cleanup releases whatever was opened.
func buildStores(ctx context.Context, cfg config.Config, log *slog.Logger) (*stores, func(), error) {
	var st stores
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, pool.Close)
		log.Info("stores backed by postgres")

		st.users = userstore.NewPostgres(pool)
		st.cases = casestore.NewPostgres(pool)
		st.evidence = evidencestore.NewPostgres(pool)
		st.hearings = hearingstore.NewPostgres(pool)
		st.caseReports = casereportstore.NewPostgres(pool)
		st.inmates = inmatestore.NewPostgres(pool)
		st.inmateReports = inmatereportstore.NewPostgres(pool)
		st.visitors = visitorstore.NewPostgres(pool)
		st.programs = programstore.NewPostgres(pool)
		st.notifications = notification.NewPostgresStore(pool)
		st.audit = audit.NewPostgresStore(pool)
	} else {
		log.Info("stores backed by memory; set GAVEL_DATABASE_URL for persistence")

		st.users = userstore.NewInMemory()
		st.cases = casestore.NewInMemory()
		st.evidence = evidencestore.NewInMemory()
		st.hearings = hearingstore.NewInMemory()
		st.caseReports = casereportstore.NewInMemory()
		st.inmates = inmatestore.NewInMemory()
		st.inmateReports = inmatereportstore.NewInMemory()
		st.visitors = visitorstore.NewInMemory()
		st.programs = programstore.NewInMemory()
		st.notifications = notification.NewInMemoryStore()
		st.audit = audit.NewInMemoryStore()
	}

	if len(cfg.KafkaBrokers) > 0 {
		kafkaStore, err := audit.NewKafkaStore(ctx, cfg.KafkaBrokers, cfg.AuditTopic, st.audit, log)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := kafkaStore.Close(closeCtx); err != nil {
				log.Error("failed to close kafka audit store", "error", err)
			}
		})
		st.audit = kafkaStore
		log.Info("audit events published to kafka", "topic", cfg.AuditTopic)
	}

	return &st, cleanup, nil
}
