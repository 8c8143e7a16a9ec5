package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apptriage "github.com/bryanwahyu/automaton-triage/internal/application/triage"
	"github.com/bryanwahyu/automaton-triage/internal/config"
	aiclient "github.com/bryanwahyu/automaton-triage/internal/infra/ai/openai"
	githubcode "github.com/bryanwahyu/automaton-triage/internal/infra/code/github"
	mysqlp "github.com/bryanwahyu/automaton-triage/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/automaton-triage/internal/infra/db/postgres"
	"github.com/bryanwahyu/automaton-triage/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/automaton-triage/internal/infra/storage"
	jiraclient "github.com/bryanwahyu/automaton-triage/internal/infra/tickets/jira"
	"github.com/bryanwahyu/automaton-triage/internal/logging"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation error: %v", err)
	}

	// init logging + Sentry forwarding
	if err := logging.Init(logging.Config{
		Level:       cfg.Logging.Level,
		SentryDSN:   cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Version:     config.Version,
	}); err != nil {
		log.Fatalf("logging init error: %v", err)
	}
	defer logging.Flush(2 * time.Second)

	logging.Info("configuration loaded",
		"jira_url", cfg.Jira.BaseURL,
		"jira_token", logging.MaskSensitive(cfg.Jira.APIToken),
		"openai_key", logging.MaskSensitive(cfg.AI.APIKey),
		"github_token", logging.MaskSensitive(cfg.GitHub.Token),
		"model", cfg.AI.Model,
	)

	ctx := context.Background()

	// init service with required adapters
	svc := &apptriage.Service{
		AI:    aiclient.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AITimeout()),
		Clock: apptriage.SystemClock{},
	}

	jc, err := jiraclient.NewClient(cfg.Jira.BaseURL, cfg.Jira.Email, cfg.Jira.APIToken, cfg.JiraTimeout())
	if err != nil {
		log.Fatalf("jira client error: %v", err)
	}
	svc.Tickets = jc

	// optional persistence, driver decides the backend
	var db *sql.DB
	switch cfg.Database.Driver {
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		svc.Records = mysqlp.NewRecordRepository(db)
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		svc.Records = postgresp.NewRecordRepository(db)
	case "":
		logging.Info("database disabled, analysis records will not be kept")
	default:
		log.Fatalf("unknown database driver: %s", cfg.Database.Driver)
	}
	if db != nil {
		defer db.Close()
	}

	// optional object store for raw reports
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		svc.Archive = store
	}

	// optional code context from GitHub
	if cfg.GitHub.Owner != "" && cfg.GitHub.Repo != "" {
		svc.Code = githubcode.NewClient(
			cfg.GitHub.Token,
			cfg.GitHub.Owner,
			cfg.GitHub.Repo,
			cfg.GitHub.Branch,
			cfg.GitHubTimeout(),
		)
	}

	// init router
	handler := httpserver.NewRouter(svc, cfg, db)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // AI calls are slow
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logging.Info("server listening", "addr", addr, "service", config.ServiceName)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logging.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logging.Error("shutdown error", "error", err)
	}
}
