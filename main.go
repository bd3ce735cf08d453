package main

import (
	"context"
	"log"
	"path/filepath"

	"github.com/joho/godotenv"

	"daybrief/internal/agent"
	"daybrief/internal/config"
	"daybrief/internal/journal"
	"daybrief/internal/observability"
	"daybrief/internal/server"
	calendartool "daybrief/internal/tools/calendar"
	mailtool "daybrief/internal/tools/mail"
	taskstool "daybrief/internal/tools/tasks"
	weathertool "daybrief/internal/tools/weather"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	observability.Init(observability.LogConfig{Level: cfg.LogLevel, Verbose: cfg.LogVerbose})

	ctx := context.Background()
	shutdownOTel, err := observability.InitOTel(ctx, observability.OTelConfig{
		Enabled:     cfg.OTELEnabled,
		Endpoint:    cfg.OTELEndpoint,
		ServiceName: cfg.OTELServiceName,
		Environment: cfg.OTELEnvironment,
		Insecure:    cfg.OTELInsecure,
	})
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	defer shutdownOTel(ctx)

	rules := agent.DefaultRules()
	if cfg.RoutesFile != "" {
		rules, err = agent.LoadRules(cfg.RoutesFile)
		if err != nil {
			log.Fatalf("routes: %v", err)
		}
	}

	tasks, err := taskstool.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("tasks tool: %v", err)
	}

	router := agent.NewRouter(rules, "tasks")
	router.Register(tasks)
	router.Register(weathertool.New(weathertool.NewFMIClient(""), cfg.DefaultCity))
	router.Register(mailtool.New(mailtool.Config{
		CredsPath:  cfg.GoogleCreds,
		TokenPath:  cfg.GmailToken,
		Query:      cfg.GmailQuery,
		MaxResults: cfg.GmailMaxResults,
	}))
	router.Register(calendartool.New(calendartool.Config{
		CredsPath:      cfg.GoogleCreds,
		TokenPath:      cfg.CalendarToken,
		CalendarID:     cfg.CalendarID,
		Timezone:       cfg.Timezone,
		LookaheadHours: cfg.LookaheadHours,
	}))

	var store *journal.Store
	if cfg.JournalEnabled {
		store, err = journal.NewStore(filepath.Join(cfg.DataDir, "journal"))
		if err != nil {
			log.Fatalf("journal: %v", err)
		}
	}

	srv := server.New(cfg, router, store)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server: %v", err)
	}
}
