package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port             int
	DataDir          string // base directory for runtime data (default: "data")
	DefaultCity      string // fallback city for weather observations
	Timezone         string // IANA zone used for day windows and event times
	CalendarID       string
	CalendarToken    string // token cache for the Calendar scope
	GmailToken       string // token cache for the Gmail scope
	GoogleCreds      string // OAuth client secrets file
	GmailQuery       string
	GmailMaxResults  int
	LookaheadHours   int
	RoutesFile       string // optional TOML override for router triggers
	JournalEnabled   bool
	LogLevel         string
	LogVerbose       bool
	OTELEnabled      bool
	OTELEndpoint     string
	OTELServiceName  string
	OTELEnvironment  string
	OTELInsecure     bool
}

func Load() (*Config, error) {
	port := 8001
	if p := os.Getenv("PORT"); p != "" {
		var err error
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("PORT must be a number: %w", err)
		}
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	city := os.Getenv("DEFAULT_CITY")
	if city == "" {
		city = "Lappeenranta"
	}

	tz := os.Getenv("LOCAL_TZ")
	if tz == "" {
		tz = "Europe/Helsinki"
	}

	calendarID := os.Getenv("GCAL_ID")
	if calendarID == "" {
		calendarID = "primary"
	}

	calToken := os.Getenv("GCAL_TOKEN")
	if calToken == "" {
		calToken = "token_calendar.json"
	}

	gmailToken := os.Getenv("GMAIL_TOKEN")
	if gmailToken == "" {
		gmailToken = "token.json"
	}

	creds := os.Getenv("GOOGLE_CREDENTIALS")
	if creds == "" {
		creds = "credentials.json"
	}

	gmailQuery := os.Getenv("GMAIL_QUERY")
	if gmailQuery == "" {
		gmailQuery = "is:unread in:inbox newer_than:2d"
	}

	gmailMax := 25
	if m := os.Getenv("GMAIL_MAX_RESULTS"); m != "" {
		var err error
		gmailMax, err = strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("GMAIL_MAX_RESULTS must be a number: %w", err)
		}
	}

	lookahead := 24
	if h := os.Getenv("CAL_LOOKAHEAD_HOURS"); h != "" {
		var err error
		lookahead, err = strconv.Atoi(h)
		if err != nil {
			return nil, fmt.Errorf("CAL_LOOKAHEAD_HOURS must be a number: %w", err)
		}
	}

	journalEnabled := true
	if j := os.Getenv("JOURNAL_ENABLED"); j == "0" || j == "false" {
		journalEnabled = false
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logVerbose := os.Getenv("LOG_VERBOSE") == "1" || os.Getenv("LOG_VERBOSE") == "true"

	otelEnabled := os.Getenv("OTEL_ENABLED") == "1" || os.Getenv("OTEL_ENABLED") == "true"
	otelServiceName := os.Getenv("OTEL_SERVICE_NAME")
	if otelServiceName == "" {
		otelServiceName = "daybrief"
	}
	otelEnvironment := os.Getenv("OTEL_ENVIRONMENT")
	if otelEnvironment == "" {
		otelEnvironment = "dev"
	}
	otelInsecure := os.Getenv("OTEL_INSECURE") == "1" || os.Getenv("OTEL_INSECURE") == "true"

	return &Config{
		Port:            port,
		DataDir:         dataDir,
		DefaultCity:     city,
		Timezone:        tz,
		CalendarID:      calendarID,
		CalendarToken:   calToken,
		GmailToken:      gmailToken,
		GoogleCreds:     creds,
		GmailQuery:      gmailQuery,
		GmailMaxResults: gmailMax,
		LookaheadHours:  lookahead,
		RoutesFile:      os.Getenv("ROUTES_FILE"),
		JournalEnabled:  journalEnabled,
		LogLevel:        logLevel,
		LogVerbose:      logVerbose,
		OTELEnabled:     otelEnabled,
		OTELEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTELServiceName: otelServiceName,
		OTELEnvironment: otelEnvironment,
		OTELInsecure:    otelInsecure,
	}, nil
}
