package config

import (
	"os"
	"testing"
)

func clearEnv() {
	os.Unsetenv("PORT")
	os.Unsetenv("DATA_DIR")
	os.Unsetenv("DEFAULT_CITY")
	os.Unsetenv("LOCAL_TZ")
	os.Unsetenv("GCAL_ID")
	os.Unsetenv("GMAIL_QUERY")
	os.Unsetenv("GMAIL_MAX_RESULTS")
	os.Unsetenv("CAL_LOOKAHEAD_HOURS")
	os.Unsetenv("ROUTES_FILE")
	os.Unsetenv("JOURNAL_ENABLED")
	os.Unsetenv("LOG_LEVEL")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8001 {
		t.Errorf("port = %d, want 8001", cfg.Port)
	}
	if cfg.DefaultCity != "Lappeenranta" {
		t.Errorf("city = %q, want Lappeenranta", cfg.DefaultCity)
	}
	if cfg.Timezone != "Europe/Helsinki" {
		t.Errorf("timezone = %q, want Europe/Helsinki", cfg.Timezone)
	}
	if cfg.CalendarID != "primary" {
		t.Errorf("calendar id = %q, want primary", cfg.CalendarID)
	}
	if cfg.GmailQuery != "is:unread in:inbox newer_than:2d" {
		t.Errorf("gmail query = %q", cfg.GmailQuery)
	}
	if cfg.GmailMaxResults != 25 {
		t.Errorf("gmail max = %d, want 25", cfg.GmailMaxResults)
	}
	if !cfg.JournalEnabled {
		t.Error("journal should default to enabled")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv()
	os.Setenv("PORT", "9001")
	os.Setenv("DEFAULT_CITY", "Helsinki")
	os.Setenv("GMAIL_MAX_RESULTS", "5")
	os.Setenv("JOURNAL_ENABLED", "false")
	defer clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 9001 {
		t.Errorf("port = %d, want 9001", cfg.Port)
	}
	if cfg.DefaultCity != "Helsinki" {
		t.Errorf("city = %q, want Helsinki", cfg.DefaultCity)
	}
	if cfg.GmailMaxResults != 5 {
		t.Errorf("gmail max = %d, want 5", cfg.GmailMaxResults)
	}
	if cfg.JournalEnabled {
		t.Error("journal should be disabled")
	}
}

func TestLoad_BadPort(t *testing.T) {
	clearEnv()
	os.Setenv("PORT", "not-a-port")
	defer clearEnv()

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric PORT")
	}
}
