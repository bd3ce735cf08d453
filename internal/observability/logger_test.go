package observability

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}

	for in, want := range cases {
		got := parseLevel(in)
		if got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestAttrErrNil(t *testing.T) {
	attr := AttrErr(nil)
	if attr.Value.String() != "" {
		t.Fatalf("AttrErr(nil) value = %q, want empty", attr.Value.String())
	}
}
