package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitReturnsSameInstance(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first := Init(Options{Level: "debug"})
	second := Init(Options{Level: "error"}) // ignored, singleton already built

	if first.GetLevel() != second.GetLevel() {
		t.Fatalf("expected one instance, got levels %v and %v", first.GetLevel(), second.GetLevel())
	}
	if Get().GetLevel() != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %v", Get().GetLevel())
	}
}

func TestServiceFieldStamped(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	log := Init(Options{Level: "info", Service: "cargo-parser", Output: &buf})
	log.Info().Msg("hello")

	if !strings.Contains(buf.String(), `"service":"cargo-parser"`) {
		t.Fatalf("service field missing from output: %s", buf.String())
	}
}

func TestGetBeforeInitPanics(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Get()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
		" INFO ":  zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
