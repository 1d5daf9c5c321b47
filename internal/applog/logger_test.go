package applog

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerSourceLocation(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(*Logger)
	}{
		{"Info", func(l *Logger) { l.Info("test message") }},
		{"Debug", func(l *Logger) { l.Debug("debug message") }},
		{"Warn", func(l *Logger) { l.Warn("warn message") }},
		{"Error", func(l *Logger) { l.Error("error message") }},
		{"Infof", func(l *Logger) { l.Infof("formatted %s", "message") }},
		{"Debugf", func(l *Logger) { l.Debugf("debug %d", 42) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(WithDebug(), WithWriter(&buf), WithQuiet())

			tt.logFunc(logger)

			output := buf.String()
			require.Contains(t, output, "logger_test.go:")
			require.NotContains(t, output, "applog/logger.go")
		})
	}
}

func TestLoggerContextHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithDebug(), WithWriter(&buf), WithQuiet())
	ctx := WithLogger(context.Background(), logger)

	Info(ctx, "context info message")

	output := buf.String()
	require.Contains(t, output, "logger_test.go:")
	require.Contains(t, output, "context info message")
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithFormat("json"), WithWriter(&buf), WithQuiet())
	logger.Info("hello")
	require.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
}

func TestLoggerRespectsDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithWriter(&buf), WithQuiet())
	logger.Debug("should not appear")
	require.Empty(t, buf.String())
}
