package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/treb-l2/internal/domain/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" info ", slog.LevelInfo},
		{"error", slog.LevelError},
		{"warn", slog.LevelWarn},
		{"", slog.LevelWarn},
		{"verbose", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("env level", func(t *testing.T) {
		t.Setenv(LevelEnvVar, "info")
		log := NewLogger(&config.RuntimeConfig{})
		assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
		assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("debug flag wins", func(t *testing.T) {
		t.Setenv(LevelEnvVar, "error")
		log := NewLogger(&config.RuntimeConfig{Debug: true})
		assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))
	})
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/usecase/deploy_l2_token.go", shortPath("/home/dev/src/treb-l2/internal/usecase/deploy_l2_token.go"))
	assert.Equal(t, "internal/cli/root.go", shortPath("/build/module/internal/cli/root.go"))
	assert.Equal(t, "main.go", shortPath("/build/main.go"))
}
