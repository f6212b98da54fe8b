package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_Level(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()
			if got := New(&bytes.Buffer{}, tt.level).GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNew_WritesFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, "info")
	log.Debug().Msg("hidden")
	log.Info().Int("nodes", 3).Msg("graph loaded")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "graph loaded") || !strings.Contains(out, "nodes=3") {
		t.Errorf("missing message or field: %q", out)
	}
}
