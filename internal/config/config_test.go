package config

import (
	"os"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test,
// restoring the original directory on cleanup (equivalent to testing.T.Chdir
// from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, 30, cfg.HeatmapRateLimit)
	assert.Equal(t, time.Minute, cfg.HeatmapRateWindow)
	assert.Equal(t, 5, cfg.MaxAnnotationsPerTask)
	assert.Equal(t, "png", cfg.OverlayFormat)
	assert.Equal(t, log.InfoLevel, cfg.Level())
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", ":9090")
	t.Setenv("HEATMAP_RATE_WINDOW", "30s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OVERLAY_FORMAT", "tiff")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.HeatmapRateWindow)
	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.Equal(t, "tiff", cfg.OverlayFormat)
}

func TestLoadRejectsInvalid(t *testing.T) {
	chdir(t, t.TempDir())

	tests := []struct {
		key, value string
	}{
		{"HEATMAP_RATE_LIMIT", "0"},
		{"HEATMAP_RATE_LIMIT", "many"},
		{"MAX_ANNOTATIONS_PER_TASK", "-1"},
		{"LOG_LEVEL", "chatty"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
