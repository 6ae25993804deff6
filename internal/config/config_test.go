package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOCAL_STORE", "SUPABASE_URL", "SUPABASE_ANON_KEY", "DATABASE_URL", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "7521", cfg.Port)
	assert.Equal(t, LocalSQLite, cfg.LocalStore)
	assert.Equal(t, "memories", cfg.SupabaseBucket)
	assert.Equal(t, 4*time.Second, cfg.SpinDuration)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(5<<20), cfg.MaxPhotoBytes)
	assert.Equal(t, "", cfg.RemoteKind())
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("LOCAL_STORE", " Memory ")
	t.Setenv("SPIN_DURATION", "1500ms")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, LocalMemory, cfg.LocalStore)
	assert.Equal(t, 1500*time.Millisecond, cfg.SpinDuration)
	assert.Equal(t, "supabase", cfg.RemoteKind())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown local store", map[string]string{"LOCAL_STORE": "redis"}},
		{"supabase without key", map[string]string{"SUPABASE_URL": "https://x.supabase.co", "SUPABASE_ANON_KEY": ""}},
		{"two remotes", map[string]string{"SUPABASE_URL": "https://x", "SUPABASE_ANON_KEY": "k", "DATABASE_URL": "postgres://x"}},
		{"bad duration", map[string]string{"SPIN_DURATION": "soon"}},
		{"non-positive photo limit", map[string]string{"MAX_PHOTO_BYTES": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"LOCAL_STORE", "SUPABASE_URL", "SUPABASE_ANON_KEY", "DATABASE_URL"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}
