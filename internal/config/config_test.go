package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s, err := DefaultSettings()
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.Equal(t, 20, s.PerPage)
	assert.Equal(t, "Public", s.DefaultAccess)
	assert.Equal(t, []string{"new", "contacted", "converted", "rejected"}, s.LeadStatus)
	assert.True(t, s.IsLeadSource("web"))
	assert.False(t, s.IsLeadSource("carrier_pigeon"))
	assert.Equal(t, "prospecting", s.OpportunityStage[0])
	assert.NotEmpty(t, s.RulesFor("lead"))
}

func TestLoadSettings_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	require.NoError(t, os.WriteFile(path, []byte("per_page: 5\nlead_status: [new, hot]\n"), 0o600))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 5, s.PerPage)
	assert.Equal(t, []string{"new", "hot"}, s.LeadStatus)
	assert.Equal(t, "Public", s.DefaultAccess, "untouched keys keep their defaults")
}

func TestLoadSettings_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	require.NoError(t, os.WriteFile(path, []byte("default_access: Campaign\n"), 0o600))

	_, err := LoadSettings(path)
	assert.Error(t, err)

	_, err = LoadSettings(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", DriverMySQL)
	t.Setenv("TIDB_DATABASE", "crm_test")
	t.Setenv("TOKEN_TTL_HOURS", "2")
	t.Setenv("SETTINGS_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "crm_test", cfg.Database.Name)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "@hourly", cfg.SessionCleanupSchedule)
	require.NotNil(t, cfg.Settings)
}
