package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medreport-analyzer/internal/domain"
)

func TestNewManager_Defaults(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)

	cfg := manager.GetConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "./data/analyses.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.False(t, cfg.Translator.Enabled)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 100000, cfg.Analysis.MaxTextLength)
	assert.Equal(t, "male", cfg.Analysis.DefaultGender)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestManager_Validate(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, manager.Validate())
}

func TestManager_Validate_Failures(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(cfg *domain.Config)
	}{
		{
			name:   "Bad port",
			mutate: func(cfg *domain.Config) { cfg.Server.Port = 0 },
		},
		{
			name:   "Unknown storage driver",
			mutate: func(cfg *domain.Config) { cfg.Storage.Driver = "mongodb" },
		},
		{
			name:   "Sqlite without path",
			mutate: func(cfg *domain.Config) { cfg.Storage.SQLitePath = "" },
		},
		{
			name: "Postgres without host",
			mutate: func(cfg *domain.Config) {
				cfg.Storage.Driver = "postgres"
				cfg.Database.Host = ""
			},
		},
		{
			name: "Translator enabled without base URL",
			mutate: func(cfg *domain.Config) {
				cfg.Translator.Enabled = true
				cfg.Translator.BaseURL = ""
			},
		},
		{
			name:   "Bad default gender",
			mutate: func(cfg *domain.Config) { cfg.Analysis.DefaultGender = "robot" },
		},
		{
			name:   "Bad log level",
			mutate: func(cfg *domain.Config) { cfg.Logging.Level = "verbose" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, manager.Reload())
			tt.mutate(manager.GetConfig())
			assert.Error(t, manager.Validate())
		})
	}
}

func TestManager_Accessors(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)

	assert.Same(t, &manager.GetConfig().Server, manager.GetServerConfig())
	assert.Same(t, &manager.GetConfig().Storage, manager.GetStorageConfig())
	assert.Same(t, &manager.GetConfig().Database, manager.GetDatabaseConfig())
}
