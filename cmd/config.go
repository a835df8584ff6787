package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var (
	ErrMissingEndpoint   = errors.New("backend endpoint is required (backend.url / BACKEND_URL)")
	ErrMissingCredential = errors.New("backend service credential is required (backend.service_key / BACKEND_SERVICE_KEY)")
)

// BackendConfig is one database the migrator can talk to.
type BackendConfig struct {
	Name       string `mapstructure:"name"`
	Driver     string `mapstructure:"driver"`
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
	Active     bool   `mapstructure:"active"`
}

// MigrationSettings are the knobs of a migration run.
type MigrationSettings struct {
	SourceTable       string
	TargetTable       string
	SourceTag         string
	DefaultDifficulty string
	Workers           int
	Preflight         bool
	Limit             int
}

// GetActiveBackend returns the backend to use. An active entry of the
// databases list wins; otherwise the backend.* keys are used. Both the
// endpoint and the credential must be present.
func GetActiveBackend(v *viper.Viper) (*BackendConfig, error) {
	var configs []BackendConfig
	if err := v.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var activeConfig *BackendConfig
	count := 0
	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}

	if activeConfig == nil {
		activeConfig = &BackendConfig{
			Name:       "default",
			Driver:     v.GetString("backend.driver"),
			URL:        v.GetString("backend.url"),
			ServiceKey: v.GetString("backend.service_key"),
			Active:     true,
		}
	}
	if activeConfig.Driver == "" {
		activeConfig.Driver = "postgres"
	}
	activeConfig.Driver = strings.ToLower(activeConfig.Driver)

	if strings.TrimSpace(activeConfig.URL) == "" {
		return nil, ErrMissingEndpoint
	}
	if strings.TrimSpace(activeConfig.ServiceKey) == "" {
		return nil, ErrMissingCredential
	}
	return activeConfig, nil
}

func GetMigrationSettings(v *viper.Viper) MigrationSettings {
	return MigrationSettings{
		SourceTable:       v.GetString("migration.source_table"),
		TargetTable:       v.GetString("migration.target_table"),
		SourceTag:         v.GetString("migration.source_tag"),
		DefaultDifficulty: v.GetString("migration.default_difficulty"),
		Workers:           v.GetInt("migration.workers"),
		Preflight:         v.GetBool("migration.preflight"),
		Limit:             v.GetInt("migration.limit"),
	}
}

// setDefaults registers every default on v.
func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.driver", "postgres")
	v.SetDefault("migration.source_table", "problems")
	v.SetDefault("migration.target_table", "test_cases")
	v.SetDefault("migration.source_tag", "migrated_legacy")
	v.SetDefault("migration.default_difficulty", "medium")
	v.SetDefault("migration.workers", 1)
	v.SetDefault("migration.preflight", true)
	v.SetDefault("migration.limit", 0)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.path", "/migrate-test-cases")
	v.SetDefault("log.level", "info")
}

// bindEnv maps the conventional environment names onto config keys.
func bindEnv(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("backend.url", "BACKEND_URL", "DATABASE_URL")
	v.BindEnv("backend.service_key", "BACKEND_SERVICE_KEY", "SERVICE_ROLE_KEY")
	v.BindEnv("backend.driver", "BACKEND_DRIVER")
}
