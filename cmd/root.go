package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tc-migrate/internal/dialect"
	"tc-migrate/internal/store"
)

var (
	DB         *sql.DB
	SchemaName string // passed to the schema preflight
	DriverName string
	cfgFile    string
	verbose    bool
	logger     = zap.NewNop()
)

var RootCmd = &cobra.Command{
	Use:   "tc-migrate",
	Short: "Migrate legacy test-case text into the normalized test_cases table",
	Long: `
tc-migrate reads problems whose test cases are stored in the legacy
"(v1, v2, ...), (v1, v2, ...)" encoding, parses each tuple into typed
inputs and an expected output, and writes one row per tuple to the
normalized test-case table, tagged with a provenance marker.

Runs are not idempotent: use "clean" before re-running.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		level, err := zapcore.ParseLevel(viper.GetString("log.level"))
		if err != nil {
			return fmt.Errorf("invalid log.level: %w", err)
		}
		if verbose {
			level = zapcore.DebugLevel
		}
		config.Level = zap.NewAtomicLevelAt(level)

		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
		if DB != nil {
			DB.Close()
		}
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./tc-migrate.yaml)")
	RootCmd.PersistentFlags().String("url", "", "Backend connection endpoint (DSN or URL)")
	RootCmd.PersistentFlags().String("driver", "", "Backend driver: postgres, mysql, sqlserver, oracle, sqlite")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	viper.BindPFlag("backend.url", RootCmd.PersistentFlags().Lookup("url"))
	viper.BindPFlag("backend.driver", RootCmd.PersistentFlags().Lookup("driver"))

	setDefaults(viper.GetViper())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("tc-migrate")
		viper.SetConfigType("yaml")
	}

	bindEnv(viper.GetViper())

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// connect opens the active backend and sets the DB globals. A missing
// endpoint or credential is fatal for every command that needs the backend.
func connect() (dialect.Dialect, error) {
	config, err := GetActiveBackend(viper.GetViper())
	if err != nil {
		return nil, err
	}

	d := dialect.GetDialect(config.Driver)
	connStr, err := d.ConnString(config.URL, config.ServiceKey)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.DriverName(), connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	DB = db
	DriverName = d.DriverName()
	if DriverName == "mysql" {
		if err := DB.QueryRow("SELECT DATABASE()").Scan(&SchemaName); err != nil {
			return nil, fmt.Errorf("failed to get database name: %w", err)
		}
		if SchemaName == "" {
			return nil, fmt.Errorf("no database selected in DSN")
		}
	} else {
		SchemaName = d.GetSchemaName("")
	}

	logger.Info("Connected to backend",
		zap.String("name", config.Name),
		zap.String("driver", DriverName),
		zap.String("schema", SchemaName))
	return d, nil
}

// openStore connects and builds the SQL store from the migration settings.
func openStore(settings MigrationSettings) (*store.SQLStore, error) {
	d, err := connect()
	if err != nil {
		return nil, err
	}
	return store.New(DB, d, store.Options{
		SourceTable: settings.SourceTable,
		TargetTable: settings.TargetTable,
		Limit:       settings.Limit,
	}), nil
}
