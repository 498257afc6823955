package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rpattn/coreqc/internal/db"
	"github.com/rpattn/coreqc/internal/domain"

	"github.com/spf13/viper"
)

// Config is the resolved run configuration.
type Config struct {
	SettingsPath string
	Split        bool
	Workers      int
	OutputDir    string
	ReportPath   string
	LogLevel     string
	Limits       domain.Limits
	Database     DatabaseConfig
	Server       ServerConfig
}

// DatabaseConfig enables optional persistence of runs.
type DatabaseConfig struct {
	Enabled bool
	db.Config
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		SettingsPath: "QC_Settings.xlsx",
		Workers:      1,
		LogLevel:     "info",
		Limits:       domain.DefaultLimits(),
		Database:     DatabaseConfig{Config: db.DefaultConfig()},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}
}

// New returns a viper instance with defaults, the config file search path
// and COREQC_ environment overrides set up. An explicit file wins over the
// search path.
func New(configFile, configPath string) *viper.Viper {
	def := Default()

	v := viper.New()
	v.SetDefault("settings", def.SettingsPath)
	v.SetDefault("split", def.Split)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("report", def.ReportPath)
	v.SetDefault("log.level", def.LogLevel)
	v.SetDefault("limits.metadata_columns", def.Limits.MetadataColumns)
	v.SetDefault("limits.data_col_cap", def.Limits.DataColumnCap)
	v.SetDefault("limits.data_cols_segment", def.Limits.DataColumnsSegment)
	v.SetDefault("limits.depth_increment", def.Limits.DepthIncrement)
	v.SetDefault("limits.extension", def.Limits.Extension)
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", def.Database.Host)
	v.SetDefault("database.port", def.Database.Port)
	v.SetDefault("database.user", def.Database.User)
	v.SetDefault("database.password", def.Database.Password)
	v.SetDefault("database.dbname", def.Database.DBName)
	v.SetDefault("database.sslmode", def.Database.SSLMode)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.allowed_origins", def.Server.AllowedOrigins)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if configPath != "" {
			v.AddConfigPath(configPath)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("COREQC") // COREQC_DATABASE_HOST, COREQC_WORKERS, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file if there is one and resolves the configuration.
// A missing file is not an error; defaults and the environment still apply.
func Load(v *viper.Viper) (Config, bool, error) {
	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || v.ConfigFileUsed() != "" {
			return Config{}, false, fmt.Errorf("failed to read config: %w", err)
		}
		found = false
	}

	cfg := Config{
		SettingsPath: v.GetString("settings"),
		Split:        v.GetBool("split"),
		Workers:      v.GetInt("workers"),
		OutputDir:    v.GetString("output_dir"),
		ReportPath:   v.GetString("report"),
		LogLevel:     v.GetString("log.level"),
		Limits: domain.Limits{
			MetadataColumns:    v.GetInt("limits.metadata_columns"),
			DataColumnCap:      v.GetInt("limits.data_col_cap"),
			DataColumnsSegment: v.GetInt("limits.data_cols_segment"),
			DepthIncrement:     v.GetFloat64("limits.depth_increment"),
			Extension:          v.GetString("limits.extension"),
		},
		Database: DatabaseConfig{
			Enabled: v.GetBool("database.enabled"),
			Config: db.Config{
				Host:     v.GetString("database.host"),
				Port:     v.GetInt("database.port"),
				User:     v.GetString("database.user"),
				Password: v.GetString("database.password"),
				DBName:   v.GetString("database.dbname"),
				SSLMode:  v.GetString("database.sslmode"),
			},
		},
		Server: ServerConfig{
			Addr:           v.GetString("server.addr"),
			AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, found, err
	}
	return cfg, found, nil
}

// Validate rejects limits the pipeline cannot work with.
func (c Config) Validate() error {
	switch {
	case c.Limits.MetadataColumns <= 0:
		return fmt.Errorf("limits.metadata_columns must be positive")
	case c.Limits.DataColumnsSegment <= 0:
		return fmt.Errorf("limits.data_cols_segment must be positive")
	case c.Limits.DepthIncrement <= 0:
		return fmt.Errorf("limits.depth_increment must be positive")
	case c.Limits.Extension == "":
		return fmt.Errorf("limits.extension must be set")
	case c.Workers <= 0:
		return fmt.Errorf("workers must be positive")
	}
	return nil
}
