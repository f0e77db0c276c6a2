package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Source   SourceConfig   `mapstructure:"source"`
	Database DatabaseConfig `mapstructure:"database"`
	Output   OutputConfig   `mapstructure:"output"`
	Log      LogConfig      `mapstructure:"log"`
}

type AnalysisConfig struct {
	RootName            string        `mapstructure:"root_name"`
	Senders             []string      `mapstructure:"senders"`
	InitiationThreshold time.Duration `mapstructure:"initiation_threshold"`
	BurstThreshold      int           `mapstructure:"burst_threshold"`
	Patterns            []string      `mapstructure:"patterns"`
	TopWords            int           `mapstructure:"top_words"`
	WordLengthThreshold int           `mapstructure:"word_length_threshold"`
}

type SourceConfig struct {
	Type           string `mapstructure:"type"`
	Path           string `mapstructure:"path"`
	ConversationID string `mapstructure:"conversation_id"`
	Timezone       string `mapstructure:"timezone"`
	DateOrder      string `mapstructure:"date_order"`
	Import         bool   `mapstructure:"import"`
}

type DatabaseConfig struct {
	URL        string `mapstructure:"url"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	DBName     string `mapstructure:"dbname"`
	SSLMode    string `mapstructure:"sslmode"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
	SourceMemory   = "memory"
)

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return DatabaseConfig{}, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	sslMode := u.Query().Get("sslmode")
	if sslMode == "" {
		sslMode = "disable"
	}

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   strings.TrimPrefix(u.Path, "/"),
		SSLMode:  sslMode,
	}, nil
}

func setDefaults(v *viper.Viper) {
	// every key needs a default so AutomaticEnv values reach Unmarshal
	v.SetDefault("analysis.root_name", "")
	v.SetDefault("analysis.initiation_threshold", "8h")
	v.SetDefault("analysis.burst_threshold", 3)
	v.SetDefault("analysis.top_words", 10)
	v.SetDefault("analysis.word_length_threshold", 3)
	v.SetDefault("analysis.patterns", []string{})
	v.SetDefault("analysis.senders", []string{})
	v.SetDefault("source.type", SourceFile)
	v.SetDefault("source.path", "")
	v.SetDefault("source.conversation_id", "")
	v.SetDefault("source.import", false)
	v.SetDefault("source.timezone", "UTC")
	v.SetDefault("source.date_order", "dmy")
	v.SetDefault("database.url", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "chatstats")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.sqlite_path", "data/chatstats.db")
	v.SetDefault("output.format", "text")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// LoadConfig reads the config file at path (skipped when empty), applies defaults,
// CHATSTATS_* environment variables and any flags bound in flags.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Enable environment variable support: analysis.root_name -> CHATSTATS_ANALYSIS_ROOT_NAME
	v.SetEnvPrefix("chatstats")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database_url", "DATABASE_URL"); err != nil {
		return nil, err
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// DATABASE_URL (or database.url) overrides the individual connection settings
	dbURL := v.GetString("database_url")
	if dbURL == "" {
		dbURL = config.Database.URL
	}
	if dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		dbConfig.SQLitePath = config.Database.SQLitePath
		config.Database = dbConfig
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// flagKeys maps command line flag names to config keys
var flagKeys = map[string]string{
	"source":       "source.type",
	"path":         "source.path",
	"conversation": "source.conversation_id",
	"import":       "source.import",
	"root":         "analysis.root_name",
	"pattern":      "analysis.patterns",
	"format":       "output.format",
	"log-level":    "log.level",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	a := c.Analysis
	if a.InitiationThreshold < 0 {
		return fmt.Errorf("analysis.initiation_threshold must not be negative")
	}
	if a.BurstThreshold < 0 {
		return fmt.Errorf("analysis.burst_threshold must not be negative")
	}
	if a.TopWords < 0 {
		return fmt.Errorf("analysis.top_words must not be negative")
	}
	if a.WordLengthThreshold < 0 {
		return fmt.Errorf("analysis.word_length_threshold must not be negative")
	}

	switch c.Source.Type {
	case SourceFile, SourceMemory:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for %s sources", c.Source.Type)
		}
	case SourcePostgres, SourceSQLite:
		if c.Source.Import && c.Source.Path == "" {
			return fmt.Errorf("source.path is required to import an export")
		}
		if !c.Source.Import && c.Source.ConversationID == "" {
			return fmt.Errorf("source.conversation_id is required for %s sources unless importing", c.Source.Type)
		}
	default:
		return fmt.Errorf("unknown source.type %q", c.Source.Type)
	}
	if c.Source.DateOrder != "dmy" && c.Source.DateOrder != "mdy" {
		return fmt.Errorf("unknown source.date_order %q", c.Source.DateOrder)
	}
	if _, err := time.LoadLocation(c.Source.Timezone); err != nil {
		return fmt.Errorf("invalid source.timezone: %w", err)
	}

	if c.Output.Format != "text" && c.Output.Format != "json" {
		return fmt.Errorf("unknown output.format %q", c.Output.Format)
	}
	return nil
}

// Location returns the time zone exports are interpreted in
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Source.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
