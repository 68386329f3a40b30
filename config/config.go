package config

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Notice modes for the empty-name notification on the landing page.
const (
	NoticeAlert  = "alert"
	NoticeInline = "inline"
)

var (
	ErrInvalidNoticeMode = errors.New("invalid notice mode")
	ErrInvalidElement    = errors.New("invalid widget element name")
)

// Custom element names must be lowercase and contain a hyphen.
var elementPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)+$`)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Pages    PagesConfig    `mapstructure:"pages"`
	Widget   WidgetConfig   `mapstructure:"widget"`
	Presence PresenceConfig `mapstructure:"presence"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	HTTPAddress     string        `mapstructure:"http_address"`
	RPCAddress      string        `mapstructure:"rpc_address"`
	StaticDir       string        `mapstructure:"static_dir"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type PagesConfig struct {
	Title            string `mapstructure:"title"`
	NoticeMode       string `mapstructure:"notice_mode"`
	EmptyNameMessage string `mapstructure:"empty_name_message"`
}

// WidgetConfig points at the voice agent bundle mounted on the game page.
type WidgetConfig struct {
	ScriptURL string `mapstructure:"script_url"`
	Element   string `mapstructure:"element"`
}

type PresenceConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ReapInterval      time.Duration `mapstructure:"reap_interval"`
}

// DatabaseConfig selects the visit store. Driver is "sqlite", "postgres" or "none".
type DatabaseConfig struct {
	Driver   string         `mapstructure:"driver"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// DSN renders the libpq keyword/value connection string. Every value is
// single quoted so empty values and values with spaces keep their keyword.
func (p PostgresConfig) DSN() string {
	pairs := [][2]string{
		{"host", p.Host},
		{"port", strconv.Itoa(p.Port)},
		{"user", p.User},
		{"password", p.Password},
		{"dbname", p.DBName},
		{"sslmode", p.SSLMode},
	}
	parts := make([]string, 0, len(pairs))
	for _, kv := range pairs {
		parts = append(parts, kv[0]+"='"+dsnEscaper.Replace(kv[1])+"'")
	}
	return strings.Join(parts, " ")
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_address", ":8080")
	v.SetDefault("server.rpc_address", "")
	v.SetDefault("server.static_dir", "./web/static")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("pages.title", "Improv Battle")
	v.SetDefault("pages.notice_mode", NoticeAlert)
	v.SetDefault("pages.empty_name_message", "Please enter your name!")

	v.SetDefault("widget.script_url", "/static/voice-agent.js")
	v.SetDefault("widget.element", "voice-agent")

	v.SetDefault("presence.enabled", true)
	v.SetDefault("presence.heartbeat_interval", 15*time.Second)
	v.SetDefault("presence.idle_timeout", 45*time.Second)
	v.SetDefault("presence.reap_interval", 10*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.sqlite.path", "./data/improv-battle.db")
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.dbname", "improv_battle")
	v.SetDefault("database.postgres.sslmode", "disable")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// LoadConfig reads config.yaml from path when present. Every key may be
// overridden by an IMPROV_ prefixed environment variable, e.g.
// IMPROV_SERVER_HTTP_ADDRESS.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("IMPROV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file or env overrides exist.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults alone always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func (c *Config) Validate() error {
	switch c.Pages.NoticeMode {
	case NoticeAlert, NoticeInline:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidNoticeMode, c.Pages.NoticeMode)
	}
	if !elementPattern.MatchString(c.Widget.Element) {
		return fmt.Errorf("%w: %q", ErrInvalidElement, c.Widget.Element)
	}
	if c.Presence.Enabled && c.Presence.ReapInterval <= 0 {
		return fmt.Errorf("presence reap_interval must be positive, got %s", c.Presence.ReapInterval)
	}
	if c.Presence.Enabled && c.Presence.IdleTimeout <= c.Presence.HeartbeatInterval {
		return fmt.Errorf("presence idle_timeout (%s) must exceed heartbeat_interval (%s)",
			c.Presence.IdleTimeout, c.Presence.HeartbeatInterval)
	}
	return nil
}
