package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the EnOcean-to-MQTT
// bridge. All configuration is loaded from YAML and can be overridden by
// environment variables.
type Config struct {
	Transport  TransportConfig  `yaml:"transport"`
	EEP        EEPConfig        `yaml:"eep"`
	Device     DeviceConfig     `yaml:"device"`
	Mapping    MappingConfig    `yaml:"mapping"`
	StateCache StateCacheConfig `yaml:"state_cache"`
	Database   DatabaseConfig   `yaml:"database"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	InfluxDB   InfluxDBConfig   `yaml:"influxdb"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// TransportConfig contains the EnOcean USB/TCP gateway connection settings.
type TransportConfig struct {
	// Port is a serial device path (e.g. "/dev/ttyUSB0") or, prefixed with
	// "tcp:", a host:port for a network-attached EnOcean gateway
	// (e.g. "tcp:192.168.1.50:9637").
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// EEPConfig locates the EnOcean Equipment Profile definitions used to
// decode telegrams.
type EEPConfig struct {
	// LibraryPath is an optional path to an EEP.xml profile library, read
	// when CustomDir holds no readable EEP.xml. When neither file can be
	// read, a minimal built-in catalog of profile IDs without field
	// definitions is used.
	LibraryPath string `yaml:"library_path"`

	// CustomDir is the EEP configuration directory: an EEP.xml placed here
	// takes precedence over LibraryPath, and user-defined YAML profile
	// overrides in its custom_eep subdirectory are layered on top of the
	// loaded profiles.
	CustomDir string `yaml:"custom_dir"`
}

// DeviceConfig locates the learned-device registry.
type DeviceConfig struct {
	StoreDir string `yaml:"store_dir"`
}

// MappingConfig locates the EEP-to-Home-Assistant-entity mapping store.
type MappingConfig struct {
	StoreDir string `yaml:"store_dir"`
}

// StateCacheConfig controls whether last-known device states are persisted
// to disk and republished as retained state on startup.
type StateCacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// DatabaseConfig contains SQLite database settings for the telegram log.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`

	// Prefix is the gateway's own state/command topic root (default
	// "enocean"). DiscoveryPrefix is Home Assistant's MQTT discovery root
	// (default "homeassistant").
	Prefix          string `yaml:"prefix"`
	DiscoveryPrefix string `yaml:"discovery_prefix"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// String redacts the password so credentials never land in logs.
func (a MQTTAuthConfig) String() string {
	pw := ""
	if a.Password != "" {
		pw = "***"
	}
	return fmt.Sprintf("MQTTAuthConfig{Username:%q Password:%q}", a.Username, pw)
}

// MarshalJSON redacts the password so credentials never land in API
// responses or debug dumps.
func (a MQTTAuthConfig) MarshalJSON() ([]byte, error) {
	pw := ""
	if a.Password != "" {
		pw = "***"
	}
	return fmt.Appendf(nil, `{"username":%q,"password":%q}`, a.Username, pw), nil
}

// MQTTReconnectConfig contains MQTT reconnection settings. InitialDelay and
// MaxDelay are in milliseconds, bounding the client's exponential backoff
// (defaults 200ms -> 10s, capped).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay_ms"`
	MaxDelay     int `yaml:"max_delay_ms"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings for the optional
// telegram-metrics writer.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string            `yaml:"level"`
	Format string            `yaml:"format"`
	Output string            `yaml:"output"`
	File   FileLoggingConfig `yaml:"file"`
}

// FileLoggingConfig contains file-based logging settings.
type FileLoggingConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// Load reads configuration from a YAML file and applies environment
// variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Two environment variable conventions are honoured, applied in this
// order:
//  1. The plain, add-on-flavoured names
//     (MQTT_HOST, MQTT_PORT, MQTT_USER, MQTT_PASSWORD, MQTT_PREFIX,
//     MQTT_DISCOVERY_PREFIX, MQTT_CLIENT_ID, ENOCEAN_PORT, LOG_LEVEL,
//     CACHE_DEVICE_STATES), kept for compatibility with existing
//     deployments.
//  2. ENOCEANMQTT_SECTION_KEY, applied afterwards so it always wins a
//     conflict (e.g. ENOCEANMQTT_MQTT_BROKER_HOST, ENOCEANMQTT_DATABASE_PATH).
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyCompatEnvOverrides(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Transport: TransportConfig{
			Port:     "/dev/ttyUSB0",
			BaudRate: 57600,
		},
		EEP: EEPConfig{
			CustomDir: "./data/eep",
		},
		Device: DeviceConfig{
			StoreDir: "./data",
		},
		Mapping: MappingConfig{
			StoreDir: "./data",
		},
		StateCache: StateCacheConfig{
			Enabled: true,
			Dir:     "./data",
		},
		Database: DatabaseConfig{
			Path:        "./data/enoceanmqtt.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "enoceanmqtt",
			},
			QoS:             1,
			Prefix:          "enocean",
			DiscoveryPrefix: "homeassistant",
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 200,
				MaxDelay:     10000,
				MaxAttempts:  0,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyCompatEnvOverrides applies the plain-named environment variables
// documented for add-on deployments, so existing installs migrate without
// rewriting their config file.
func applyCompatEnvOverrides(cfg *Config) {
	if v := os.Getenv("MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("MQTT_PORT"); v != "" {
		if port, err := parsePort(v); err == nil {
			cfg.MQTT.Broker.Port = port
		}
	}
	if v := os.Getenv("MQTT_USER"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
	if v := os.Getenv("MQTT_PREFIX"); v != "" {
		cfg.MQTT.Prefix = v
	}
	if v := os.Getenv("MQTT_DISCOVERY_PREFIX"); v != "" {
		cfg.MQTT.DiscoveryPrefix = v
	}
	if v := os.Getenv("MQTT_CLIENT_ID"); v != "" {
		cfg.MQTT.Broker.ClientID = v
	}
	if v := os.Getenv("ENOCEAN_PORT"); v != "" {
		cfg.Transport.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CACHE_DEVICE_STATES"); v != "" {
		cfg.StateCache.Enabled = strings.EqualFold(v, "true") || v == "1"
	}
}

// applyEnvOverrides applies the ENOCEANMQTT_SECTION_KEY environment
// variable convention, generalising the plain names above. It runs after
// applyCompatEnvOverrides, so it wins any conflict.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ENOCEANMQTT_TRANSPORT_PORT"); v != "" {
		cfg.Transport.Port = v
	}
	if v := os.Getenv("ENOCEANMQTT_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("ENOCEANMQTT_MQTT_BROKER_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("ENOCEANMQTT_MQTT_BROKER_PORT"); v != "" {
		if port, err := parsePort(v); err == nil {
			cfg.MQTT.Broker.Port = port
		}
	}
	if v := os.Getenv("ENOCEANMQTT_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("ENOCEANMQTT_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
	if v := os.Getenv("ENOCEANMQTT_MQTT_PREFIX"); v != "" {
		cfg.MQTT.Prefix = v
	}
	if v := os.Getenv("ENOCEANMQTT_MQTT_DISCOVERY_PREFIX"); v != "" {
		cfg.MQTT.DiscoveryPrefix = v
	}
	if v := os.Getenv("ENOCEANMQTT_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	if v := os.Getenv("ENOCEANMQTT_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func parsePort(s string) (int, error) {
	var port int
	_, err := fmt.Sscanf(s, "%d", &port)
	return port, err
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Transport.Port == "" {
		errs = append(errs, "transport.port is required")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.Prefix == "" {
		errs = append(errs, "mqtt.prefix must not be empty")
	}
	if c.MQTT.DiscoveryPrefix == "" {
		errs = append(errs, "mqtt.discovery_prefix must not be empty")
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb.enabled is true")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when influxdb.enabled is true")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
