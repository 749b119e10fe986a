// Package config handles loading and validating the deskpilot configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root configuration for the deskpilot daemon.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Transports TransportsConfig `mapstructure:"transports"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Devices    DevicesConfig    `mapstructure:"devices"`
	Session    SessionConfig    `mapstructure:"session"`
	TTS        TTSConfig        `mapstructure:"tts"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds the health check server settings.
type ServerConfig struct {
	HealthPort int `mapstructure:"health_port"`
}

// TransportsConfig holds the configuration for each transport layer.
type TransportsConfig struct {
	GRPC GRPCConfig `mapstructure:"grpc"`
	HTTP HTTPConfig `mapstructure:"http"`
	MQTT MQTTConfig `mapstructure:"mqtt"`
}

// GRPCConfig configures the gRPC transport.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// HTTPConfig configures the HTTP transport serving the browser frontend.
type HTTPConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MQTTConfig configures the MQTT transport.
type MQTTConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Broker   string `mapstructure:"broker"`
	Topic    string `mapstructure:"topic"` // base topic; commands arrive on <topic>/command
	ClientID string `mapstructure:"client_id"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ClassifierConfig selects and configures the LLM that normalizes commands.
type ClassifierConfig struct {
	Backend string       `mapstructure:"backend"` // "gemini", "openai", "local" or "static"
	Gemini  GeminiConfig `mapstructure:"gemini"`
	OpenAI  OpenAIConfig `mapstructure:"openai"`
	Local   LocalConfig  `mapstructure:"local"`
}

// GeminiConfig holds Google Gemini API settings.
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"` // optional API endpoint override
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"` // optional, for OpenAI-compatible gateways
	Model   string `mapstructure:"model"`
}

// LocalConfig holds self-hosted LLM settings.
type LocalConfig struct {
	Endpoint string `mapstructure:"endpoint"` // Ollama /api/generate or OpenAI-compatible /v1/chat/completions
	Model    string `mapstructure:"model"`    // e.g. "llama3.2:1b"
}

// DevicesConfig selects the volume and brightness backends.
type DevicesConfig struct {
	Volume     VolumeConfig     `mapstructure:"volume"`
	Brightness BrightnessConfig `mapstructure:"brightness"`
}

// VolumeConfig configures the volume provider.
type VolumeConfig struct {
	Backend      string `mapstructure:"backend"`       // "auto", "amixer", "osascript", "endpoint"
	AmixerDevice string `mapstructure:"amixer_device"` // -D argument, e.g. "pulse"
	AmixerMixer  string `mapstructure:"amixer_mixer"`  // simple mixer control, e.g. "Master"
}

// BrightnessConfig configures the brightness provider.
type BrightnessConfig struct {
	Backend    string `mapstructure:"backend"`    // "auto", "sysfs", "xbacklight", "display", "wmi"
	SysfsRoot  string `mapstructure:"sysfs_root"` // backlight class directory
	PowerShell string `mapstructure:"powershell"` // primary shell for the WMI backend
}

// SessionConfig controls the process-wide working directory.
type SessionConfig struct {
	// StartDir is the initial working directory; empty means the process cwd.
	StartDir string `mapstructure:"start_dir"`

	// ChdirProcess mirrors NAVIGATE into the process working directory.
	ChdirProcess bool `mapstructure:"chdir_process"`
}

// TTSConfig selects and configures the text-to-speech backend.
type TTSConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	Backend string      `mapstructure:"backend"` // "piper"
	Piper   PiperConfig `mapstructure:"piper"`
}

// PiperConfig holds Piper TTS settings (Wyoming protocol).
type PiperConfig struct {
	Endpoint string `mapstructure:"endpoint"` // host:port
	Voice    string `mapstructure:"voice"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Error reports an invalid configuration value.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Message
}

// Load reads the configuration from a .env file, config file, environment
// variables, and defaults. If configFile is non-empty it is used directly;
// otherwise the standard search order applies: ./deskpilot.yaml,
// ./configs/deskpilot.yaml, /etc/deskpilot/deskpilot.yaml.
func Load(configFile string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("deskpilot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/deskpilot")
	}

	// Environment variables: DESKPILOT_CLASSIFIER_BACKEND, DESKPILOT_TRANSPORTS_HTTP_PORT, etc.
	v.SetEnvPrefix("DESKPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.Classifier.Gemini.APIKey = resolveEnvRef(cfg.Classifier.Gemini.APIKey)
	cfg.Classifier.OpenAI.APIKey = resolveEnvRef(cfg.Classifier.OpenAI.APIKey)
	cfg.Transports.MQTT.Password = resolveEnvRef(cfg.Transports.MQTT.Password)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("transports.http.enabled", true)
	v.SetDefault("transports.http.port", 5000)
	v.SetDefault("transports.http.allowed_origins", []string{"*"})
	v.SetDefault("transports.grpc.enabled", false)
	v.SetDefault("transports.grpc.port", 50051)
	v.SetDefault("transports.mqtt.enabled", false)
	v.SetDefault("transports.mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("transports.mqtt.topic", "deskpilot")
	v.SetDefault("transports.mqtt.client_id", "deskpilot")
	v.SetDefault("classifier.backend", "gemini")
	v.SetDefault("classifier.gemini.api_key", "${GEMINI_API_KEY}")
	v.SetDefault("classifier.gemini.model", "gemini-1.5-pro-latest")
	v.SetDefault("classifier.openai.api_key", "${OPENAI_API_KEY}")
	v.SetDefault("classifier.openai.model", "gpt-4o-mini")
	v.SetDefault("classifier.local.endpoint", "http://localhost:11434/api/generate")
	v.SetDefault("classifier.local.model", "llama3")
	v.SetDefault("devices.volume.backend", "auto")
	v.SetDefault("devices.volume.amixer_device", "pulse")
	v.SetDefault("devices.volume.amixer_mixer", "Master")
	v.SetDefault("devices.brightness.backend", "auto")
	v.SetDefault("devices.brightness.sysfs_root", "/sys/class/backlight")
	v.SetDefault("devices.brightness.powershell", "powershell")
	v.SetDefault("session.start_dir", "")
	v.SetDefault("session.chdir_process", true)
	v.SetDefault("tts.enabled", false)
	v.SetDefault("tts.backend", "piper")
	v.SetDefault("tts.piper.endpoint", "localhost:10200")
	v.SetDefault("tts.piper.voice", "en_US-lessac-medium")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks cross-field constraints that defaults cannot express.
func (c *Config) Validate() error {
	switch c.Classifier.Backend {
	case "gemini":
		if c.Classifier.Gemini.APIKey == "" || strings.HasPrefix(c.Classifier.Gemini.APIKey, "${") {
			return &Error{Field: "classifier.gemini.api_key", Message: "Gemini API key is required"}
		}
	case "openai":
		if c.Classifier.OpenAI.APIKey == "" || strings.HasPrefix(c.Classifier.OpenAI.APIKey, "${") {
			return &Error{Field: "classifier.openai.api_key", Message: "OpenAI API key is required"}
		}
	case "local":
		if c.Classifier.Local.Endpoint == "" {
			return &Error{Field: "classifier.local.endpoint", Message: "endpoint is required"}
		}
	case "static":
	default:
		return &Error{Field: "classifier.backend", Message: fmt.Sprintf("unknown backend %q", c.Classifier.Backend)}
	}

	if !c.Transports.HTTP.Enabled && !c.Transports.GRPC.Enabled && !c.Transports.MQTT.Enabled {
		return &Error{Field: "transports", Message: "enable at least one transport"}
	}
	return nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
