package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default ports for the two services
const (
	DefaultRouterPort    = 8080
	DefaultSimulatorPort = 9000
)

// Built-in PSP endpoints, overridable via PSP_AXIS, PSP_HDFC and PSP_SBI
var defaultEndpoints = []struct {
	Name   string
	EnvKey string
	URL    string
}{
	{"Axis_PSP", "PSP_AXIS", "http://psp_axis:9000/process"},
	{"HDFC_PSP", "PSP_HDFC", "http://psp_hdfc:9001/process"},
	{"SBI_PSP", "PSP_SBI", "http://psp_sbi:9002/process"},
}

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Scorer        ScorerConfig
	Routing       RoutingConfig
	Providers     ProvidersConfig
	Simulator     SimulatorConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// ScorerConfig holds risk scorer client configuration
type ScorerConfig struct {
	URL          string
	Timeout      time.Duration
	DefaultScore float64
}

// RoutingConfig holds routing policy configuration
type RoutingConfig struct {
	RiskThreshold   float64
	DefaultProvider string
	PreferenceOrder []string
}

// ProvidersConfig holds the configured PSPs
type ProvidersConfig struct {
	// Timeout applies to PSPs that do not set their own
	Timeout time.Duration
	List    []ProviderConfig
}

// ProviderConfig describes one PSP. A PSP is reached over HTTP at Endpoint
// unless Simulated is set, in which case it runs in-process.
type ProviderConfig struct {
	Name      string           `yaml:"name"`
	Endpoint  string           `yaml:"endpoint"`
	Timeout   time.Duration    `yaml:"timeout"`
	Simulated *SimulatedConfig `yaml:"simulated"`
}

// SimulatedConfig holds parameters for an in-process PSP
type SimulatedConfig struct {
	BaseFail float64 `yaml:"base_fail"`
}

// SimulatorConfig holds PSP simulator configuration
type SimulatorConfig struct {
	BaseFail           float64
	AmountSensitivity  float64
	LatencySensitivity float64
	Seed               uint64 // 0 means unseeded
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New loads the router configuration from the environment
func New(ctx context.Context) (*Config, error) {
	cfg, err := load(DefaultRouterPort)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// NewSimulator loads the PSP simulator configuration from the environment
func NewSimulator(ctx context.Context) (*Config, error) {
	cfg, err := load(DefaultSimulatorPort)
	if err != nil {
		return nil, err
	}

	if err := cfg.ValidateSimulator(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func load(defaultPort int) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(defaultPort),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Scorer: ScorerConfig{
			URL:          getEnv("MODEL_URL", "http://model_server:8000/predict"),
			Timeout:      getEnvAsDuration("SCORER_TIMEOUT", 2*time.Second),
			DefaultScore: getEnvAsFloat("SCORER_DEFAULT_SCORE", 0.5),
		},
		Routing: RoutingConfig{
			RiskThreshold:   getEnvAsFloat("RISK_THRESHOLD", 0.6),
			DefaultProvider: "Axis_PSP",
			PreferenceOrder: []string{"HDFC_PSP", "SBI_PSP", "Axis_PSP"},
		},
		Providers: ProvidersConfig{
			Timeout: getEnvAsDuration("PSP_TIMEOUT", 5*time.Second),
		},
		Simulator: SimulatorConfig{
			BaseFail:           getEnvAsFloat("BASE_FAIL", 0.03),
			AmountSensitivity:  getEnvAsFloat("SIM_AMOUNT_SENSITIVITY", 0.0001),
			LatencySensitivity: getEnvAsFloat("SIM_LATENCY_SENSITIVITY", 0.001),
			Seed:               getEnvAsUint64("SIM_SEED", 0),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	for _, d := range defaultEndpoints {
		cfg.Providers.Upsert(ProviderConfig{Name: d.Name, Endpoint: getEnv(d.EnvKey, d.URL)})
	}

	// Catalog file first, then env, so env always wins
	if path := getEnv("PROVIDERS_FILE", ""); path != "" {
		catalog, err := LoadProviderCatalog(path)
		if err != nil {
			return nil, err
		}
		catalog.apply(cfg)
	}

	if raw := getEnv("PSP_ENDPOINTS", ""); raw != "" {
		endpoints, err := parseEndpoints(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PSP_ENDPOINTS: %w", err)
		}
		for _, p := range endpoints {
			cfg.Providers.Upsert(p)
		}
	}

	cfg.Routing.DefaultProvider = getEnv("DEFAULT_PSP", cfg.Routing.DefaultProvider)
	if raw := getEnv("PSP_PREFERENCE_ORDER", ""); raw != "" {
		cfg.Routing.PreferenceOrder = splitList(raw)
	}

	return cfg, nil
}

// Validate checks the router configuration
func (c *Config) Validate() error {
	if err := c.validateCommon(); err != nil {
		return err
	}

	if c.Scorer.URL == "" {
		return fmt.Errorf("model URL is required")
	}
	if c.Scorer.Timeout <= 0 {
		return fmt.Errorf("scorer timeout must be positive")
	}
	if !isProbability(c.Scorer.DefaultScore) {
		return fmt.Errorf("scorer default score must be within [0, 1], got %v", c.Scorer.DefaultScore)
	}

	if !isProbability(c.Routing.RiskThreshold) {
		return fmt.Errorf("risk threshold must be within [0, 1], got %v", c.Routing.RiskThreshold)
	}
	if c.Routing.DefaultProvider == "" {
		return fmt.Errorf("default PSP is required")
	}
	if len(c.Routing.PreferenceOrder) == 0 {
		return fmt.Errorf("PSP preference order must not be empty")
	}

	if c.Providers.Timeout <= 0 {
		return fmt.Errorf("PSP timeout must be positive")
	}
	for _, p := range c.Providers.List {
		if p.Simulated == nil && p.Endpoint == "" {
			return fmt.Errorf("PSP %q has no endpoint", p.Name)
		}
		if p.Simulated != nil && p.Simulated.BaseFail < 0 {
			return fmt.Errorf("PSP %q base failure rate must be non-negative", p.Name)
		}
		if p.Timeout < 0 {
			return fmt.Errorf("PSP %q timeout must not be negative", p.Name)
		}
	}

	return nil
}

// ValidateSimulator checks the PSP simulator configuration
func (c *Config) ValidateSimulator() error {
	if err := c.validateCommon(); err != nil {
		return err
	}

	if c.Simulator.BaseFail < 0 || math.IsNaN(c.Simulator.BaseFail) {
		return fmt.Errorf("base failure rate must be non-negative, got %v", c.Simulator.BaseFail)
	}
	if c.Simulator.AmountSensitivity < 0 || c.Simulator.LatencySensitivity < 0 {
		return fmt.Errorf("simulator sensitivities must be non-negative")
	}

	return nil
}

func (c *Config) validateCommon() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}
	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Upsert adds p, replacing any PSP with the same name in place
func (c *ProvidersConfig) Upsert(p ProviderConfig) {
	for i := range c.List {
		if c.List[i].Name == p.Name {
			c.List[i] = p
			return
		}
	}
	c.List = append(c.List, p)
}

// Names returns the configured PSP names in configuration order
func (c *ProvidersConfig) Names() []string {
	names := make([]string, 0, len(c.List))
	for _, p := range c.List {
		names = append(names, p.Name)
	}
	return names
}

// TimeoutFor returns the effective timeout of p
func (c *ProvidersConfig) TimeoutFor(p ProviderConfig) time.Duration {
	if p.Timeout > 0 {
		return p.Timeout
	}
	return c.Timeout
}

// parseEndpoints parses "name=url,name=url"
func parseEndpoints(raw string) ([]ProviderConfig, error) {
	var out []ProviderConfig
	for _, entry := range splitList(raw) {
		name, url, ok := strings.Cut(entry, "=")
		name, url = strings.TrimSpace(name), strings.TrimSpace(url)
		if !ok || name == "" || url == "" {
			return nil, fmt.Errorf("entry %q is not name=url", entry)
		}
		out = append(out, ProviderConfig{Name: name, Endpoint: url})
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func isProbability(v float64) bool {
	return v >= 0 && v <= 1
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars
func getPort(defaultPort int) int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return defaultPort
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
