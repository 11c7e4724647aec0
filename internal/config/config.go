// Package config loads the grievance service configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/grievance/internal/app"
	"github.com/example/grievance/internal/core/grievance"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Environment overrides, applied after the file is read.
const (
	EnvConfig    = "GRIEVANCE_CONFIG"
	EnvDBDriver  = "GRIEVANCE_DB_DRIVER"
	EnvDBDSN     = "GRIEVANCE_DB_DSN"
	EnvRedisAddr = "GRIEVANCE_REDIS_ADDR"
	EnvLogLevel  = "GRIEVANCE_LOG_LEVEL"
)

// Config is the full service configuration.
type Config struct {
	NodeID        string              `yaml:"node_id"`
	Store         StoreConfig         `yaml:"store"`
	SLA           SLAConfig           `yaml:"sla"`
	Escalation    EscalationConfig    `yaml:"escalation"`
	Analytics     AnalyticsConfig     `yaml:"analytics"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Gateways      GatewaysConfig      `yaml:"gateways"`
	HTTP          HTTPConfig          `yaml:"http"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// StoreConfig selects the case store. An empty sqlite DSN means the
// default database file under the home directory.
type StoreConfig struct {
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns,omitempty"`
	MaxIdleConns    int           `yaml:"max_idle_conns,omitempty"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime,omitempty"`
}

// SLAConfig holds the windows per priority name.
type SLAConfig struct {
	Resolution      map[string]time.Duration `yaml:"resolution"`
	Response        map[string]time.Duration `yaml:"response"`
	DefaultResponse time.Duration            `yaml:"default_response"`
	EmergencyFactor float64                  `yaml:"emergency_factor"`
}

// EscalationConfig holds the escalation ladders by category name.
type EscalationConfig struct {
	DefaultLadder []string            `yaml:"default_ladder"`
	Ladders       map[string][]string `yaml:"ladders"`
}

type AnalyticsConfig struct {
	LookbackDays int `yaml:"lookback_days"`
}

// NotificationsConfig enables the Redis stream dispatcher when RedisAddr is set.
type NotificationsConfig struct {
	RedisAddr     string `yaml:"redis_addr,omitempty"`
	RedisPassword string `yaml:"redis_password,omitempty"`
	RedisDB       int    `yaml:"redis_db,omitempty"`
	Stream        string `yaml:"stream"`
	MaxLen        int64  `yaml:"max_len"`
}

// GatewayConfig addresses one HTTP gateway; an empty BaseURL disables it.
type GatewayConfig struct {
	BaseURL    string        `yaml:"base_url,omitempty"`
	Token      string        `yaml:"token,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
	RetryCount int           `yaml:"retry_count,omitempty"`
}

type GatewaysConfig struct {
	Messaging GatewayConfig `yaml:"messaging"`
	Workload  GatewayConfig `yaml:"workload"`
	Workflow  GatewayConfig `yaml:"workflow"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// Default returns the built-in configuration.
func Default() *Config {
	sla := grievance.DefaultSLAPolicy()
	ladders := grievance.DefaultLadderTable()

	cfg := &Config{
		NodeID: "N1",
		Store:  StoreConfig{Driver: DriverSQLite},
		SLA: SLAConfig{
			Resolution:      make(map[string]time.Duration),
			Response:        make(map[string]time.Duration),
			DefaultResponse: sla.DefaultResponseWindow,
			EmergencyFactor: sla.EmergencyFactor,
		},
		Escalation: EscalationConfig{
			DefaultLadder: ladders.Default.Roles,
			Ladders:       make(map[string][]string),
		},
		Analytics:     AnalyticsConfig{LookbackDays: grievance.DefaultLookbackDays},
		Notifications: NotificationsConfig{Stream: "grievance:notifications", MaxLen: 10000},
		HTTP:          HTTPConfig{Addr: ":8080"},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
	for p, d := range sla.ResolutionWindows {
		cfg.SLA.Resolution[string(p)] = d
	}
	for p, d := range sla.ResponseWindows {
		cfg.SLA.Response[string(p)] = d
	}
	for cat, l := range ladders.ByCategory {
		cfg.Escalation.Ladders[string(cat)] = l.Roles
	}
	return cfg
}

// DefaultPath returns ~/.grievance/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".grievance", "config.yaml"), nil
}

// ResolvePath picks path, then $GRIEVANCE_CONFIG, then the default path.
func ResolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env, nil
	}
	return DefaultPath()
}

// Load reads the configuration at path (resolved with ResolvePath). A missing
// file yields the defaults. Values from the file are layered over the
// defaults, then environment overrides are applied and the result validated.
func Load(path string) (*Config, error) {
	path, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDBDriver); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv(EnvDBDSN); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Notifications.RedisAddr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("GRIEVANCE_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GRIEVANCE_REDIS_DB: %w", err)
		}
		c.Notifications.RedisDB = n
	}
	return nil
}

// Validate checks the configuration for values the services cannot use.
func (c *Config) Validate() error {
	var errs []error
	if !grievance.ValidNodeID(c.NodeID) {
		errs = append(errs, fmt.Errorf("node_id %q must be uppercase letters and digits", c.NodeID))
	}
	switch c.Store.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Store.DSN == "" {
			errs = append(errs, errors.New("store.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver %q must be sqlite or postgres", c.Store.Driver))
	}
	if c.Analytics.LookbackDays <= 0 {
		errs = append(errs, errors.New("analytics.lookback_days must be positive"))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be json or console", c.Logging.Format))
	}
	if _, err := c.Policy(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Policy converts the SLA, escalation and analytics sections.
func (c *Config) Policy() (app.Policy, error) {
	sla := grievance.SLAPolicy{
		ResolutionWindows:     make(map[grievance.Priority]time.Duration),
		ResponseWindows:       make(map[grievance.Priority]time.Duration),
		DefaultResponseWindow: c.SLA.DefaultResponse,
		EmergencyFactor:       c.SLA.EmergencyFactor,
	}
	if err := priorityWindows("sla.resolution", c.SLA.Resolution, sla.ResolutionWindows); err != nil {
		return app.Policy{}, err
	}
	if err := priorityWindows("sla.response", c.SLA.Response, sla.ResponseWindows); err != nil {
		return app.Policy{}, err
	}
	if _, ok := sla.ResolutionWindows[grievance.PriorityLow]; !ok {
		return app.Policy{}, errors.New("sla.resolution must define LOW")
	}
	if sla.DefaultResponseWindow <= 0 {
		return app.Policy{}, errors.New("sla.default_response must be positive")
	}
	if sla.EmergencyFactor <= 0 || sla.EmergencyFactor >= 1 {
		return app.Policy{}, fmt.Errorf("sla.emergency_factor %v must be between 0 and 1", sla.EmergencyFactor)
	}

	ladders := grievance.LadderTable{
		Default:    grievance.Ladder{Roles: c.Escalation.DefaultLadder},
		ByCategory: make(map[grievance.Category]grievance.Ladder),
	}
	for name, roles := range c.Escalation.Ladders {
		cat, ok := grievance.ParseCategory(name)
		if !ok {
			return app.Policy{}, fmt.Errorf("escalation.ladders: unknown category %q", name)
		}
		ladders.ByCategory[cat] = grievance.Ladder{Roles: roles}
	}
	if err := ladders.Validate(); err != nil {
		return app.Policy{}, err
	}

	return app.Policy{SLA: sla, Ladders: ladders, LookbackDays: c.Analytics.LookbackDays}, nil
}

func priorityWindows(section string, in map[string]time.Duration, out map[grievance.Priority]time.Duration) error {
	for name, d := range in {
		p, ok := grievance.ParsePriority(name)
		if !ok {
			return fmt.Errorf("%s: unknown priority %q", section, name)
		}
		if d <= 0 {
			return fmt.Errorf("%s.%s must be positive", section, name)
		}
		out[p] = d
	}
	return nil
}
