package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/km-arc/go-ioc/framework/container"
	"github.com/km-arc/go-ioc/framework/validation"
)

// Repository is the contract under which the loaded configuration is
// registered in the container.
type Repository interface {
	// Settings returns the typed configuration.
	Settings() *Config
	// Get returns a raw environment value, falling back to defaultVal.
	Get(key, defaultVal string) string
}

// Config is the central typed configuration struct.
type Config struct {
	App       AppConfig
	Container ContainerConfig
	Log       LogConfig
	Inspect   InspectConfig

	// raw holds the string each field was parsed from, keyed by env var.
	raw map[string]string
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
}

// ContainerConfig holds the registry and resolver knobs.
type ContainerConfig struct {
	InstancePolicy string // strict | overwrite
	CycleDetection bool
	MaxDepth       int // 0 = unbounded
}

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // console | json
}

// InspectConfig controls the diagnostics HTTP server.
type InspectConfig struct {
	Enabled bool
	Addr    string
}

// Load reads .env (if present) and populates a Config from environment variables.
// Variables already set in the process environment take precedence over files.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	raw := make(map[string]string, len(defaults))
	for key, def := range defaults {
		raw[key] = env(key, def)
	}

	return &Config{
		App: AppConfig{
			Name:  raw["APP_NAME"],
			Env:   raw["APP_ENV"],
			Debug: parseBool(raw["APP_DEBUG"], true),
		},
		Container: ContainerConfig{
			InstancePolicy: strings.ToLower(raw["IOC_INSTANCE_POLICY"]),
			CycleDetection: parseBool(raw["IOC_CYCLE_DETECTION"], false),
			MaxDepth:       parseInt(raw["IOC_MAX_DEPTH"], 0),
		},
		Log: LogConfig{
			Level:  strings.ToLower(raw["LOG_LEVEL"]),
			Format: strings.ToLower(raw["LOG_FORMAT"]),
		},
		Inspect: InspectConfig{
			Enabled: parseBool(raw["INSPECT_ENABLED"], false),
			Addr:    raw["INSPECT_ADDR"],
		},
		raw: raw,
	}
}

var defaults = map[string]string{
	"APP_NAME":            "GoIoC",
	"APP_ENV":             "local",
	"APP_DEBUG":           "true",
	"IOC_INSTANCE_POLICY": "strict",
	"IOC_CYCLE_DETECTION": "false",
	"IOC_MAX_DEPTH":       "0",
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "console",
	"INSPECT_ENABLED":     "false",
	"INSPECT_ADDR":        ":8090",
}

var rules = validation.Rules{
	"APP_NAME":            "required",
	"APP_ENV":             "required|in:local,production,testing",
	"APP_DEBUG":           "required|boolean",
	"IOC_INSTANCE_POLICY": "required|in:strict,overwrite",
	"IOC_CYCLE_DETECTION": "required|boolean",
	"IOC_MAX_DEPTH":       "required|integer|gte:0",
	"LOG_LEVEL":           "required|in:debug,info,warn,error",
	"LOG_FORMAT":          "required|in:console,json",
	"INSPECT_ENABLED":     "required|boolean",
	"INSPECT_ADDR":        "required",
}

// Validate checks the raw values Load parsed. Values that fail to parse fall
// back to their defaults in the typed fields, so call Validate before trusting
// them. The returned error is a *validation.Errors.
func (c *Config) Validate() error {
	data := c.raw
	if data == nil {
		data = c.rawFromFields()
	}
	normalized := make(map[string]string, len(data))
	for k, v := range data {
		normalized[k] = v
	}
	for _, k := range []string{"IOC_INSTANCE_POLICY", "LOG_LEVEL", "LOG_FORMAT"} {
		normalized[k] = strings.ToLower(normalized[k])
	}
	return validation.Make(normalized, rules).Err()
}

// rawFromFields rebuilds the raw map for a Config built by hand.
func (c *Config) rawFromFields() map[string]string {
	return map[string]string{
		"APP_NAME":            c.App.Name,
		"APP_ENV":             c.App.Env,
		"APP_DEBUG":           strconv.FormatBool(c.App.Debug),
		"IOC_INSTANCE_POLICY": c.Container.InstancePolicy,
		"IOC_CYCLE_DETECTION": strconv.FormatBool(c.Container.CycleDetection),
		"IOC_MAX_DEPTH":       strconv.Itoa(c.Container.MaxDepth),
		"LOG_LEVEL":           c.Log.Level,
		"LOG_FORMAT":          c.Log.Format,
		"INSPECT_ENABLED":     strconv.FormatBool(c.Inspect.Enabled),
		"INSPECT_ADDR":        c.Inspect.Addr,
	}
}

// Settings implements Repository.
func (c *Config) Settings() *Config { return c }

// Get implements Repository.
func (c *Config) Get(key, defaultVal string) string { return Get(key, defaultVal) }

// Policy maps InstancePolicy onto the container's policy. Anything but
// "overwrite" is strict.
func (c ContainerConfig) Policy() container.InstancePolicy {
	if strings.EqualFold(c.InstancePolicy, container.InstanceOverwrite.String()) {
		return container.InstanceOverwrite
	}
	return container.InstanceStrict
}

// Options returns the container options described by c.
func (c ContainerConfig) Options() []container.Option {
	return []container.Option{
		container.WithInstancePolicy(c.Policy()),
		container.WithCycleDetection(c.CycleDetection),
		container.WithMaxDepth(c.MaxDepth),
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	return parseInt(os.Getenv(key), defaultVal)
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return parseBool(os.Getenv(key), defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBool(v string, fallback bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func parseInt(v string, fallback int) int {
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
