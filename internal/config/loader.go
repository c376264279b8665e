package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config     *Config
	configFile string
	envFiles   []string
}

// LoaderOption customises a Loader
type LoaderOption func(*Loader)

// WithConfigFile makes the loader read a YAML file before the environment
func WithConfigFile(path string) LoaderOption {
	return func(l *Loader) {
		l.configFile = path
	}
}

// WithEnvFiles sets the dotenv files to load. Missing files are ignored.
func WithEnvFiles(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.envFiles = paths
	}
}

// NewLoader creates a new configuration loader
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		config:   NewConfig(),
		envFiles: []string{".env"},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML config file, if any
// 3. Populate the environment from .env files (existing variables win)
// 4. Override with environment variables
// 5. Override with command line flags (handled by cobra, see LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	// Step 1: Start with defaults (already done in NewConfig)

	// Step 2: Config file, explicit option first, then TODO_CONFIG_FILE
	path := l.configFile
	if path == "" {
		path = os.Getenv("TODO_CONFIG_FILE")
	}
	if path != "" {
		if err := l.loadFile(path); err != nil {
			return nil, err
		}
	}

	// Step 3: dotenv
	for _, envFile := range l.envFiles {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return nil, &ConfigError{Field: "env_file", Message: fmt.Sprintf("failed to load %s: %v", envFile, err)}
		}
	}

	// Step 4: Load from environment variables
	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	// Step 5: Validate the configuration
	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

func (l *Loader) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Field: "config_file", Message: fmt.Sprintf("failed to read %s: %v", path, err)}
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return &ConfigError{Field: "config_file", Message: fmt.Sprintf("failed to parse %s: %v", path, err)}
	}

	file.apply(l.config)
	return nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	// Load base configuration
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	// Apply command line overrides
	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Database overrides
	DBDriver         *string
	DBDir            *string
	DBFilename       *string
	DBURL            *string
	DBQueryTimeout   *time.Duration
	DBWriteTimeout   *time.Duration
	DBDirPermissions *uint32

	// Limits overrides
	MaxProjects        *int
	MaxTasksPerProject *int

	// Sweep overrides
	SweepInterval *time.Duration
	SweepDryRun   *bool

	// HTTP overrides
	HTTPAddr *string

	// Logging overrides
	LogLevel  *string
	LogFormat *string
	Debug     *bool

	// Application overrides
	Timeout *time.Duration
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	// Database overrides
	if overrides.DBDriver != nil {
		config.Database.Driver = *overrides.DBDriver
	}
	if overrides.DBDir != nil {
		config.Database.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		config.Database.Filename = *overrides.DBFilename
	}
	if overrides.DBURL != nil {
		config.Database.URL = *overrides.DBURL
	}
	if overrides.DBQueryTimeout != nil {
		config.Database.QueryTimeout = *overrides.DBQueryTimeout
	}
	if overrides.DBWriteTimeout != nil {
		config.Database.WriteTimeout = *overrides.DBWriteTimeout
	}
	if overrides.DBDirPermissions != nil {
		config.Database.DirPermissions = *overrides.DBDirPermissions
	}

	// Limits overrides
	if overrides.MaxProjects != nil {
		config.Limits.MaxProjects = *overrides.MaxProjects
	}
	if overrides.MaxTasksPerProject != nil {
		config.Limits.MaxTasksPerProject = *overrides.MaxTasksPerProject
	}

	// Sweep overrides
	if overrides.SweepInterval != nil {
		config.Sweep.Interval = *overrides.SweepInterval
	}
	if overrides.SweepDryRun != nil {
		config.Sweep.DryRun = *overrides.SweepDryRun
	}

	// HTTP overrides
	if overrides.HTTPAddr != nil {
		config.HTTP.Addr = *overrides.HTTPAddr
	}

	// Logging overrides
	if overrides.LogLevel != nil {
		config.Logging.Level = *overrides.LogLevel
	}
	if overrides.LogFormat != nil {
		config.Logging.Format = *overrides.LogFormat
	}
	if overrides.Debug != nil {
		config.Logging.Debug = *overrides.Debug
	}

	// Application overrides
	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
}

// fileConfig mirrors Config for YAML decoding. Durations are strings so
// files can say "15m"; unset keys leave the current value untouched.
type fileConfig struct {
	Database struct {
		Driver       *string `yaml:"driver"`
		Dir          *string `yaml:"dir"`
		Filename     *string `yaml:"filename"`
		URL          *string `yaml:"url"`
		QueryTimeout *string `yaml:"query_timeout"`
		WriteTimeout *string `yaml:"write_timeout"`
	} `yaml:"database"`
	Limits struct {
		MaxProjects        *int `yaml:"max_projects"`
		MaxTasksPerProject *int `yaml:"max_tasks_per_project"`
	} `yaml:"limits"`
	Validation struct {
		ProjectNameMax        *int `yaml:"project_name_max"`
		ProjectDescriptionMax *int `yaml:"project_description_max"`
		TaskTitleMax          *int `yaml:"task_title_max"`
		TaskDescriptionMax    *int `yaml:"task_description_max"`
	} `yaml:"validation"`
	Sweep struct {
		Interval *string `yaml:"interval"`
		DryRun   *bool   `yaml:"dry_run"`
	} `yaml:"sweep"`
	HTTP struct {
		Addr        *string  `yaml:"addr"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"http"`
	Logging struct {
		Level  *string `yaml:"level"`
		Format *string `yaml:"format"`
		Debug  *bool   `yaml:"debug"`
	} `yaml:"logging"`
	Application struct {
		Timeout *string `yaml:"timeout"`
	} `yaml:"application"`
}

func (f *fileConfig) apply(c *Config) {
	setString(&c.Database.Driver, f.Database.Driver)
	setString(&c.Database.Dir, f.Database.Dir)
	setString(&c.Database.Filename, f.Database.Filename)
	setString(&c.Database.URL, f.Database.URL)
	setDuration(&c.Database.QueryTimeout, f.Database.QueryTimeout)
	setDuration(&c.Database.WriteTimeout, f.Database.WriteTimeout)

	setInt(&c.Limits.MaxProjects, f.Limits.MaxProjects)
	setInt(&c.Limits.MaxTasksPerProject, f.Limits.MaxTasksPerProject)

	setInt(&c.Validation.ProjectNameMaxLength, f.Validation.ProjectNameMax)
	setInt(&c.Validation.ProjectDescriptionMaxLength, f.Validation.ProjectDescriptionMax)
	setInt(&c.Validation.TaskTitleMaxLength, f.Validation.TaskTitleMax)
	setInt(&c.Validation.TaskDescriptionMaxLength, f.Validation.TaskDescriptionMax)

	setDuration(&c.Sweep.Interval, f.Sweep.Interval)
	if f.Sweep.DryRun != nil {
		c.Sweep.DryRun = *f.Sweep.DryRun
	}

	setString(&c.HTTP.Addr, f.HTTP.Addr)
	if len(f.HTTP.CORSOrigins) > 0 {
		c.HTTP.CORSOrigins = f.HTTP.CORSOrigins
	}

	setString(&c.Logging.Level, f.Logging.Level)
	setString(&c.Logging.Format, f.Logging.Format)
	if f.Logging.Debug != nil {
		c.Logging.Debug = *f.Logging.Debug
	}

	setDuration(&c.Application.Timeout, f.Application.Timeout)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string) {
	if src != nil {
		*dst = ParseDurationWithFallback(*src, *dst)
	}
}
