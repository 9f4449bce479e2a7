//go:generate go run github.com/abice/go-enum -f=$GOFILE --marshal --names
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/0xERR0R/zonegen/log"
	"github.com/0xERR0R/zonegen/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// EnvDSN overrides the database DSN, so that credentials can stay out of the config file
const EnvDSN = "ZONEGEN_DB_DSN"

// DBDriver supported database drivers ENUM(
// sqlite
// mysql
// postgres
// )
type DBDriver uint8

// Configurable is a config section that can log its values
type Configurable interface {
	// IsEnabled returns true when the section is in use
	IsEnabled() bool

	// LogConfig logs the section's values
	LogConfig(*logrus.Entry)
}

// Config is the main configuration
type Config struct {
	DB      DBConfig      `yaml:"db"`
	Export  ExportConfig  `yaml:"export"`
	Log     log.Config    `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// DBConfig selects the database with the zone data
type DBConfig struct {
	Driver          DBDriver `yaml:"driver" default:"sqlite"`
	DSN             string   `yaml:"dsn" default:"zonegen.db" validate:"required"`
	ConnectAttempts uint     `yaml:"connectAttempts" default:"3" validate:"gte=1"`
	ConnectCooldown Duration `yaml:"connectCooldown" default:"1s" validate:"gte=0"`
}

// IsEnabled implements `config.Configurable`.
func (c *DBConfig) IsEnabled() bool {
	return true
}

// LogConfig implements `config.Configurable`.
func (c *DBConfig) LogConfig(logger *logrus.Entry) {
	logger.Infof("driver: %s", c.Driver)
	logger.Infof("connection: %d attempts, %s cooldown", c.ConnectAttempts, c.ConnectCooldown)
}

// ExportConfig holds the defaults of the export command
type ExportConfig struct {
	OutDir    string `yaml:"outDir" default:"zones" validate:"required"`
	KeyDir    string `yaml:"keyDir" default:"keys"`
	OldDir    string `yaml:"oldDir"`
	Keys      bool   `yaml:"keys" default:"false"`
	IncSerial bool   `yaml:"incSerial" default:"false"`
}

// IsEnabled implements `config.Configurable`.
func (c *ExportConfig) IsEnabled() bool {
	return true
}

// LogConfig implements `config.Configurable`.
func (c *ExportConfig) LogConfig(logger *logrus.Entry) {
	logger.Infof("zones: %s", c.OutDir)

	if c.Keys {
		logger.Infof("keys: %s", c.KeyDir)
	}

	if len(c.OldDir) > 0 {
		logger.Infof("dynamic hosts from: %s", c.OldDir)
	}

	logger.Infof("increment serials = %t", c.IncSerial)
}

// NewDefaultConfig returns the configuration with all defaults applied
func NewDefaultConfig() (*Config, error) {
	cfg := &Config{}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("can't apply default values: %w", err)
	}

	return cfg, nil
}

// LoadConfig creates new config from YAML file.
//
// A missing file is only an error if mandatory is set. A `.env` file next to the config file
// is loaded into the environment first.
func LoadConfig(path string, mandatory bool) (*Config, error) {
	if envFile := filepath.Join(filepath.Dir(path), ".env"); util.FileExists(envFile) {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("can't read %s: %w", envFile, err)
		}
	}

	cfg, err := NewDefaultConfig()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !mandatory {
			log.Log().Infof("config file %s not found, using defaults", path)
		} else {
			return nil, fmt.Errorf("can't read config file: %w", err)
		}
	}

	if err := unmarshalConfig(data, cfg); err != nil {
		return nil, err
	}

	if dsn, ok := os.LookupEnv(EnvDSN); ok && len(dsn) > 0 {
		cfg.DB.DSN = dsn
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func unmarshalConfig(data []byte, cfg *Config) error {
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return fmt.Errorf("wrong file structure: %w", err)
	}

	return nil
}

// Validate checks all values and reports every problem found
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	var errs *multierror.Error

	for _, fe := range fieldErrors {
		errs = multierror.Append(errs, fmt.Errorf("invalid value %v for %s (%s)", fe.Value(), fe.Namespace(), fe.Tag()))
	}

	return errs.ErrorOrNil()
}

// LogConfig logs every enabled section
func (c *Config) LogConfig(logger *logrus.Entry) {
	for name, section := range map[string]Configurable{
		"db":      &c.DB,
		"export":  &c.Export,
		"metrics": &c.Metrics,
	} {
		if !section.IsEnabled() {
			logger.Infof("%s: disabled", name)

			continue
		}

		logger.Infof("%s:", name)
		section.LogConfig(logger.WithField("section", name))
	}
}
