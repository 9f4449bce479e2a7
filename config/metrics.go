package config

import "github.com/sirupsen/logrus"

// MetricsConfig selects where the prometheus metrics of a run are written
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// IsEnabled implements `config.Configurable`.
func (c *MetricsConfig) IsEnabled() bool {
	return len(c.Textfile) > 0
}

// LogConfig implements `config.Configurable`.
func (c *MetricsConfig) LogConfig(logger *logrus.Entry) {
	logger.Infof("textfile: %s", c.Textfile)
}
