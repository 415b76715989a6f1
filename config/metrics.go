package config

import (
	"errors"
	"regexp"
)

var metricNamespaceRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// MetricsConfig 指标配置
type MetricsConfig struct {
	// Enabled 是否启用 prometheus 指标
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Namespace 指标命名空间
	Namespace string `json:"namespace" yaml:"namespace"`
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   true,
		Namespace: "aware",
	}
}

// Validate 验证指标配置
func (c MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if !metricNamespaceRe.MatchString(c.Namespace) {
		return errors.New("metrics.namespace must be a valid prometheus name")
	}
	return nil
}
