// Package config 提供统一的配置管理
//
// 本包采用与组件一一对应的子配置：
//   - Session: 发现会话（即时模式超时、PeerID 起始值、verbose 日志）
//   - Metrics: 指标
//   - Log: 日志
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Session.VerboseLogging = true
//
//	// 从文件加载（.json / .yaml / .yml）
//	cfg, err := config.LoadFile("aware.yaml")
package config

import "go.uber.org/multierr"

// Config 是 go-aware 的完整配置结构
type Config struct {
	// Session 发现会话配置
	Session SessionConfig `json:"session" yaml:"session"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log" yaml:"log"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Session: DefaultSessionConfig(),
		Metrics: DefaultMetricsConfig(),
		Log:     DefaultLogConfig(),
	}
}

// Validate 验证配置的有效性
//
// 所有子配置都会被检查，返回的错误包含全部问题（multierr）。
func (c *Config) Validate() error {
	return multierr.Combine(
		c.Session.Validate(),
		c.Metrics.Validate(),
		c.Log.Validate(),
	)
}
