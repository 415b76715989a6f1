package config

import (
	"errors"
	"fmt"
)

// ValidateAll 验证整个配置的有效性
//
// 这是 Config.Validate() 的别名，额外处理 nil。
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// ValidateAndFix 验证配置并尝试自动修复常见问题
//
// 可修复的问题：
//   - 即时模式超时非正 -> 使用默认值
//   - FirstPeerID 为 0 -> 使用默认值
//   - 指标命名空间为空 -> 使用默认值
//   - 日志级别为空 -> info
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	if c.Session.InstantModeTimeout <= 0 {
		c.Session.InstantModeTimeout = DefaultSessionConfig().InstantModeTimeout
	}
	if c.Session.FirstPeerID == 0 {
		c.Session.FirstPeerID = DefaultSessionConfig().FirstPeerID
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsConfig().Namespace
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogConfig().Level
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed after fixes: %w", err)
	}
	return c, nil
}

// MustValidate 验证配置，如果失败则 panic
//
// 仅用于初始化阶段或测试代码。
func MustValidate(c *Config) {
	if err := ValidateAll(c); err != nil {
		panic(fmt.Sprintf("config validation failed: %v", err))
	}
}
