package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保留默认值。
//
// 示例 JSON:
//
//	{
//	  "session": {"instant_mode_timeout": "10m", "verbose_logging": true},
//	  "metrics": {"enabled": false}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// FromYAML 从 YAML 数据创建配置
//
// 未出现的字段保留默认值。
func FromYAML(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// ToJSON 序列化为带缩进的 JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// LoadFile 从文件加载并验证配置
//
// 按扩展名选择格式：.yaml / .yml 使用 YAML，其余使用 JSON。
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = FromYAML(data)
	default:
		cfg, err = FromJSON(data)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
