package config

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration 是支持字符串解析的 time.Duration 包装类型
//
// 支持的格式:
//   - 字符串: "30s", "5m", "1h30m", "100ms" 等
//   - 数字: 纳秒数（用于向后兼容）
//
// JSON 与 YAML 都适用：
//
//	{"instant_mode_timeout": "30m"}
//	instant_mode_timeout: 30m
type Duration time.Duration

// UnmarshalJSON 实现 json.Unmarshaler 接口
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return d.parse(s)
	}

	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*d = Duration(n)
		return nil
	}

	return fmt.Errorf("duration must be a string (e.g., \"30s\") or number (nanoseconds)")
}

// MarshalJSON 实现 json.Marshaler 接口，输出为字符串
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalYAML 实现 yaml.Unmarshaler 接口
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, got yaml kind %d", node.Kind)
	}

	var n int64
	if node.Tag == "!!int" {
		if err := node.Decode(&n); err != nil {
			return err
		}
		*d = Duration(n)
		return nil
	}
	return d.parse(node.Value)
}

// MarshalYAML 实现 yaml.Marshaler 接口
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) parse(s string) error {
	duration, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration string %q: %w", s, err)
	}
	*d = Duration(duration)
	return nil
}

// Duration 返回底层的 time.Duration 值
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// String 返回字符串表示
func (d Duration) String() string {
	return time.Duration(d).String()
}
