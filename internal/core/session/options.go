package session

import (
	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-aware/pkg/interfaces"
	"github.com/dep2p/go-aware/pkg/types"
)

// Config 会话创建参数
//
// 除 RangingEnabled 与即时模式外，其余字段在会话生命周期内不变。
type Config struct {
	// SessionID 由创建方分配的会话 ID
	SessionID types.SessionID

	// PubSubID native 层会话句柄
	PubSubID types.PubSubID

	// Mode 发布或订阅
	Mode types.Mode

	// RangingEnabled 初始测距开关
	RangingEnabled bool

	// InstantModeEnabled 初始即时模式开关
	InstantModeEnabled bool

	// InstantModeBand 即时模式频段
	InstantModeBand types.Band
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if !c.Mode.IsValid() {
		return ErrInvalidMode
	}
	return nil
}

// Option 会话选项
type Option func(*Session)

// WithClock 设置时间源（测试中使用 clock.NewMock）
func WithClock(clk clock.Clock) Option {
	return func(s *Session) {
		if clk != nil {
			s.clock = clk
		}
	}
}

// WithMetrics 设置指标上报
func WithMetrics(m interfaces.SessionMetrics) Option {
	return func(s *Session) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithVerboseLogging 打开 verbose 日志
func WithVerboseLogging(enabled bool) Option {
	return func(s *Session) {
		s.logger.SetVerbose(enabled)
	}
}
