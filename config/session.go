package config

import (
	"errors"
	"time"

	"go.uber.org/multierr"
)

// SessionConfig 发现会话配置
type SessionConfig struct {
	// InstantModeTimeout 即时模式有效期，从最近一次重配置开始计算
	InstantModeTimeout Duration `json:"instant_mode_timeout" yaml:"instant_mode_timeout"`

	// FirstPeerID 第一个分配的 PeerID，必须大于 0（0 保留）
	FirstPeerID uint64 `json:"first_peer_id" yaml:"first_peer_id"`

	// VerboseLogging 是否输出每个新节点的分配日志
	VerboseLogging bool `json:"verbose_logging" yaml:"verbose_logging"`
}

// DefaultSessionConfig 返回默认会话配置
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		InstantModeTimeout: Duration(30 * time.Minute),
		FirstPeerID:        100,
		VerboseLogging:     false,
	}
}

// Validate 验证会话配置
func (c SessionConfig) Validate() error {
	var err error
	if c.InstantModeTimeout <= 0 {
		err = multierr.Append(err, errors.New("session.instant_mode_timeout must be positive"))
	}
	if c.FirstPeerID == 0 {
		err = multierr.Append(err, errors.New("session.first_peer_id must be greater than 0"))
	}
	return err
}
