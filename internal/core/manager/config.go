package manager

import (
	"fmt"
	"time"

	"github.com/dep2p/go-aware/config"
	"github.com/dep2p/go-aware/internal/core/peertable"
	"github.com/dep2p/go-aware/pkg/types"
)

// Config 会话管理器配置
type Config struct {
	// InstantModeTimeout 即时模式有效期
	InstantModeTimeout time.Duration

	// FirstPeerID 第一个分配的 PeerID
	FirstPeerID types.PeerID

	// VerboseLogging 新会话是否打开 verbose 日志
	VerboseLogging bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		InstantModeTimeout: 30 * time.Minute,
		FirstPeerID:        peertable.DefaultFirstPeerID,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.InstantModeTimeout <= 0 {
		return fmt.Errorf("%w: instant mode timeout must be positive", ErrInvalidConfig)
	}
	if !c.FirstPeerID.IsValid() {
		return fmt.Errorf("%w: first peer id must be greater than 0", ErrInvalidConfig)
	}
	return nil
}

// ConfigFromUnified 从统一配置创建管理器配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		InstantModeTimeout: cfg.Session.InstantModeTimeout.Duration(),
		FirstPeerID:        types.PeerID(cfg.Session.FirstPeerID),
		VerboseLogging:     cfg.Session.VerboseLogging,
	}
}
