package metrics

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-aware/config"
	"github.com/dep2p/go-aware/pkg/interfaces"
)

// Config 指标配置
type Config struct {
	// Enabled 是否启用指标收集
	Enabled bool

	// Namespace 指标命名空间
	Namespace string
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Namespace: DefaultNamespace,
	}
}

// ConfigFromUnified 从统一配置创建指标配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		Enabled:   cfg.Metrics.Enabled,
		Namespace: cfg.Metrics.Namespace,
	}
}

// Params Metrics 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Result Metrics 输出
//
// 指标关闭时 Recorder 为 nil，Metrics 为空操作实现。
type Result struct {
	fx.Out

	Metrics  interfaces.SessionMetrics
	Recorder *Recorder
}

// Module 是 metrics 的 Fx 模块
var Module = fx.Module("metrics",
	fx.Provide(ProvideMetrics),
)

// ProvideMetrics 根据配置提供指标实现
func ProvideMetrics(p Params) (Result, error) {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	if !cfg.Enabled {
		return Result{Metrics: NewNop()}, nil
	}

	rec, err := NewRecorder(cfg.Namespace)
	if err != nil {
		return Result{}, err
	}
	return Result{Metrics: rec, Recorder: rec}, nil
}
