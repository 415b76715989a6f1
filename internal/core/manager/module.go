package manager

import (
	"context"
	"errors"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-aware/config"
	"github.com/dep2p/go-aware/pkg/interfaces"
)

// Params Manager 依赖参数
type Params struct {
	fx.In

	LC         fx.Lifecycle
	API        interfaces.NativeAPI
	Metrics    interfaces.SessionMetrics `optional:"true"`
	Clock      clock.Clock               `optional:"true"`
	UnifiedCfg *config.Config            `optional:"true"`
}

// Module 是 manager 的 Fx 模块
var Module = fx.Module("manager",
	fx.Provide(ProvideManager),
)

// ProvideManager 提供会话管理器并注册生命周期
func ProvideManager(p Params) (*Manager, error) {
	m, err := New(p.API, ConfigFromUnified(p.UnifiedCfg),
		WithClock(p.Clock),
		WithMetrics(p.Metrics),
	)
	if err != nil {
		return nil, err
	}

	p.LC.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// 已被手动关闭时忽略
			if err := m.Close(ctx); err != nil && !errors.Is(err, ErrManagerClosed) {
				return err
			}
			return nil
		},
	})
	return m, nil
}
