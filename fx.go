package aware

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-aware/internal/core/manager"
	"github.com/dep2p/go-aware/internal/core/metrics"
	"github.com/dep2p/go-aware/pkg/interfaces"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：metrics → manager。
func buildFxApp(o *options, svc *Service) (*fx.App, error) {
	if err := o.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	clk := o.clock
	if clk == nil {
		clk = clock.New()
	}

	modules := []fx.Option{
		fx.Supply(o.config),
		fx.Provide(func() interfaces.NativeAPI { return o.api }),
		fx.Provide(func() clock.Clock { return clk }),

		metrics.Module,
		manager.Module,

		fx.Populate(&svc.manager, &svc.recorder),

		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	}

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}
	return app, nil
}
