package aware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-aware/config"
	"github.com/dep2p/go-aware/internal/core/manager"
	"github.com/dep2p/go-aware/internal/core/metrics"
	"github.com/dep2p/go-aware/pkg/lib/log"
)

var logger = log.Logger("aware")

// stopTimeout Stop 未设置截止时间时的默认超时
const stopTimeout = 10 * time.Second

// Service 发现会话服务
type Service struct {
	mu      sync.Mutex
	app     *fx.App
	config  *config.Config
	started bool
	closed  bool

	// 由 Fx 注入
	manager  *manager.Manager
	recorder *metrics.Recorder
}

// New 创建服务
//
// 必须通过 WithNativeAPI 提供 native 层实现。
func New(opts ...Option) (*Service, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.api == nil {
		return nil, ErrNoNativeAPI
	}

	if o.logOutput != nil {
		level, err := log.ParseLevel(o.config.Log.Level)
		if err != nil {
			return nil, err
		}
		log.Setup(o.logOutput, level, log.Format(o.config.Log.Format))
	}

	svc := &Service{config: o.config}
	app, err := buildFxApp(o, svc)
	if err != nil {
		return nil, err
	}
	svc.app = app
	return svc, nil
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServiceClosed
	}
	if s.started {
		return ErrAlreadyStarted
	}

	if err := s.app.Start(ctx); err != nil {
		logger.Error("服务启动失败", "error", err)
		return fmt.Errorf("start failed: %w", err)
	}
	s.started = true

	logger.Info("服务已启动",
		"version", Version,
		"metrics", s.recorder != nil,
		"instantModeTimeout", s.config.Session.InstantModeTimeout.String())
	return nil
}

// Stop 停止服务，终止所有会话
//
// 停止后的服务不能再次启动。
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServiceClosed
	}
	if !s.started {
		return ErrNotStarted
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, stopTimeout)
		defer cancel()
	}

	s.closed = true
	if err := s.app.Stop(ctx); err != nil {
		logger.Error("服务停止失败", "error", err)
		return fmt.Errorf("stop failed: %w", err)
	}
	logger.Info("服务已停止")
	return nil
}

// Manager 返回会话管理器
func (s *Service) Manager() *manager.Manager {
	return s.manager
}

// Config 返回服务配置
func (s *Service) Config() *config.Config {
	return s.config
}

// MetricsHandler 返回 prometheus 抓取端点，指标关闭时返回 nil
func (s *Service) MetricsHandler() http.Handler {
	if s.recorder == nil {
		return nil
	}
	return s.recorder.Handler()
}
