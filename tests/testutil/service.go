// Package testutil 提供测试辅助工具
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	aware "github.com/dep2p/go-aware"
	"github.com/dep2p/go-aware/config"
	"github.com/dep2p/go-aware/pkg/interfaces"
)

// TestServiceBuilder 测试服务构建器
//
// 示例:
//
//	radio := loopback.NewRadio()
//	svc := testutil.NewTestService(t).
//		WithNativeAPI(radio).
//		Start()
type TestServiceBuilder struct {
	t     *testing.T
	cfg   *config.Config
	api   interfaces.NativeAPI
	clock clock.Clock
}

// NewTestService 创建测试服务构建器
//
// 默认使用 config.NewConfig()，NativeAPI 必须显式设置。
func NewTestService(t *testing.T) *TestServiceBuilder {
	t.Helper()
	return &TestServiceBuilder{
		t:   t,
		cfg: config.NewConfig(),
	}
}

// WithConfig 替换配置
func (b *TestServiceBuilder) WithConfig(cfg *config.Config) *TestServiceBuilder {
	b.t.Helper()
	b.cfg = cfg
	return b
}

// WithNativeAPI 设置 native 层
func (b *TestServiceBuilder) WithNativeAPI(api interfaces.NativeAPI) *TestServiceBuilder {
	b.t.Helper()
	b.api = api
	return b
}

// WithClock 设置时间源
func (b *TestServiceBuilder) WithClock(clk clock.Clock) *TestServiceBuilder {
	b.t.Helper()
	b.clock = clk
	return b
}

// Start 创建并启动服务，测试结束时自动停止
func (b *TestServiceBuilder) Start() *aware.Service {
	b.t.Helper()
	require.NotNil(b.t, b.api, "NativeAPI 未设置")

	opts := []aware.Option{
		aware.WithConfig(b.cfg),
		aware.WithNativeAPI(b.api),
	}
	if b.clock != nil {
		opts = append(opts, aware.WithClock(b.clock))
	}

	svc, err := aware.New(opts...)
	require.NoError(b.t, err, "创建服务失败")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(b.t, svc.Start(ctx), "启动服务失败")

	b.t.Cleanup(func() {
		_ = svc.Stop(context.Background())
	})
	return svc
}
