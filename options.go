package aware

import (
	"errors"
	"fmt"
	"io"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-aware/config"
	"github.com/dep2p/go-aware/pkg/interfaces"
)

// Option 服务配置选项
type Option func(*options) error

// options 内部选项结构
type options struct {
	config *config.Config
	api    interfaces.NativeAPI
	clock  clock.Clock

	// logOutput 不为 nil 时按 config.Log 重建默认 logger
	logOutput io.Writer
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{
		config: config.NewConfig(),
	}
}

// WithConfig 使用给定配置
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("config is nil")
		}
		o.config = cfg
		return nil
	}
}

// WithConfigFile 从文件加载配置（.json / .yaml / .yml）
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
		o.config = cfg
		return nil
	}
}

// WithNativeAPI 设置 native 层实现（必需）
func WithNativeAPI(api interfaces.NativeAPI) Option {
	return func(o *options) error {
		if api == nil {
			return ErrNoNativeAPI
		}
		o.api = api
		return nil
	}
}

// WithClock 设置时间源
func WithClock(clk clock.Clock) Option {
	return func(o *options) error {
		o.clock = clk
		return nil
	}
}

// WithLogOutput 按配置中的日志级别与格式输出到 w
func WithLogOutput(w io.Writer) Option {
	return func(o *options) error {
		o.logOutput = w
		return nil
	}
}
