// Package log 提供 go-aware 统一日志接口
//
// 基于 Go 标准库 log/slog 封装，按组件名区分日志来源。
// 组件 logger 是懒加载的：每次调用都使用当前的 slog.Default()，
// 因此 Setup 可以在 logger 创建之后再调用。
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// 日志级别常量（从 slog 导出，方便使用）
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format 日志输出格式
type Format string

const (
	// FormatText 文本格式（默认）
	FormatText Format = "text"
	// FormatJSON JSON 格式
	FormatJSON Format = "json"
)

// Setup 重建默认 logger
//
// w 为 nil 时输出到 stderr。
func Setup(w io.Writer, level slog.Level, format Format) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if format == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(h))
}

// ParseLevel 解析日志级别名称
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// ============================================================================
//                              LazyLogger
// ============================================================================

// LazyLogger 懒加载 logger
//
// 使用方式：
//
//	var logger = log.Logger("core/session")
//	logger.Info("会话已创建", "session", id)
//
// Verbose 输出受 SetVerbose 控制，默认关闭，用于高频的内部状态跟踪。
type LazyLogger struct {
	component string
	attrs     []any
	verbose   *atomic.Bool
}

// Logger 返回带组件名的 LazyLogger
func Logger(component string) *LazyLogger {
	return &LazyLogger{
		component: component,
		verbose:   new(atomic.Bool),
	}
}

// With 返回附加了固定属性的 LazyLogger
//
// 新 logger 拥有独立的 verbose 开关，初始值继承自父 logger。
func (l *LazyLogger) With(args ...any) *LazyLogger {
	attrs := make([]any, 0, len(l.attrs)+len(args))
	attrs = append(attrs, l.attrs...)
	attrs = append(attrs, args...)

	verbose := new(atomic.Bool)
	verbose.Store(l.verbose.Load())
	return &LazyLogger{
		component: l.component,
		attrs:     attrs,
		verbose:   verbose,
	}
}

// SetVerbose 打开或关闭 verbose 输出
func (l *LazyLogger) SetVerbose(enabled bool) {
	l.verbose.Store(enabled)
}

// IsVerbose 是否打开了 verbose 输出
func (l *LazyLogger) IsVerbose() bool {
	return l.verbose.Load()
}

// Component 返回组件名
func (l *LazyLogger) Component() string {
	return l.component
}

func (l *LazyLogger) logger() *slog.Logger {
	lg := slog.Default().With("component", l.component)
	if len(l.attrs) > 0 {
		lg = lg.With(l.attrs...)
	}
	return lg
}

// Verbose 在 verbose 打开时以 Info 级别输出
func (l *LazyLogger) Verbose(msg string, args ...any) {
	if !l.verbose.Load() {
		return
	}
	l.logger().Info(msg, args...)
}

// Debug 输出 Debug 级别日志
func (l *LazyLogger) Debug(msg string, args ...any) {
	l.logger().Debug(msg, args...)
}

// Info 输出 Info 级别日志
func (l *LazyLogger) Info(msg string, args ...any) {
	l.logger().Info(msg, args...)
}

// Warn 输出 Warn 级别日志
func (l *LazyLogger) Warn(msg string, args ...any) {
	l.logger().Warn(msg, args...)
}

// Error 输出 Error 级别日志
func (l *LazyLogger) Error(msg string, args ...any) {
	l.logger().Error(msg, args...)
}
