package aware

import "errors"

// 公共错误定义
var (
	// ErrNotStarted 服务未启动
	ErrNotStarted = errors.New("service not started")

	// ErrAlreadyStarted 服务已启动
	ErrAlreadyStarted = errors.New("service already started")

	// ErrServiceClosed 服务已关闭
	ErrServiceClosed = errors.New("service closed")

	// ErrNoNativeAPI 未设置 NativeAPI
	ErrNoNativeAPI = errors.New("native api is required")
)
