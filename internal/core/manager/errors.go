package manager

import "errors"

// 会话管理器错误定义
var (
	// ErrNoSuchSession 会话不存在
	ErrNoSuchSession = errors.New("manager: no such session")

	// ErrDuplicateSession SessionID 已被占用
	ErrDuplicateSession = errors.New("manager: duplicate session id")

	// ErrPubSubIDInUse PubSubID 已被其他会话使用
	ErrPubSubIDInUse = errors.New("manager: pubsub id in use")

	// ErrInvalidSpec 会话参数无效
	ErrInvalidSpec = errors.New("manager: invalid session spec")

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("manager: invalid config")

	// ErrManagerClosed 管理器已关闭
	ErrManagerClosed = errors.New("manager: closed")
)
