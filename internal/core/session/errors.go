package session

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-aware/pkg/types"
)

// 预定义错误
var (
	// ErrModeMismatch 配置与会话模式不符（例如在订阅会话上使用发布配置）
	ErrModeMismatch = errors.New("session: config does not match session mode")

	// ErrUnknownPeer 目标 PeerID 从未在本会话出现，或已过期
	ErrUnknownPeer = errors.New("session: unknown peer")

	// ErrNativeRejected native 层同步拒绝了请求
	ErrNativeRejected = errors.New("session: native layer rejected request")

	// ErrNotificationUnavailable 客户端通知通道不可用，只记录日志
	ErrNotificationUnavailable = errors.New("session: client notification unavailable")

	// ErrSessionTerminated 会话已终止
	ErrSessionTerminated = errors.New("session: terminated")

	// ErrNilConfig 配置为 nil
	ErrNilConfig = errors.New("session: config is nil")

	// ErrNilNativeAPI NativeAPI 为 nil
	ErrNilNativeAPI = errors.New("session: native api is nil")

	// ErrInvalidMode 无效的会话模式
	ErrInvalidMode = errors.New("session: invalid mode")
)

// SessionError 会话操作错误
//
// Err 为预定义错误，Cause 为底层原因（例如 native 层返回的错误），
// 两者都可以通过 errors.Is 匹配。
type SessionError struct {
	Op        string          // 操作名称
	SessionID types.SessionID // 会话 ID
	Err       error           // 预定义错误
	Cause     error           // 底层原因，可为 nil
}

// Error 实现 error 接口
func (e *SessionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("session %d: %s: %v: %v", e.SessionID, e.Op, e.Err, e.Cause)
	}
	return fmt.Sprintf("session %d: %s: %v", e.SessionID, e.Op, e.Err)
}

// Unwrap 支持 errors.Is / errors.As
func (e *SessionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func newError(op string, id types.SessionID, err, cause error) *SessionError {
	return &SessionError{
		Op:        op,
		SessionID: id,
		Err:       err,
		Cause:     cause,
	}
}

// failureReason 把错误映射为指标标签
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrModeMismatch):
		return "mode_mismatch"
	case errors.Is(err, ErrUnknownPeer):
		return "unknown_peer"
	case errors.Is(err, ErrNativeRejected):
		return "native_rejected"
	case errors.Is(err, ErrSessionTerminated):
		return "terminated"
	default:
		return "invalid"
	}
}
