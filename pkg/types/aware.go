package types

import (
	"fmt"
	"strconv"
)

// ============================================================================
//                              标识符
// ============================================================================

// SessionID 发现会话标识
//
// 由会话创建方分配，会话生命周期内不变。
type SessionID int

// String 返回字符串表示
func (id SessionID) String() string {
	return strconv.Itoa(int(id))
}

// PubSubID 传输层会话句柄（publish/subscribe ID）
//
// 由 native 层分配的小整数，用于在 native 层标识本会话。
type PubSubID uint8

// InstanceID 传输层节点引用（requestor instance ID）
//
// 仅在单个会话内有效，native 层可能将同一个值回收给不同的物理节点。
type InstanceID int

// PeerID 客户端可见的不透明节点标识
//
// 由进程级单调递增计数器分配，从不复用。0 保留为「无此节点」。
type PeerID uint64

// NoPeer 保留的哨兵值，表示不存在的节点
const NoPeer PeerID = 0

// IsValid 是否为有效节点标识
func (id PeerID) IsValid() bool {
	return id != NoPeer
}

// String 返回字符串表示
func (id PeerID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// TransactionID 命令事务标识，用于关联 native 层的异步结果
type TransactionID uint16

// MessageID 调用方提供的消息标识，用于关联发送结果
type MessageID int32

// ============================================================================
//                              Mode - 会话模式
// ============================================================================

// Mode 发现会话模式
type Mode int

const (
	// ModePublish 发布会话
	ModePublish Mode = iota + 1
	// ModeSubscribe 订阅会话
	ModeSubscribe
)

// String 返回模式的字符串表示
func (m Mode) String() string {
	switch m {
	case ModePublish:
		return "publish"
	case ModeSubscribe:
		return "subscribe"
	default:
		return "unknown"
	}
}

// IsValid 是否为已知模式
func (m Mode) IsValid() bool {
	return m == ModePublish || m == ModeSubscribe
}

// ParseMode 解析模式名称
func ParseMode(s string) (Mode, error) {
	switch s {
	case "publish", "pub":
		return ModePublish, nil
	case "subscribe", "sub":
		return ModeSubscribe, nil
	default:
		return 0, fmt.Errorf("unknown session mode %q", s)
	}
}

// ============================================================================
//                              Band / InstantMode
// ============================================================================

// Band 即时通信模式的频段偏好
type Band int

const (
	// Band24GHz 2.4 GHz 频段
	Band24GHz Band = iota
	// Band5GHz 5 GHz 频段
	Band5GHz
)

// String 返回频段的字符串表示
func (b Band) String() string {
	switch b {
	case Band5GHz:
		return "5GHz"
	default:
		return "2.4GHz"
	}
}

// InstantMode 即时通信模式状态
//
// 数值越大优先级越高，管理器取所有会话中的最大值。
type InstantMode int

const (
	// InstantModeDisabled 未启用或已超时
	InstantModeDisabled InstantMode = iota
	// InstantMode24GHz 使用 2.4 GHz
	InstantMode24GHz
	// InstantMode5GHz 使用 5 GHz
	InstantMode5GHz
)

// String 返回即时模式的字符串表示
func (m InstantMode) String() string {
	switch m {
	case InstantMode24GHz:
		return "2.4GHz"
	case InstantMode5GHz:
		return "5GHz"
	default:
		return "disabled"
	}
}

// ============================================================================
//                              Status - 回调原因码
// ============================================================================

// Status 通知客户端时携带的原因码
type Status int

const (
	// StatusSuccess 成功
	StatusSuccess Status = iota
	// StatusInternalFailure 内部错误
	StatusInternalFailure
	// StatusNoSuchPeer 目标节点不存在
	StatusNoSuchPeer
	// StatusProtocolFailure native 层协议错误
	StatusProtocolFailure
)

// String 返回状态码的字符串表示
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusInternalFailure:
		return "internal_failure"
	case StatusNoSuchPeer:
		return "no_such_peer"
	case StatusProtocolFailure:
		return "protocol_failure"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}
