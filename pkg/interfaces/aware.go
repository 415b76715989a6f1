package interfaces

import (
	"net"

	"github.com/dep2p/go-aware/pkg/types"
)

// NativeAPI 定义 native 层的命令接口
//
// 所有方法都是「提交即返回」：返回 nil 只表示请求已被接受，
// 最终成功或失败通过独立的异步通道按 TransactionID/MessageID 关联上报，
// 不经过本接口。返回非 nil 错误表示请求被同步拒绝。
type NativeAPI interface {
	// Publish 启动或更新发布会话
	Publish(txID types.TransactionID, pubSubID types.PubSubID, cfg *types.PublishConfig) error

	// Subscribe 启动或更新订阅会话
	Subscribe(txID types.TransactionID, pubSubID types.PubSubID, cfg *types.SubscribeConfig) error

	// SendMessage 向会话内的对端发送消息
	SendMessage(txID types.TransactionID, pubSubID types.PubSubID, instanceID types.InstanceID,
		addr net.HardwareAddr, payload []byte, messageID types.MessageID) error

	// StopPublish 停止发布会话（幂等）
	StopPublish(txID types.TransactionID, pubSubID types.PubSubID)

	// StopSubscribe 停止订阅会话（幂等）
	StopSubscribe(txID types.TransactionID, pubSubID types.PubSubID)
}

// SessionCallback 定义客户端通知接口
//
// 返回错误表示通知通道已失效（例如客户端进程已退出），
// 调用方只记录日志，不会重试，也不会因此中断会话状态变更。
type SessionCallback interface {
	// OnSessionConfigFailed 会话配置失败
	OnSessionConfigFailed(reason types.Status) error

	// OnSessionTerminated 会话已终止
	OnSessionTerminated(reason types.Status) error

	// OnMessageSendFailed 消息发送失败
	OnMessageSendFailed(messageID types.MessageID, reason types.Status) error

	// OnMatch 发现匹配的对端
	OnMatch(peerID types.PeerID, serviceSpecificInfo, matchFilter []byte, cipherSuite int, scid []byte) error

	// OnMatchWithDistance 发现匹配的对端，并携带测距结果
	OnMatchWithDistance(peerID types.PeerID, serviceSpecificInfo, matchFilter []byte, rangeMm int,
		cipherSuite int, scid []byte) error

	// OnMatchExpired 已匹配的对端不再可见
	OnMatchExpired(peerID types.PeerID) error

	// OnMessageReceived 收到对端消息
	OnMessageReceived(peerID types.PeerID, payload []byte) error
}

// SessionMetrics 定义会话指标上报接口
//
// 实现必须并发安全，且每个方法都不能阻塞。
type SessionMetrics interface {
	// SessionCreated 会话创建
	SessionCreated(mode types.Mode)

	// SessionTerminated 会话终止
	SessionTerminated(mode types.Mode)

	// PeerAllocated 分配了新的 PeerID
	PeerAllocated()

	// Matched 上报匹配事件，kind 为 plain 或 ranged
	Matched(kind string)

	// MatchExpired 上报匹配过期
	MatchExpired()

	// MessageReceived 上报收到消息
	MessageReceived()

	// CommandFailed 命令失败，reason 为错误类别
	CommandFailed(reason string)

	// NotificationFailed 客户端通知失败
	NotificationFailed(op string)
}
