package session

import (
	"github.com/dep2p/go-aware/pkg/interfaces"
	"github.com/dep2p/go-aware/pkg/types"
)

// Reconfigure 更新会话配置
//
// cfg 必须与会话模式一致，否则返回 ErrModeMismatch 并通知客户端，
// 不会访问 native 层。模式一致时先刷新更新时间，再向 native 层提交请求；
// 请求被同步拒绝时通知客户端并返回 ErrNativeRejected。
//
// 返回 nil 只表示请求已被接受，配置是否最终生效由 native 层另行上报。
func (s *Session) Reconfigure(txID types.TransactionID, cfg types.DiscoveryConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	const op = "reconfigure"
	if s.terminated.Load() {
		return s.failLocked(newError(op, s.id, ErrSessionTerminated, nil))
	}

	var err error
	switch c := cfg.(type) {
	case *types.PublishConfig:
		if s.mode != types.ModePublish {
			s.logger.Error("订阅会话不能用于发布")
			return s.configFailLocked(newError(op, s.id, ErrModeMismatch, nil))
		}
		if c == nil {
			return s.configFailLocked(newError(op, s.id, ErrNilConfig, nil))
		}
		s.updatedAt = s.clock.Now()
		err = s.api.Publish(txID, s.pubSubID, c)

	case *types.SubscribeConfig:
		if s.mode != types.ModeSubscribe {
			s.logger.Error("发布会话不能用于订阅")
			return s.configFailLocked(newError(op, s.id, ErrModeMismatch, nil))
		}
		if c == nil {
			return s.configFailLocked(newError(op, s.id, ErrNilConfig, nil))
		}
		s.updatedAt = s.clock.Now()
		err = s.api.Subscribe(txID, s.pubSubID, c)

	case nil:
		return s.configFailLocked(newError(op, s.id, ErrNilConfig, nil))

	default:
		return s.configFailLocked(newError(op, s.id, ErrModeMismatch, nil))
	}

	if err != nil {
		return s.configFailLocked(newError(op, s.id, ErrNativeRejected, err))
	}

	s.logger.Debug("重配置请求已提交", "txId", int(txID))
	return nil
}

// SendMessage 向会话内的对端发送消息
//
// peerID 必须来自本会话的匹配或收到消息事件，否则返回 ErrUnknownPeer，
// 并以原始 messageID 通知客户端发送失败。
//
// 返回 nil 只表示请求已被接受，投递结果由 native 层另行上报。
func (s *Session) SendMessage(txID types.TransactionID, peerID types.PeerID, payload []byte,
	messageID types.MessageID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	const op = "send_message"
	if s.terminated.Load() {
		return s.failLocked(newError(op, s.id, ErrSessionTerminated, nil))
	}

	peer, ok := s.peers.Get(peerID)
	if !ok {
		s.logger.Error("目标节点未与本会话匹配或通信过", "peerId", peerID.String())
		return s.sendFailLocked(messageID, types.StatusNoSuchPeer,
			newError(op, s.id, ErrUnknownPeer, nil))
	}

	if err := s.api.SendMessage(txID, s.pubSubID, peer.InstanceID, peer.Addr, payload, messageID); err != nil {
		return s.sendFailLocked(messageID, types.StatusInternalFailure,
			newError(op, s.id, ErrNativeRejected, err))
	}

	s.logger.Debug("消息发送请求已提交",
		"txId", int(txID),
		"peerId", peerID.String(),
		"messageId", int(messageID),
		"size", len(payload))
	return nil
}

// failLocked 记录失败并返回错误，不通知客户端
func (s *Session) failLocked(err *SessionError) error {
	s.metrics.CommandFailed(failureReason(err))
	s.logger.Warn("命令失败", "op", err.Op, "error", err)
	return err
}

// configFailLocked 通知客户端配置失败
func (s *Session) configFailLocked(err *SessionError) error {
	s.notifyLocked("OnSessionConfigFailed", func(cb interfaces.SessionCallback) error {
		return cb.OnSessionConfigFailed(types.StatusInternalFailure)
	})
	return s.failLocked(err)
}

// sendFailLocked 通知客户端消息发送失败
func (s *Session) sendFailLocked(messageID types.MessageID, reason types.Status, err *SessionError) error {
	s.notifyLocked("OnMessageSendFailed", func(cb interfaces.SessionCallback) error {
		return cb.OnMessageSendFailed(messageID, reason)
	})
	return s.failLocked(err)
}
