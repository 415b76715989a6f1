package session

import (
	"fmt"
	"net"

	"github.com/dep2p/go-aware/pkg/interfaces"
	"github.com/dep2p/go-aware/pkg/types"
)

// OnMatch 处理 native 层上报的匹配事件
//
// 解析或分配 PeerID 后通知客户端；带有效测距样本时使用 OnMatchWithDistance。
// 硬件地址不会下发给客户端。会话终止后事件被丢弃，返回 NoPeer。
func (s *Session) OnMatch(ind *types.MatchIndication) types.PeerID {
	if ind == nil {
		return types.NoPeer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated.Load() {
		s.logger.Debug("会话已终止，丢弃匹配事件", "instanceId", int(ind.InstanceID))
		return types.NoPeer
	}

	peerID := s.resolveLocked(ind.InstanceID, ind.Addr)
	ev := types.NewMatchEvent(peerID, ind)
	s.metrics.Matched(ev.Kind())

	s.notifyLocked("OnMatch", func(cb interfaces.SessionCallback) error {
		if ev.Ranged {
			return cb.OnMatchWithDistance(ev.PeerID, ev.ServiceSpecificInfo, ev.MatchFilter,
				ev.RangeMm, ev.CipherSuite, ev.SCID)
		}
		return cb.OnMatch(ev.PeerID, ev.ServiceSpecificInfo, ev.MatchFilter, ev.CipherSuite, ev.SCID)
	})
	return peerID
}

// OnMatchExpired 处理 native 层上报的匹配过期事件
//
// 删除第一个 InstanceID 匹配的条目并通知客户端。未找到时静默返回：
// native 层可能上报从未在本会话出现的节点（例如会话拆除期间的竞态）。
func (s *Session) OnMatchExpired(instanceID types.InstanceID) (types.PeerID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated.Load() {
		s.logger.Debug("会话已终止，丢弃过期事件", "instanceId", int(instanceID))
		return types.NoPeer, false
	}

	peerID, ok := s.peers.RemoveByInstance(instanceID)
	if !ok {
		s.logger.Debug("过期事件没有对应节点", "instanceId", int(instanceID))
		return types.NoPeer, false
	}
	s.metrics.MatchExpired()

	s.notifyLocked("OnMatchExpired", func(cb interfaces.SessionCallback) error {
		return cb.OnMatchExpired(peerID)
	})
	return peerID, true
}

// OnMessageReceived 处理 native 层上报的对端消息
//
// PeerID 的解析规则与 OnMatch 相同。
func (s *Session) OnMessageReceived(instanceID types.InstanceID, addr net.HardwareAddr, payload []byte) types.PeerID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated.Load() {
		s.logger.Debug("会话已终止，丢弃消息", "instanceId", int(instanceID))
		return types.NoPeer
	}

	peerID := s.resolveLocked(instanceID, addr)
	s.metrics.MessageReceived()

	s.notifyLocked("OnMessageReceived", func(cb interfaces.SessionCallback) error {
		return cb.OnMessageReceived(peerID, payload)
	})
	return peerID
}

// resolveLocked 解析或分配 PeerID
func (s *Session) resolveLocked(instanceID types.InstanceID, addr net.HardwareAddr) types.PeerID {
	peerID, added := s.peers.Resolve(instanceID, addr)
	if added {
		s.metrics.PeerAllocated()
		s.logger.Verbose("新节点", "peerId", peerID.String(), "instanceId", int(instanceID), "mac", addr.String())
	}
	return peerID
}

// notifyLocked 尽力通知客户端
//
// 回调不存在、返回错误或 panic 都只记录日志与指标，不向上传播。
func (s *Session) notifyLocked(op string, fn func(interfaces.SessionCallback) error) {
	if s.callback == nil {
		s.logger.Debug("客户端回调不可用，丢弃通知", "op", op)
		return
	}

	if err := safeCall(s.callback, fn); err != nil {
		s.metrics.NotificationFailed(op)
		s.logger.Warn("客户端通知失败",
			"op", op,
			"error", newError(op, s.id, ErrNotificationUnavailable, err))
	}
}

// safeCall 调用回调并把 panic 转换为错误
func safeCall(cb interfaces.SessionCallback, fn func(interfaces.SessionCallback) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("callback panic: %v", r)
		}
	}()
	return fn(cb)
}
