package types

import "net"

// MatchIndication native 层上报的匹配事件
//
// Addr 为对端硬件地址，只在会话内部使用，绝不下发给客户端。
type MatchIndication struct {
	InstanceID          InstanceID
	Addr                net.HardwareAddr
	ServiceSpecificInfo []byte
	MatchFilter         []byte

	// RangingIndication 测距事件位掩码，0 表示无有效测距样本
	RangingIndication int

	// RangeMm 对端距离（毫米），仅在 RangingIndication 非 0 时有效
	RangeMm int

	CipherSuite int
	SCID        []byte
}

// HasRange 是否携带有效测距样本
func (m *MatchIndication) HasRange() bool {
	return m.RangingIndication != 0
}

// MatchEvent 下发给客户端的匹配事件
//
// 以 Ranged 区分普通匹配与带距离的匹配，只有 Ranged 为 true 时 RangeMm 有效。
type MatchEvent struct {
	PeerID              PeerID
	ServiceSpecificInfo []byte
	MatchFilter         []byte
	CipherSuite         int
	SCID                []byte

	Ranged  bool
	RangeMm int
}

// NewMatchEvent 用已解析的 PeerID 构造客户端事件
func NewMatchEvent(peerID PeerID, ind *MatchIndication) MatchEvent {
	ev := MatchEvent{
		PeerID:              peerID,
		ServiceSpecificInfo: ind.ServiceSpecificInfo,
		MatchFilter:         ind.MatchFilter,
		CipherSuite:         ind.CipherSuite,
		SCID:                ind.SCID,
	}
	if ind.HasRange() {
		ev.Ranged = true
		ev.RangeMm = ind.RangeMm
	}
	return ev
}

// Kind 返回事件类别，用于日志与指标标签
func (e MatchEvent) Kind() string {
	if e.Ranged {
		return "ranged"
	}
	return "plain"
}
