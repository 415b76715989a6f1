package mocks

import (
	"sync"

	"github.com/dep2p/go-aware/pkg/interfaces"
	"github.com/dep2p/go-aware/pkg/types"
)

// 确保实现了接口
var _ interfaces.SessionCallback = (*MockSessionCallback)(nil)

// 回调名称
const (
	OpConfigFailed      = "OnSessionConfigFailed"
	OpTerminated        = "OnSessionTerminated"
	OpMessageSendFailed = "OnMessageSendFailed"
	OpMatch             = "OnMatch"
	OpMatchWithDistance = "OnMatchWithDistance"
	OpMatchExpired      = "OnMatchExpired"
	OpMessageReceived   = "OnMessageReceived"
)

// CallbackEvent 记录一次回调
type CallbackEvent struct {
	Op                  string
	PeerID              types.PeerID
	Reason              types.Status
	MessageID           types.MessageID
	ServiceSpecificInfo []byte
	MatchFilter         []byte
	RangeMm             int
	CipherSuite         int
	SCID                []byte
	Payload             []byte
}

// MockSessionCallback 模拟 SessionCallback
//
// Err 不为 nil 时每个方法都返回它，模拟客户端已经退出；
// PanicWith 不为 nil 时每个方法都 panic。两种情况下事件依然会被记录。
type MockSessionCallback struct {
	mu     sync.Mutex
	events []CallbackEvent

	Err       error
	PanicWith any
}

// NewMockSessionCallback 创建 MockSessionCallback
func NewMockSessionCallback() *MockSessionCallback {
	return &MockSessionCallback{}
}

func (m *MockSessionCallback) record(ev CallbackEvent) error {
	m.mu.Lock()
	m.events = append(m.events, ev)
	err, p := m.Err, m.PanicWith
	m.mu.Unlock()

	if p != nil {
		panic(p)
	}
	return err
}

// OnSessionConfigFailed 记录回调
func (m *MockSessionCallback) OnSessionConfigFailed(reason types.Status) error {
	return m.record(CallbackEvent{Op: OpConfigFailed, Reason: reason})
}

// OnSessionTerminated 记录回调
func (m *MockSessionCallback) OnSessionTerminated(reason types.Status) error {
	return m.record(CallbackEvent{Op: OpTerminated, Reason: reason})
}

// OnMessageSendFailed 记录回调
func (m *MockSessionCallback) OnMessageSendFailed(messageID types.MessageID, reason types.Status) error {
	return m.record(CallbackEvent{Op: OpMessageSendFailed, MessageID: messageID, Reason: reason})
}

// OnMatch 记录回调
func (m *MockSessionCallback) OnMatch(peerID types.PeerID, serviceSpecificInfo, matchFilter []byte,
	cipherSuite int, scid []byte) error {
	return m.record(CallbackEvent{
		Op:                  OpMatch,
		PeerID:              peerID,
		ServiceSpecificInfo: serviceSpecificInfo,
		MatchFilter:         matchFilter,
		CipherSuite:         cipherSuite,
		SCID:                scid,
	})
}

// OnMatchWithDistance 记录回调
func (m *MockSessionCallback) OnMatchWithDistance(peerID types.PeerID, serviceSpecificInfo, matchFilter []byte,
	rangeMm int, cipherSuite int, scid []byte) error {
	return m.record(CallbackEvent{
		Op:                  OpMatchWithDistance,
		PeerID:              peerID,
		ServiceSpecificInfo: serviceSpecificInfo,
		MatchFilter:         matchFilter,
		RangeMm:             rangeMm,
		CipherSuite:         cipherSuite,
		SCID:                scid,
	})
}

// OnMatchExpired 记录回调
func (m *MockSessionCallback) OnMatchExpired(peerID types.PeerID) error {
	return m.record(CallbackEvent{Op: OpMatchExpired, PeerID: peerID})
}

// OnMessageReceived 记录回调
func (m *MockSessionCallback) OnMessageReceived(peerID types.PeerID, payload []byte) error {
	return m.record(CallbackEvent{Op: OpMessageReceived, PeerID: peerID, Payload: payload})
}

// Events 返回全部回调记录
func (m *MockSessionCallback) Events() []CallbackEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CallbackEvent(nil), m.events...)
}

// Count 返回指定回调的次数
func (m *MockSessionCallback) Count(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, ev := range m.events {
		if ev.Op == op {
			n++
		}
	}
	return n
}

// Last 返回最后一次回调
func (m *MockSessionCallback) Last() (CallbackEvent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.events) == 0 {
		return CallbackEvent{}, false
	}
	return m.events[len(m.events)-1], true
}

// Reset 清空回调记录
func (m *MockSessionCallback) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
