package mocks

import (
	"net"
	"sync"

	"github.com/dep2p/go-aware/pkg/interfaces"
	"github.com/dep2p/go-aware/pkg/types"
)

// 确保实现了接口
var _ interfaces.NativeAPI = (*MockNativeAPI)(nil)

// ConfigCall 记录一次 Publish/Subscribe 请求
type ConfigCall struct {
	TxID      types.TransactionID
	PubSubID  types.PubSubID
	Publish   *types.PublishConfig
	Subscribe *types.SubscribeConfig
}

// SendCall 记录一次 SendMessage 请求
type SendCall struct {
	TxID       types.TransactionID
	PubSubID   types.PubSubID
	InstanceID types.InstanceID
	Addr       net.HardwareAddr
	Payload    []byte
	MessageID  types.MessageID
}

// StopCall 记录一次 StopPublish/StopSubscribe 请求
type StopCall struct {
	TxID     types.TransactionID
	PubSubID types.PubSubID
	Publish  bool
}

// MockNativeAPI 模拟 NativeAPI
type MockNativeAPI struct {
	mu sync.Mutex

	// 可覆盖的方法，为 nil 时返回 nil（接受请求）
	PublishFunc     func(txID types.TransactionID, pubSubID types.PubSubID, cfg *types.PublishConfig) error
	SubscribeFunc   func(txID types.TransactionID, pubSubID types.PubSubID, cfg *types.SubscribeConfig) error
	SendMessageFunc func(txID types.TransactionID, pubSubID types.PubSubID, instanceID types.InstanceID,
		addr net.HardwareAddr, payload []byte, messageID types.MessageID) error

	// 调用记录
	publishCalls   []ConfigCall
	subscribeCalls []ConfigCall
	sendCalls      []SendCall
	stopCalls      []StopCall
}

// NewMockNativeAPI 创建接受所有请求的 MockNativeAPI
func NewMockNativeAPI() *MockNativeAPI {
	return &MockNativeAPI{}
}

// Publish 记录请求
func (m *MockNativeAPI) Publish(txID types.TransactionID, pubSubID types.PubSubID, cfg *types.PublishConfig) error {
	m.mu.Lock()
	m.publishCalls = append(m.publishCalls, ConfigCall{TxID: txID, PubSubID: pubSubID, Publish: cfg})
	fn := m.PublishFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(txID, pubSubID, cfg)
	}
	return nil
}

// Subscribe 记录请求
func (m *MockNativeAPI) Subscribe(txID types.TransactionID, pubSubID types.PubSubID, cfg *types.SubscribeConfig) error {
	m.mu.Lock()
	m.subscribeCalls = append(m.subscribeCalls, ConfigCall{TxID: txID, PubSubID: pubSubID, Subscribe: cfg})
	fn := m.SubscribeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(txID, pubSubID, cfg)
	}
	return nil
}

// SendMessage 记录请求
func (m *MockNativeAPI) SendMessage(txID types.TransactionID, pubSubID types.PubSubID, instanceID types.InstanceID,
	addr net.HardwareAddr, payload []byte, messageID types.MessageID) error {
	m.mu.Lock()
	m.sendCalls = append(m.sendCalls, SendCall{
		TxID:       txID,
		PubSubID:   pubSubID,
		InstanceID: instanceID,
		Addr:       addr,
		Payload:    payload,
		MessageID:  messageID,
	})
	fn := m.SendMessageFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(txID, pubSubID, instanceID, addr, payload, messageID)
	}
	return nil
}

// StopPublish 记录请求
func (m *MockNativeAPI) StopPublish(txID types.TransactionID, pubSubID types.PubSubID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls = append(m.stopCalls, StopCall{TxID: txID, PubSubID: pubSubID, Publish: true})
}

// StopSubscribe 记录请求
func (m *MockNativeAPI) StopSubscribe(txID types.TransactionID, pubSubID types.PubSubID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls = append(m.stopCalls, StopCall{TxID: txID, PubSubID: pubSubID, Publish: false})
}

// PublishCalls 返回 Publish 调用记录
func (m *MockNativeAPI) PublishCalls() []ConfigCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ConfigCall(nil), m.publishCalls...)
}

// SubscribeCalls 返回 Subscribe 调用记录
func (m *MockNativeAPI) SubscribeCalls() []ConfigCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ConfigCall(nil), m.subscribeCalls...)
}

// SendCalls 返回 SendMessage 调用记录
func (m *MockNativeAPI) SendCalls() []SendCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SendCall(nil), m.sendCalls...)
}

// StopCalls 返回停止请求记录
func (m *MockNativeAPI) StopCalls() []StopCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StopCall(nil), m.stopCalls...)
}

// TotalCalls 返回所有方法的调用总数
func (m *MockNativeAPI) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.publishCalls) + len(m.subscribeCalls) + len(m.sendCalls) + len(m.stopCalls)
}
