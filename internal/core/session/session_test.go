package session

import (
	"bytes"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-aware/internal/core/peertable"
	"github.com/dep2p/go-aware/pkg/types"
	"github.com/dep2p/go-aware/tests/mocks"
)

var (
	macA = net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0xAA}
	macB = net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0xBB}
)

// fakeMetrics 记录指标调用
type fakeMetrics struct {
	mu         sync.Mutex
	created    int
	terminated int
	allocated  int
	matched    map[string]int
	expired    int
	received   int
	failures   map[string]int
	notifyFail map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		matched:    make(map[string]int),
		failures:   make(map[string]int),
		notifyFail: make(map[string]int),
	}
}

func (f *fakeMetrics) SessionCreated(types.Mode)    { f.mu.Lock(); f.created++; f.mu.Unlock() }
func (f *fakeMetrics) SessionTerminated(types.Mode) { f.mu.Lock(); f.terminated++; f.mu.Unlock() }
func (f *fakeMetrics) PeerAllocated()               { f.mu.Lock(); f.allocated++; f.mu.Unlock() }
func (f *fakeMetrics) Matched(kind string)          { f.mu.Lock(); f.matched[kind]++; f.mu.Unlock() }
func (f *fakeMetrics) MatchExpired()                { f.mu.Lock(); f.expired++; f.mu.Unlock() }
func (f *fakeMetrics) MessageReceived()             { f.mu.Lock(); f.received++; f.mu.Unlock() }
func (f *fakeMetrics) CommandFailed(reason string)  { f.mu.Lock(); f.failures[reason]++; f.mu.Unlock() }
func (f *fakeMetrics) NotificationFailed(op string) { f.mu.Lock(); f.notifyFail[op]++; f.mu.Unlock() }

type fixture struct {
	api   *mocks.MockNativeAPI
	cb    *mocks.MockSessionCallback
	alloc *peertable.Allocator
	clk   *clock.Mock
	m     *fakeMetrics
	s     *Session
}

func newFixture(t *testing.T, mode types.Mode) *fixture {
	t.Helper()
	f := &fixture{
		api:   mocks.NewMockNativeAPI(),
		cb:    mocks.NewMockSessionCallback(),
		alloc: peertable.NewAllocator(types.NoPeer),
		clk:   clock.NewMock(),
		m:     newFakeMetrics(),
	}
	s, err := New(f.api, f.alloc, Config{SessionID: 1, PubSubID: 3, Mode: mode}, f.cb,
		WithClock(f.clk), WithMetrics(f.m))
	require.NoError(t, err)
	f.s = s
	return f
}

func match(instanceID types.InstanceID, addr net.HardwareAddr) *types.MatchIndication {
	return &types.MatchIndication{
		InstanceID:          instanceID,
		Addr:                addr,
		ServiceSpecificInfo: []byte("ssi"),
		MatchFilter:         []byte("filter"),
		CipherSuite:         1,
		SCID:                []byte("scid"),
	}
}

// ============================================================================
//                              构造
// ============================================================================

// TestNew_Validation 测试构造参数校验
func TestNew_Validation(t *testing.T) {
	alloc := peertable.NewAllocator(types.NoPeer)

	_, err := New(nil, alloc, Config{Mode: types.ModePublish}, nil)
	assert.ErrorIs(t, err, ErrNilNativeAPI)

	_, err = New(mocks.NewMockNativeAPI(), alloc, Config{}, nil)
	assert.ErrorIs(t, err, ErrInvalidMode)
}

// TestNew_Accessors 测试构造后的访问器
func TestNew_Accessors(t *testing.T) {
	f := newFixture(t, types.ModePublish)

	assert.Equal(t, types.SessionID(1), f.s.ID())
	assert.Equal(t, types.PubSubID(3), f.s.PubSubID())
	assert.True(t, f.s.IsPublish())
	assert.True(t, f.s.IsPubSubIDSession(3))
	assert.False(t, f.s.IsPubSubIDSession(4))
	assert.Equal(t, f.clk.Now(), f.s.CreatedAt())
	assert.Equal(t, f.s.CreatedAt(), f.s.UpdatedAt())
	assert.Equal(t, 0, f.s.PeerCount())
	assert.False(t, f.s.Terminated())
	assert.NotNil(t, f.s.Callback())
	assert.Equal(t, 1, f.m.created)
}

// ============================================================================
//                              节点身份
// ============================================================================

// TestSession_Scenario 测试匹配、收消息、过期、发送的完整流程
func TestSession_Scenario(t *testing.T) {
	f := newFixture(t, types.ModeSubscribe)

	id := f.s.OnMatch(match(7, macA))
	require.Equal(t, types.PeerID(100), id)
	ev, ok := f.cb.Last()
	require.True(t, ok)
	assert.Equal(t, mocks.OpMatch, ev.Op)
	assert.Equal(t, types.PeerID(100), ev.PeerID)
	assert.Equal(t, []byte("ssi"), ev.ServiceSpecificInfo)
	assert.Equal(t, []byte("filter"), ev.MatchFilter)

	id = f.s.OnMessageReceived(7, macA, []byte("P"))
	assert.Equal(t, types.PeerID(100), id)
	ev, _ = f.cb.Last()
	assert.Equal(t, mocks.OpMessageReceived, ev.Op)
	assert.Equal(t, types.PeerID(100), ev.PeerID)
	assert.Equal(t, []byte("P"), ev.Payload)
	assert.Equal(t, 1, f.s.PeerCount())

	id, ok = f.s.OnMatchExpired(7)
	require.True(t, ok)
	assert.Equal(t, types.PeerID(100), id)
	ev, _ = f.cb.Last()
	assert.Equal(t, mocks.OpMatchExpired, ev.Op)
	assert.Equal(t, types.PeerID(100), ev.PeerID)
	assert.Equal(t, 0, f.s.PeerCount())

	err := f.s.SendMessage(1, 100, []byte("hi"), 42)
	assert.ErrorIs(t, err, ErrUnknownPeer)
	ev, _ = f.cb.Last()
	assert.Equal(t, mocks.OpMessageSendFailed, ev.Op)
	assert.Equal(t, types.MessageID(42), ev.MessageID)
	assert.Equal(t, types.StatusNoSuchPeer, ev.Reason)
	assert.Empty(t, f.api.SendCalls())
}

// TestSession_NoReuseAfterExpiry 测试过期后重新匹配分配新 PeerID
func TestSession_NoReuseAfterExpiry(t *testing.T) {
	f := newFixture(t, types.ModeSubscribe)

	x := f.s.OnMatch(match(5, macA))
	_, ok := f.s.OnMatchExpired(5)
	require.True(t, ok)
	y := f.s.OnMatch(match(5, macA))

	assert.NotEqual(t, x, y)
	assert.Greater(t, y, x)
	assert.Equal(t, 2, f.m.allocated)
}

// TestSession_DistinctAddresses 测试同一 InstanceID 不同地址视为不同节点
func TestSession_DistinctAddresses(t *testing.T) {
	f := newFixture(t, types.ModeSubscribe)

	a := f.s.OnMatch(match(5, macA))
	b := f.s.OnMatch(match(5, macB))
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, f.s.PeerCount())
}

// TestSession_SharedAllocator 测试多个会话共享分配器时 PeerID 全局唯一
func TestSession_SharedAllocator(t *testing.T) {
	alloc := peertable.NewAllocator(types.NoPeer)
	api := mocks.NewMockNativeAPI()

	s1, err := New(api, alloc, Config{SessionID: 1, PubSubID: 1, Mode: types.ModePublish}, nil)
	require.NoError(t, err)
	s2, err := New(api, alloc, Config{SessionID: 2, PubSubID: 2, Mode: types.ModeSubscribe}, nil)
	require.NoError(t, err)

	a := s1.OnMatch(match(7, macA))
	b := s2.OnMatch(match(7, macA))
	assert.Equal(t, types.PeerID(100), a)
	assert.Equal(t, types.PeerID(101), b)

	_, ok := s1.Peer(b)
	assert.False(t, ok)
}

// TestSession_RangedMatch 测试带测距样本的匹配
func TestSession_RangedMatch(t *testing.T) {
	f := newFixture(t, types.ModeSubscribe)

	ind := match(9, macA)
	ind.RangingIndication = 1
	ind.RangeMm = 2500
	f.s.OnMatch(ind)

	ev, ok := f.cb.Last()
	require.True(t, ok)
	assert.Equal(t, mocks.OpMatchWithDistance, ev.Op)
	assert.Equal(t, 2500, ev.RangeMm)
	assert.Equal(t, 1, f.m.matched["ranged"])
	assert.Equal(t, 0, f.cb.Count(mocks.OpMatch))
}

// TestSession_RangeWithoutIndication 测试无测距标志时忽略距离
func TestSession_RangeWithoutIndication(t *testing.T) {
	f := newFixture(t, types.ModeSubscribe)

	ind := match(9, macA)
	ind.RangeMm = 2500
	f.s.OnMatch(ind)

	assert.Equal(t, 1, f.cb.Count(mocks.OpMatch))
	assert.Equal(t, 0, f.cb.Count(mocks.OpMatchWithDistance))
	assert.Equal(t, 1, f.m.matched["plain"])
}

// TestSession_OnMatchNil 测试空事件
func TestSession_OnMatchNil(t *testing.T) {
	f := newFixture(t, types.ModeSubscribe)

	assert.Equal(t, types.NoPeer, f.s.OnMatch(nil))
	assert.Empty(t, f.cb.Events())
}

// TestSession_ExpireUnknown 测试过期未知节点为静默空操作
func TestSession_ExpireUnknown(t *testing.T) {
	f := newFixture(t, types.ModeSubscribe)
	f.s.OnMatch(match(7, macA))
	f.cb.Reset()

	id, ok := f.s.OnMatchExpired(99)
	assert.False(t, ok)
	assert.Equal(t, types.NoPeer, id)
	assert.Empty(t, f.cb.Events())
	assert.Equal(t, 1, f.s.PeerCount())
	assert.Equal(t, 0, f.m.expired)
}

// TestSession_Peer 测试 Peer 查询无副作用
func TestSession_Peer(t *testing.T) {
	f := newFixture(t, types.ModeSubscribe)
	id := f.s.OnMatch(match(7, macA))

	e, ok := f.s.Peer(id)
	require.True(t, ok)
	assert.Equal(t, types.InstanceID(7), e.InstanceID)
	assert.Equal(t, macA, e.Addr)

	_, ok = f.s.Peer(types.NoPeer)
	assert.False(t, ok)
	_, ok = f.s.Peer(id + 1)
	assert.False(t, ok)
	assert.Equal(t, 1, f.s.PeerCount())
}

// ============================================================================
//                              命令
// ============================================================================

// TestReconfigure_Publish 测试发布会话重配置
func TestReconfigure_Publish(t *testing.T) {
	f := newFixture(t, types.ModePublish)
	f.clk.Add(time.Minute)

	cfg := &types.PublishConfig{ServiceName: "svc"}
	require.NoError(t, f.s.Reconfigure(11, cfg))

	calls := f.api.PublishCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, types.TransactionID(11), calls[0].TxID)
	assert.Equal(t, types.PubSubID(3), calls[0].PubSubID)
	assert.Same(t, cfg, calls[0].Publish)
	assert.Equal(t, f.clk.Now(), f.s.UpdatedAt())
	assert.Empty(t, f.cb.Events())
}

// TestReconfigure_Subscribe 测试订阅会话重配置
func TestReconfigure_Subscribe(t *testing.T) {
	f := newFixture(t, types.ModeSubscribe)

	require.NoError(t, f.s.Reconfigure(12, &types.SubscribeConfig{ServiceName: "svc"}))
	require.Len(t, f.api.SubscribeCalls(), 1)
	assert.Empty(t, f.api.PublishCalls())
}

// TestReconfigure_ModeMismatch 测试模式不符时不访问 native 层
func TestReconfigure_ModeMismatch(t *testing.T) {
	tests := []struct {
		name string
		mode types.Mode
		cfg  types.DiscoveryConfig
	}{
		{"publish config on subscribe session", types.ModeSubscribe, &types.PublishConfig{}},
		{"subscribe config on publish session", types.ModePublish, &types.SubscribeConfig{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.mode)
			before := f.s.UpdatedAt()
			f.clk.Add(time.Minute)

			err := f.s.Reconfigure(1, tt.cfg)
			assert.ErrorIs(t, err, ErrModeMismatch)

			var serr *SessionError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, "reconfigure", serr.Op)
			assert.Equal(t, types.SessionID(1), serr.SessionID)

			assert.Equal(t, 0, f.api.TotalCalls())
			assert.Equal(t, 1, f.cb.Count(mocks.OpConfigFailed))
			assert.Equal(t, before, f.s.UpdatedAt())
			assert.Equal(t, 1, f.m.failures["mode_mismatch"])
		})
	}
}

// TestReconfigure_NilConfig 测试空配置
func TestReconfigure_NilConfig(t *testing.T) {
	f := newFixture(t, types.ModePublish)

	assert.ErrorIs(t, f.s.Reconfigure(1, nil), ErrNilConfig)
	assert.ErrorIs(t, f.s.Reconfigure(1, (*types.PublishConfig)(nil)), ErrNilConfig)
	assert.Equal(t, 0, f.api.TotalCalls())
	assert.Equal(t, 2, f.cb.Count(mocks.OpConfigFailed))
}

// TestReconfigure_NativeRejected 测试 native 层同步拒绝
func TestReconfigure_NativeRejected(t *testing.T) {
	f := newFixture(t, types.ModePublish)
	busy := errors.New("firmware busy")
	f.api.PublishFunc = func(types.TransactionID, types.PubSubID, *types.PublishConfig) error {
		return busy
	}

	err := f.s.Reconfigure(1, &types.PublishConfig{})
	assert.ErrorIs(t, err, ErrNativeRejected)
	assert.ErrorIs(t, err, busy)

	ev, ok := f.cb.Last()
	require.True(t, ok)
	assert.Equal(t, mocks.OpConfigFailed, ev.Op)
	assert.Equal(t, types.StatusInternalFailure, ev.Reason)
	assert.Equal(t, 1, f.m.failures["native_rejected"])
}

// TestSendMessage_Success 测试发送使用解析出的 native 引用
func TestSendMessage_Success(t *testing.T) {
	f := newFixture(t, types.ModePublish)
	id := f.s.OnMessageReceived(7, macA, []byte("hello"))
	f.cb.Reset()

	require.NoError(t, f.s.SendMessage(5, id, []byte("reply"), 77))

	calls := f.api.SendCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, types.TransactionID(5), calls[0].TxID)
	assert.Equal(t, types.PubSubID(3), calls[0].PubSubID)
	assert.Equal(t, types.InstanceID(7), calls[0].InstanceID)
	assert.Equal(t, macA, calls[0].Addr)
	assert.Equal(t, []byte("reply"), calls[0].Payload)
	assert.Equal(t, types.MessageID(77), calls[0].MessageID)
	assert.Empty(t, f.cb.Events())
}

// TestSendMessage_UnknownPeer 测试从未出现的 PeerID
func TestSendMessage_UnknownPeer(t *testing.T) {
	f := newFixture(t, types.ModePublish)

	err := f.s.SendMessage(1, 12345, nil, -3)
	assert.ErrorIs(t, err, ErrUnknownPeer)

	ev, ok := f.cb.Last()
	require.True(t, ok)
	assert.Equal(t, types.MessageID(-3), ev.MessageID)
	assert.Equal(t, types.StatusNoSuchPeer, ev.Reason)
	assert.Equal(t, 0, f.api.TotalCalls())
}

// TestSendMessage_NativeRejected 测试发送被 native 层拒绝
func TestSendMessage_NativeRejected(t *testing.T) {
	f := newFixture(t, types.ModePublish)
	id := f.s.OnMatch(match(7, macA))
	f.api.SendMessageFunc = func(types.TransactionID, types.PubSubID, types.InstanceID,
		net.HardwareAddr, []byte, types.MessageID) error {
		return errors.New("queue full")
	}

	err := f.s.SendMessage(1, id, []byte("x"), 9)
	assert.ErrorIs(t, err, ErrNativeRejected)

	ev, _ := f.cb.Last()
	assert.Equal(t, mocks.OpMessageSendFailed, ev.Op)
	assert.Equal(t, types.MessageID(9), ev.MessageID)
	assert.Equal(t, types.StatusInternalFailure, ev.Reason)
}

// ============================================================================
//                              终止
// ============================================================================

// TestTerminate_Idempotent 测试重复终止只通知一次
func TestTerminate_Idempotent(t *testing.T) {
	f := newFixture(t, types.ModeSubscribe)
	f.s.OnMatch(match(7, macA))

	f.s.Terminate()
	f.s.Terminate()

	assert.Equal(t, 1, f.cb.Count(mocks.OpTerminated))
	assert.True(t, f.s.Terminated())
	assert.Nil(t, f.s.Callback())
	assert.Equal(t, 0, f.s.PeerCount())
	assert.Equal(t, 1, f.m.terminated)

	stops := f.api.StopCalls()
	require.Len(t, stops, 2)
	for _, c := range stops {
		assert.False(t, c.Publish)
		assert.Equal(t, types.PubSubID(3), c.PubSubID)
	}
}

// TestTerminate_PublishStop 测试发布会话使用 StopPublish
func TestTerminate_PublishStop(t *testing.T) {
	f := newFixture(t, types.ModePublish)
	f.s.Terminate()

	stops := f.api.StopCalls()
	require.Len(t, stops, 1)
	assert.True(t, stops[0].Publish)
}

// TestTerminate_CommandsRejected 测试终止后命令直接失败
func TestTerminate_CommandsRejected(t *testing.T) {
	f := newFixture(t, types.ModePublish)
	id := f.s.OnMatch(match(7, macA))
	f.s.Terminate()
	f.cb.Reset()
	before := f.api.TotalCalls()

	assert.ErrorIs(t, f.s.Reconfigure(1, &types.PublishConfig{}), ErrSessionTerminated)
	assert.ErrorIs(t, f.s.SendMessage(1, id, nil, 1), ErrSessionTerminated)
	assert.Equal(t, before, f.api.TotalCalls())
	assert.Empty(t, f.cb.Events())
	assert.Equal(t, 2, f.m.failures["terminated"])
}

// TestTerminate_EventsDropped 测试终止后事件被丢弃
func TestTerminate_EventsDropped(t *testing.T) {
	f := newFixture(t, types.ModeSubscribe)
	f.s.Terminate()
	f.cb.Reset()
	next := f.alloc.Peek()

	assert.Equal(t, types.NoPeer, f.s.OnMatch(match(7, macA)))
	assert.Equal(t, types.NoPeer, f.s.OnMessageReceived(7, macA, nil))
	_, ok := f.s.OnMatchExpired(7)
	assert.False(t, ok)

	assert.Empty(t, f.cb.Events())
	assert.Equal(t, next, f.alloc.Peek())
}

// ============================================================================
//                              通知失败
// ============================================================================

// TestNotify_CallbackError 测试回调返回错误不影响状态
func TestNotify_CallbackError(t *testing.T) {
	f := newFixture(t, types.ModeSubscribe)
	f.cb.Err = errors.New("binder died")

	id := f.s.OnMatch(match(7, macA))
	assert.Equal(t, types.PeerID(100), id)
	assert.Equal(t, 1, f.s.PeerCount())
	assert.Equal(t, 1, f.m.notifyFail["OnMatch"])

	f.s.Terminate()
	assert.True(t, f.s.Terminated())
	assert.Len(t, f.api.StopCalls(), 1)
}

// TestNotify_CallbackPanic 测试回调 panic 被捕获
func TestNotify_CallbackPanic(t *testing.T) {
	f := newFixture(t, types.ModeSubscribe)
	f.cb.PanicWith = "boom"

	assert.NotPanics(t, func() {
		f.s.OnMatch(match(7, macA))
		f.s.OnMatchExpired(7)
		f.s.Terminate()
	})
	assert.Equal(t, 1, f.m.notifyFail["OnMatchExpired"])
	assert.Equal(t, 1, f.m.notifyFail["OnSessionTerminated"])
}

// TestNotify_NilCallback 测试无回调的会话
func TestNotify_NilCallback(t *testing.T) {
	api := mocks.NewMockNativeAPI()
	s, err := New(api, nil, Config{SessionID: 2, Mode: types.ModePublish}, nil)
	require.NoError(t, err)

	assert.Equal(t, peertable.DefaultFirstPeerID, s.OnMatch(match(1, macA)))
	assert.ErrorIs(t, s.SendMessage(1, 999, nil, 1), ErrUnknownPeer)
	s.Terminate()
	assert.Len(t, api.StopCalls(), 1)
}

// ============================================================================
//                              即时模式
// ============================================================================

// TestInstantMode 测试即时模式超时
func TestInstantMode(t *testing.T) {
	f := newFixture(t, types.ModePublish)
	timeout := 30 * time.Minute

	assert.Equal(t, types.InstantModeDisabled, f.s.InstantMode(timeout))

	f.s.SetInstantModeEnabled(true)
	assert.Equal(t, types.InstantMode24GHz, f.s.InstantMode(timeout))

	f.s.SetInstantModeBand(types.Band5GHz)
	assert.Equal(t, types.InstantMode5GHz, f.s.InstantMode(timeout))

	f.clk.Add(timeout + time.Second)
	assert.Equal(t, types.InstantModeDisabled, f.s.InstantMode(timeout))

	require.NoError(t, f.s.Reconfigure(1, &types.PublishConfig{}))
	assert.Equal(t, types.InstantMode5GHz, f.s.InstantMode(timeout))
}

// TestInstantMode_Terminated 测试终止后即时模式失效
func TestInstantMode_Terminated(t *testing.T) {
	f := newFixture(t, types.ModePublish)
	f.s.SetInstantModeEnabled(true)
	require.Equal(t, types.InstantMode24GHz, f.s.InstantMode(time.Hour))

	f.s.Terminate()
	assert.Equal(t, types.InstantModeDisabled, f.s.InstantMode(time.Hour))
}

// TestRangingEnabled 测试测距开关
func TestRangingEnabled(t *testing.T) {
	f := newFixture(t, types.ModeSubscribe)
	assert.False(t, f.s.RangingEnabled())
	f.s.SetRangingEnabled(true)
	assert.True(t, f.s.RangingEnabled())
}

// ============================================================================
//                              诊断
// ============================================================================

// TestDump 测试状态输出
func TestDump(t *testing.T) {
	f := newFixture(t, types.ModeSubscribe)
	f.s.OnMatch(match(7, macA))

	var buf bytes.Buffer
	require.NoError(t, f.s.Dump(&buf))

	out := buf.String()
	assert.Contains(t, out, "AwareSessionState:")
	assert.Contains(t, out, "sessionId: 1")
	assert.Contains(t, out, "mode: subscribe")
	assert.Contains(t, out, "pubSubId: 3")
	assert.Contains(t, out, "peers: [{100=instanceId [7, mac=00:11:22:33:44:aa]}]")

	// 无副作用
	assert.Equal(t, 1, f.s.PeerCount())
	assert.Equal(t, 1, len(f.cb.Events()))
}

// TestSession_Concurrent 测试并发事件与命令
func TestSession_Concurrent(t *testing.T) {
	f := newFixture(t, types.ModeSubscribe)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ref := types.InstanceID(i % 4)
			id := f.s.OnMatch(match(ref, macA))
			_ = f.s.SendMessage(types.TransactionID(i), id, []byte("x"), types.MessageID(i))
			f.s.OnMessageReceived(ref, macA, []byte("y"))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, f.s.PeerCount())
}
