package loopback

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-aware/pkg/types"
)

type routed struct {
	op         string
	pubSubID   types.PubSubID
	instanceID types.InstanceID
	addr       net.HardwareAddr
	payload    []byte
}

// recordRouter 记录收到的事件
type recordRouter struct {
	mu     sync.Mutex
	events []routed
}

func (r *recordRouter) add(ev routed) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordRouter) snapshot() []routed {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]routed(nil), r.events...)
}

func (r *recordRouter) OnMatch(pubSubID types.PubSubID, ind *types.MatchIndication) types.PeerID {
	r.add(routed{op: "match", pubSubID: pubSubID, instanceID: ind.InstanceID, addr: ind.Addr})
	return types.NoPeer
}

func (r *recordRouter) OnMatchExpired(pubSubID types.PubSubID, instanceID types.InstanceID) (types.PeerID, bool) {
	r.add(routed{op: "expired", pubSubID: pubSubID, instanceID: instanceID})
	return types.NoPeer, false
}

func (r *recordRouter) OnMessageReceived(pubSubID types.PubSubID, instanceID types.InstanceID,
	addr net.HardwareAddr, payload []byte) types.PeerID {
	r.add(routed{op: "message", pubSubID: pubSubID, instanceID: instanceID, addr: addr, payload: payload})
	return types.NoPeer
}

func waitEvents(t *testing.T, rt *recordRouter, n int) []routed {
	t.Helper()
	require.Eventually(t, func() bool { return len(rt.snapshot()) >= n }, time.Second, 5*time.Millisecond)
	return rt.snapshot()
}

// TestRadio_Match 测试同服务名的发布与订阅互相匹配
func TestRadio_Match(t *testing.T) {
	r := NewRadio()
	defer r.Close()
	rt := &recordRouter{}
	r.Attach(rt)

	require.NoError(t, r.Publish(1, 1, &types.PublishConfig{ServiceName: "chat"}))
	require.NoError(t, r.Subscribe(2, 2, &types.SubscribeConfig{ServiceName: "chat"}))
	require.NoError(t, r.Subscribe(3, 3, &types.SubscribeConfig{ServiceName: "other"}))

	waitEvents(t, rt, 2)
	time.Sleep(20 * time.Millisecond)
	evs := rt.snapshot()
	require.Len(t, evs, 2)

	targets := map[types.PubSubID]types.InstanceID{}
	for _, ev := range evs {
		assert.Equal(t, "match", ev.op)
		targets[ev.pubSubID] = ev.instanceID
	}
	assert.Equal(t, types.InstanceID(12), targets[1])
	assert.Equal(t, types.InstanceID(11), targets[2])
	assert.Equal(t, 3, r.Stations())
}

// TestRadio_Message 测试消息投递携带发送方引用
func TestRadio_Message(t *testing.T) {
	r := NewRadio()
	defer r.Close()
	rt := &recordRouter{}
	r.Attach(rt)

	require.NoError(t, r.Publish(1, 1, &types.PublishConfig{ServiceName: "chat"}))
	require.NoError(t, r.Subscribe(2, 2, &types.SubscribeConfig{ServiceName: "chat"}))
	waitEvents(t, rt, 2)

	pubAddr := net.HardwareAddr{0x02, 0, 0, 0, 0, 1}
	require.NoError(t, r.SendMessage(3, 2, 11, pubAddr, []byte("hi"), 1))

	evs := waitEvents(t, rt, 3)
	last := evs[2]
	assert.Equal(t, "message", last.op)
	assert.Equal(t, types.PubSubID(1), last.pubSubID)
	assert.Equal(t, types.InstanceID(12), last.instanceID)
	assert.Equal(t, []byte("hi"), last.payload)

	assert.ErrorIs(t, r.SendMessage(4, 2, 99, pubAddr, nil, 2), ErrNoSuchPeer)
	assert.ErrorIs(t, r.SendMessage(4, 9, 11, pubAddr, nil, 2), ErrNotStarted)
}

// TestRadio_Leave 测试离开空口时对端收到过期事件
func TestRadio_Leave(t *testing.T) {
	r := NewRadio()
	defer r.Close()
	rt := &recordRouter{}
	r.Attach(rt)

	require.NoError(t, r.Publish(1, 1, &types.PublishConfig{ServiceName: "chat"}))
	require.NoError(t, r.Subscribe(2, 2, &types.SubscribeConfig{ServiceName: "chat"}))
	waitEvents(t, rt, 2)

	r.StopPublish(0, 1)
	r.StopPublish(0, 1)

	waitEvents(t, rt, 3)
	time.Sleep(20 * time.Millisecond)
	evs := rt.snapshot()
	require.Len(t, evs, 3)
	assert.Equal(t, routed{op: "expired", pubSubID: 2, instanceID: 11}, evs[2])
	assert.Equal(t, 1, r.Stations())
}

// TestRadio_QueuedUntilAttach 测试 Attach 前的事件排队
func TestRadio_QueuedUntilAttach(t *testing.T) {
	r := NewRadio()
	defer r.Close()

	require.NoError(t, r.Publish(1, 1, &types.PublishConfig{ServiceName: "chat"}))
	require.NoError(t, r.Subscribe(2, 2, &types.SubscribeConfig{ServiceName: "chat"}))

	rt := &recordRouter{}
	r.Attach(rt)
	waitEvents(t, rt, 2)
}

// TestRadio_Closed 测试关闭后拒绝请求
func TestRadio_Closed(t *testing.T) {
	r := NewRadio()
	r.Close()
	r.Close()

	assert.ErrorIs(t, r.Publish(1, 1, &types.PublishConfig{}), ErrClosed)
	assert.ErrorIs(t, r.SendMessage(1, 1, 1, nil, nil, 1), ErrClosed)
}
