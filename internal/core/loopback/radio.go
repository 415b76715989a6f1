package loopback

import (
	"bytes"
	"errors"
	"net"
	"sync"

	"github.com/dep2p/go-aware/pkg/interfaces"
	"github.com/dep2p/go-aware/pkg/lib/log"
	"github.com/dep2p/go-aware/pkg/types"
)

var logger = log.Logger("core/loopback")

// 确保实现了接口
var _ interfaces.NativeAPI = (*Radio)(nil)

var (
	// ErrNoSuchPeer 目标不在空口上
	ErrNoSuchPeer = errors.New("loopback: no such peer")

	// ErrNotStarted 会话尚未发布或订阅
	ErrNotStarted = errors.New("loopback: session not started")

	// ErrClosed Radio 已关闭
	ErrClosed = errors.New("loopback: closed")
)

// Router 接收 native 事件的一方，通常是 *manager.Manager
type Router interface {
	OnMatch(pubSubID types.PubSubID, ind *types.MatchIndication) types.PeerID
	OnMatchExpired(pubSubID types.PubSubID, instanceID types.InstanceID) (types.PeerID, bool)
	OnMessageReceived(pubSubID types.PubSubID, instanceID types.InstanceID,
		addr net.HardwareAddr, payload []byte) types.PeerID
}

// station 空口上的一个会话
type station struct {
	pubSubID   types.PubSubID
	mode       types.Mode
	service    string
	ssi        []byte
	instanceID types.InstanceID
	addr       net.HardwareAddr
}

func (s *station) sees(o *station) bool {
	return s.pubSubID != o.pubSubID && s.service == o.service && s.mode != o.mode
}

// Radio 进程内空口
type Radio struct {
	mu       sync.Mutex
	router   Router
	stations map[types.PubSubID]*station
	queue    []func(Router)
	closed   bool

	signal chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewRadio 创建 Radio 并启动投递 goroutine
func NewRadio() *Radio {
	r := &Radio{
		stations: make(map[types.PubSubID]*station),
		signal:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	r.wg.Add(1)
	go r.loop()
	return r
}

// Attach 设置事件接收方
//
// Attach 之前产生的事件会排队，直到设置了 Router。
func (r *Radio) Attach(router Router) {
	r.mu.Lock()
	r.router = router
	r.mu.Unlock()
	r.wake()
}

// Close 停止投递，丢弃未投递的事件
func (r *Radio) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.queue = nil
	r.mu.Unlock()

	close(r.done)
	r.wg.Wait()
}

// Stations 返回空口上的会话数
func (r *Radio) Stations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stations)
}

// ============================================================================
//                              NativeAPI
// ============================================================================

// Publish 在空口上发布服务
func (r *Radio) Publish(txID types.TransactionID, pubSubID types.PubSubID, cfg *types.PublishConfig) error {
	return r.join(txID, pubSubID, types.ModePublish, cfg.ServiceName, cfg.ServiceSpecificInfo)
}

// Subscribe 在空口上订阅服务
func (r *Radio) Subscribe(txID types.TransactionID, pubSubID types.PubSubID, cfg *types.SubscribeConfig) error {
	return r.join(txID, pubSubID, types.ModeSubscribe, cfg.ServiceName, cfg.ServiceSpecificInfo)
}

// SendMessage 把消息投递给 (instanceID, addr) 对应的会话
func (r *Radio) SendMessage(txID types.TransactionID, pubSubID types.PubSubID, instanceID types.InstanceID,
	addr net.HardwareAddr, payload []byte, _ types.MessageID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	from, ok := r.stations[pubSubID]
	if !ok {
		return ErrNotStarted
	}

	for _, to := range r.stations {
		if to.instanceID == instanceID && bytes.Equal(to.addr, addr) && from.sees(to) {
			msg := append([]byte(nil), payload...)
			target, srcRef, srcAddr := to.pubSubID, from.instanceID, from.addr
			r.enqueueLocked(func(rt Router) {
				rt.OnMessageReceived(target, srcRef, srcAddr, msg)
			})
			logger.Debug("消息已投递", "txId", int(txID), "from", int(pubSubID), "to", int(target))
			return nil
		}
	}
	return ErrNoSuchPeer
}

// StopPublish 离开空口
func (r *Radio) StopPublish(_ types.TransactionID, pubSubID types.PubSubID) {
	r.leave(pubSubID)
}

// StopSubscribe 离开空口
func (r *Radio) StopSubscribe(_ types.TransactionID, pubSubID types.PubSubID) {
	r.leave(pubSubID)
}

// ============================================================================
//                              内部实现
// ============================================================================

func (r *Radio) join(txID types.TransactionID, pubSubID types.PubSubID, mode types.Mode,
	service string, ssi []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	st, exists := r.stations[pubSubID]
	if !exists {
		st = &station{
			pubSubID:   pubSubID,
			mode:       mode,
			instanceID: types.InstanceID(pubSubID) + 10,
			addr:       net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, byte(pubSubID)},
		}
		r.stations[pubSubID] = st
	}
	st.service = service
	st.ssi = append([]byte(nil), ssi...)

	for _, other := range r.stations {
		if !st.sees(other) {
			continue
		}
		r.enqueueMatchLocked(other, st)
		if !exists {
			r.enqueueMatchLocked(st, other)
		}
	}

	logger.Debug("会话加入空口", "txId", int(txID), "pubSubId", int(pubSubID), "service", service)
	return nil
}

// enqueueMatchLocked 通知 to 看到了 from
func (r *Radio) enqueueMatchLocked(to, from *station) {
	target := to.pubSubID
	ind := &types.MatchIndication{
		InstanceID:          from.instanceID,
		Addr:                from.addr,
		ServiceSpecificInfo: from.ssi,
	}
	r.enqueueLocked(func(rt Router) {
		rt.OnMatch(target, ind)
	})
}

func (r *Radio) leave(pubSubID types.PubSubID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.stations[pubSubID]
	if !ok {
		return
	}
	delete(r.stations, pubSubID)
	if r.closed {
		return
	}

	for _, other := range r.stations {
		if !other.sees(st) {
			continue
		}
		target, ref := other.pubSubID, st.instanceID
		r.enqueueLocked(func(rt Router) {
			rt.OnMatchExpired(target, ref)
		})
	}
	logger.Debug("会话离开空口", "pubSubId", int(pubSubID))
}

func (r *Radio) enqueueLocked(fn func(Router)) {
	if r.closed {
		return
	}
	r.queue = append(r.queue, fn)
	r.wake()
}

func (r *Radio) wake() {
	select {
	case r.signal <- struct{}{}:
	default:
	}
}

func (r *Radio) loop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.done:
			return
		case <-r.signal:
		}

		for {
			r.mu.Lock()
			if r.router == nil || len(r.queue) == 0 || r.closed {
				r.mu.Unlock()
				break
			}
			fn, rt := r.queue[0], r.router
			r.queue = r.queue[1:]
			r.mu.Unlock()

			fn(rt)
		}
	}
}
