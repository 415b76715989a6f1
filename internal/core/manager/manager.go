package manager

import (
	"context"
	"fmt"
	"io"
	"net"
	"sort"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-aware/internal/core/metrics"
	"github.com/dep2p/go-aware/internal/core/peertable"
	"github.com/dep2p/go-aware/internal/core/session"
	"github.com/dep2p/go-aware/pkg/interfaces"
	"github.com/dep2p/go-aware/pkg/lib/log"
	"github.com/dep2p/go-aware/pkg/types"
)

var logger = log.Logger("core/manager")

// SessionSpec 创建会话的参数
type SessionSpec struct {
	SessionID types.SessionID
	PubSubID  types.PubSubID
	Mode      types.Mode

	RangingEnabled     bool
	InstantModeEnabled bool
	InstantModeBand    types.Band

	// Callback 客户端回调，可以为 nil
	Callback interfaces.SessionCallback
}

// Option 管理器选项
type Option func(*Manager)

// WithClock 设置时间源，所有会话共享
func WithClock(clk clock.Clock) Option {
	return func(m *Manager) {
		if clk != nil {
			m.clock = clk
		}
	}
}

// WithMetrics 设置指标上报，所有会话共享
func WithMetrics(sm interfaces.SessionMetrics) Option {
	return func(m *Manager) {
		if sm != nil {
			m.metrics = sm
		}
	}
}

// Manager 会话管理器
type Manager struct {
	api     interfaces.NativeAPI
	alloc   *peertable.Allocator
	clock   clock.Clock
	metrics interfaces.SessionMetrics
	cfg     Config

	mu       sync.RWMutex
	sessions map[types.SessionID]*session.Session
	byPubSub map[types.PubSubID]types.SessionID
	verbose  bool
	closed   bool
}

// New 创建会话管理器
func New(api interfaces.NativeAPI, cfg Config, opts ...Option) (*Manager, error) {
	if api == nil {
		return nil, session.ErrNilNativeAPI
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		api:      api,
		alloc:    peertable.NewAllocator(cfg.FirstPeerID),
		clock:    clock.New(),
		metrics:  metrics.NewNop(),
		cfg:      cfg,
		sessions: make(map[types.SessionID]*session.Session),
		byPubSub: make(map[types.PubSubID]types.SessionID),
		verbose:  cfg.VerboseLogging,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// ============================================================================
//                              会话登记
// ============================================================================

// CreateSession 创建并登记会话
func (m *Manager) CreateSession(spec SessionSpec) (*session.Session, error) {
	if !spec.Mode.IsValid() {
		return nil, fmt.Errorf("%w: mode %d", ErrInvalidSpec, spec.Mode)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrManagerClosed
	}
	m.evictTerminatedLocked()
	if _, ok := m.sessions[spec.SessionID]; ok {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateSession, spec.SessionID)
	}
	if owner, ok := m.byPubSub[spec.PubSubID]; ok {
		return nil, fmt.Errorf("%w: %d (session %d)", ErrPubSubIDInUse, spec.PubSubID, owner)
	}

	s, err := session.New(m.api, m.alloc, session.Config{
		SessionID:          spec.SessionID,
		PubSubID:           spec.PubSubID,
		Mode:               spec.Mode,
		RangingEnabled:     spec.RangingEnabled,
		InstantModeEnabled: spec.InstantModeEnabled,
		InstantModeBand:    spec.InstantModeBand,
	}, spec.Callback,
		session.WithClock(m.clock),
		session.WithMetrics(m.metrics),
		session.WithVerboseLogging(m.verbose),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}

	m.sessions[spec.SessionID] = s
	m.byPubSub[spec.PubSubID] = spec.SessionID

	logger.Info("会话已登记",
		"session", int(spec.SessionID),
		"pubSubId", int(spec.PubSubID),
		"mode", spec.Mode.String())
	return s, nil
}

// Session 按 SessionID 查找会话
func (m *Manager) Session(id types.SessionID) (*session.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Sessions 返回按 SessionID 升序排列的存活会话快照
func (m *Manager) Sessions() []*session.Session {
	m.mu.RLock()
	out := make([]*session.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if !s.Terminated() {
			out = append(out, s)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Len 返回存活会话数
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, s := range m.sessions {
		if !s.Terminated() {
			n++
		}
	}
	return n
}

// evictTerminatedLocked 注销已被直接终止的会话，释放其 SessionID 与 PubSubID
func (m *Manager) evictTerminatedLocked() {
	for id, s := range m.sessions {
		if !s.Terminated() {
			continue
		}
		delete(m.sessions, id)
		if m.byPubSub[s.PubSubID()] == id {
			delete(m.byPubSub, s.PubSubID())
		}
		logger.Debug("注销已终止的会话", "session", int(id), "pubSubId", int(s.PubSubID()))
	}
}

func (m *Manager) lookup(id types.SessionID) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrManagerClosed
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchSession, id)
	}
	return s, nil
}

func (m *Manager) lookupPubSub(pubSubID types.PubSubID) (*session.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byPubSub[pubSubID]
	if !ok {
		return nil, false
	}
	s, ok := m.sessions[id]
	if !ok || s.Terminated() {
		return nil, false
	}
	return s, true
}

// ============================================================================
//                              客户端命令
// ============================================================================

// Reconfigure 重配置指定会话
func (m *Manager) Reconfigure(id types.SessionID, txID types.TransactionID, cfg types.DiscoveryConfig) error {
	s, err := m.lookup(id)
	if err != nil {
		return err
	}
	return s.Reconfigure(txID, cfg)
}

// SendMessage 通过指定会话发送消息
func (m *Manager) SendMessage(id types.SessionID, txID types.TransactionID, peerID types.PeerID,
	payload []byte, messageID types.MessageID) error {
	s, err := m.lookup(id)
	if err != nil {
		return err
	}
	return s.SendMessage(txID, peerID, payload, messageID)
}

// Terminate 终止并注销指定会话
func (m *Manager) Terminate(id types.SessionID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
		delete(m.byPubSub, s.PubSubID())
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %d", ErrNoSuchSession, id)
	}

	s.Terminate()
	logger.Info("会话已注销", "session", int(id))
	return nil
}

// ============================================================================
//                              native 事件路由
// ============================================================================

// OnMatch 把匹配事件路由到 PubSubID 对应的会话
//
// 未知 PubSubID 只记录日志，返回 NoPeer。
func (m *Manager) OnMatch(pubSubID types.PubSubID, ind *types.MatchIndication) types.PeerID {
	s, ok := m.lookupPubSub(pubSubID)
	if !ok {
		logger.Warn("匹配事件没有对应会话", "pubSubId", int(pubSubID))
		return types.NoPeer
	}
	return s.OnMatch(ind)
}

// OnMatchExpired 把过期事件路由到 PubSubID 对应的会话
func (m *Manager) OnMatchExpired(pubSubID types.PubSubID, instanceID types.InstanceID) (types.PeerID, bool) {
	s, ok := m.lookupPubSub(pubSubID)
	if !ok {
		logger.Warn("过期事件没有对应会话", "pubSubId", int(pubSubID))
		return types.NoPeer, false
	}
	return s.OnMatchExpired(instanceID)
}

// OnMessageReceived 把对端消息路由到 PubSubID 对应的会话
func (m *Manager) OnMessageReceived(pubSubID types.PubSubID, instanceID types.InstanceID,
	addr net.HardwareAddr, payload []byte) types.PeerID {
	s, ok := m.lookupPubSub(pubSubID)
	if !ok {
		logger.Warn("消息没有对应会话", "pubSubId", int(pubSubID))
		return types.NoPeer
	}
	return s.OnMessageReceived(instanceID, addr, payload)
}

// ============================================================================
//                              即时模式 / 日志
// ============================================================================

// InstantMode 返回所有会话中优先级最高的即时模式
func (m *Manager) InstantMode() types.InstantMode {
	best := types.InstantModeDisabled
	for _, s := range m.Sessions() {
		if mode := s.InstantMode(m.cfg.InstantModeTimeout); mode > best {
			best = mode
		}
	}
	return best
}

// EnableVerboseLogging 对现有与之后创建的会话打开或关闭 verbose 日志
func (m *Manager) EnableVerboseLogging(enabled bool) {
	m.mu.Lock()
	m.verbose = enabled
	m.mu.Unlock()

	for _, s := range m.Sessions() {
		s.EnableVerboseLogging(enabled)
	}
}

// ============================================================================
//                              诊断 / 关闭
// ============================================================================

// Dump 输出管理器与所有会话的状态
func (m *Manager) Dump(w io.Writer) error {
	sessions := m.Sessions()
	m.mu.RLock()
	closed := m.closed
	m.mu.RUnlock()

	if _, err := fmt.Fprintf(w, "AwareManager:\n  sessions: %d\n  nextPeerId: %d\n  instantMode: %s\n  closed: %t\n",
		len(sessions), m.alloc.Peek(), m.InstantMode(), closed); err != nil {
		return err
	}
	for _, s := range sessions {
		if err := s.Dump(w); err != nil {
			return err
		}
	}
	return nil
}

// Close 终止所有会话
//
// 终止不阻塞，因此 ctx 即使已取消也会终止全部会话，保证每个会话
// 都通知客户端并向 native 层发出停止请求。
func (m *Manager) Close(_ context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	m.closed = true
	sessions := make([]*session.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[types.SessionID]*session.Session)
	m.byPubSub = make(map[types.PubSubID]types.SessionID)
	m.mu.Unlock()

	logger.Info("正在关闭会话管理器", "sessions", len(sessions))
	for _, s := range sessions {
		s.Terminate()
	}
	logger.Info("会话管理器已关闭")
	return nil
}
