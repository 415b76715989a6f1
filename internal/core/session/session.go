package session

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-aware/internal/core/metrics"
	"github.com/dep2p/go-aware/internal/core/peertable"
	"github.com/dep2p/go-aware/pkg/interfaces"
	"github.com/dep2p/go-aware/pkg/lib/log"
	"github.com/dep2p/go-aware/pkg/types"
)

var logger = log.Logger("core/session")

// Session 单个发现会话（发布或订阅）
//
// Session 持有客户端回调与节点身份表。所有命令与事件方法在同一把
// 互斥锁下执行，按调用方提交的顺序生效。
//
// NativeAPI 与 SessionCallback 的实现不能在调用期间同步回调本会话，
// 否则会死锁；需要回调时应投递到自己的队列。
type Session struct {
	mu sync.Mutex

	api     interfaces.NativeAPI
	clock   clock.Clock
	metrics interfaces.SessionMetrics
	logger  *log.LazyLogger

	id       types.SessionID
	pubSubID types.PubSubID
	mode     types.Mode

	// callback 在 Terminate 后永久置空
	callback interfaces.SessionCallback
	// terminated 只在持有 mu 时写入，读取无需加锁
	terminated atomic.Bool

	rangingEnabled     bool
	instantModeEnabled bool
	instantModeBand    types.Band

	createdAt time.Time
	updatedAt time.Time

	peers *peertable.Table
}

// New 创建会话
//
// alloc 为进程内共享的 PeerID 分配器，多个会话必须传入同一个实例。
// cb 可以为 nil，此时所有客户端通知都被丢弃。
func New(api interfaces.NativeAPI, alloc *peertable.Allocator, cfg Config,
	cb interfaces.SessionCallback, opts ...Option) (*Session, error) {
	if api == nil {
		return nil, ErrNilNativeAPI
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		api:                api,
		clock:              clock.New(),
		metrics:            metrics.NewNop(),
		logger:             logger.With("session", int(cfg.SessionID), "pubSubId", int(cfg.PubSubID)),
		id:                 cfg.SessionID,
		pubSubID:           cfg.PubSubID,
		mode:               cfg.Mode,
		callback:           cb,
		rangingEnabled:     cfg.RangingEnabled,
		instantModeEnabled: cfg.InstantModeEnabled,
		instantModeBand:    cfg.InstantModeBand,
		peers:              peertable.New(alloc),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.createdAt = s.clock.Now()
	s.updatedAt = s.createdAt
	s.metrics.SessionCreated(s.mode)

	s.logger.Debug("会话已创建", "mode", s.mode.String())
	return s, nil
}

// ============================================================================
//                              访问器
// ============================================================================

// ID 返回会话 ID
func (s *Session) ID() types.SessionID { return s.id }

// PubSubID 返回 native 层会话句柄
func (s *Session) PubSubID() types.PubSubID { return s.pubSubID }

// Mode 返回会话模式
func (s *Session) Mode() types.Mode { return s.mode }

// IsPublish 是否为发布会话
func (s *Session) IsPublish() bool { return s.mode == types.ModePublish }

// IsPubSubIDSession 判断 native 层句柄是否属于本会话
func (s *Session) IsPubSubIDSession(id types.PubSubID) bool {
	return s.pubSubID == id
}

// CreatedAt 返回创建时间
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt 返回最近一次接受重配置的时间
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Callback 返回客户端回调，终止后为 nil
func (s *Session) Callback() interfaces.SessionCallback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callback
}

// Terminated 是否已终止，不获取会话锁
func (s *Session) Terminated() bool {
	return s.terminated.Load()
}

// RangingEnabled 返回测距开关
func (s *Session) RangingEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rangingEnabled
}

// SetRangingEnabled 设置测距开关
func (s *Session) SetRangingEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rangingEnabled = enabled
}

// SetInstantModeEnabled 设置即时模式开关，不影响更新时间
func (s *Session) SetInstantModeEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instantModeEnabled = enabled
}

// SetInstantModeBand 设置即时模式频段，不影响更新时间
func (s *Session) SetInstantModeBand(band types.Band) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instantModeBand = band
}

// InstantMode 返回当前即时模式
//
// 已终止、未启用，或距最近一次重配置已超过 timeout 时返回 InstantModeDisabled。
func (s *Session) InstantMode(timeout time.Duration) types.InstantMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated.Load() || !s.instantModeEnabled || s.clock.Since(s.updatedAt) > timeout {
		return types.InstantModeDisabled
	}
	if s.instantModeBand == types.Band5GHz {
		return types.InstantMode5GHz
	}
	return types.InstantMode24GHz
}

// EnableVerboseLogging 打开或关闭 verbose 日志
func (s *Session) EnableVerboseLogging(enabled bool) {
	s.logger.SetVerbose(enabled)
}

// Peer 按 PeerID 查找节点信息，无副作用
func (s *Session) Peer(peerID types.PeerID) (peertable.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peers.Get(peerID)
}

// PeerCount 返回节点身份表条目数
func (s *Session) PeerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peers.Len()
}

// ============================================================================
//                              生命周期
// ============================================================================

// Terminate 终止会话
//
// 首次调用时通知客户端并永久清除回调；之后的调用不再通知。
// 每次调用都会向 native 层发出停止请求（native 层保证幂等）。
func (s *Session) Terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.terminated.Load() {
		s.terminated.Store(true)
		s.notifyLocked("OnSessionTerminated", func(cb interfaces.SessionCallback) error {
			return cb.OnSessionTerminated(types.StatusSuccess)
		})
		s.callback = nil
		s.peers.Reset()
		s.metrics.SessionTerminated(s.mode)
		s.logger.Info("会话已终止", "mode", s.mode.String())
	} else {
		s.logger.Debug("会话已终止，仅重发停止请求")
	}

	if s.mode == types.ModePublish {
		s.api.StopPublish(0, s.pubSubID)
	} else {
		s.api.StopSubscribe(0, s.pubSubID)
	}
}

// ============================================================================
//                              诊断
// ============================================================================

// Dump 输出会话内部状态，无副作用
func (s *Session) Dump(w io.Writer) error {
	s.mu.Lock()
	var b strings.Builder
	fmt.Fprintln(&b, "AwareSessionState:")
	fmt.Fprintf(&b, "  sessionId: %d\n", s.id)
	fmt.Fprintf(&b, "  mode: %s\n", s.mode)
	fmt.Fprintf(&b, "  pubSubId: %d\n", s.pubSubID)
	fmt.Fprintf(&b, "  terminated: %t\n", s.terminated.Load())
	fmt.Fprintf(&b, "  rangingEnabled: %t\n", s.rangingEnabled)
	fmt.Fprintf(&b, "  instantMode: enabled=%t band=%s\n", s.instantModeEnabled, s.instantModeBand)
	fmt.Fprintf(&b, "  peers: [%s]\n", s.peers)
	s.mu.Unlock()

	_, err := io.WriteString(w, b.String())
	return err
}
