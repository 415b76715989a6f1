package types

// ============================================================================
//                              DiscoveryConfig - 会话配置
// ============================================================================

// DiscoveryConfig 发现会话配置
//
// 只有两种实现：*PublishConfig 与 *SubscribeConfig。
// Mode 决定该配置只能用于同模式的会话。
type DiscoveryConfig interface {
	// Mode 返回配置对应的会话模式
	Mode() Mode
}

// PublishType 发布方式
type PublishType int

const (
	// PublishUnsolicited 主动广播
	PublishUnsolicited PublishType = iota
	// PublishSolicited 仅响应订阅方查询
	PublishSolicited
)

// SubscribeType 订阅方式
type SubscribeType int

const (
	// SubscribePassive 被动监听
	SubscribePassive SubscribeType = iota
	// SubscribeActive 主动查询
	SubscribeActive
)

// PublishConfig 发布会话配置
type PublishConfig struct {
	// ServiceName 服务名
	ServiceName string

	// ServiceSpecificInfo 随广播携带的服务信息
	ServiceSpecificInfo []byte

	// MatchFilter 匹配过滤器（TLV 编码，由 native 层解释）
	MatchFilter []byte

	// Type 发布方式
	Type PublishType

	// TTLSec 会话存活时间（秒），0 表示不过期
	TTLSec int

	// RangingEnabled 是否允许对端测距
	RangingEnabled bool
}

// Mode 实现 DiscoveryConfig
func (*PublishConfig) Mode() Mode { return ModePublish }

// SubscribeConfig 订阅会话配置
type SubscribeConfig struct {
	// ServiceName 服务名
	ServiceName string

	// ServiceSpecificInfo 随查询携带的服务信息
	ServiceSpecificInfo []byte

	// MatchFilter 匹配过滤器
	MatchFilter []byte

	// Type 订阅方式
	Type SubscribeType

	// TTLSec 会话存活时间（秒），0 表示不过期
	TTLSec int

	// MinDistanceMm 测距下限（毫米），0 表示不限
	MinDistanceMm int

	// MaxDistanceMm 测距上限（毫米），0 表示不限
	MaxDistanceMm int
}

// Mode 实现 DiscoveryConfig
func (*SubscribeConfig) Mode() Mode { return ModeSubscribe }

// RangingRequested 是否设置了测距范围
func (c *SubscribeConfig) RangingRequested() bool {
	return c.MinDistanceMm > 0 || c.MaxDistanceMm > 0
}
