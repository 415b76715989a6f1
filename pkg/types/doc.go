// Package types 定义 go-aware 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 go-aware 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - aware.go: 标识符（SessionID, PubSubID, InstanceID, PeerID, ...）、
//     会话模式、频段、即时模式与回调原因码
//   - config.go: 发布/订阅配置（DiscoveryConfig）
//   - match.go: native 层匹配事件与下发给客户端的 MatchEvent
//
// # 标识符的可见范围
//
// InstanceID 与硬件地址只在 native 层与会话之间流转；
// 客户端只能看到 PeerID。
package types
