// Package manager 管理进程内全部发现会话
//
// Manager 持有共享的 PeerID 分配器、NativeAPI、时间源与指标实现，
// 按 SessionID 登记会话，并按 PubSubID 把 native 层事件路由到对应会话。
//
// # 生命周期
//
// Manager 通过 Module 接入 Fx，应用停止时 Close 终止所有会话。
//
// # 即时模式
//
// InstantMode 返回所有会话中优先级最高的即时模式（5GHz > 2.4GHz > 关闭）。
package manager
