// Package loopback 提供进程内的 native 层实现
//
// Radio 把同一进程内的发布会话与订阅会话视为处在同一空口：
// 服务名相同、模式相反的会话互相匹配，消息在两者之间投递，
// 会话停止时对端收到匹配过期事件。
//
// 所有事件都在独立的 goroutine 中投递给 Router，从不在 NativeAPI
// 调用期间同步回调会话。
package loopback
