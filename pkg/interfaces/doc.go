// Package interfaces 定义 go-aware 的公共接口
//
// 接口按协作方划分：
//
//   - NativeAPI: 下层 native 发现传输，由平台驱动实现
//   - SessionCallback: 上层客户端，接收匹配、消息与失败通知
//   - SessionMetrics: 指标上报，由 internal/core/metrics 实现
//
// 会话对三者的调用都在会话锁内进行，实现不能同步回调会话。
package interfaces
