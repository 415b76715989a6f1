// Package session 实现单个发现会话的状态机
//
// Session 位于 native 层与客户端之间：
//
//	客户端命令 ──► Reconfigure / SendMessage / Terminate ──► NativeAPI
//	NativeAPI 事件 ──► OnMatch / OnMatchExpired / OnMessageReceived ──► SessionCallback
//
// native 层使用的节点引用 (InstanceID, 硬件地址) 在会话内被映射为不透明的
// PeerID，客户端只会看到 PeerID。PeerID 由进程内共享的 peertable.Allocator
// 分配，跨会话唯一且从不复用。
//
// # 错误处理
//
// 命令失败通过回调通知客户端一次，同时返回 *SessionError：
//   - ErrModeMismatch: 配置与会话模式不符，不访问 native 层
//   - ErrUnknownPeer: 目标 PeerID 不存在，回调携带原始 MessageID
//   - ErrNativeRejected: native 层同步拒绝
//
// 客户端通知失败 (ErrNotificationUnavailable) 只记录日志，不影响会话状态。
//
// # 并发
//
// 所有方法并发安全，按加锁顺序串行生效。
package session
