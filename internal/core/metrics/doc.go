// Package metrics 提供发现会话的监控指标
//
// metrics 基于 prometheus client_golang 实现 interfaces.SessionMetrics：
//   - sessions_active: 当前活跃会话数
//   - sessions_created_total{mode}: 创建的会话数
//   - peers_allocated_total: 分配的 PeerID 数
//   - matches_total{kind}: 匹配事件数（plain / ranged）
//   - match_expired_total: 匹配过期事件数
//   - messages_received_total: 收到的对端消息数
//   - command_failures_total{reason}: 命令失败数
//   - notification_failures_total{op}: 客户端通知失败数
//
// # 快速开始
//
//	rec, err := metrics.NewRecorder("aware")
//	if err != nil {
//	    return err
//	}
//	http.Handle("/metrics", rec.Handler())
//
// 指标注册在 Recorder 自己的 prometheus.Registry 上，不污染全局默认注册表，
// 同一进程内可以存在多个 Recorder。
//
// 指标关闭时使用 NewNop，所有方法为空操作。
//
// # Fx 模块
//
//	app := fx.New(
//	    fx.Supply(cfg),
//	    metrics.Module,
//	)
package metrics
