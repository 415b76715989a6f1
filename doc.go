// Package aware 提供 Wi-Fi Aware 发现会话服务
//
// go-aware 位于 native 发现层与客户端之间，为每个发布/订阅会话维护
// 不透明的节点身份：native 层的 (InstanceID, 硬件地址) 被映射为进程内
// 唯一且从不复用的 PeerID，客户端永远看不到硬件地址。
//
// # 快速开始
//
//	svc, err := aware.New(
//	    aware.WithNativeAPI(driver),
//	    aware.WithConfigFile("aware.yaml"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := svc.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Stop(context.Background())
//
//	mgr := svc.Manager()
//	mgr.CreateSession(manager.SessionSpec{
//	    SessionID: 1,
//	    PubSubID:  3,
//	    Mode:      types.ModeSubscribe,
//	    Callback:  client,
//	})
//
//	// native 层事件按 PubSubID 路由
//	peerID := mgr.OnMatch(3, indication)
//	mgr.SendMessage(1, txID, peerID, payload, msgID)
//
// # 架构
//
//	aware.Service (Fx 应用)
//	  ├── metrics.Module   prometheus 指标
//	  └── manager.Module   会话登记与事件路由
//	        └── session.Session × N
//	              └── peertable.Table (共享 peertable.Allocator)
package aware
