// Package mocks 提供统一的测试 Mock 实现
//
// # 会话协作方 Mock
//
//   - MockNativeAPI: 模拟 interfaces.NativeAPI，记录每次请求，可按方法注入错误
//   - MockSessionCallback: 模拟 interfaces.SessionCallback，按顺序记录通知，
//     可模拟通知通道失效（返回错误或 panic）
//
// 所有 Mock 都是并发安全的，可以在并发测试中共享。
//
// # 使用示例
//
//	api := mocks.NewMockNativeAPI()
//	api.SendMessageFunc = func(...) error { return errors.New("busy") }
//
//	cb := mocks.NewMockSessionCallback()
//	s, _ := session.New(api, alloc, cfg, cb)
//	s.OnMatch(ind)
//	require.Equal(t, 1, cb.Count(mocks.OpMatch))
package mocks
