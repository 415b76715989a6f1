// Package peertable 实现发现会话的节点身份表
//
// 节点身份表把 native 层的节点引用 (InstanceID, 硬件地址) 映射为
// 客户端可见的不透明 PeerID，客户端永远看不到硬件地址。
//
// # 分配规则
//
//  1. 线性扫描已有条目，InstanceID 与地址都相同时复用其 PeerID
//  2. 否则从 Allocator 取下一个 PeerID 并插入新条目
//
// 只凭 InstanceID 相同不会复用：native 层会把 InstanceID 回收给
// 其他物理节点，地址变化时必须分配新的 PeerID。
//
// # 生命周期
//
// 条目只在收到对应 InstanceID 的过期事件时删除，没有容量上限，
// 也没有淘汰策略，生命周期等同于所属会话。
//
// # 并发安全
//
// Allocator 是并发安全的，由进程内所有会话共享。
// Table 不加锁，由所属 Session 在自身的互斥锁下串行访问。
package peertable
