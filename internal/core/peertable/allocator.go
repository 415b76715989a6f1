package peertable

import (
	"sync/atomic"

	"github.com/dep2p/go-aware/pkg/types"
)

// DefaultFirstPeerID 默认的第一个 PeerID
const DefaultFirstPeerID types.PeerID = 100

// Allocator 进程级 PeerID 分配器
//
// 单调递增，从不复用、从不重置；64 位计数在进程生命周期内不会回绕。
// 所有会话必须共享同一个 Allocator，以保证 PeerID 跨会话唯一。
type Allocator struct {
	next atomic.Uint64
}

// NewAllocator 创建分配器
//
// first 为第一个分配的值；传入 NoPeer 时使用 DefaultFirstPeerID。
func NewAllocator(first types.PeerID) *Allocator {
	if first == types.NoPeer {
		first = DefaultFirstPeerID
	}
	a := &Allocator{}
	a.next.Store(uint64(first))
	return a
}

// Next 分配下一个 PeerID
func (a *Allocator) Next() types.PeerID {
	return types.PeerID(a.next.Add(1) - 1)
}

// Peek 返回下一个将被分配的值，不消耗
func (a *Allocator) Peek() types.PeerID {
	return types.PeerID(a.next.Load())
}
