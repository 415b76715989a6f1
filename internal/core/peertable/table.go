package peertable

import (
	"bytes"
	"fmt"
	"net"
	"strings"

	"github.com/dep2p/go-aware/pkg/types"
)

// Entry 节点身份表条目
type Entry struct {
	PeerID     types.PeerID
	InstanceID types.InstanceID
	Addr       net.HardwareAddr
}

// String 返回条目的调试表示
func (e Entry) String() string {
	return fmt.Sprintf("%d=instanceId [%d, mac=%s]", e.PeerID, e.InstanceID, e.Addr)
}

// Table 单个会话的节点身份表
//
// 条目按 PeerID 升序保存（分配器单调递增，插入顺序即升序）。
type Table struct {
	alloc   *Allocator
	entries []Entry
}

// New 创建空表
func New(alloc *Allocator) *Table {
	if alloc == nil {
		alloc = NewAllocator(DefaultFirstPeerID)
	}
	return &Table{alloc: alloc}
}

// Resolve 解析或分配 PeerID
//
// 第二个返回值为 true 表示本次新分配了条目。addr 会被复制保存。
func (t *Table) Resolve(instanceID types.InstanceID, addr net.HardwareAddr) (types.PeerID, bool) {
	for _, e := range t.entries {
		if e.InstanceID == instanceID && bytes.Equal(e.Addr, addr) {
			return e.PeerID, false
		}
	}

	id := t.alloc.Next()
	t.entries = append(t.entries, Entry{
		PeerID:     id,
		InstanceID: instanceID,
		Addr:       cloneAddr(addr),
	})
	return id, true
}

// Get 按 PeerID 查找条目
func (t *Table) Get(peerID types.PeerID) (Entry, bool) {
	if !peerID.IsValid() {
		return Entry{}, false
	}
	for _, e := range t.entries {
		if e.PeerID == peerID {
			e.Addr = cloneAddr(e.Addr)
			return e, true
		}
	}
	return Entry{}, false
}

// RemoveByInstance 删除第一个 InstanceID 匹配的条目
//
// 未找到时返回 NoPeer 与 false。
func (t *Table) RemoveByInstance(instanceID types.InstanceID) (types.PeerID, bool) {
	for i, e := range t.entries {
		if e.InstanceID == instanceID {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return e.PeerID, true
		}
	}
	return types.NoPeer, false
}

// Len 返回条目数
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries 返回条目快照
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		e.Addr = cloneAddr(e.Addr)
		out[i] = e
	}
	return out
}

// Reset 清空表
//
// 已分配的 PeerID 不会归还给分配器。
func (t *Table) Reset() {
	t.entries = nil
}

// String 返回整张表的调试表示
func (t *Table) String() string {
	parts := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		parts = append(parts, e.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func cloneAddr(addr net.HardwareAddr) net.HardwareAddr {
	if addr == nil {
		return nil
	}
	out := make(net.HardwareAddr, len(addr))
	copy(out, addr)
	return out
}
