package peertable

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-aware/pkg/types"
)

var (
	macA = net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0xAA}
	macB = net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0xBB}
)

// TestTable_ResolveReuse 测试同一 (InstanceID, 地址) 复用 PeerID
func TestTable_ResolveReuse(t *testing.T) {
	tbl := New(NewAllocator(100))

	id1, added := tbl.Resolve(7, macA)
	assert.True(t, added)
	assert.Equal(t, types.PeerID(100), id1)

	id2, added := tbl.Resolve(7, macA)
	assert.False(t, added)
	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, tbl.Len())
}

// TestTable_ResolveAddressChange 测试地址变化时分配新条目
func TestTable_ResolveAddressChange(t *testing.T) {
	tbl := New(NewAllocator(100))

	id1, _ := tbl.Resolve(7, macA)
	id2, added := tbl.Resolve(7, macB)
	assert.True(t, added)
	assert.NotEqual(t, id1, id2)

	// 同一地址、不同 InstanceID 也是不同条目
	id3, added := tbl.Resolve(8, macA)
	assert.True(t, added)
	assert.NotEqual(t, id1, id3)
	assert.Equal(t, 3, tbl.Len())
}

// TestTable_NoReuseAfterExpiry 测试过期后重新出现的节点获得新 PeerID
func TestTable_NoReuseAfterExpiry(t *testing.T) {
	tbl := New(NewAllocator(100))

	x, _ := tbl.Resolve(5, macA)
	removed, ok := tbl.RemoveByInstance(5)
	require.True(t, ok)
	assert.Equal(t, x, removed)

	y, added := tbl.Resolve(5, macA)
	assert.True(t, added)
	assert.NotEqual(t, x, y)
}

// TestTable_RemoveUnknown 测试删除未知 InstanceID
func TestTable_RemoveUnknown(t *testing.T) {
	tbl := New(nil)
	id, ok := tbl.RemoveByInstance(42)
	assert.False(t, ok)
	assert.Equal(t, types.NoPeer, id)
}

// TestTable_RemoveFirstMatch 测试同一 InstanceID 多条目时只删除最早的
func TestTable_RemoveFirstMatch(t *testing.T) {
	tbl := New(NewAllocator(100))
	first, _ := tbl.Resolve(3, macA)
	second, _ := tbl.Resolve(3, macB)

	removed, ok := tbl.RemoveByInstance(3)
	require.True(t, ok)
	assert.Equal(t, first, removed)

	_, ok = tbl.Get(second)
	assert.True(t, ok)
}

// TestTable_SharedAllocator 测试多表共享分配器时 PeerID 全局唯一
func TestTable_SharedAllocator(t *testing.T) {
	alloc := NewAllocator(100)
	t1 := New(alloc)
	t2 := New(alloc)

	a, _ := t1.Resolve(1, macA)
	b, _ := t2.Resolve(1, macA)
	assert.NotEqual(t, a, b)
}

// TestTable_GetCopiesAddr 测试 Get 返回的地址与内部状态隔离
func TestTable_GetCopiesAddr(t *testing.T) {
	tbl := New(nil)
	addr := net.HardwareAddr{1, 2, 3, 4, 5, 6}
	id, _ := tbl.Resolve(1, addr)

	// 修改调用方的切片不影响表内容
	addr[0] = 0xFF
	e, ok := tbl.Get(id)
	require.True(t, ok)
	assert.Equal(t, byte(1), e.Addr[0])

	e.Addr[1] = 0xFF
	again, _ := tbl.Get(id)
	assert.Equal(t, byte(2), again.Addr[1])

	_, ok = tbl.Get(types.NoPeer)
	assert.False(t, ok)
}

// TestTable_String 测试调试输出
func TestTable_String(t *testing.T) {
	tbl := New(NewAllocator(100))
	tbl.Resolve(7, macA)
	assert.Equal(t, "{100=instanceId [7, mac=00:11:22:33:44:aa]}", tbl.String())

	tbl.Reset()
	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, "{}", tbl.String())
}
