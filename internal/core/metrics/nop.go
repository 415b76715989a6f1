package metrics

import (
	"github.com/dep2p/go-aware/pkg/interfaces"
	"github.com/dep2p/go-aware/pkg/types"
)

// nop 空操作指标
type nop struct{}

// NewNop 返回空操作的 SessionMetrics
func NewNop() interfaces.SessionMetrics {
	return nop{}
}

func (nop) SessionCreated(types.Mode)    {}
func (nop) SessionTerminated(types.Mode) {}
func (nop) PeerAllocated()               {}
func (nop) Matched(string)               {}
func (nop) MatchExpired()                {}
func (nop) MessageReceived()             {}
func (nop) CommandFailed(string)         {}
func (nop) NotificationFailed(string)    {}
