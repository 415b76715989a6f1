package main

import (
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/dep2p/go-aware/pkg/interfaces"
	"github.com/dep2p/go-aware/pkg/types"
)

var _ interfaces.NativeAPI = (*printNative)(nil)

// printNative 把 native 请求打印出来的模拟 native 层
//
// rejectSends 为 true 时同步拒绝所有发送请求。
type printNative struct {
	mu          sync.Mutex
	w           io.Writer
	rejectSends bool
}

func (n *printNative) printf(format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "native  > "+format+"\n", args...)
}

func (n *printNative) Publish(txID types.TransactionID, pubSubID types.PubSubID, cfg *types.PublishConfig) error {
	n.printf("publish tx=%d pubSubId=%d service=%q ranging=%t", txID, pubSubID, cfg.ServiceName, cfg.RangingEnabled)
	return nil
}

func (n *printNative) Subscribe(txID types.TransactionID, pubSubID types.PubSubID, cfg *types.SubscribeConfig) error {
	n.printf("subscribe tx=%d pubSubId=%d service=%q ranging=%t", txID, pubSubID, cfg.ServiceName, cfg.RangingRequested())
	return nil
}

func (n *printNative) SendMessage(txID types.TransactionID, pubSubID types.PubSubID, instanceID types.InstanceID,
	addr net.HardwareAddr, payload []byte, messageID types.MessageID) error {
	if n.rejectSends {
		n.printf("send tx=%d rejected", txID)
		return fmt.Errorf("send queue full")
	}
	n.printf("send tx=%d pubSubId=%d instanceId=%d mac=%s msgId=%d payload=%q",
		txID, pubSubID, instanceID, addr, messageID, payload)
	return nil
}

func (n *printNative) StopPublish(txID types.TransactionID, pubSubID types.PubSubID) {
	n.printf("stop-publish tx=%d pubSubId=%d", txID, pubSubID)
}

func (n *printNative) StopSubscribe(txID types.TransactionID, pubSubID types.PubSubID) {
	n.printf("stop-subscribe tx=%d pubSubId=%d", txID, pubSubID)
}
