package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/dep2p/go-aware/pkg/interfaces"
	"github.com/dep2p/go-aware/pkg/types"
)

var _ interfaces.SessionCallback = (*printClient)(nil)

// printClient 把客户端通知打印出来
type printClient struct {
	mu sync.Mutex
	w  io.Writer
}

func (c *printClient) printf(format string, args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.w, "client  < "+format+"\n", args...)
	return err
}

func (c *printClient) OnSessionConfigFailed(reason types.Status) error {
	return c.printf("config-failed reason=%s", reason)
}

func (c *printClient) OnSessionTerminated(reason types.Status) error {
	return c.printf("terminated reason=%s", reason)
}

func (c *printClient) OnMessageSendFailed(messageID types.MessageID, reason types.Status) error {
	return c.printf("send-failed msgId=%d reason=%s", messageID, reason)
}

func (c *printClient) OnMatch(peerID types.PeerID, serviceSpecificInfo, _ []byte, _ int, _ []byte) error {
	return c.printf("match peer=%s ssi=%q", peerID, serviceSpecificInfo)
}

func (c *printClient) OnMatchWithDistance(peerID types.PeerID, serviceSpecificInfo, _ []byte, rangeMm int,
	_ int, _ []byte) error {
	return c.printf("match peer=%s ssi=%q range=%dmm", peerID, serviceSpecificInfo, rangeMm)
}

func (c *printClient) OnMatchExpired(peerID types.PeerID) error {
	return c.printf("match-expired peer=%s", peerID)
}

func (c *printClient) OnMessageReceived(peerID types.PeerID, payload []byte) error {
	return c.printf("message peer=%s payload=%q", peerID, payload)
}
