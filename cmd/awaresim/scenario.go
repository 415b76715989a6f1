package main

import (
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/dep2p/go-aware/internal/core/manager"
	"github.com/dep2p/go-aware/internal/core/session"
	"github.com/dep2p/go-aware/pkg/types"
)

// scenario 脚本参数
type scenario struct {
	mode        types.Mode
	service     string
	instanceID  types.InstanceID
	addr        net.HardwareAddr
	rangeMm     int
	rejectSends bool
}

const (
	simSessionID types.SessionID = 1
	simPubSubID  types.PubSubID  = 1
)

// runScenario 重放 匹配 → 收消息 → 发送 → 过期 → 发送 → 终止
func runScenario(mgr *manager.Manager, sc scenario, client *printClient, out io.Writer) error {
	if _, err := mgr.CreateSession(manager.SessionSpec{
		SessionID:      simSessionID,
		PubSubID:       simPubSubID,
		Mode:           sc.mode,
		RangingEnabled: sc.rangeMm > 0,
		Callback:       client,
	}); err != nil {
		return err
	}

	var cfg types.DiscoveryConfig
	if sc.mode == types.ModePublish {
		cfg = &types.PublishConfig{ServiceName: sc.service, RangingEnabled: sc.rangeMm > 0}
	} else {
		cfg = &types.SubscribeConfig{ServiceName: sc.service, MaxDistanceMm: sc.rangeMm}
	}
	if err := mgr.Reconfigure(simSessionID, 1, cfg); err != nil {
		return err
	}

	ind := &types.MatchIndication{
		InstanceID:          sc.instanceID,
		Addr:                sc.addr,
		ServiceSpecificInfo: []byte(sc.service),
	}
	if sc.rangeMm > 0 {
		ind.RangingIndication = 1
		ind.RangeMm = sc.rangeMm
	}
	peer := mgr.OnMatch(simPubSubID, ind)
	mgr.OnMessageReceived(simPubSubID, sc.instanceID, sc.addr, []byte("ping"))

	step(out, "send to peer %s", peer)
	report(out, mgr.SendMessage(simSessionID, 2, peer, []byte("pong"), 1))

	mgr.OnMatchExpired(simPubSubID, sc.instanceID)

	step(out, "send to expired peer %s", peer)
	report(out, mgr.SendMessage(simSessionID, 3, peer, []byte("pong"), 2))

	fmt.Fprintln(out)
	if err := mgr.Dump(out); err != nil {
		return err
	}
	fmt.Fprintln(out)

	return mgr.Terminate(simSessionID)
}

func step(out io.Writer, format string, args ...any) {
	fmt.Fprintf(out, "step    : "+format+"\n", args...)
}

func report(out io.Writer, err error) {
	if err == nil {
		fmt.Fprintln(out, "result  : accepted")
		return
	}
	var reason string
	switch {
	case errors.Is(err, session.ErrUnknownPeer):
		reason = "unknown peer"
	case errors.Is(err, session.ErrNativeRejected):
		reason = "native rejected"
	default:
		reason = err.Error()
	}
	fmt.Fprintf(out, "result  : failed (%s)\n", reason)
}
