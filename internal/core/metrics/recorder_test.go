package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-aware/pkg/types"
)

// TestRecorder_Counters 测试各指标计数
func TestRecorder_Counters(t *testing.T) {
	r, err := NewRecorder("")
	require.NoError(t, err)

	r.SessionCreated(types.ModePublish)
	r.SessionCreated(types.ModeSubscribe)
	r.SessionTerminated(types.ModePublish)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sessionsActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sessionsCreated.WithLabelValues("publish")))

	r.PeerAllocated()
	r.PeerAllocated()
	assert.Equal(t, 2.0, testutil.ToFloat64(r.peersAllocated))

	r.Matched("plain")
	r.Matched("ranged")
	r.Matched("ranged")
	assert.Equal(t, 2.0, testutil.ToFloat64(r.matches.WithLabelValues("ranged")))

	r.MatchExpired()
	r.MessageReceived()
	assert.Equal(t, 1.0, testutil.ToFloat64(r.matchExpired))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.messagesReceived))

	r.CommandFailed("unknown_peer")
	r.NotificationFailed("OnMatch")
	assert.Equal(t, 1.0, testutil.ToFloat64(r.commandFailures.WithLabelValues("unknown_peer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.notificationFailures.WithLabelValues("OnMatch")))
}

// TestRecorder_Independent 测试多个 Recorder 互不冲突
func TestRecorder_Independent(t *testing.T) {
	r1, err := NewRecorder("aware")
	require.NoError(t, err)
	r2, err := NewRecorder("aware")
	require.NoError(t, err)

	r1.PeerAllocated()
	assert.Equal(t, 0.0, testutil.ToFloat64(r2.peersAllocated))
}

// TestRecorder_Handler 测试 /metrics 输出
func TestRecorder_Handler(t *testing.T) {
	r, err := NewRecorder("nan")
	require.NoError(t, err)
	r.Matched("plain")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `nan_matches_total{kind="plain"} 1`)
}

// TestNop 测试空操作实现不会 panic
func TestNop(t *testing.T) {
	m := NewNop()
	assert.NotPanics(t, func() {
		m.SessionCreated(types.ModePublish)
		m.SessionTerminated(types.ModePublish)
		m.PeerAllocated()
		m.Matched("plain")
		m.MatchExpired()
		m.MessageReceived()
		m.CommandFailed("x")
		m.NotificationFailed("y")
	})
}
