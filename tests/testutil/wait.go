package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultWaitTimeout 默认等待超时
const DefaultWaitTimeout = 2 * time.Second

// WaitForCondition 等待条件满足或超时
//
// 返回：条件是否满足（超时返回 false）
func WaitForCondition(t *testing.T, timeout, interval time.Duration, condition func() bool) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if condition() {
		return true
	}
	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if condition() {
				return true
			}
		}
	}
}

// WaitForConditionOrFail 等待条件满足，超时则 fail 测试
func WaitForConditionOrFail(t *testing.T, condition func() bool, msg string) {
	t.Helper()

	if !WaitForCondition(t, DefaultWaitTimeout, 5*time.Millisecond, condition) {
		t.Fatalf("等待超时: %s", msg)
	}
}
