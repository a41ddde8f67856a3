package autofill

import (
	"testing"

	"go.uber.org/goleak"
)

// Generation and orchestration are synchronous; any goroutine surviving the
// package tests is a leak.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
