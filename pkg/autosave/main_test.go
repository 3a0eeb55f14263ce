package autosave_test

import (
	"testing"

	"go.uber.org/goleak"
)

// Every session must leave no timer goroutine behind once closed.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
