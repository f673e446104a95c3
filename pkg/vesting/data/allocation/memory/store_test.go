package memory

import (
	"testing"

	"github.com/openvest/vesting-server/pkg/vesting/data/allocation/tests"
)

func TestAllocationMemoryStore(t *testing.T) {
	testStore := New()
	teardown := func() {
		testStore.(*store).reset()
	}
	tests.RunTests(t, testStore, teardown)
}
