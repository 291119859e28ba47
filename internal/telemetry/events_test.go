package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scriptrt/ccjs/internal/core"
	"github.com/scriptrt/ccjs/internal/engineconfig"
)

func TestPublishCollectionFinishedIsNoOpWithoutNATS(t *testing.T) {
	bus, err := Connect(engineconfig.EventsConfig{}, nil)
	require.NoError(t, err)
	defer bus.Close()

	h := core.NewHeap(core.Config{})
	obj, err := core.NewHeapObject(h)
	require.NoError(t, err)

	require.NotPanics(t, func() {
		bus.PublishCollectionFinished([]core.Obj{obj})
	})
}

// TestHeapOnCollectFeedsPublishCollectionFinished exercises the wiring
// cmd/ccjs/main.go performs: registering the bus directly as a
// core.Heap OnCollect callback so every sweep republishes over NATS.
func TestHeapOnCollectFeedsPublishCollectionFinished(t *testing.T) {
	bus, err := Connect(engineconfig.EventsConfig{}, nil)
	require.NoError(t, err)
	defer bus.Close()

	h := core.NewHeap(core.Config{})
	h.OnCollect(bus.PublishCollectionFinished)

	_, err = core.NewHeapObject(h) // unreachable garbage, reclaimed below
	require.NoError(t, err)
	root, err := core.NewHeapObject(h)
	require.NoError(t, err)
	h.AddRoot(root)

	require.NotPanics(t, func() {
		h.CollectFull()
	})
}
