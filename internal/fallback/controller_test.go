package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"main/internal/adapter"
)

func TestControllerGlobalTracksDegradedSet(t *testing.T) {
	controller := NewController()
	assert.False(t, controller.Global())

	controller.MarkDegraded(adapter.SymbolGBTCJPY)
	assert.True(t, controller.Global())
	assert.True(t, controller.Degraded(adapter.SymbolGBTCJPY))
	assert.False(t, controller.Degraded(adapter.SymbolBBTCJPY))

	controller.MarkDegraded(adapter.SymbolBBTCJPY)
	controller.ClearDegraded(adapter.SymbolGBTCJPY)
	assert.True(t, controller.Global())

	controller.ClearDegraded(adapter.SymbolBBTCJPY)
	assert.False(t, controller.Global())
}

func TestControllerForceRealData(t *testing.T) {
	controller := NewController()
	controller.MarkDegraded(adapter.SymbolGFXBTCJPY)
	assert.True(t, controller.Global())

	controller.ForceRealData()
	assert.False(t, controller.Global())
	// per-symbol state is untouched by the override
	assert.True(t, controller.Degraded(adapter.SymbolGFXBTCJPY))

	// a fresh degradation lifts the override
	controller.MarkDegraded(adapter.SymbolBFXBTCJPY)
	assert.True(t, controller.Global())
}

func TestControllerDegradedSymbolsDisplayOrder(t *testing.T) {
	controller := NewController()
	controller.MarkDegraded(adapter.SymbolBFXBTCJPY)
	controller.MarkDegraded(adapter.SymbolGBTCJPY)

	assert.Equal(t, []adapter.Symbol{adapter.SymbolGBTCJPY, adapter.SymbolBFXBTCJPY}, controller.DegradedSymbols())
}

func TestControllerNilReceiver(t *testing.T) {
	var controller *Controller
	controller.MarkDegraded(adapter.SymbolGBTCJPY)
	controller.ClearDegraded(adapter.SymbolGBTCJPY)
	controller.ForceRealData()
	assert.False(t, controller.Global())
	assert.False(t, controller.Degraded(adapter.SymbolGBTCJPY))
	assert.Nil(t, controller.DegradedSymbols())
}
