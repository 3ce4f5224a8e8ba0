package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeverage_ZeroRiskGuard(t *testing.T) {
	// stop == entry must never mean unlimited leverage
	assert.Equal(t, 1, Leverage(100, 100, 15, 30))
	assert.Equal(t, 1, Uncapped(100, 100, 15))
}

func TestLeverage_Scenario(t *testing.T) {
	// entry=100 stop=95 => risk 5%, maxLossRatio 15 => floor(15/5)=3
	assert.Equal(t, 3, Leverage(100, 95, 15, 30))
	assert.Equal(t, 3, Uncapped(100, 95, 15))
}

func TestLeverage_Bounds(t *testing.T) {
	for _, stop := range []float64{99.9, 99, 95, 90, 50, 1} {
		lev := Leverage(100, stop, 15, 30)
		assert.GreaterOrEqual(t, lev, 1, "stop=%v", stop)
		assert.LessOrEqual(t, lev, 30, "stop=%v", stop)
	}
	// wide stop: risk 50% => floor(15/50)=0, clamped up to 1
	assert.Equal(t, 1, Leverage(100, 50, 15, 30))
}

func TestLeverage_MonotonicInStopDistance(t *testing.T) {
	prev := 0
	first := true
	for _, stop := range []float64{99.5, 99, 98, 96, 92, 85, 70} {
		lev := Leverage(100, stop, 15, 30)
		if !first {
			assert.LessOrEqual(t, lev, prev, "leverage must not grow as the stop widens (stop=%v)", stop)
		}
		prev = lev
		first = false
	}
}

func TestUncapped_ExceedsCap(t *testing.T) {
	// risk 0.1% => 15/0.1 = 150, way above any sane cap; Leverage clamps,
	// Uncapped reports the real number so the pipeline can reject.
	assert.Equal(t, 150, Uncapped(100, 99.9, 15))
	assert.Equal(t, 30, Leverage(100, 99.9, 15, 30))
}

func TestPositionSize_Scenario(t *testing.T) {
	// balance=1000, lev=3, safety=0.95 => notional 2850, size 28.5 @ 100
	assert.InDelta(t, 28.5, PositionSize(1000, 3, 100, 0.95), 1e-9)
}

func TestPositionSize_RoundsToSizePrecision(t *testing.T) {
	// 1000*0.95*3/97 = 29.3814... => 29.381
	assert.InDelta(t, 29.381, PositionSize(1000, 3, 97, 0.95), 1e-9)
}

func TestPositionSize_FullUsageVariant(t *testing.T) {
	// safety fraction 1.0 is a configuration, not a different algorithm
	assert.InDelta(t, 30.0, PositionSize(1000, 3, 100, 1.0), 1e-9)
}
