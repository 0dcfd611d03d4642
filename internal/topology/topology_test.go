package topology

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripAllCombinations(t *testing.T) {
	seen := make(map[rune]bool)
	for d := uint8(0); d <= MaxDelta; d++ {
		for k := uint8(0); k <= MaxKappa; k++ {
			for s := uint8(0); s <= MaxSigma; s++ {
				topo := New(k, s, d)
				sym := topo.Symbol()
				require.False(t, seen[sym], "symbol reused for %v", topo)
				seen[sym] = true

				got, ok := FromSymbol(sym)
				require.True(t, ok)
				require.Equal(t, topo, got)
				require.Equal(t, topo, FromOffset(topo.Offset()))
			}
		}
	}
	assert.Len(t, seen, 256)
}

func TestKnownSymbol(t *testing.T) {
	topo := New(7, 5, 3)
	assert.Equal(t, '⣯', topo.Symbol())
	assert.Equal(t, "⣯", topo.String())
	assert.Equal(t, Base, New(0, 0, 0).Symbol())
	assert.Equal(t, '⣿', New(7, 7, 3).Symbol())
}

func TestFromSymbolOutsideWindow(t *testing.T) {
	_, ok := FromSymbol('a')
	assert.False(t, ok)
	_, ok = FromSymbol(Base - 1)
	assert.False(t, ok)
	_, ok = FromSymbol(Base + 256)
	assert.False(t, ok)
}

func TestNewPanicsOutOfRange(t *testing.T) {
	assert.Panics(t, func() { New(8, 0, 0) })
	assert.Panics(t, func() { New(0, 8, 0) })
	assert.Panics(t, func() { New(0, 0, 4) })
	assert.NotPanics(t, func() { New(7, 7, 3) })
}

func TestFromAnalysis(t *testing.T) {
	topo := FromAnalysis(1, 4, true, false, 0.74)
	assert.Equal(t, Topology{Kappa: 1, Sigma: 0, Delta: 1}, topo)

	topo = FromAnalysis(25, 900, false, true, 0.2)
	assert.Equal(t, Topology{Kappa: 7, Sigma: 7, Delta: 3}, topo)

	topo = FromAnalysis(11, 10, false, false, 0.95)
	assert.Equal(t, Topology{Kappa: 6, Sigma: 2, Delta: 0}, topo)

	topo = FromAnalysis(6, 501, true, false, 0.5)
	assert.Equal(t, Topology{Kappa: 4, Sigma: 2, Delta: 2}, topo)

	topo = FromAnalysis(3, 0, true, true, 0.7)
	assert.Equal(t, Topology{Kappa: 2, Sigma: 3, Delta: 1}, topo)
}

func TestInterpret(t *testing.T) {
	assert.Equal(t, "maximum deformation, high volatility, divergent/critical", New(7, 5, 3).Interpret())
	assert.Equal(t, "minimal deformation, rock solid, neutral/stable", New(0, 0, 0).Interpret())
	assert.Equal(t, "significant change, moderate volatility, positive drift", New(5, 3, 1).Interpret())
	assert.Equal(t, "slight change, stable, negative drift", New(2, 1, 2).Interpret())
	assert.Equal(t, "moderate change, extremely volatile, neutral/stable", New(4, 7, 0).Interpret())
}

func TestTableListsEverySymbol(t *testing.T) {
	table := Table()
	for off := 0; off < 256; off++ {
		assert.True(t, strings.ContainsRune(table, Base+rune(off)), "missing offset %d", off)
	}
	assert.Contains(t, table, "δ = 3 (divergent/critical)")
}
