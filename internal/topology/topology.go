package topology

import (
	"fmt"
	"strings"
)

// #region limits

// Base is the first symbol of the 256-symbol window topology offsets map into.
const Base rune = 0x2800

const (
	MaxKappa uint8 = 7
	MaxSigma uint8 = 7
	MaxDelta uint8 = 3
)

// #endregion limits

// #region topology

// Topology summarizes a change on three axes: curvature κ (scope), stability
// σ (risk) and direction δ (trend). Values are immutable and always in range.
type Topology struct {
	Kappa uint8
	Sigma uint8
	Delta uint8
}

// New builds a Topology. Out-of-range axes are a programming error and panic.
func New(kappa, sigma, delta uint8) Topology {
	if kappa > MaxKappa {
		panic(fmt.Sprintf("topology: kappa %d out of range [0,%d]", kappa, MaxKappa))
	}
	if sigma > MaxSigma {
		panic(fmt.Sprintf("topology: sigma %d out of range [0,%d]", sigma, MaxSigma))
	}
	if delta > MaxDelta {
		panic(fmt.Sprintf("topology: delta %d out of range [0,%d]", delta, MaxDelta))
	}
	return Topology{Kappa: kappa, Sigma: sigma, Delta: delta}
}

// #endregion topology

// #region codec

// Offset packs the axes into one byte: κ in bits 0-2, σ in bits 3-5, δ in 6-7.
func (t Topology) Offset() uint8 {
	return t.Kappa | t.Sigma<<3 | t.Delta<<6
}

// FromOffset unpacks a byte produced by Offset. Every byte is valid.
func FromOffset(offset uint8) Topology {
	return Topology{
		Kappa: offset & 0b111,
		Sigma: (offset >> 3) & 0b111,
		Delta: (offset >> 6) & 0b11,
	}
}

// Symbol maps the packed offset to its display symbol.
func (t Topology) Symbol() rune {
	return Base + rune(t.Offset())
}

// FromSymbol decodes a display symbol. ok is false outside the window.
func FromSymbol(r rune) (Topology, bool) {
	if r < Base || r > Base+255 {
		return Topology{}, false
	}
	return FromOffset(uint8(r - Base)), true
}

// String returns the display symbol.
func (t Topology) String() string {
	return string(t.Symbol())
}

// #endregion codec

// #region derive

// FromAnalysis derives a topology from change-set measurements and a score.
func FromAnalysis(fileCount, lineChanges int, hasTests, hasBreaking bool, score float64) Topology {
	var kappa uint8
	switch {
	case fileCount > 20:
		kappa = 7
	case fileCount > 10:
		kappa = 6
	case fileCount > 5:
		kappa = 4
	case fileCount > 2:
		kappa = 2
	default:
		kappa = 1
	}

	var sigma uint8
	if !hasTests {
		sigma += 2
	}
	if hasBreaking {
		sigma += 3
	}
	if lineChanges > 500 {
		sigma += 2
	}
	sigma = min(sigma, MaxSigma)

	var delta uint8
	switch {
	case score >= 0.9:
		delta = 0
	case score >= 0.7:
		delta = 1
	case score >= 0.5:
		delta = 2
	default:
		delta = 3
	}

	return New(kappa, sigma, delta)
}

// #endregion derive

// #region interpret

// Interpret describes each axis in words, joined by commas.
func (t Topology) Interpret() string {
	return fmt.Sprintf("%s, %s, %s", curvature(t.Kappa), stability(t.Sigma), direction(t.Delta))
}

func curvature(k uint8) string {
	switch {
	case k == 0:
		return "minimal deformation"
	case k <= 2:
		return "slight change"
	case k <= 4:
		return "moderate change"
	case k <= 6:
		return "significant change"
	default:
		return "maximum deformation"
	}
}

func stability(s uint8) string {
	switch {
	case s == 0:
		return "rock solid"
	case s <= 2:
		return "stable"
	case s <= 4:
		return "moderate volatility"
	case s <= 6:
		return "high volatility"
	default:
		return "extremely volatile"
	}
}

var directions = [...]string{"neutral/stable", "positive drift", "negative drift", "divergent/critical"}

func direction(d uint8) string {
	return directions[d&0b11]
}

// #endregion interpret

// #region table

// Table renders every symbol as one κ×σ grid per δ value.
func Table() string {
	var b strings.Builder
	b.WriteString("Topology table: κ rows, σ columns, one grid per δ\n")
	for d := uint8(0); d <= MaxDelta; d++ {
		fmt.Fprintf(&b, "\nδ = %d (%s)\n", d, direction(d))
		b.WriteString("κ↓ σ→ | 0  1  2  3  4  5  6  7\n")
		b.WriteString("--------------------------------\n")
		for k := uint8(0); k <= MaxKappa; k++ {
			fmt.Fprintf(&b, "%d     ", k)
			for s := uint8(0); s <= MaxSigma; s++ {
				fmt.Fprintf(&b, " %c ", New(k, s, d).Symbol())
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// #endregion table
