// Package sweep enumerates query windows covering a geographic area for
// sources whose search API only accepts a center point and a radius.
package sweep

import (
	"fmt"
	"iter"
	"math"

	geohash "github.com/TomiHiltunen/geohash-golang"
)

// Window is one radius-bounded query centered on (Lat, Lon).
type Window struct {
	Lat    float64
	Lon    float64
	Radius float64
}

// Geohash labels the window center; stable across runs.
func (w Window) Geohash() string {
	return geohash.Encode(w.Lat, w.Lon)
}

func (w Window) String() string {
	return fmt.Sprintf("(%.1f,%.1f r=%g)", w.Lat, w.Lon, w.Radius)
}

// Grid is a rectangular lattice of window centers. Longitudes run over
// [LonMin, LonMax) and latitudes over [LatMin, LatMax], both inclusive
// at the lower bound.
type Grid struct {
	LonMin, LonMax, LonStep float64
	LatMin, LatMax, LatStep float64
	Radius                  float64
}

// Continental covers the contiguous United States: longitude -125 to
// -64 in half-degree steps, latitude 25 to 50 in one-degree steps,
// 100-unit radius per window.
func Continental() Grid {
	return Grid{
		LonMin: -125, LonMax: -64, LonStep: 0.5,
		LatMin: 25, LatMax: 50, LatStep: 1,
		Radius: 100,
	}
}

func (g Grid) lonSteps() int {
	if g.LonStep <= 0 || g.LonMax <= g.LonMin {
		return 0
	}
	return int(math.Ceil((g.LonMax-g.LonMin)/g.LonStep - 1e-9))
}

func (g Grid) latSteps() int {
	if g.LatStep <= 0 || g.LatMax < g.LatMin {
		return 0
	}
	return int(math.Floor((g.LatMax-g.LatMin)/g.LatStep+1e-9)) + 1
}

// Len is the number of windows Windows yields.
func (g Grid) Len() int {
	return g.lonSteps() * g.latSteps()
}

// Windows yields every window in longitude-major order: all latitudes
// for the westernmost longitude first. The sequence is pure and can be
// ranged over any number of times.
func (g Grid) Windows() iter.Seq[Window] {
	lonN, latN := g.lonSteps(), g.latSteps()
	return func(yield func(Window) bool) {
		for i := range lonN {
			// computed from the index so steps never accumulate float error
			lon := g.LonMin + float64(i)*g.LonStep
			for j := range latN {
				w := Window{
					Lat:    g.LatMin + float64(j)*g.LatStep,
					Lon:    lon,
					Radius: g.Radius,
				}
				if !yield(w) {
					return
				}
			}
		}
	}
}
