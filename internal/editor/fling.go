package editor

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"map-editor/pkg/geometry"
)

// Fling tuning. Velocity comes from a least-squares fit over the last
// samples of the pan, which smooths over jittery input much better than
// the delta of the final two events.
const (
	flingWindow   = 120 * time.Millisecond
	flingMinSpeed = 120.0 // px/s required to start a fling
	flingStop     = 15.0  // px/s at which the glide ends
	flingDecay    = 3.2   // 1/s exponential decay rate
)

type flingSample struct {
	t   time.Time
	pos geometry.Point2D
}

// flingTracker records recent pointer positions during a pan so the
// release velocity can be estimated.
type flingTracker struct {
	samples []flingSample
}

func (f *flingTracker) reset() {
	f.samples = f.samples[:0]
}

func (f *flingTracker) add(t time.Time, pos geometry.Point2D) {
	f.samples = append(f.samples, flingSample{t: t, pos: pos})
	cutoff := t.Add(-flingWindow)
	for len(f.samples) > 0 && f.samples[0].t.Before(cutoff) {
		f.samples = f.samples[1:]
	}
}

// velocity fits x(t) and y(t) linearly over the sample window and
// returns the slopes in px/s. ok is false when the pointer was too slow
// or the window too sparse to mean anything.
func (f *flingTracker) velocity(now time.Time) (vx, vy float64, ok bool) {
	if len(f.samples) < 3 {
		return 0, 0, false
	}
	base := f.samples[0].t
	ts := make([]float64, len(f.samples))
	xs := make([]float64, len(f.samples))
	ys := make([]float64, len(f.samples))
	for i, s := range f.samples {
		ts[i] = s.t.Sub(base).Seconds()
		xs[i] = s.pos.X
		ys[i] = s.pos.Y
	}
	if ts[len(ts)-1] <= 0 {
		return 0, 0, false
	}
	_, vx = stat.LinearRegression(ts, xs, nil, false)
	_, vy = stat.LinearRegression(ts, ys, nil, false)
	if math.Hypot(vx, vy) < flingMinSpeed {
		return 0, 0, false
	}
	return vx, vy, true
}

// Fling is an inertial glide after a fast pan release. Step it from an
// animation tick; it reports the screen-space delta to apply and
// whether the glide has run out.
type Fling struct {
	vx, vy float64
}

func NewFling(vx, vy float64) *Fling {
	return &Fling{vx: vx, vy: vy}
}

// Step advances the glide by dt and returns the pointer-equivalent
// screen delta for the interval.
func (f *Fling) Step(dt time.Duration) (dx, dy float64, done bool) {
	sec := dt.Seconds()
	dx = f.vx * sec
	dy = f.vy * sec
	k := math.Exp(-flingDecay * sec)
	f.vx *= k
	f.vy *= k
	return dx, dy, math.Hypot(f.vx, f.vy) < flingStop
}
