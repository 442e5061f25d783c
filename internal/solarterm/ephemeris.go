package solarterm

import (
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solar"
)

// Ephemeris models the sun's apparent position. The locator only needs the
// apparent ecliptic longitude at an instant, so the astronomical backend
// stays swappable: tests substitute a stub, and a tabulated-only build can
// pass nil and serve the KASI window alone.
type Ephemeris interface {
	// ApparentLongitude returns the sun's apparent geocentric ecliptic
	// longitude in degrees [0, 360) at t.
	ApparentLongitude(t time.Time) float64
}

// MeeusEphemeris computes solar position with the low-accuracy theory from
// Meeus, Astronomical Algorithms. Accuracy is well inside one minute of time
// at the term crossings, matching the reference engine's backup path.
type MeeusEphemeris struct{}

// ApparentLongitude implements Ephemeris.
func (MeeusEphemeris) ApparentLongitude(t time.Time) float64 {
	jd := julian.TimeToJD(t.UTC())
	deg := solar.ApparentLongitude(base.J2000Century(jd)).Deg()
	deg -= 360 * float64(int(deg/360))
	if deg < 0 {
		deg += 360
	}
	return deg
}
