// Package meeus implements domain.Ephemeris with the algorithms from Jean
// Meeus' "Astronomical Algorithms" as packaged by github.com/soniakeys/meeus.
//
// All longitudes are geocentric, ecliptic and referred to the equinox of
// date, which is what the tropical zodiac is measured against. Planets use
// mean orbital elements (no perturbation terms), which keeps the whole
// computation file-free at the cost of up to about a degree of error for the
// outer planets. The input Julian day is treated as JDE; ΔT (about a minute
// in this era) is below the 4-decimal resolution that matters for signs,
// except for the Moon where it is still well under 0.01°.
package meeus

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/couchcryptid/astro-snapshots/internal/domain"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/kepler"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/planetelements"
	"github.com/soniakeys/meeus/v3/pluto"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

const (
	j2000          = 2451545.0
	daysPerCentury = 36525.0
	kmPerAU        = 149597870.7

	// keplerPlaces is the decimal precision requested from the Kepler solver.
	keplerPlaces = 10
)

var (
	// ErrJulianDayOutOfRange is returned for Julian days outside the range
	// covered by every series in use (the Pluto theory is the narrowest).
	ErrJulianDayOutOfRange = errors.New("julian day out of supported range")

	// ErrUnknownBody is returned for a body this ephemeris cannot compute.
	ErrUnknownBody = errors.New("unknown body")
)

var (
	minJD = julian.CalendarGregorianToJD(1885, 1, 1)
	maxJD = julian.CalendarGregorianToJD(2099, 12, 31)
)

// elementIDs maps bodies computed from mean orbital elements.
var elementIDs = map[domain.Body]int{
	domain.Mercury: planetelements.Mercury,
	domain.Venus:   planetelements.Venus,
	domain.Mars:    planetelements.Mars,
	domain.Jupiter: planetelements.Jupiter,
	domain.Saturn:  planetelements.Saturn,
	domain.Uranus:  planetelements.Uranus,
	domain.Neptune: planetelements.Neptune,
}

// Ephemeris is a stateless, file-free ephemeris.
type Ephemeris struct{}

// New returns an Ephemeris.
func New() *Ephemeris {
	return &Ephemeris{}
}

// JulianDay converts t to a Julian day number in UT.
func (e *Ephemeris) JulianDay(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// Position returns the geocentric ecliptic position of body at jd.
func (e *Ephemeris) Position(ctx context.Context, jd float64, body domain.Body) (domain.Position, error) {
	if err := ctx.Err(); err != nil {
		return domain.Position{}, err
	}
	if err := checkJulianDay(jd); err != nil {
		return domain.Position{}, err
	}

	switch body {
	case domain.Sun:
		return sunPosition(jd), nil
	case domain.Moon:
		lon, lat, dist := moonposition.Position(jd)
		return domain.Position{
			Lon:  domain.NormalizeLongitude(lon.Deg()),
			Lat:  lat.Deg(),
			Dist: dist / kmPerAU,
		}, nil
	case domain.Pluto:
		return plutoPosition(jd)
	}

	id, ok := elementIDs[body]
	if !ok {
		return domain.Position{}, fmt.Errorf("%w: %v", ErrUnknownBody, body)
	}
	planet, err := heliocentric(id, jd)
	if err != nil {
		return domain.Position{}, fmt.Errorf("%v: %w", body, err)
	}
	return planet.sub(earth(jd)).ecliptic(), nil
}

func checkJulianDay(jd float64) error {
	if math.IsNaN(jd) || math.IsInf(jd, 0) || jd < minJD || jd > maxJD {
		return fmt.Errorf("%w: %v", ErrJulianDayOutOfRange, jd)
	}
	return nil
}

func centuries(jd float64) float64 {
	return (jd - j2000) / daysPerCentury
}

func sunPosition(jd float64) domain.Position {
	t := centuries(jd)
	lon := solar.ApparentLongitude(t)
	return domain.Position{
		Lon:  domain.NormalizeLongitude(lon.Deg()),
		Dist: solar.Radius(t),
	}
}

// earth returns the heliocentric position of the Earth, opposite the Sun's
// true geometric longitude of date. The Sun's latitude (under 1.2") is taken
// as zero. planetelements has no node series for the Earth, so Mean cannot
// be used here.
func earth(jd float64) vec {
	t := centuries(jd)
	s, _ := solar.True(t)
	r := solar.Radius(t)
	lon := s.Rad() + math.Pi
	return vec{x: r * math.Cos(lon), y: r * math.Sin(lon)}
}

// plutoPosition precesses the J2000 heliocentric position to the equinox of
// date before subtracting the Earth.
func plutoPosition(jd float64) (domain.Position, error) {
	l, b, r := pluto.Heliocentric(jd)
	t := centuries(jd)
	precession := (5029.0966*t + 1.11113*t*t) / 3600
	lon := l.Rad() + unit.AngleFromDeg(precession).Rad()

	p := vec{
		x: r * math.Cos(b.Rad()) * math.Cos(lon),
		y: r * math.Cos(b.Rad()) * math.Sin(lon),
		z: r * math.Sin(b.Rad()),
	}
	return p.sub(earth(jd)).ecliptic(), nil
}

// vec is a heliocentric or geocentric ecliptic rectangular vector in AU.
type vec struct{ x, y, z float64 }

func (v vec) sub(o vec) vec { return vec{v.x - o.x, v.y - o.y, v.z - o.z} }

func (v vec) norm() float64 { return math.Sqrt(v.x*v.x + v.y*v.y + v.z*v.z) }

func (v vec) ecliptic() domain.Position {
	lon := math.Atan2(v.y, v.x) * 180 / math.Pi
	lat := math.Atan2(v.z, math.Hypot(v.x, v.y)) * 180 / math.Pi
	return domain.Position{
		Lon:  domain.NormalizeLongitude(lon),
		Lat:  lat,
		Dist: v.norm(),
	}
}

// heliocentric solves Kepler's equation on the mean elements of date for the
// planetelements planet id. id must not be planetelements.Earth.
func heliocentric(id int, jd float64) (vec, error) {
	var el planetelements.Elements
	planetelements.Mean(id, jd, &el)

	meanAnomaly := unit.Angle(el.Lon.Rad() - el.Peri.Rad()).Mod1()
	ecc, err := kepler.Kepler2(el.Ecc, meanAnomaly, keplerPlaces)
	if err != nil {
		return vec{}, fmt.Errorf("kepler: %w", err)
	}
	nu := kepler.True(ecc, el.Ecc)
	r := kepler.Radius(ecc, el.Ecc, el.Axis)

	node := el.Node.Rad()
	u := el.Peri.Rad() - node + nu.Rad()
	inc := el.Inc.Rad()
	return vec{
		x: r * (math.Cos(node)*math.Cos(u) - math.Sin(node)*math.Sin(u)*math.Cos(inc)),
		y: r * (math.Sin(node)*math.Cos(u) + math.Cos(node)*math.Sin(u)*math.Cos(inc)),
		z: r * math.Sin(u) * math.Sin(inc),
	}, nil
}
