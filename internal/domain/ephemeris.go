package domain

import (
	"context"
	"fmt"
	"time"
)

// Body identifies a celestial body tracked in snapshots.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
)

// bodyNames holds the snapshot key for each body, indexed by Body.
var bodyNames = [...]string{
	Sun:     "Sole",
	Moon:    "Luna",
	Mercury: "Mercurio",
	Venus:   "Venere",
	Mars:    "Marte",
	Jupiter: "Giove",
	Saturn:  "Saturno",
	Uranus:  "Urano",
	Neptune: "Nettuno",
	Pluto:   "Plutone",
}

// Bodies is the fixed, ordered set of bodies written to every snapshot.
var Bodies = [...]Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}

// Name returns the Italian name used as the snapshot key.
func (b Body) Name() string {
	if b < 0 || int(b) >= len(bodyNames) {
		return fmt.Sprintf("Body(%d)", int(b))
	}
	return bodyNames[b]
}

func (b Body) String() string { return b.Name() }

// BodyNames returns the snapshot keys in fixed order.
func BodyNames() []string {
	names := make([]string, len(Bodies))
	for i, b := range Bodies {
		names[i] = b.Name()
	}
	return names
}

// Position is a geocentric ecliptic position of date.
type Position struct {
	Lon  float64 // degrees, [0, 360)
	Lat  float64 // degrees
	Dist float64 // AU
}

// Ephemeris computes body positions at a Julian day (UT).
type Ephemeris interface {
	JulianDay(t time.Time) float64
	Position(ctx context.Context, jd float64, body Body) (Position, error)
}
