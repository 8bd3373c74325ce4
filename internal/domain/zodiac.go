package domain

import "math"

// Signs lists the zodiac signs in ecliptic order starting at 0°.
var Signs = [12]string{
	"Ariete", "Toro", "Gemelli", "Cancro", "Leone", "Vergine",
	"Bilancia", "Scorpione", "Sagittario", "Capricorno", "Acquario", "Pesci",
}

// SignFor returns the zodiac sign containing the given ecliptic longitude in degrees.
func SignFor(lon float64) string {
	return Signs[SignIndex(lon)]
}

// SignIndex returns the index into Signs for the given longitude.
func SignIndex(lon float64) int {
	i := int(math.Floor(lon/30)) % 12
	if i < 0 {
		i += 12
	}
	return i
}

// IsSign reports whether name is one of the twelve sign names.
func IsSign(name string) bool {
	for _, s := range Signs {
		if s == name {
			return true
		}
	}
	return false
}

// NormalizeLongitude reduces lon to [0, 360).
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	// math.Mod of a tiny negative value plus 360 can round back to 360.
	if lon >= 360 {
		lon = 0
	}
	return lon
}

// maxRoundedLongitude is the largest longitude representable at 4 decimals.
const maxRoundedLongitude = 359.9999

// RoundLongitude normalises lon and rounds it to 4 decimal places. A value
// that would round up to 360 is clamped to 359.9999 so it stays in Pesci.
func RoundLongitude(lon float64) float64 {
	r := math.Round(NormalizeLongitude(lon)*1e4) / 1e4
	if r > maxRoundedLongitude {
		return maxRoundedLongitude
	}
	return r
}
