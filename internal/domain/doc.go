// Package domain models astrological period snapshots.
//
// # Zodiac
//
// The tropical zodiac splits the ecliptic into twelve 30° signs starting at the
// vernal equinox. A body's sign is derived from its geocentric ecliptic
// longitude alone:
//
//	sign_index = floor(longitude / 30) mod 12
//
// Longitudes are normalised first, so 390° and -330° both land in Toro.
// Sign and planet names are Italian and form part of the on-disk format.
//
// # Periods
//
// A run derives three period identifiers from the same instant, in the
// configured timezone:
//
//	daily    2024-01-15
//	weekly   2024-W03    ISO 8601 week-numbering year and week
//	monthly  2024-01
//
// Around New Year the ISO year can differ from the calendar year: 2024-12-30
// belongs to 2025-W01.
//
// # Snapshots
//
// Positions are computed once per run at local noon of the current date and
// shared by all three period snapshots. A snapshot is written at most once per
// period id and never modified afterwards.
package domain
