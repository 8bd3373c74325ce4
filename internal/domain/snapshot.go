package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Note is the fixed descriptive string stored in every snapshot.
const Note = "Dati astronomici calcolati con gli algoritmi di Jean Meeus (soniakeys/meeus)."

// GeneratedAtLayout formats the generated_at field, e.g. "2024-01-15 12:00:00 CET".
const GeneratedAtLayout = "2006-01-02 15:04:05 MST"

// PlanetPosition is the per-body entry of a snapshot.
type PlanetPosition struct {
	Lon  float64 `json:"lon"`
	Sign string  `json:"sign"`
}

// Planet is a named PlanetPosition.
type Planet struct {
	Name string
	PlanetPosition
}

// Planets is an ordered name→position mapping. It encodes as a JSON object
// whose keys keep slice order.
type Planets []Planet

// Get returns the position stored under name.
func (ps Planets) Get(name string) (PlanetPosition, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.PlanetPosition, true
		}
	}
	return PlanetPosition{}, false
}

// Names returns the keys in order.
func (ps Planets) Names() []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}

func (ps Planets) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range ps {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.PlanetPosition)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (ps *Planets) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("planets: expected object")
	}
	out := Planets{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("planets: unexpected key %v", tok)
		}
		var pos PlanetPosition
		if err := dec.Decode(&pos); err != nil {
			return fmt.Errorf("planets: %s: %w", name, err)
		}
		out = append(out, Planet{Name: name, PlanetPosition: pos})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*ps = out
	return nil
}

// Base is the part of a snapshot shared by all three period types.
type Base struct {
	GeneratedAt string  `json:"generated_at"`
	DateRef     string  `json:"date_ref"`
	Planets     Planets `json:"planets"`
	Note        string  `json:"note"`
}

// Snapshot is the document persisted for one period.
type Snapshot struct {
	Base
	Type PeriodType `json:"type"`
	ID   string     `json:"id"`
}

// NewBase builds the shared record. now is the generation moment, not the
// reference noon.
func NewBase(now time.Time, planets Planets) Base {
	return Base{
		GeneratedAt: now.Format(GeneratedAtLayout),
		DateRef:     now.Format("2006-01-02"),
		Planets:     planets,
		Note:        Note,
	}
}

// NewSnapshot combines the shared record with a period type and id.
func NewSnapshot(base Base, p PeriodType, id string) Snapshot {
	return Snapshot{Base: base, Type: p, ID: id}
}

// Encode renders the snapshot as indented UTF-8 JSON. Non-ASCII text and
// HTML-sensitive characters are written literally.
func (s Snapshot) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode %s snapshot %s: %w", s.Type, s.ID, err)
	}
	return buf.Bytes(), nil
}

// DecodeSnapshot parses a persisted snapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// BuildPlanets queries the ephemeris for every body at jd. Any failure aborts
// the whole set; a partial result is never returned. The sign is derived from
// the stored (rounded) longitude.
func BuildPlanets(ctx context.Context, eph Ephemeris, jd float64) (Planets, error) {
	planets := make(Planets, 0, len(Bodies))
	for _, b := range Bodies {
		pos, err := eph.Position(ctx, jd, b)
		if err != nil {
			return nil, fmt.Errorf("position of %s: %w", b.Name(), err)
		}
		lon := RoundLongitude(pos.Lon)
		planets = append(planets, Planet{
			Name:           b.Name(),
			PlanetPosition: PlanetPosition{Lon: lon, Sign: SignFor(lon)},
		})
	}
	return planets, nil
}
