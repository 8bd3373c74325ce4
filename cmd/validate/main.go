// Command validate performs integrity checks on a snapshot output tree: file
// layout, document schema, period identity, and consistency between
// snapshots that share a reference date.
//
// Usage:
//
//	go run ./cmd/validate -dir output
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"github.com/couchcryptid/astro-snapshots/internal/adapter/filestore"
	"github.com/couchcryptid/astro-snapshots/internal/domain"
	"github.com/google/go-cmp/cmp"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// document is a snapshot file loaded from disk.
type document struct {
	entry filestore.Entry
	snap  domain.Snapshot
}

func main() {
	dir := flag.String("dir", "output", "snapshot output directory")
	flag.Parse()

	if code := run(*dir, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(dir string, out io.Writer) int {
	store := filestore.New(dir)

	fmt.Fprintln(out, "=== Snapshot Integrity Validation ===")
	fmt.Fprintln(out)

	layout := &phase{name: "Phase 1: Layout (file names and ids)"}
	schema := &phase{name: "Phase 2: Schema (planets, longitudes, signs)"}
	docs := loadDocuments(store, layout, schema)
	for _, d := range docs {
		validateSchema(schema, d)
	}

	phases := []*phase{
		layout,
		schema,
		validateIdentity(docs),
		validateConsistency(docs),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-48s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Snapshots: %d\n", len(docs))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Layout ──
// Lists every period directory and checks file names. Files that parse are
// returned for the later phases; parse failures are schema errors.

func loadDocuments(store *filestore.Store, layout, schema *phase) []document {
	var docs []document
	for _, p := range domain.AllPeriodTypes() {
		entries, err := store.List(p)
		if err != nil {
			layout.errorf("%s: %v", p, err)
			continue
		}
		for _, e := range entries {
			if e.ID == "" {
				layout.errorf("%s: unexpected file", e.Path)
				continue
			}
			if !p.ValidID(e.ID) {
				layout.errorf("%s: malformed %s id %q", e.Path, p, e.ID)
				continue
			}
			data, err := os.ReadFile(e.Path)
			if err != nil {
				schema.errorf("%s: %v", e.Path, err)
				continue
			}
			snap, err := domain.DecodeSnapshot(data)
			if err != nil {
				schema.errorf("%s: %v", e.Path, err)
				continue
			}
			docs = append(docs, document{entry: e, snap: snap})
		}
	}
	return docs
}

// ── Phase 2: Schema ──

func validateSchema(p *phase, d document) {
	path := d.entry.Path
	if names := d.snap.Planets.Names(); !slices.Equal(names, domain.BodyNames()) {
		p.errorf("%s: planets %v, want %v", path, names, domain.BodyNames())
	}
	for _, pl := range d.snap.Planets {
		if pl.Lon < 0 || pl.Lon >= 360 || math.IsNaN(pl.Lon) {
			p.errorf("%s: %s lon %v outside [0,360)", path, pl.Name, pl.Lon)
			continue
		}
		if !domain.IsSign(pl.Sign) {
			p.errorf("%s: %s has unknown sign %q", path, pl.Name, pl.Sign)
			continue
		}
		if domain.SignFor(pl.Lon) != pl.Sign {
			p.errorf("%s: %s lon %v is not in %s", path, pl.Name, pl.Lon, pl.Sign)
		}
	}
	if d.snap.Note == "" {
		p.errorf("%s: empty note", path)
	}
	if d.snap.GeneratedAt == "" {
		p.errorf("%s: empty generated_at", path)
	}
}

// ── Phase 3: Identity ──
// The document's own type, id and date_ref must agree with its file name.

func validateIdentity(docs []document) *phase {
	p := &phase{name: "Phase 3: Identity (type, id, date_ref)"}
	for _, d := range docs {
		if d.snap.Type != d.entry.Type {
			p.errorf("%s: type %q, want %q", d.entry.Path, d.snap.Type, d.entry.Type)
		}
		if d.snap.ID != d.entry.ID {
			p.errorf("%s: id %q, want %q", d.entry.Path, d.snap.ID, d.entry.ID)
		}
		ok, err := d.entry.Type.Contains(d.entry.ID, d.snap.DateRef)
		if err != nil {
			p.errorf("%s: %v", d.entry.Path, err)
			continue
		}
		if !ok {
			p.errorf("%s: date_ref %s is outside %s %s", d.entry.Path, d.snap.DateRef, d.entry.Type, d.entry.ID)
		}
	}
	return p
}

// ── Phase 4: Consistency ──
// Positions are computed at local noon of date_ref, so every snapshot with
// the same date_ref must carry the same planets.

func validateConsistency(docs []document) *phase {
	p := &phase{name: "Phase 4: Consistency (shared date_ref)"}
	first := make(map[string]document)
	for _, d := range docs {
		ref, ok := first[d.snap.DateRef]
		if !ok {
			first[d.snap.DateRef] = d
			continue
		}
		if diff := cmp.Diff(ref.snap.Planets, d.snap.Planets); diff != "" {
			p.errorf("%s and %s share date_ref %s but differ (-first +second):\n%s",
				ref.entry.Path, d.entry.Path, d.snap.DateRef, diff)
		}
	}
	return p
}
