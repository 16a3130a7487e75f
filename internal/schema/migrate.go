package schema

import (
	"errors"
	"fmt"
)

// StepFunc transforms a document one version forward. A step must be pure:
// it never mutates its input and returns a new document carrying only that
// one version's structural deltas. The migrator stamps the version field
// afterwards, so steps need not touch meta.schema_version.
type StepFunc func(doc map[string]any) (map[string]any, error)

type stepKey struct {
	from Version
	to   Version
}

// Migrator carries documents forward across schema versions by chaining
// registered per-version steps. Steps are registered once at construction
// and never change, so a Migrator is safe for concurrent use.
type Migrator struct {
	registry *Registry
	steps    map[stepKey]StepFunc
}

// NewMigrator returns a Migrator over registry with the bundled migration
// steps registered.
func NewMigrator(registry *Registry) *Migrator {
	m := newMigrator(registry)
	registerBundledSteps(m)
	return m
}

func newMigrator(registry *Registry) *Migrator {
	return &Migrator{
		registry: registry,
		steps:    make(map[stepKey]StepFunc),
	}
}

// RegisterStep registers the transformation from one supported version to
// the next. The pair must be adjacent in the supported sequence; chains are
// built from single hops, never skips.
func (m *Migrator) RegisterStep(from, to Version, fn StepFunc) error {
	if fn == nil {
		return errors.New("migration step func cannot be nil")
	}
	next, ok := m.nextSupported(from)
	if !ok || next != to {
		return fmt.Errorf("step %s -> %s is not adjacent in the supported version sequence", from, to)
	}
	key := stepKey{from: from, to: to}
	if _, exists := m.steps[key]; exists {
		return fmt.Errorf("step %s -> %s is already registered", from, to)
	}
	m.steps[key] = fn
	return nil
}

// Path returns the ordered version hops connecting from to to, excluding
// from itself. It reports a *MigrationError naming the first missing hop
// when the registered chain has a gap.
func (m *Migrator) Path(from, to Version) ([]Version, error) {
	if from == to {
		return nil, nil
	}
	if to.Less(from) {
		return nil, &UnsupportedMigrationError{From: from, To: to}
	}

	supported := m.registry.SupportedVersions()
	start, end := -1, -1
	for i, v := range supported {
		if v == from {
			start = i
		}
		if v == to {
			end = i
		}
	}
	if start == -1 {
		return nil, &MigrationError{From: from, To: to,
			Err: fmt.Errorf("source version %s is outside the supported range", from)}
	}
	if end == -1 {
		return nil, &MigrationError{From: from, To: to,
			Err: fmt.Errorf("target version %s is outside the supported range", to)}
	}

	var hops []Version
	for i := start; i < end; i++ {
		key := stepKey{from: supported[i], to: supported[i+1]}
		if _, ok := m.steps[key]; !ok {
			return nil, &MigrationError{From: key.from, To: key.to}
		}
		hops = append(hops, key.to)
	}
	return hops, nil
}

// Migrate carries doc from one version to another, applying each hop's
// transformation in order. Same-version calls are a no-op returning an
// equal copy, so re-running a migration against an already-migrated
// document is always safe. Downgrades fail with
// *UnsupportedMigrationError. On any step failure no partial document is
// returned.
func (m *Migrator) Migrate(doc map[string]any, from, to Version) (map[string]any, error) {
	if from == to {
		return copyDocument(doc), nil
	}

	hops, err := m.Path(from, to)
	if err != nil {
		return nil, err
	}

	current := copyDocument(doc)
	prev := from
	for _, next := range hops {
		step := m.steps[stepKey{from: prev, to: next}]
		migrated, err := applyStep(step, prev, next, current)
		if err != nil {
			return nil, err
		}
		stampVersion(migrated, next)
		current = migrated
		prev = next
	}
	return current, nil
}

// applyStep isolates one step's failure: errors and panics both surface as
// a *MigrationError naming the hop, and the caller discards the output.
func applyStep(fn StepFunc, from, to Version, doc map[string]any) (result map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &MigrationError{From: from, To: to, Err: fmt.Errorf("step panicked: %v", r)}
		}
	}()

	out, stepErr := fn(doc)
	if stepErr != nil {
		return nil, &MigrationError{From: from, To: to, Err: stepErr}
	}
	if out == nil {
		return nil, &MigrationError{From: from, To: to, Err: errors.New("step returned no document")}
	}
	return out, nil
}

func stampVersion(doc map[string]any, version Version) {
	meta := childMap(doc, "meta")
	if meta == nil {
		meta = make(map[string]any)
		doc["meta"] = meta
	}
	meta["schema_version"] = version.String()
}

func (m *Migrator) nextSupported(from Version) (Version, bool) {
	supported := m.registry.SupportedVersions()
	for i, v := range supported {
		if v == from && i+1 < len(supported) {
			return supported[i+1], true
		}
	}
	return Version{}, false
}
