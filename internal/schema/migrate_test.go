package schema

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func v(t *testing.T, s string) Version {
	t.Helper()
	return MustParseVersion(s)
}

// chainRegistry builds a registry whose supported window spans three
// versions so gap and multi-hop behavior can be exercised.
func chainRegistry(t *testing.T) *Registry {
	t.Helper()
	fsys := fstest.MapFS{
		"definitions/v1.0/mediaplan.schema.json": {Data: []byte(`{"type":"object"}`)},
		"definitions/v1.1/mediaplan.schema.json": {Data: []byte(`{"type":"object"}`)},
		"definitions/v1.2/mediaplan.schema.json": {Data: []byte(`{"type":"object"}`)},
	}
	return newRegistry(fsys, MustParseVersion("1.2"), MustParseVersion("1.0"))
}

func TestMigrator_SameVersionIsNoOp(t *testing.T) {
	t.Parallel()

	m := NewMigrator(NewRegistry())
	doc := validPlanV2()

	got, err := m.Migrate(doc, v(t, "2.0"), v(t, "2.0"))
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	// The no-op still returns a copy, never the caller's map.
	got["campaign"].(map[string]any)["name"] = "changed"
	assert.Equal(t, "Spring Launch", doc["campaign"].(map[string]any)["name"])
}

func TestMigrator_DowngradeRefused(t *testing.T) {
	t.Parallel()

	m := NewMigrator(NewRegistry())
	_, err := m.Migrate(validPlanV2(), v(t, "2.0"), v(t, "1.0"))

	var unsupportedErr *UnsupportedMigrationError
	require.ErrorAs(t, err, &unsupportedErr)
	assert.Equal(t, v(t, "2.0"), unsupportedErr.From)
	assert.Equal(t, v(t, "1.0"), unsupportedErr.To)
}

func TestMigrator_MigrateV1ToV2(t *testing.T) {
	t.Parallel()

	m := NewMigrator(NewRegistry())
	doc := validPlanV1()
	campaign := doc["campaign"].(map[string]any)
	campaign["comments"] = "internal notes"
	campaign["audience_age_start"] = 25.0
	campaign["audience_age_end"] = 44.0
	campaign["audience_gender"] = "any"

	got, err := m.Migrate(doc, v(t, "1.0"), v(t, "2.0"))
	require.NoError(t, err)

	meta := got["meta"].(map[string]any)
	assert.Equal(t, "2.0", meta["schema_version"])
	assert.Equal(t, "planner@example.com", meta["created_by_name"])
	assert.NotContains(t, meta, "created_by")
	assert.NotEmpty(t, meta["id"], "a plan without an id gets a generated one")

	migrated := got["campaign"].(map[string]any)
	assert.Equal(t, map[string]any{"total": 150000.0}, migrated["budget"])
	assert.NotContains(t, migrated, "comments")
	assert.NotContains(t, migrated, "audience_age_start")
	assert.Equal(t, map[string]any{
		"age_start": 25.0,
		"age_end":   44.0,
		"gender":    "any",
	}, migrated["audience"])
}

func TestMigrator_MigrateDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	m := NewMigrator(NewRegistry())
	doc := validPlanV1()
	before := copyDocument(doc)

	_, err := m.Migrate(doc, v(t, "1.0"), v(t, "2.0"))
	require.NoError(t, err)
	assert.Equal(t, before, doc)
}

func TestMigrator_MigratedDocumentValidatesClean(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	m := NewMigrator(reg)
	validator := NewValidator(reg)

	doc := validPlanV1()
	msgs, err := validator.Validate(doc, "")
	require.NoError(t, err)
	require.Empty(t, msgs, "fixture must be valid at 1.0 before migrating")

	got, err := m.Migrate(doc, v(t, "1.0"), v(t, "2.0"))
	require.NoError(t, err)

	msgs, err = validator.Validate(got, "")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMigrator_PathOutsideSupportedRange(t *testing.T) {
	t.Parallel()

	m := NewMigrator(NewRegistry())

	tests := map[string]struct {
		from string
		to   string
	}{
		"unsupported source": {from: "0.5", to: "2.0"},
		"unsupported target": {from: "1.0", to: "2.5"},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := m.Path(v(t, tt.from), v(t, tt.to))
			var migErr *MigrationError
			require.ErrorAs(t, err, &migErr)
			assert.Contains(t, err.Error(), "outside the supported range")
		})
	}
}

func TestMigrator_PathReportsGap(t *testing.T) {
	t.Parallel()

	m := newMigrator(chainRegistry(t))
	identity := func(doc map[string]any) (map[string]any, error) {
		return copyDocument(doc), nil
	}
	require.NoError(t, m.RegisterStep(v(t, "1.0"), v(t, "1.1"), identity))
	// 1.1 -> 1.2 deliberately left unregistered.

	_, err := m.Path(v(t, "1.0"), v(t, "1.2"))
	var migErr *MigrationError
	require.ErrorAs(t, err, &migErr)
	assert.Equal(t, v(t, "1.1"), migErr.From)
	assert.Equal(t, v(t, "1.2"), migErr.To)
	assert.Contains(t, err.Error(), "no migration step registered")
}

func TestMigrator_MultiHopChain(t *testing.T) {
	t.Parallel()

	m := newMigrator(chainRegistry(t))
	require.NoError(t, m.RegisterStep(v(t, "1.0"), v(t, "1.1"), func(doc map[string]any) (map[string]any, error) {
		out := copyDocument(doc)
		out["first"] = true
		return out, nil
	}))
	require.NoError(t, m.RegisterStep(v(t, "1.1"), v(t, "1.2"), func(doc map[string]any) (map[string]any, error) {
		out := copyDocument(doc)
		out["second"] = doc["first"]
		return out, nil
	}))

	got, err := m.Migrate(map[string]any{}, v(t, "1.0"), v(t, "1.2"))
	require.NoError(t, err)
	assert.Equal(t, true, got["first"])
	assert.Equal(t, true, got["second"], "second hop sees the first hop's output")
	assert.Equal(t, "1.2", got["meta"].(map[string]any)["schema_version"])
}

func TestMigrator_StepFailureReturnsNoDocument(t *testing.T) {
	t.Parallel()

	stepErr := errors.New("unrecognized budget shape")

	tests := map[string]struct {
		fn   StepFunc
		want string
	}{
		"step error": {
			fn:   func(map[string]any) (map[string]any, error) { return nil, stepErr },
			want: "unrecognized budget shape",
		},
		"step panic": {
			fn:   func(map[string]any) (map[string]any, error) { panic("nil campaign") },
			want: "step panicked",
		},
		"nil result": {
			fn:   func(map[string]any) (map[string]any, error) { return nil, nil },
			want: "step returned no document",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			m := newMigrator(chainRegistry(t))
			require.NoError(t, m.RegisterStep(v(t, "1.0"), v(t, "1.1"), tt.fn))

			got, err := m.Migrate(validPlanV1(), v(t, "1.0"), v(t, "1.1"))
			assert.Nil(t, got)
			var migErr *MigrationError
			require.ErrorAs(t, err, &migErr)
			assert.Equal(t, v(t, "1.0"), migErr.From)
			assert.Equal(t, v(t, "1.1"), migErr.To)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMigrator_StepErrorIsUnwrappable(t *testing.T) {
	t.Parallel()

	stepErr := errors.New("boom")
	m := newMigrator(chainRegistry(t))
	require.NoError(t, m.RegisterStep(v(t, "1.0"), v(t, "1.1"), func(map[string]any) (map[string]any, error) {
		return nil, stepErr
	}))

	_, err := m.Migrate(map[string]any{}, v(t, "1.0"), v(t, "1.1"))
	assert.ErrorIs(t, err, stepErr)
}

func TestMigrator_RegisterStep(t *testing.T) {
	t.Parallel()

	identity := func(doc map[string]any) (map[string]any, error) {
		return copyDocument(doc), nil
	}

	t.Run("nil func", func(t *testing.T) {
		t.Parallel()
		m := newMigrator(chainRegistry(t))
		err := m.RegisterStep(v(t, "1.0"), v(t, "1.1"), nil)
		assert.Error(t, err)
	})

	t.Run("non-adjacent pair", func(t *testing.T) {
		t.Parallel()
		m := newMigrator(chainRegistry(t))
		err := m.RegisterStep(v(t, "1.0"), v(t, "1.2"), identity)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not adjacent")
	})

	t.Run("unsupported source", func(t *testing.T) {
		t.Parallel()
		m := newMigrator(chainRegistry(t))
		err := m.RegisterStep(v(t, "0.9"), v(t, "1.0"), identity)
		assert.Error(t, err)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		t.Parallel()
		m := newMigrator(chainRegistry(t))
		require.NoError(t, m.RegisterStep(v(t, "1.0"), v(t, "1.1"), identity))
		err := m.RegisterStep(v(t, "1.0"), v(t, "1.1"), identity)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})
}

func TestMigrator_StampVersionCreatesMeta(t *testing.T) {
	t.Parallel()

	m := newMigrator(chainRegistry(t))
	require.NoError(t, m.RegisterStep(v(t, "1.0"), v(t, "1.1"), func(doc map[string]any) (map[string]any, error) {
		return copyDocument(doc), nil
	}))

	got, err := m.Migrate(map[string]any{"campaign": map[string]any{}}, v(t, "1.0"), v(t, "1.1"))
	require.NoError(t, err)
	meta, ok := got["meta"].(map[string]any)
	require.True(t, ok, "migration stamps a meta block even when the source had none")
	assert.Equal(t, "1.1", meta["schema_version"])
}
