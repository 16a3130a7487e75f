package schema

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()

	// Window under test: minimum 1.0, current 2.0.
	classifier := NewClassifier(NewRegistry())

	tests := map[string]struct {
		version        string
		want           Compatibility
		recommendation string
	}{
		"current": {
			version: "2.0",
			want:    CompatibilityCurrent,
		},
		"current in legacy form": {
			version: "v2.0.0",
			want:    CompatibilityCurrent,
		},
		"older within window": {
			version:        "1.0",
			want:           CompatibilityBackwards,
			recommendation: "migrate the document",
		},
		"newer minor same major": {
			version:        "2.3",
			want:           CompatibilityForwardMinor,
			recommendation: "tolerated",
		},
		"one minor below minimum": {
			version:        "0.9",
			want:           CompatibilityUnsupported,
			recommendation: "upgrade the document",
		},
		"newer major": {
			version:        "3.0",
			want:           CompatibilityUnsupported,
			recommendation: "upgrade the software",
		},
		"newer major with low minor": {
			version:        "3.0",
			want:           CompatibilityUnsupported,
			recommendation: "upgrade the software",
		},
		"much newer major": {
			version:        "10.7",
			want:           CompatibilityUnsupported,
			recommendation: "upgrade the software",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			verdict, err := classifier.Classify(tt.version)
			require.NoError(t, err)
			assert.Equal(t, tt.want, verdict.Compatibility)
			assert.Equal(t, MustParseVersion(tt.version), verdict.Version)
			assert.Contains(t, verdict.Recommendation, tt.recommendation)
		})
	}
}

func TestClassifier_ClassifyInvalidVersion(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(NewRegistry())
	_, err := classifier.Classify("not.a.version")
	var invalidErr *InvalidVersionError
	require.ErrorAs(t, err, &invalidErr)
}

func TestClassifier_SingleVersionWindowClassifiesAsCurrent(t *testing.T) {
	t.Parallel()

	// A deployment where current == minimum must classify its only
	// version as current, never as backwards-compatible.
	fsys := fstest.MapFS{
		"definitions/v2.0/mediaplan.schema.json": {Data: []byte(`{"type":"object"}`)},
	}
	reg := newRegistry(fsys, MustParseVersion("2.0"), MustParseVersion("2.0"))
	classifier := NewClassifier(reg)

	verdict, err := classifier.Classify("2.0")
	require.NoError(t, err)
	assert.Equal(t, CompatibilityCurrent, verdict.Compatibility)

	verdict, err = classifier.Classify("1.9")
	require.NoError(t, err)
	assert.Equal(t, CompatibilityUnsupported, verdict.Compatibility)
	assert.Contains(t, verdict.Recommendation, "upgrade the document")
}
