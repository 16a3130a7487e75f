package schema

import "fmt"

// Compatibility classifies a document version against the supported range.
type Compatibility string

const (
	// CompatibilityCurrent means the version is exactly what this build produces.
	CompatibilityCurrent Compatibility = "current"
	// CompatibilityBackwards means the version is older but migratable.
	CompatibilityBackwards Compatibility = "backwards_compatible"
	// CompatibilityForwardMinor means the version is a newer minor of the
	// current major; structurally compatible, unknown fields tolerated.
	CompatibilityForwardMinor Compatibility = "forward_minor"
	// CompatibilityUnsupported means the version is too old or too new.
	CompatibilityUnsupported Compatibility = "unsupported"
)

// Verdict is the outcome of classifying one document version.
type Verdict struct {
	Version        Version
	Compatibility  Compatibility
	Recommendation string
}

// Classifier answers how a document's declared version relates to the
// range this build supports.
type Classifier struct {
	registry *Registry
}

// NewClassifier returns a Classifier over the registry's version window.
func NewClassifier(registry *Registry) *Classifier {
	return &Classifier{registry: registry}
}

// Classify normalizes the version text and places it relative to the
// supported range. Malformed text returns an *InvalidVersionError; every
// well-formed version yields a Verdict.
func (c *Classifier) Classify(version string) (Verdict, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return Verdict{}, err
	}

	current := c.registry.CurrentVersion()
	minimum := c.registry.MinimumVersion()

	// Exact equality wins over range checks so a deployment where
	// current == minimum still classifies its own version as current.
	switch {
	case v == current:
		return Verdict{
			Version:        v,
			Compatibility:  CompatibilityCurrent,
			Recommendation: fmt.Sprintf("schema version %s is natively supported", v),
		}, nil

	case v.Less(current) && !v.Less(minimum):
		return Verdict{
			Version:        v,
			Compatibility:  CompatibilityBackwards,
			Recommendation: fmt.Sprintf("migrate the document from %s to %s before use", v, current),
		}, nil

	case current.Less(v) && v.SameMajor(current):
		return Verdict{
			Version:        v,
			Compatibility:  CompatibilityForwardMinor,
			Recommendation: fmt.Sprintf("schema version %s is a newer minor of %s; fields unknown to this software are tolerated", v, current),
		}, nil

	case current.Less(v):
		return Verdict{
			Version:        v,
			Compatibility:  CompatibilityUnsupported,
			Recommendation: fmt.Sprintf("schema version %s is newer than this software supports (current %s); upgrade the software", v, current),
		}, nil

	default:
		return Verdict{
			Version:        v,
			Compatibility:  CompatibilityUnsupported,
			Recommendation: fmt.Sprintf("schema version %s predates the supported minimum %s; upgrade the document with an older release line first", v, minimum),
		}, nil
	}
}
