package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"
)

// WarningPrefix marks validation messages that are advisory rather than
// fatal, such as unknown fields in a forward-minor document.
const WarningPrefix = "Warning: "

// Validator checks documents against the schema definition for their
// declared version, then applies business rules on top of the structural
// result. Data-level failures are returned as messages, not errors; only
// infrastructure failures (unusable version, unavailable schema,
// unreadable input) surface as errors.
type Validator struct {
	registry   *Registry
	classifier *Classifier
}

// NewValidator returns a Validator resolving definitions from registry.
func NewValidator(registry *Registry) *Validator {
	return &Validator{
		registry:   registry,
		classifier: NewClassifier(registry),
	}
}

// Validate checks doc against the schema for the given version. An empty
// version means "use the document's embedded version"; a document without
// one fails with *MissingVersionError. The returned slice is empty when the
// document is valid, and message order is deterministic.
func (v *Validator) Validate(doc map[string]any, version string) ([]string, error) {
	if version == "" {
		embedded, ok := DocumentVersion(doc)
		if !ok {
			return nil, &MissingVersionError{}
		}
		version = embedded
	}

	verdict, err := v.classifier.Classify(version)
	if err != nil {
		return nil, err
	}
	if verdict.Compatibility == CompatibilityUnsupported {
		return nil, &SchemaNotFoundError{Version: verdict.Version, Artifact: ArtifactMediaPlan}
	}

	// Forward-minor documents have no bundled definition; they validate
	// against the current one with unknown fields downgraded to warnings.
	schemaVersion := verdict.Version
	tolerant := false
	if verdict.Compatibility == CompatibilityForwardMinor {
		schemaVersion = v.registry.CurrentVersion()
		tolerant = true
	}

	def, err := v.registry.LoadSchema(schemaVersion, ArtifactMediaPlan)
	if err != nil {
		return nil, err
	}

	walk := &structuralWalk{
		registry: v.registry,
		version:  schemaVersion,
		tolerant: tolerant,
	}
	if err := walk.object("", doc, &def.Property); err != nil {
		return nil, err
	}

	messages := append(walk.messages, businessRuleMessages(doc)...)
	return messages, nil
}

// ValidateReader decodes a JSON document from r and validates it. Read and
// parse failures are wrapped in *ValidationError with the cause preserved.
func (v *Validator) ValidateReader(r io.Reader, version string) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ValidationError{Err: fmt.Errorf("reading document: %w", err)}
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ValidationError{Err: fmt.Errorf("parsing document: %w", err)}
	}

	return v.Validate(doc, version)
}

// structuralWalk accumulates structural validation messages for one
// document. Schema loads triggered by $ref resolution may fail; those
// failures abort the walk as errors rather than joining the message list.
type structuralWalk struct {
	registry *Registry
	version  Version
	tolerant bool
	messages []string
}

func (w *structuralWalk) add(format string, args ...any) {
	w.messages = append(w.messages, fmt.Sprintf(format, args...))
}

func (w *structuralWalk) object(path string, data map[string]any, prop *Property) error {
	for _, required := range prop.Required {
		if _, ok := data[required]; !ok {
			w.add("missing required field: %s", joinPath(path, required))
		}
	}

	// Sorted keys keep message order stable across runs.
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fieldPath := joinPath(path, key)
		fieldProp, known := prop.Properties[key]
		if !known {
			if prop.allowsUnknownFields() {
				continue
			}
			if w.tolerant {
				w.add("%signoring unknown field %s (newer minor schema)", WarningPrefix, fieldPath)
			} else {
				w.add("unknown field: %s", fieldPath)
			}
			continue
		}
		if err := w.value(fieldPath, data[key], fieldProp); err != nil {
			return err
		}
	}
	return nil
}

func (w *structuralWalk) value(path string, value any, prop *Property) error {
	if value == nil {
		return nil
	}

	if prop.Ref != "" {
		def, err := w.registry.LoadSchema(w.version, prop.Ref)
		if err != nil {
			return err
		}
		prop = &def.Property
	}

	if prop.Type != "" && !typeMatches(value, prop.Type) {
		w.add("%s: expected %s, got %s", path, prop.Type, typeName(value))
		return nil
	}

	switch v := value.(type) {
	case string:
		w.stringValue(path, v, prop)
	case float64:
		w.numberValue(path, v, prop)
	case []any:
		if prop.Items != nil {
			for i, item := range v {
				if err := w.value(fmt.Sprintf("%s[%d]", path, i), item, prop.Items); err != nil {
					return err
				}
			}
		}
	case map[string]any:
		if prop.Properties != nil || prop.AdditionalProperties != nil {
			return w.object(path, v, prop)
		}
	}
	return nil
}

func (w *structuralWalk) stringValue(path, value string, prop *Property) {
	if len(prop.Enum) > 0 && !enumContains(prop.Enum, value) {
		w.add("%s: invalid value %q (valid options: %s)", path, value, strings.Join(prop.Enum, ", "))
	}
	if prop.MinLength != nil && len(value) < *prop.MinLength {
		w.add("%s: shorter than minimum length %d", path, *prop.MinLength)
	}
	if prop.MaxLength != nil && len(value) > *prop.MaxLength {
		w.add("%s: longer than maximum length %d", path, *prop.MaxLength)
	}

	switch prop.Format {
	case "date":
		if _, err := time.Parse("2006-01-02", value); err != nil {
			w.add("%s: invalid date %q (expected YYYY-MM-DD)", path, value)
		}
	case "date-time":
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			w.add("%s: invalid timestamp %q (expected RFC 3339)", path, value)
		}
	}
}

func (w *structuralWalk) numberValue(path string, value float64, prop *Property) {
	if prop.Minimum != nil && value < *prop.Minimum {
		w.add("%s: %v is less than minimum %v", path, value, *prop.Minimum)
	}
	if prop.ExclusiveMinimum != nil && value <= *prop.ExclusiveMinimum {
		w.add("%s: %v must be greater than %v", path, value, *prop.ExclusiveMinimum)
	}
}

// enumContains matches enum membership case-insensitively; "TV" and "tv"
// name the same channel.
func enumContains(enum []string, value string) bool {
	for _, allowed := range enum {
		if strings.EqualFold(allowed, value) {
			return true
		}
	}
	return false
}

func typeMatches(value any, expected string) bool {
	switch expected {
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		_, ok := value.(float64)
		return ok
	case "integer":
		f, ok := value.(float64)
		return ok && f == math.Trunc(f)
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	default:
		return true
	}
}

func typeName(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "null"
	}
}

func joinPath(parent, field string) string {
	if parent == "" {
		return field
	}
	return parent + "." + field
}
