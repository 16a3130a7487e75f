package schema

import "fmt"

// InvalidVersionError is returned when a version string cannot be parsed
// into a major.minor schema version.
type InvalidVersionError struct {
	Input  string
	Reason string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid schema version %q: %s", e.Input, e.Reason)
}

// SchemaNotFoundError is returned when no schema definition exists for the
// requested (version, artifact) pair.
type SchemaNotFoundError struct {
	Version  Version
	Artifact string
}

func (e *SchemaNotFoundError) Error() string {
	return fmt.Sprintf("no schema definition for artifact %q at version %s", e.Artifact, e.Version)
}

// SchemaParseError is returned when a schema definition exists but its
// bundled artifact is malformed.
type SchemaParseError struct {
	Version  Version
	Artifact string
	Err      error
}

func (e *SchemaParseError) Error() string {
	return fmt.Sprintf("malformed schema artifact %q at version %s: %v", e.Artifact, e.Version, e.Err)
}

func (e *SchemaParseError) Unwrap() error { return e.Err }

// MissingVersionError is returned when a document carries no embedded
// schema version and the caller did not supply one.
type MissingVersionError struct{}

func (e *MissingVersionError) Error() string {
	return "document has no meta.schema_version and no version was supplied"
}

// ValidationError wraps an infrastructure failure (read or parse) that
// occurred while validating a file-backed document. Data-level validation
// failures are not errors; they are returned as a list of messages.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cannot validate document: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// UnsupportedMigrationError is returned when a downgrade is requested.
// Migration is forward-only.
type UnsupportedMigrationError struct {
	From Version
	To   Version
}

func (e *UnsupportedMigrationError) Error() string {
	return fmt.Sprintf("cannot migrate from %s down to %s: downgrade is not supported", e.From, e.To)
}

// MigrationError is returned when the migration chain has a gap or a
// migration step fails. From and To identify the failing step.
type MigrationError struct {
	From Version
	To   Version
	Err  error
}

func (e *MigrationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("no migration step registered from %s to %s", e.From, e.To)
	}
	return fmt.Sprintf("migration step %s -> %s failed: %v", e.From, e.To, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }
