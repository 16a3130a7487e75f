package schema

import (
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

//go:embed definitions
var definitionsFS embed.FS

// Supported version window for this release. Documents older than the
// minimum cannot be migrated by this build; documents newer than the
// current major cannot be read at all.
const (
	CurrentSchemaVersion = "2.0"
	MinimumSchemaVersion = "1.0"
)

// Artifact names resolvable by the Registry. Each supported version
// directory bundles one file per artifact.
const (
	ArtifactMediaPlan = "mediaplan.schema.json"
	ArtifactCampaign  = "campaign.schema.json"
	ArtifactLineItem  = "lineitem.schema.json"
)

// Registry resolves schema definitions for supported versions from the
// artifact set bundled with the binary. Definitions are loaded lazily and
// cached for the process lifetime; a given (version, artifact) pair is
// loaded at most once even under concurrent first access.
type Registry struct {
	fsys    fs.FS
	current Version
	minimum Version

	mu    sync.Mutex
	cache map[artifactKey]*artifactEntry
}

type artifactKey struct {
	version  Version
	artifact string
}

type artifactEntry struct {
	once sync.Once
	def  *Definition
	err  error
}

// NewRegistry returns a Registry over the bundled schema artifacts with the
// release's supported version window.
func NewRegistry() *Registry {
	return newRegistry(definitionsFS,
		MustParseVersion(CurrentSchemaVersion),
		MustParseVersion(MinimumSchemaVersion))
}

func newRegistry(fsys fs.FS, current, minimum Version) *Registry {
	return &Registry{
		fsys:    fsys,
		current: current,
		minimum: minimum,
		cache:   make(map[artifactKey]*artifactEntry),
	}
}

// CurrentVersion returns the version this build natively produces.
func (r *Registry) CurrentVersion() Version { return r.current }

// MinimumVersion returns the oldest version this build can migrate.
func (r *Registry) MinimumVersion() Version { return r.minimum }

// SupportedVersions returns every version from minimum through current for
// which a bundled artifact directory exists, in ascending order.
func (r *Registry) SupportedVersions() []Version {
	entries, err := fs.ReadDir(r.fsys, "definitions")
	if err != nil {
		return nil
	}

	var versions []Version
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "v") {
			continue
		}
		v, err := ParseVersion(entry.Name())
		if err != nil {
			continue
		}
		if v.Less(r.minimum) || r.current.Less(v) {
			continue
		}
		versions = append(versions, v)
	}

	sort.Slice(versions, func(i, j int) bool { return versions[i].Less(versions[j]) })
	return versions
}

// IsSupported reports whether a bundled definition exists for the version.
func (r *Registry) IsSupported(version Version) bool {
	for _, v := range r.SupportedVersions() {
		if v == version {
			return true
		}
	}
	return false
}

// LoadSchema returns the definition for the given version and artifact
// name, loading and caching it on first use. Concurrent callers for the
// same pair share a single load and receive the same instance.
func (r *Registry) LoadSchema(version Version, artifact string) (*Definition, error) {
	key := artifactKey{version: version, artifact: artifact}

	r.mu.Lock()
	entry, ok := r.cache[key]
	if !ok {
		entry = &artifactEntry{}
		r.cache[key] = entry
	}
	r.mu.Unlock()

	entry.once.Do(func() {
		entry.def, entry.err = r.loadArtifact(version, artifact)
	})
	return entry.def, entry.err
}

func (r *Registry) loadArtifact(version Version, artifact string) (*Definition, error) {
	name := path.Join("definitions", "v"+version.String(), artifact)

	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, &SchemaNotFoundError{Version: version, Artifact: artifact}
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, &SchemaParseError{Version: version, Artifact: artifact, Err: err}
	}
	if def.Type != "object" {
		return nil, &SchemaParseError{
			Version:  version,
			Artifact: artifact,
			Err:      errors.New(`root type must be "object"`),
		}
	}
	return &def, nil
}
