package schema

// Definition is the structural contract for one artifact at one schema
// version, decoded from a bundled JSON Schema document. Definitions are
// immutable after load; the Registry caches and shares them.
type Definition struct {
	Title string `json:"title,omitempty"`
	Property
}

// Property describes the expected shape of a single field: its type, the
// constraints on its value, and, for objects and arrays, the shape of what
// it contains. A property may instead reference another artifact in the
// same version directory via $ref.
type Property struct {
	Ref                  string               `json:"$ref,omitempty"`
	Type                 string               `json:"type,omitempty"`
	Format               string               `json:"format,omitempty"`
	Enum                 []string             `json:"enum,omitempty"`
	Minimum              *float64             `json:"minimum,omitempty"`
	ExclusiveMinimum     *float64             `json:"exclusiveMinimum,omitempty"`
	MinLength            *int                 `json:"minLength,omitempty"`
	MaxLength            *int                 `json:"maxLength,omitempty"`
	Items                *Property            `json:"items,omitempty"`
	Properties           map[string]*Property `json:"properties,omitempty"`
	Required             []string             `json:"required,omitempty"`
	AdditionalProperties *bool                `json:"additionalProperties,omitempty"`
}

// allowsUnknownFields reports whether fields outside Properties are
// permitted. JSON Schema defaults additionalProperties to true; the bundled
// artifacts set it to false so drift is caught.
func (p *Property) allowsUnknownFields() bool {
	return p.AdditionalProperties == nil || *p.AdditionalProperties
}
