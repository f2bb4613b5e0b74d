// Package mapper converts between the SCIM resource shape and the upstream
// directory's native resource shape. One generic bidirectional converter is
// parameterized by a per-kind field table plus hooks for the mappings a flat
// field pair cannot express.
package mapper

import "strings"

// Field pairs a SCIM attribute path with its native counterpart. Paths are
// dotted (e.g. "name.givenName"). ReadOnly fields are provider-assigned and
// only map in the native-to-SCIM direction.
type Field struct {
	SCIMPath   string
	NativePath string
	ReadOnly   bool
}

// Hook applies a mapping the field table cannot express. It reads from src
// and writes into dst; both are resource documents of the same direction the
// hook is registered for.
type Hook func(src, dst map[string]any)

// Mapping is the bidirectional converter for one resource kind.
type Mapping struct {
	Schema        string
	Fields        []Field
	toSCIMHooks   []Hook
	fromSCIMHooks []Hook
}

// ToSCIM builds the SCIM representation of a native resource. Only fields
// present in the input appear in the output; the schemas envelope and the
// provider-assigned id are always carried.
func (m Mapping) ToSCIM(native map[string]any) map[string]any {
	scim := map[string]any{
		"schemas": []string{m.Schema},
	}

	if id, ok := native["id"]; ok {
		scim["id"] = id
	}

	for _, f := range m.Fields {
		if value, ok := getPath(native, f.NativePath); ok {
			setPath(scim, f.SCIMPath, value)
		}
	}

	for _, hook := range m.toSCIMHooks {
		hook(native, scim)
	}

	return scim
}

// FromSCIM builds a partial native payload suitable for create or update
// calls. Provider-assigned fields (id, schemas, read-only attributes) are
// never emitted; absent input fields stay absent.
func (m Mapping) FromSCIM(scim map[string]any) map[string]any {
	native := map[string]any{}

	for _, f := range m.Fields {
		if f.ReadOnly {
			continue
		}

		if value, ok := getPath(scim, f.SCIMPath); ok {
			setPath(native, f.NativePath, value)
		}
	}

	for _, hook := range m.fromSCIMHooks {
		hook(scim, native)
	}

	return native
}

func getPath(doc map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	current := any(doc)

	for i, part := range parts {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		value, ok := node[part]
		if !ok {
			return nil, false
		}

		if i == len(parts)-1 {
			return value, true
		}

		current = value
	}

	return nil, false
}

func setPath(doc map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := doc

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[part] = next
		}

		current = next
	}

	current[parts[len(parts)-1]] = value
}

func getString(doc map[string]any, path string) (string, bool) {
	value, ok := getPath(doc, path)
	if !ok {
		return "", false
	}

	str, ok := value.(string)

	return str, ok
}
