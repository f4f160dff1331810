package secrets

import "strings"

// Kind distinguishes scalar secrets from delimiter-separated list secrets.
type Kind int

const (
	Scalar Kind = iota
	DelimitedList
)

// Spec declares a single secret the build expects from the environment.
type Spec struct {
	Name      string
	Kind      Kind
	Delimiter string
	Required  bool
}

// Specs is the fixed set of secrets consumed by the provisioning templates.
// It is static configuration, not extensible at runtime.
var Specs = []Spec{
	{Name: "ROOT_PASSWD", Kind: Scalar, Required: true},
	{Name: "ADMIN_PASSWD", Kind: Scalar, Required: true},
	{Name: "ADMIN_SSH_KEYS", Kind: DelimitedList, Delimiter: ";", Required: true},
	{Name: "ADMIN_OTP_SECRET", Kind: Scalar, Required: true},
	{Name: "DISK_PASSWD", Kind: Scalar, Required: true},
	{Name: "ADGUARD_MAC", Kind: Scalar, Required: true},
}

// Value is a single secret as loaded from the environment.
type Value struct {
	Spec Spec
	Raw  string
}

// Set maps secret names to their loaded values. It is built once per run
// and not mutated afterwards.
type Set struct {
	values map[string]Value
}

// Load builds a Set from the given environment mapping. The mapping is
// injected by the caller so the pipeline never reads ambient process state.
// A required name entirely absent from the mapping is an error; empty
// values pass Load and are rejected by Validate instead.
func Load(env map[string]string) (*Set, error) {
	set := &Set{values: make(map[string]Value, len(Specs))}

	for _, spec := range Specs {
		raw, ok := env[spec.Name]
		if !ok {
			if spec.Required {
				return nil, &MissingSecretError{Name: spec.Name}
			}
			continue
		}
		set.values[spec.Name] = Value{Spec: spec, Raw: raw}
	}

	return set, nil
}

// Get returns the loaded value for a secret name.
func (s *Set) Get(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Validate checks every loaded secret for structural validity and fails on
// the first violation. A blank or whitespace-only value is rejected; a
// delimited list must yield at least one non-empty item.
func Validate(s *Set) error {
	for _, spec := range Specs {
		v, ok := s.values[spec.Name]
		if !ok {
			continue
		}

		if strings.TrimSpace(v.Raw) == "" {
			return &EmptySecretError{Name: spec.Name}
		}

		if spec.Kind == DelimitedList {
			if len(ParseList(v.Raw, spec.Delimiter)) == 0 {
				return &MalformedListError{Name: spec.Name, Delimiter: spec.Delimiter}
			}
		}
	}

	return nil
}

// ParseList splits a raw delimited value into its items, trimming
// whitespace per item and dropping empty entries. Order is preserved.
func ParseList(raw, delimiter string) []string {
	var items []string
	for _, part := range strings.Split(raw, delimiter) {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Bindings converts a validated Set into template bindings. Names are
// lowercased, scalars stay strings, and delimited lists are split into
// string slices.
func (s *Set) Bindings() map[string]any {
	bindings := make(map[string]any, len(s.values))
	for name, v := range s.values {
		key := strings.ToLower(name)
		if v.Spec.Kind == DelimitedList {
			bindings[key] = ParseList(v.Raw, v.Spec.Delimiter)
			continue
		}
		bindings[key] = v.Raw
	}
	return bindings
}
