package secrets

import "fmt"

// MissingSecretError reports a required secret entirely absent from the
// environment.
type MissingSecretError struct {
	Name string
}

func (e *MissingSecretError) Error() string {
	return fmt.Sprintf("required secret %s is not set in the environment", e.Name)
}

// EmptySecretError reports a secret that is set but blank. Rendering with a
// blank secret would produce a valid-looking but insecure artifact, so this
// is checked separately from absence.
type EmptySecretError struct {
	Name string
}

func (e *EmptySecretError) Error() string {
	return fmt.Sprintf("secret %s is set but empty", e.Name)
}

// MalformedListError reports a delimited-list secret that yields no items.
type MalformedListError struct {
	Name      string
	Delimiter string
}

func (e *MalformedListError) Error() string {
	return fmt.Sprintf("secret %s contains no items when split by %q", e.Name, e.Delimiter)
}
