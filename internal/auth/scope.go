package auth

import (
	"fmt"
	"strings"
)

// Scope is a parsed "resource:permission[:admin]" requirement.
type Scope struct {
	Raw        string
	Resource   string
	Permission string
	Qualifier  string // third segment, "" when absent
}

// ParseScope parses a colon-delimited scope. Matching is case-insensitive,
// so segments are lower-cased.
func ParseScope(raw string) (Scope, error) {
	parts := strings.Split(strings.ToLower(raw), ":")
	if len(parts) < 2 {
		return Scope{}, fmt.Errorf("scope %q must have the form resource:permission[:admin]", raw)
	}

	s := Scope{
		Raw:        raw,
		Resource:   strings.TrimSpace(parts[0]),
		Permission: strings.TrimSpace(parts[1]),
	}
	if len(parts) > 2 {
		s.Qualifier = strings.TrimSpace(parts[2])
	}
	if s.Resource == "" || s.Permission == "" {
		return Scope{}, fmt.Errorf("scope %q has an empty resource or permission", raw)
	}
	return s, nil
}

// AdminOnly reports whether the scope requires an admin principal.
func (s Scope) AdminOnly() bool { return s.Qualifier == "admin" }

// String returns the scope as it was written.
func (s Scope) String() string { return s.Raw }
