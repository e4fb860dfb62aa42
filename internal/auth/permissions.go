package auth

import (
	"errors"
	"strings"
)

var (
	// ErrForbidden means the identity lacks the scope for the verb+model pair.
	ErrForbidden = errors.New("forbidden")
	// ErrNoIdentity means authorization ran before authentication, a
	// programming precondition violation, reported as a server fault
	// distinct from a deny.
	ErrNoIdentity = errors.New("no authenticated identity")
)

// Permission builds the scope string checked for a verb+model pair, e.g.
// ("POST", "person") -> "post:person".
func Permission(verb, model string) string {
	return strings.ToLower(verb) + ":" + strings.ToLower(model)
}

// Authorize decides allow/deny for identity performing verb on model.
// Exact string match against the identity's scope set: no wildcards, no
// hierarchy. Allow is a nil return.
func Authorize(identity *Identity, verb, model string) error {
	if identity == nil {
		return ErrNoIdentity
	}
	required := Permission(verb, model)
	for _, p := range identity.Permissions {
		if p == required {
			return nil
		}
	}
	return ErrForbidden
}
