// Package auth decides whether a message author may trigger a post.
package auth

// RoleSet is the set of role names held by an author in the context where
// the message was sent. Names compare case-sensitively.
type RoleSet map[string]struct{}

// NewRoleSet builds a RoleSet from role names. Empty names are skipped.
func NewRoleSet(names ...string) RoleSet {
	rs := make(RoleSet, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		rs[n] = struct{}{}
	}
	return rs
}

// Has reports whether the set contains name. A nil set holds nothing.
func (rs RoleSet) Has(name string) bool {
	_, ok := rs[name]
	return ok
}

// Names returns the role names in no particular order.
func (rs RoleSet) Names() []string {
	out := make([]string, 0, len(rs))
	for n := range rs {
		out = append(out, n)
	}
	return out
}

// Decision is the result of an authorization check.
type Decision struct {
	Allowed      bool
	RequiredRole string
}

// Authorize allows the post only if roles contains required. An empty
// required role allows nobody.
func Authorize(roles RoleSet, required string) Decision {
	return Decision{
		Allowed:      required != "" && roles.Has(required),
		RequiredRole: required,
	}
}
