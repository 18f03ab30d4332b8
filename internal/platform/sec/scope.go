// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package sec

// Scope names a capability a service token grants.
type Scope string

const (
	// ScopeIngest allows storing and deleting preprint records.
	ScopeIngest Scope = "ingest"
	// ScopeAdmin implies every other scope.
	ScopeAdmin Scope = "admin"
)

// scopeLevel maps scopes to a numeric level for comparison.
var scopeLevel = map[Scope]int{
	ScopeIngest: 1,
	ScopeAdmin:  2,
}

// Allows reports whether a token carrying scope s may perform actions
// requiring the given scope.
func (s Scope) Allows(required Scope) bool {
	return scopeLevel[s] >= scopeLevel[required]
}

// Valid reports whether the scope is one this service knows about.
func (s Scope) Valid() bool {
	_, ok := scopeLevel[s]
	return ok
}
