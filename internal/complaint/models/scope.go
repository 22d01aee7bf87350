package models

// ScopeKind is the caller's base visibility on a listing, decided before any
// explicit filters apply.
type ScopeKind int

const (
	// ScopeAll grants unrestricted visibility (administrators).
	ScopeAll ScopeKind = iota
	// ScopeOwn restricts rows to complaints the caller submitted.
	ScopeOwn
	// ScopeNone matches no rows. Composed into the query itself so pagination
	// and counts cannot leak through.
	ScopeNone
)

// Scope is the visibility predicate attached to every listing query.
type Scope struct {
	Kind       ScopeKind
	EmployeeID int64 // set when Kind == ScopeOwn
}

func AllScope() Scope            { return Scope{Kind: ScopeAll} }
func OwnScope(empID int64) Scope { return Scope{Kind: ScopeOwn, EmployeeID: empID} }
func NoneScope() Scope           { return Scope{Kind: ScopeNone} }
