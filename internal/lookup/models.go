// Package lookup serves the intake catalog: departments, complaint types, and
// sub-types. Read-only from the service's point of view.
package lookup

type Department struct {
	ID          int64
	Name        string
	Description string
}

type ComplaintType struct {
	ID          int64
	Name        string
	Description string
}

type SubType struct {
	ID              int64
	ComplaintTypeID int64
	Name            string
	Description     string
}
