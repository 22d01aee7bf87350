// Package patient resolves external national identifiers to stable internal
// patient records. One patient row exists per distinct national ID; the first
// submission's demographics win and later submissions never overwrite them.
package patient

// Patient is the stored record. NationalID is the unique natural key.
type Patient struct {
	ID            int64
	FullName      string
	NationalID    string
	ContactNumber string
	Gender        string
}

// Demographics are the fields supplied at complaint-submission time, used
// only when the national ID has not been seen before.
type Demographics struct {
	FullName      string
	ContactNumber string
	Gender        string
}
