// Package attachment records metadata for files already persisted by the
// file stager. Like history, the backing relation is optional; the adapter
// degrades to "no attachments" when it is absent.
package attachment

// Attachment is stored metadata for one uploaded file.
type Attachment struct {
	ID          int64
	ComplaintID int64
	FileName    string
	FilePath    string
	FileSize    int64
	MIMEType    string
}
