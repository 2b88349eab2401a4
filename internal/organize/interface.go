package organize

// Transferer is the part of Engine an image collection needs. Tests swap in
// fakes to simulate failing disks.
type Transferer interface {
	// CopyFile copies src to dest and returns the path written, "" if skipped
	CopyFile(src, dest string) (string, error)

	// RemoveFile deletes path
	RemoveFile(path string) error
}

// Ensure Engine implements the Transferer interface
var _ Transferer = (*Engine)(nil)
