//go:build !unix

package store

// LockFile is a no-op where flock is unavailable
func LockFile(path string) (func() error, error) {
	return func() error { return nil }, nil
}
