package util

import (
	"fmt"
	"io/fs"
	"os"
)

const (
	// PublicFileMode is used for zone files and public keys
	PublicFileMode fs.FileMode = 0o644
	// PrivateFileMode is used for private key files
	PrivateFileMode fs.FileMode = 0o600
)

// WriteFile truncates or creates path with contents.
// The mode is applied explicitly so that the umask can't widen or narrow it.
func WriteFile(path, contents string, mode fs.FileMode) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("can't open %s: %w", path, err)
	}

	defer f.Close()

	if err := f.Chmod(mode); err != nil {
		return fmt.Errorf("can't set permissions of %s: %w", path, err)
	}

	if _, err := f.WriteString(contents); err != nil {
		return fmt.Errorf("can't write %s: %w", path, err)
	}

	return f.Close()
}

// FileExists reports whether path exists and is a regular file
func FileExists(path string) bool {
	st, err := os.Stat(path)

	return err == nil && st.Mode().IsRegular()
}
