package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// StorageFilename builds the on-disk name for an upload: the display name
// without the uploaded file's extension, a dash, the upload time in unix
// milliseconds, and that extension.
//
// The extension comes from clientName (the name the browser sent for the file
// part), not from displayName.
func StorageFilename(displayName, clientName string, at time.Time) string {
	ext := filepath.Ext(filepath.Base(clientName))
	if strings.LastIndex(filepath.Base(clientName), ".") == 0 {
		// dotfiles such as ".env" have no extension
		ext = ""
	}
	base := filepath.Base(strings.TrimSpace(displayName))
	if base != ext {
		base = strings.TrimSuffix(base, ext)
	}
	return fmt.Sprintf("%s-%d%s", base, at.UnixMilli(), ext)
}
