// Package dictionary loads term vocabularies into a store, from
// human-editable TOML files or compact msgpack snapshots.
package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileFormat identifies a dictionary file format.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatTOML               // [[terms]] tables, human-editable
	FormatSnapshot           // msgpack binary snapshot
)

// FormatInfo carries metadata about a supported format.
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatTOML: {
		Format:      FormatTOML,
		Description: "TOML term dictionary",
		Extensions:  []string{".toml"},
		MinSize:     1,
	},
	FormatSnapshot: {
		Format:      FormatSnapshot,
		Description: "msgpack dictionary snapshot",
		Extensions:  []string{".bin"},
		MinSize:     4,
	},
}

// DetectFormat guesses a file's format from its extension.
func DetectFormat(filename string) FileFormat {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if ext == e {
				return format
			}
		}
	}
	return FormatUnknown
}

// ValidateFile checks a file against the expectations of its format.
func ValidateFile(filename string, format FileFormat) error {
	info, ok := supportedFormats[format]
	if !ok {
		return fmt.Errorf("unknown dictionary format: %v", format)
	}
	stat, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("stat %s: %w", filename, err)
	}
	if stat.Size() < info.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for %s (minimum %d)",
			filename, stat.Size(), info.Description, info.MinSize)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range info.Extensions {
		if ext == e {
			return nil
		}
	}
	return fmt.Errorf("file %s has extension %s, expected one of %v for %s",
		filename, ext, info.Extensions, info.Description)
}
