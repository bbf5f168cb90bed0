package clips

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhowden/tag"
)

// Info is the display metadata of a clip, used when announcing what fired.
type Info struct {
	Title  string
	Artist string
}

// ReadInfo extracts tag metadata from an audio file. Files without tags fall
// back to the bare filename.
func ReadInfo(path string) (Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return Info{Title: filepath.Base(path)}, nil
	}

	return Info{
		Title:  getOrDefault(metadata.Title(), filepath.Base(path)),
		Artist: metadata.Artist(),
	}, nil
}

// getOrDefault returns the value if non-empty, otherwise returns the default
func getOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
