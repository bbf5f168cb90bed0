package clips

import (
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/scsbarna-pixel/automatizador/api"
	"github.com/scsbarna-pixel/automatizador/internal/audio"
	autoerrors "github.com/scsbarna-pixel/automatizador/pkg/errors"
)

// Resolve turns a fired event into a playable audio path. Only file and
// random events resolve here; time, temp and sat events are rendered by the
// host (speech synthesis, satellite capture) and report ErrHostResolved.
func Resolve(ev api.Event) (string, error) {
	switch ev.Type {
	case api.TypeFile:
		return resolveFile(ev.Value)
	case api.TypeRandom:
		return resolveRandom(ev.Value)
	case api.TypeTime, api.TypeTemp, api.TypeSat:
		return "", autoerrors.ErrHostResolved
	default:
		return "", fmt.Errorf("unknown event type %q", ev.Type)
	}
}

func resolveFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", &autoerrors.ScanError{Path: path, Err: err}
	}
	if info.IsDir() {
		return "", &autoerrors.ScanError{Path: path, Err: fmt.Errorf("is a directory")}
	}
	if !audio.IsSupported(path) {
		return "", fmt.Errorf("%w: %s", autoerrors.ErrInvalidFormat, path)
	}
	return path, nil
}

// resolveRandom walks the folder and picks one supported clip at random.
func resolveRandom(dir string) (string, error) {
	var candidates []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && audio.IsSupported(p) {
			candidates = append(candidates, p)
		}
		return nil
	})
	if err != nil {
		return "", &autoerrors.ScanError{Path: dir, Err: err}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: %s", autoerrors.ErrEmptyFolder, dir)
	}
	return candidates[rand.Intn(len(candidates))], nil
}
