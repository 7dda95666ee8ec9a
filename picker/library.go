package picker

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/vidloop/vidloop/filesystem"
	"github.com/vidloop/vidloop/key"
	"github.com/vidloop/vidloop/log"
	"github.com/vidloop/vidloop/where"
)

// Library is the directory tree clips are picked from.
type Library struct {
	Root       string
	Extensions []string
}

// NewLibrary returns a library rooted at root offering files with the given extensions.
func NewLibrary(root string, extensions []string) *Library {
	return &Library{
		Root: root,
		Extensions: lo.Map(extensions, func(ext string, _ int) string {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			return ext
		}),
	}
}

// LibraryFromConfig returns the library described by the picker settings.
func LibraryFromConfig() *Library {
	root := viper.GetString(key.PickerDirectory)
	if root == "" {
		root = where.Videos()
	}
	return NewLibrary(root, viper.GetStringSlice(key.PickerExtensions))
}

// RequestPermission grants access when the root is a readable directory.
func (l *Library) RequestPermission(ctx context.Context) (Permission, error) {
	if err := ctx.Err(); err != nil {
		return Denied, err
	}

	api := filesystem.API()

	info, err := api.Stat(l.Root)
	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
		log.Warnf("library %s unavailable: %v", l.Root, err)
		return Denied, nil
	case err != nil:
		return Denied, err
	case !info.IsDir():
		log.Warnf("library %s is not a directory", l.Root)
		return Denied, nil
	}

	if _, err := api.ReadDir(l.Root); err != nil {
		log.Warnf("library %s unreadable: %v", l.Root, err)
		return Denied, nil
	}

	return Granted, nil
}

// IsVideo reports whether path has one of the library's extensions.
func (l *Library) IsVideo(path string) bool {
	return lo.Contains(l.Extensions, strings.ToLower(filepath.Ext(path)))
}

// Videos walks the library and returns every video file, sorted.
// Hidden files and directories are skipped.
func (l *Library) Videos(ctx context.Context) ([]string, error) {
	var videos []string

	err := afero.Walk(filesystem.API(), l.Root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		hidden := strings.HasPrefix(info.Name(), ".") && path != l.Root
		if info.IsDir() {
			if hidden {
				return filepath.SkipDir
			}
			return nil
		}

		if !hidden && l.IsVideo(path) {
			videos = append(videos, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(videos)
	return videos, nil
}
