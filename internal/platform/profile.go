package platform

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"

	"github.com/GriffinCanCode/browserctl/internal/domain/browser"
)

// FSRemover deletes profile trees from the local filesystem.
type FSRemover struct{}

// NewRemover creates an FSRemover.
func NewRemover() *FSRemover {
	return &FSRemover{}
}

// Remove measures dir, then deletes it recursively. A missing dir is an
// error. The usage is returned even if deletion fails part way.
func (r *FSRemover) Remove(ctx context.Context, dir string) (browser.Usage, error) {
	info, err := os.Lstat(dir)
	if err != nil {
		return browser.Usage{}, fmt.Errorf("profile %s: %w", dir, err)
	}
	if !info.IsDir() {
		return browser.Usage{}, fmt.Errorf("profile %s: not a directory", dir)
	}

	usage, err := measure(ctx, dir)
	if err != nil {
		return usage, fmt.Errorf("measure %s: %w", dir, err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return usage, fmt.Errorf("remove %s: %w", dir, err)
	}
	return usage, nil
}

// measure counts regular files and their bytes under dir.
func measure(ctx context.Context, dir string) (browser.Usage, error) {
	var files, bytes atomic.Int64
	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, dir, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}
		files.Add(1)
		bytes.Add(info.Size())
		return nil
	})

	return browser.Usage{Files: int(files.Load()), Bytes: bytes.Load()}, err
}

var _ browser.ProfileRemover = (*FSRemover)(nil)
