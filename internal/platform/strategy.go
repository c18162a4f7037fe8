package platform

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/GriffinCanCode/browserctl/internal/domain/browser"
)

var (
	// ErrNoExecutable is returned when no catalog candidate exists.
	ErrNoExecutable = errors.New("no executable candidate found")
	// ErrNoWindow is returned when the browser shows no readable window.
	ErrNoWindow = errors.New("no browser window found")
	// ErrUnsupportedPlatform is returned for address reads on an unknown GOOS.
	ErrUnsupportedPlatform = errors.New("address read not supported on this platform")
)

// Runner executes automation commands and returns their standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// Strategy is the browser.Platform for one GOOS.
type Strategy struct {
	goos    string
	catalog Catalog
	home    string
	runner  Runner

	getenv   func(string) string
	lookPath func(string) (string, error)
	stat     func(string) (os.FileInfo, error)
}

// New creates a strategy for goos. An empty home falls back to the
// current user's home directory.
func New(goos string, catalog Catalog, home string, runner Runner) (*Strategy, error) {
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		home = h
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Strategy{
		goos:     goos,
		catalog:  catalog,
		home:     home,
		runner:   runner,
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		stat:     os.Stat,
	}, nil
}

// Name returns the GOOS the strategy targets.
func (s *Strategy) Name() string {
	return s.goos
}

// Executable returns the first catalog candidate that exists.
func (s *Strategy) Executable(kind browser.Kind) (string, error) {
	entry, err := s.entry(kind)
	if err != nil {
		return "", err
	}

	tried := make([]string, 0, len(entry.Executables))
	for _, candidate := range entry.Executables {
		path := s.expand(candidate)
		if path == "" {
			continue
		}
		tried = append(tried, path)

		if filepath.IsAbs(path) {
			if info, err := s.stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
			continue
		}
		if resolved, err := s.lookPath(path); err == nil {
			return resolved, nil
		}
	}

	return "", fmt.Errorf("%w for %s (tried %s)", ErrNoExecutable, kind, strings.Join(tried, ", "))
}

// LaunchArgs opens address in a new window. Chrome takes a double-dash
// flag and Firefox a single-dash one; the address is passed verbatim.
func (s *Strategy) LaunchArgs(kind browser.Kind, address string) []string {
	if kind == browser.Firefox {
		return []string{"-new-window", address}
	}
	return []string{"--new-window", address}
}

// ActiveAddress reads what the browser shows.
func (s *Strategy) ActiveAddress(ctx context.Context, kind browser.Kind) (string, error) {
	entry, err := s.entry(kind)
	if err != nil {
		return "", err
	}

	switch s.goos {
	case "darwin":
		return readAppleScript(ctx, s.runner, entry.Application)
	case "windows":
		return readTasklist(ctx, s.runner, entry.Image)
	case "linux", "freebsd", "openbsd", "netbsd":
		return readXdotool(ctx, s.runner, entry.WindowClass)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, s.goos)
}

// ProfileDirs returns the existing directories matched by the first
// profile pattern that matches any. Later patterns belong to other builds
// of the browser and are left alone. The result is empty, not an error,
// when nothing matches.
func (s *Strategy) ProfileDirs(kind browser.Kind) ([]string, error) {
	entry, err := s.entry(kind)
	if err != nil {
		return nil, err
	}

	for _, pattern := range entry.Profiles {
		matches, err := doublestar.FilepathGlob(s.expand(pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}

		seen := make(map[string]struct{}, len(matches))
		var dirs []string
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			info, err := s.stat(m)
			if err != nil || !info.IsDir() {
				continue
			}
			seen[m] = struct{}{}
			dirs = append(dirs, m)
		}
		if len(dirs) > 0 {
			return dirs, nil
		}
	}
	return nil, nil
}

func (s *Strategy) entry(kind browser.Kind) (Entry, error) {
	e, ok := s.catalog.Lookup(kind)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s not in catalog", fs.ErrNotExist, kind)
	}
	return e, nil
}

func (s *Strategy) expand(p string) string {
	return expandPath(p, s.home, s.getenv)
}

var _ browser.Platform = (*Strategy)(nil)
