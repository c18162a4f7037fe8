package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/browserctl/internal/domain/browser"
)

// Entry describes how one browser is found and inspected on a platform.
// Paths may start with ~ and reference environment variables as $VAR or
// ${VAR}.
type Entry struct {
	// Executables are tried in order. Absolute paths are checked on disk,
	// bare names are looked up in PATH.
	Executables []string `yaml:"executables" toml:"executables"`
	// Profiles are glob patterns for the default profile directories, in
	// order of preference. Only the first pattern with a match is used.
	Profiles []string `yaml:"profiles" toml:"profiles"`
	// Application is the AppleScript target name (darwin).
	Application string `yaml:"application" toml:"application"`
	// Image is the process image name reported by tasklist (windows).
	Image string `yaml:"image" toml:"image"`
	// WindowClass is the X11 class searched by xdotool (linux).
	WindowClass string `yaml:"window_class" toml:"window_class"`
}

// Catalog maps each browser kind to its Entry.
type Catalog struct {
	Browsers map[browser.Kind]Entry `yaml:"browsers" toml:"browsers"`
}

// Lookup returns the entry for kind.
func (c Catalog) Lookup(kind browser.Kind) (Entry, bool) {
	e, ok := c.Browsers[kind]
	return e, ok
}

// DefaultCatalog returns the built-in locations for goos.
func DefaultCatalog(goos string) Catalog {
	switch goos {
	case "darwin":
		return Catalog{Browsers: map[browser.Kind]Entry{
			browser.Chrome: {
				Executables: []string{"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"},
				Profiles:    []string{"~/Library/Application Support/Google/Chrome/Default"},
				Application: "Google Chrome",
			},
			browser.Firefox: {
				Executables: []string{"/Applications/Firefox.app/Contents/MacOS/firefox"},
				Profiles:    []string{"~/Library/Application Support/Firefox/Profiles/*.default*"},
				Application: "Firefox",
			},
		}}
	case "windows":
		return Catalog{Browsers: map[browser.Kind]Entry{
			browser.Chrome: {
				Executables: []string{
					`${PROGRAMFILES}\Google\Chrome\Application\chrome.exe`,
					`${PROGRAMFILES(X86)}\Google\Chrome\Application\chrome.exe`,
					`${LOCALAPPDATA}\Google\Chrome\Application\chrome.exe`,
				},
				Profiles: []string{`${LOCALAPPDATA}\Google\Chrome\User Data\Default`},
				Image:    "chrome.exe",
			},
			browser.Firefox: {
				Executables: []string{
					`${PROGRAMFILES}\Mozilla Firefox\firefox.exe`,
					`${PROGRAMFILES(X86)}\Mozilla Firefox\firefox.exe`,
				},
				Profiles: []string{`${APPDATA}\Mozilla\Firefox\Profiles\*.default*`},
				Image:    "firefox.exe",
			},
		}}
	default:
		return Catalog{Browsers: map[browser.Kind]Entry{
			browser.Chrome: {
				Executables: []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser"},
				Profiles: []string{
					"~/.config/google-chrome/Default",
					"~/.config/chromium/Default",
				},
				WindowClass: "chrome",
			},
			browser.Firefox: {
				Executables: []string{"firefox", "firefox-esr"},
				Profiles:    []string{"~/.mozilla/firefox/*.default*"},
				WindowClass: "firefox",
			},
		}}
	}
}

// LoadCatalog reads path and overlays it on base. The format follows the
// file extension: .yaml, .yml or .toml. Non-empty fields in the file
// replace the matching base fields.
func LoadCatalog(path string, base Catalog) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read catalog: %w", err)
	}

	var file Catalog
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	case ".toml":
		err = toml.Unmarshal(data, &file)
	default:
		return base, fmt.Errorf("catalog %s: unsupported format %q", path, filepath.Ext(path))
	}
	if err != nil {
		return base, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	return base.Merge(file)
}

// Merge returns a copy of c with the non-empty fields of other applied.
func (c Catalog) Merge(other Catalog) (Catalog, error) {
	out := Catalog{Browsers: make(map[browser.Kind]Entry, len(c.Browsers))}
	for k, e := range c.Browsers {
		out.Browsers[k] = e
	}

	for k, o := range other.Browsers {
		kind, err := browser.ParseKind(string(k))
		if err != nil {
			return c, fmt.Errorf("catalog: %w", err)
		}
		e := out.Browsers[kind]
		if len(o.Executables) > 0 {
			e.Executables = o.Executables
		}
		if len(o.Profiles) > 0 {
			e.Profiles = o.Profiles
		}
		if o.Application != "" {
			e.Application = o.Application
		}
		if o.Image != "" {
			e.Image = o.Image
		}
		if o.WindowClass != "" {
			e.WindowClass = o.WindowClass
		}
		out.Browsers[kind] = e
	}
	return out, nil
}

// expandPath resolves a leading ~ against home and substitutes environment
// variables through getenv.
func expandPath(p, home string, getenv func(string) string) string {
	p = os.Expand(p, getenv)
	switch {
	case p == "~":
		p = home
	case strings.HasPrefix(p, "~/"), strings.HasPrefix(p, `~\`):
		p = filepath.Join(home, p[2:])
	}
	return p
}
