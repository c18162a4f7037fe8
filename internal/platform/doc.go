// Package platform implements the environment-specific side of the browser
// controller: locating executables, spawning processes, reading the active
// address and resolving profile directories.
//
// A Strategy is built from a Catalog, which has built-in defaults per GOOS
// and can be overridden by a YAML or TOML file. Address reads differ in
// accuracy per environment and are kept that way:
//   - darwin asks the browser over AppleScript and gets the active tab URL
//   - windows reads the window title reported by tasklist
//   - linux reads the window name reported by xdotool
package platform
