package platform

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

func readAppleScript(ctx context.Context, runner Runner, application string) (string, error) {
	script := fmt.Sprintf(`tell application "%s" to get URL of active tab of front window`, application)
	out, err := runner.Run(ctx, "osascript", "-e", script)
	if err != nil {
		return "", fmt.Errorf("osascript: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// readTasklist returns the first real window title of image. tasklist
// reports "N/A" for background processes of the same image.
func readTasklist(ctx context.Context, runner Runner, image string) (string, error) {
	out, err := runner.Run(ctx, "tasklist", "/v", "/fo", "csv", "/nh", "/fi", "IMAGENAME eq "+image)
	if err != nil {
		return "", fmt.Errorf("tasklist: %w", err)
	}
	return windowTitle(out, image)
}

func windowTitle(out, image string) (string, error) {
	r := csv.NewReader(strings.NewReader(out))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse tasklist output: %w", err)
		}
		if len(rec) < 2 || !strings.EqualFold(rec[0], image) {
			continue
		}
		title := strings.TrimSpace(rec[len(rec)-1])
		if title != "" && title != "N/A" {
			return title, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoWindow, image)
}

func readXdotool(ctx context.Context, runner Runner, class string) (string, error) {
	out, err := runner.Run(ctx, "xdotool", "search", "--onlyvisible", "--class", class, "getwindowname")
	if err != nil {
		return "", fmt.Errorf("xdotool: %w", err)
	}
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
	return "", fmt.Errorf("%w: class %s", ErrNoWindow, class)
}
