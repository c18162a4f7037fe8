package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GriffinCanCode/browserctl/internal/domain/browser"
)

func printStatusTable(w io.Writer, list []browser.Instance) {
	headers := []string{"BROWSER", "STATE", "PID", "INSTANCE", "ADDRESS"}
	rows := make([][]string, 0, len(list))
	for _, inst := range list {
		state, pid := "stopped", ""
		if inst.Running {
			state = "running"
			if inst.Exited {
				state = "exited"
			}
			pid = strconv.Itoa(inst.PID)
		}
		rows = append(rows, []string{string(inst.Kind), state, pid, inst.ID, inst.Address})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			widths[i] = max(widths[i], len(cell))
		}
	}

	parts := make([]string, len(widths))
	for i, wd := range widths {
		parts[i] = strings.Repeat("-", wd)
	}
	sep := "+-" + strings.Join(parts, "-+-") + "-+\n"

	line := func(cells []string) {
		padded := make([]string, len(cells))
		for i, c := range cells {
			padded[i] = pad(c, widths[i])
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(padded, " | "))
	}

	fmt.Fprint(w, sep)
	line(headers)
	fmt.Fprint(w, sep)
	for _, r := range rows {
		line(r)
	}
	fmt.Fprint(w, sep)
}

func pad(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// describe turns a gRPC status into a short message for the terminal.
func describe(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unavailable:
		if strings.Contains(st.Message(), browser.ErrExecutableNotFound.Error()) {
			return errors.New(st.Message())
		}
		return fmt.Errorf("server unavailable: %s", st.Message())
	case codes.DeadlineExceeded:
		return errors.New("timed out waiting for the server")
	}
	return errors.New(st.Message())
}
