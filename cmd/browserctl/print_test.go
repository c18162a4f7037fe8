package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GriffinCanCode/browserctl/internal/domain/browser"
)

func TestPrintStatusTable(t *testing.T) {
	var buf bytes.Buffer
	printStatusTable(&buf, []browser.Instance{
		{Kind: browser.Chrome, Running: true, PID: 4321, ID: "inst_01", Address: "https://example.com"},
		{Kind: browser.Firefox},
	})

	out := buf.String()
	assert.Contains(t, out, "| BROWSER |")
	assert.Contains(t, out, "| chrome  | running | 4321 | inst_01  | https://example.com |")
	assert.Contains(t, out, "| firefox | stopped |")
}

func TestHumanBytes(t *testing.T) {
	assert.Equal(t, "512 B", humanBytes(512))
	assert.Equal(t, "1.5 KiB", humanBytes(1536))
	assert.Equal(t, "2.0 MiB", humanBytes(2*1024*1024))
}

func TestDescribe(t *testing.T) {
	assert.NoError(t, describe(nil))

	plain := errors.New("dial failed")
	assert.Equal(t, plain, describe(plain))

	err := describe(status.Error(codes.FailedPrecondition, "launch chrome: already running"))
	assert.EqualError(t, err, "launch chrome: already running")

	err = describe(status.Error(codes.DeadlineExceeded, "context deadline exceeded"))
	assert.EqualError(t, err, "timed out waiting for the server")

	err = describe(status.Error(codes.Unavailable, "connection refused"))
	assert.EqualError(t, err, "server unavailable: connection refused")
}

func TestRootCommands(t *testing.T) {
	root := NewRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"start", "stop", "url", "cleanup", "status"} {
		assert.True(t, names[want], want)
	}

	t.Setenv("BROWSERCTL_ADDRESS", "10.0.0.5:6000")
	assert.Equal(t, "10.0.0.5:6000", envAddress())
}
