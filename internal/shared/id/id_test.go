package id

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1.String() == id2.String() {
		t.Error("Generated IDs should be unique")
	}
}

func TestGenerateString(t *testing.T) {
	gen := NewGenerator()

	id := gen.GenerateString()

	if len(id) != 26 {
		t.Errorf("ULID should be 26 characters, got %d", len(id))
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator()

	for _, prefix := range []string{InstancePrefix, RequestPrefix, SpanPrefix} {
		id := gen.GenerateWithPrefix(prefix)

		if !IsValidPrefixed(id, prefix) {
			t.Errorf("ID should have format '%s_<ulid>', got: %s", prefix, id)
		}
	}
}

func TestTypedIDGeneration(t *testing.T) {
	inst := NewInstanceID()
	req := NewRequestID()
	span := NewSpanID()

	if !strings.HasPrefix(inst.String(), "inst_") {
		t.Errorf("InstanceID should start with 'inst_', got: %s", inst)
	}
	if !strings.HasPrefix(req.String(), "req_") {
		t.Errorf("RequestID should start with 'req_', got: %s", req)
	}
	if !strings.HasPrefix(span.String(), "span_") {
		t.Errorf("SpanID should start with 'span_', got: %s", span)
	}
}

func TestIsValidPrefixed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		prefix string
		want   bool
	}{
		{"valid", "inst_" + NewGenerator().GenerateString(), "inst", true},
		{"wrong prefix", "req_" + NewGenerator().GenerateString(), "inst", false},
		{"no prefix", NewGenerator().GenerateString(), "inst", false},
		{"garbage", "inst_nope", "inst", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidPrefixed(tt.input, tt.prefix); got != tt.want {
				t.Errorf("IsValidPrefixed(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	inst := NewInstanceID()

	ts, err := Timestamp(inst.String())
	if err != nil {
		t.Fatalf("Timestamp failed: %v", err)
	}
	if ts.Before(before) {
		t.Errorf("timestamp %v should not precede %v", ts, before)
	}

	if _, err := Timestamp("inst_bogus"); err == nil {
		t.Error("expected error for invalid ULID")
	}
}

func TestDeterministicEntropy(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 64)
	a := NewGeneratorWithEntropy(bytes.NewReader(seed)).Generate()
	b := NewGeneratorWithEntropy(bytes.NewReader(seed)).Generate()

	if !bytes.Equal(a.Entropy(), b.Entropy()) {
		t.Error("same entropy source should yield same entropy bytes")
	}
}

func TestConcurrentGeneration(t *testing.T) {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[InstanceID]bool)
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := NewInstanceID()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != 50 {
		t.Errorf("expected 50 unique IDs, got %d", len(seen))
	}
}
