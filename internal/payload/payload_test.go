// ABOUTME: Tests for the bundled rendering payload
// ABOUTME: Validates file materialization, URI stability, and entry point presence

package payload

import (
	"os"
	"strings"
	"testing"
)

func TestURI(t *testing.T) {
	uri, err := URI()
	if err != nil {
		t.Fatalf("URI() error = %v", err)
	}
	if !strings.HasPrefix(uri, "file://") {
		t.Errorf("URI() = %q, want file:// prefix", uri)
	}

	path := strings.TrimPrefix(uri, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading materialized payload: %v", err)
	}
	if !strings.Contains(string(data), "window.render") {
		t.Error("payload does not define the render entry point")
	}
}

func TestURIStable(t *testing.T) {
	first, err := URI()
	if err != nil {
		t.Fatalf("URI() error = %v", err)
	}
	second, err := URI()
	if err != nil {
		t.Fatalf("URI() error = %v", err)
	}
	if first != second {
		t.Errorf("URI() not stable: %q then %q", first, second)
	}
}
