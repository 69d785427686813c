package output

import (
	"strings"
	"testing"
)

func TestRestoreTree_Render(t *testing.T) {
	tree := NewRestoreTree("restoredFolder")
	tree.InsertPath("README.md", PrefixRestored)
	tree.InsertPath("src/app/main.go", PrefixRestored)
	tree.InsertPath("src/app/util.go", PrefixFailed)
	tree.InsertPath("src/lib.go", PrefixPlanned)

	out := tree.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if lines[0] != "restoredFolder" {
		t.Errorf("first line = %q, want root label", lines[0])
	}

	for _, want := range []string{"README.md", "src", "app", "main.go", "[failed] util.go", "[dry-run] lib.go"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}

	// Directories are created once even when several files share them.
	if n := strings.Count(out, "src"); n != 1 {
		t.Errorf("directory src rendered %d times, want 1:\n%s", n, out)
	}
	if n := strings.Count(out, "app"); n != 1 {
		t.Errorf("directory app rendered %d times, want 1:\n%s", n, out)
	}
}

func TestRestoreTree_Empty(t *testing.T) {
	tree := NewRestoreTree("out")

	if got := strings.TrimSpace(tree.Render()); got != "out" {
		t.Errorf("Render() = %q, want just the root label", got)
	}
}
