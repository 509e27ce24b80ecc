package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var update = flag.Bool("update", false, "rewrite golden files in testdata/")

// Update reports whether the test run was started with -update.
func Update() bool {
	return *update
}

// Golden compares actual against testdata/<name>.golden, relative to the
// package under test. With -update the golden file is rewritten instead.
func Golden(t testing.TB, name string, actual []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")
	if *update {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("create testdata: %v", err)
		}
		if err := os.WriteFile(path, actual, 0644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Fatalf("%s is missing; run go test -update to create it", path)
	}
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(actual) != string(want) {
		t.Errorf("%s mismatch (go test -update to accept)\ngot:\n%s\nwant:\n%s", path, actual, want)
	}
}

// GoldenFile compares a sheet written by the code under test against
// testdata/<name>.golden. CRLF line endings are normalized first.
func GoldenFile(t testing.TB, name, path string) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	Golden(t, name, []byte(strings.ReplaceAll(string(data), "\r\n", "\n")))
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// StripANSI removes terminal color sequences so colored command output can
// be compared as plain text.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}
