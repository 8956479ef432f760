package buildinfo

import (
	"strings"
	"testing"
)

func TestStrings(t *testing.T) {
	old := Version
	Version = "v9.9.9"
	defer func() { Version = old }()

	if got := UserAgent(); got != "seqsee/v9.9.9" {
		t.Errorf("UserAgent() = %q", got)
	}
	if got := String(); !strings.HasPrefix(got, "seqsee v9.9.9\n") {
		t.Errorf("String() = %q", got)
	}
	if got := Template(); !strings.Contains(got, "{{.Name}} v9.9.9") {
		t.Errorf("Template() = %q", got)
	}
	if got := Current(); got.Version != "v9.9.9" || got.Commit != Commit {
		t.Errorf("Current() = %+v", got)
	}
}
