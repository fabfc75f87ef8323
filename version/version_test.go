package version

import "testing"

func TestVersion(t *testing.T) {
	tests := []struct {
		build    string
		expected string
	}{
		{build: "", expected: "0.1.0"},
		{build: "dev-1", expected: "0.1.0-dev-1"},
		{build: "bad build", expected: "0.1.0"},
	}

	originalBuild := appBuild
	defer func() { appBuild = originalBuild }()
	for _, test := range tests {
		appBuild = test.build
		if got := Version(); got != test.expected {
			t.Fatalf("build %q: unexpected version. Want: %s, got: %s", test.build, test.expected, got)
		}
	}
}
