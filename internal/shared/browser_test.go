package shared

import "testing"

func TestGenerateState(t *testing.T) {
	first, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}
	if len(first) != 32 {
		t.Errorf("state length = %d, want 32", len(first))
	}

	second, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}
	if first == second {
		t.Error("consecutive states should differ")
	}
}

func TestOpenBrowserUnsupportedPlatform(t *testing.T) {
	orig := getRuntime
	getRuntime = func() string { return "plan9" }
	defer func() { getRuntime = orig }()

	if err := OpenBrowser("http://localhost:3000"); err == nil {
		t.Error("OpenBrowser() expected error for unsupported platform")
	}
}
