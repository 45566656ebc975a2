package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	// Save original logger
	original := Logf
	defer func() { Logf = original }()

	// Test setting a custom logger
	called := false
	customLogger := func(format string, v ...interface{}) {
		called = true
	}

	SetLogger(customLogger)
	Logf("test message")

	if !called {
		t.Error("Custom logger was not called")
	}

	// Test setting nil logger (should create no-op)
	SetLogger(nil)
	// This should not panic
	Logf("test message")

	// Verify the logger is a no-op by checking it doesn't panic
	// and doesn't call anything
	noOpCalled := false
	testLogger := func(format string, v ...interface{}) {
		noOpCalled = true
	}
	SetLogger(testLogger)
	// First verify our test logger works
	Logf("test")
	if !noOpCalled {
		t.Error("Test logger should have been called")
	}

	// Now set to nil and verify it doesn't call our logger
	noOpCalled = false
	SetLogger(nil)
	Logf("test")
	if noOpCalled {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestLogf_Default(t *testing.T) {
	// Test that Logf is not nil by default
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}

	// Test that we can call it without panic
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logf panicked: %v", r)
		}
	}()

	Logf("test message: %s", "value")
}

func TestOccurrenceLogsEveryNth(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	o := NewOccurrence(3)
	for i := 0; i < 7; i++ {
		o.Logf("dropped")
	}

	if len(lines) != 2 {
		t.Fatalf("logged %d lines, want 2", len(lines))
	}
	if lines[0] != "dropped (3 occurrences)" {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[1] != "dropped (6 occurrences)" {
		t.Errorf("second line = %q", lines[1])
	}
	if o.Count() != 7 {
		t.Errorf("count = %d, want 7", o.Count())
	}
}

func TestOccurrenceClampsInterval(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var n int
	SetLogger(func(string, ...interface{}) { n++ })

	o := NewOccurrence(0) // treated as every event
	o.Logf("x")
	o.Logf("x")
	if n != 2 {
		t.Errorf("logged %d lines, want 2", n)
	}
}
