package test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func AssertEqual[T comparable](t *testing.T, expected, actual T) bool {
	t.Helper()

	if expected != actual {
		t.Errorf(""+
			"Not equal: \n"+
			"Expected: %#v\n"+
			"Actual: %#v", expected, actual)
		return false
	}

	return true
}

func AssertBytes(t *testing.T, expected, actual []byte) bool {
	t.Helper()

	if !bytes.Equal(expected, actual) {
		t.Errorf(""+
			"Bytes not equal: \n"+
			"Expected: %q\n"+
			"Actual: %q", expected, actual)
		return false
	}

	return true
}

func AssertContains(t *testing.T, s, substr string) bool {
	t.Helper()

	if !strings.Contains(s, substr) {
		t.Errorf("%q does not contain %q", s, substr)
		return false
	}

	return true
}

func AssertNoError(t *testing.T, err error) bool {
	t.Helper()

	if err != nil {
		t.Errorf("unexpected error: %v", err)
		return false
	}

	return true
}

func AssertErrorIs(t *testing.T, err, target error) bool {
	t.Helper()

	if !errors.Is(err, target) {
		t.Errorf("expected error %v, got %v", target, err)
		return false
	}

	return true
}
