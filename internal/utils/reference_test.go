package utils

import (
	"strings"
	"testing"
)

func TestNewBookingReferenceFormat(t *testing.T) {
	ref, err := NewBookingReference()
	if err != nil {
		t.Fatalf("NewBookingReference: %v", err)
	}
	if !strings.HasPrefix(ref, "R-") {
		t.Fatalf("reference %q missing R- prefix", ref)
	}
	if len(ref) != 2+referenceLength {
		t.Fatalf("reference %q has length %d, want %d", ref, len(ref), 2+referenceLength)
	}
	for _, c := range ref[2:] {
		if !strings.ContainsRune(referenceAlphabet, c) {
			t.Fatalf("reference %q contains %q outside the alphabet", ref, c)
		}
	}
}

func TestNewBookingReferenceNoAmbiguousChars(t *testing.T) {
	for _, c := range "01OIL" {
		if strings.ContainsRune(referenceAlphabet, c) {
			t.Fatalf("alphabet contains ambiguous char %q", c)
		}
	}
}

func TestNewBookingReferenceUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		ref, err := NewBookingReference()
		if err != nil {
			t.Fatalf("NewBookingReference: %v", err)
		}
		if seen[ref] {
			t.Fatalf("duplicate reference %q after %d draws", ref, i)
		}
		seen[ref] = true
	}
}
