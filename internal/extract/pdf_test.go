package extract

import (
	"strings"
	"testing"
)

func TestValidatePDFRejectsEmpty(t *testing.T) {
	if err := ValidatePDF(nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestValidatePDFRejectsWrongMagic(t *testing.T) {
	err := ValidatePDF([]byte("PK\x03\x04 this is a zip"))
	if err == nil || !strings.Contains(err.Error(), "not a PDF") {
		t.Fatalf("expected magic-number rejection, got %v", err)
	}
}

func TestValidatePDFRejectsTruncated(t *testing.T) {
	// Correct magic but no xref table; must fail without panicking.
	if err := ValidatePDF([]byte("%PDF-1.4\ngarbage")); err == nil {
		t.Fatalf("expected error for truncated PDF")
	}
}
