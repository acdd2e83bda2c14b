package ot

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorSeverity(t *testing.T) {
	tests := []struct {
		severity ErrorSeverity
		expected string
	}{
		{SeverityCritical, "CRITICAL"},
		{SeverityMajor, "MAJOR"},
		{SeverityMinor, "MINOR"},
		{ErrorSeverity(999), "UNKNOWN"},
	}
	for _, tt := range tests {
		if result := tt.severity.String(); result != tt.expected {
			t.Errorf("ErrorSeverity(%d).String() = %q; want %q", tt.severity, result, tt.expected)
		}
	}
}

func TestFontError(t *testing.T) {
	tests := []struct {
		name     string
		err      FontError
		expected string
	}{
		{
			name: "Error with offset",
			err: FontError{
				Table:    T("cmap"),
				Section:  "Format12",
				Issue:    "cmap subtable corrupt",
				Severity: SeverityMajor,
				Offset:   1234,
			},
			expected: "[MAJOR] cmap/Format12 at offset 1234: cmap subtable corrupt",
		},
		{
			name: "Error without offset",
			err: FontError{
				Table:    T("hhea"),
				Section:  "NumberOfHMetrics",
				Issue:    "value 7 exceeds maxp.NumGlyphs 5",
				Severity: SeverityMajor,
			},
			expected: "[MAJOR] hhea/NumberOfHMetrics: value 7 exceeds maxp.NumGlyphs 5",
		},
		{
			name: "Minor error",
			err: FontError{
				Table:    T("head"),
				Section:  "UnitsPerEm",
				Issue:    "value 0 out of range",
				Severity: SeverityMinor,
			},
			expected: "[MINOR] head/UnitsPerEm: value 0 out of range",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.err.Error(); result != tt.expected {
				t.Errorf("FontError.Error() = %q; want %q", result, tt.expected)
			}
		})
	}
}

func TestFontErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("%w: need 12 bytes at offset 16, have 4", ErrUnexpectedEOF)
	ferr := FontError{
		Table:    T("cmap"),
		Section:  "Format12",
		Issue:    "cmap subtable corrupt",
		Severity: SeverityMajor,
		Err:      cause,
	}
	var err error = ferr
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("expected FontError to unwrap to ErrUnexpectedEOF")
	}
	if errors.Is(err, ErrInvalidGlyphID) {
		t.Errorf("FontError should not match unrelated sentinel")
	}
	if (FontError{}).Unwrap() != nil {
		t.Errorf("FontError without cause should unwrap to nil")
	}
}

func TestFontWarning(t *testing.T) {
	tests := []struct {
		name     string
		warning  FontWarning
		expected string
	}{
		{
			name: "Warning with offset",
			warning: FontWarning{
				Table:  T("OS/2"),
				Issue:  "table not interpreted",
				Offset: 5678,
			},
			expected: "[WARNING] OS/2 at offset 5678: table not interpreted",
		},
		{
			name: "Warning without offset",
			warning: FontWarning{
				Table: T("hmtx"),
				Issue: "table missing, lookups will be empty",
			},
			expected: "[WARNING] hmtx: table missing, lookups will be empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.warning.String(); result != tt.expected {
				t.Errorf("FontWarning.String() = %q; want %q", result, tt.expected)
			}
		})
	}
}

func TestErrorCollector(t *testing.T) {
	ec := &errorCollector{}
	if ec.hasErrors() || ec.hasWarnings() || ec.hasCriticalErrors() {
		t.Error("errorCollector should be empty initially")
	}
	ec.addError(T("head"), "Test", "Minor issue", SeverityMinor, 100)
	if !ec.hasErrors() {
		t.Error("errorCollector should have errors after adding one")
	}
	if ec.hasCriticalErrors() {
		t.Error("errorCollector should not have critical errors yet")
	}
	ec.addCause(T("hmtx"), "Size", "table truncated", SeverityCritical, 200, ErrUnexpectedEOF)
	if !ec.hasCriticalErrors() {
		t.Error("errorCollector should have critical errors after adding one")
	}
	ec.addError(T("cmap"), "Format", "Major issue", SeverityMajor, 300)
	if len(ec.errors) != 3 {
		t.Errorf("errorCollector should have 3 errors; got %d", len(ec.errors))
	}
	criticalErrs := ec.criticalErrors()
	if len(criticalErrs) != 1 {
		t.Fatalf("errorCollector should have 1 critical error; got %d", len(criticalErrs))
	}
	if !errors.Is(criticalErrs[0], ErrUnexpectedEOF) {
		t.Error("critical error should carry its cause")
	}
	ec.addWarning(T("name"), "Warning issue", 400)
	if !ec.hasWarnings() || len(ec.warnings) != 1 {
		t.Errorf("errorCollector should have 1 warning; got %d", len(ec.warnings))
	}
}

func TestFontErrorMethods(t *testing.T) {
	font := &Font{
		parseErrors: []FontError{
			{Table: T("head"), Section: "UnitsPerEm", Issue: "Minor issue", Severity: SeverityMinor, Offset: 100},
			{Table: T("hmtx"), Section: "Size", Issue: "Critical issue", Severity: SeverityCritical, Offset: 200},
			{Table: T("cmap"), Section: "Format", Issue: "Major issue", Severity: SeverityMajor, Offset: 300},
		},
		parseWarnings: []FontWarning{
			{Table: T("name"), Issue: "Warning issue", Offset: 400},
		},
	}
	if n := len(font.Errors()); n != 3 {
		t.Errorf("Font.Errors() should return 3 errors; got %d", n)
	}
	if n := len(font.Warnings()); n != 1 {
		t.Errorf("Font.Warnings() should return 1 warning; got %d", n)
	}
	criticalErrs := font.CriticalErrors()
	if len(criticalErrs) != 1 || criticalErrs[0].Severity != SeverityCritical {
		t.Errorf("Font.CriticalErrors() should return exactly the critical error; got %v", criticalErrs)
	}
	if !font.HasCriticalErrors() {
		t.Error("Font.HasCriticalErrors() should return true")
	}
	emptyFont := &Font{}
	if len(emptyFont.Errors()) != 0 || len(emptyFont.Warnings()) != 0 || len(emptyFont.CriticalErrors()) != 0 {
		t.Error("Empty font should return empty slices")
	}
	if emptyFont.HasCriticalErrors() {
		t.Error("Empty font should not have critical errors")
	}
}
