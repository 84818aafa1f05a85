package domain

import "strings"

// ScanCode is an opaque decoded barcode or QR payload. Equality is an exact
// string match; leading zeros and letter case are significant.
type ScanCode string

// ParseScanCode trims surrounding whitespace (scanners commonly terminate a
// burst with CR, LF or TAB) and reports whether anything is left.
func ParseScanCode(raw string) (ScanCode, bool) {
	code := ScanCode(strings.TrimSpace(raw))

	return code, code != ""
}

// Valid reports whether the code is non-empty after trimming.
func (c ScanCode) Valid() bool {
	return strings.TrimSpace(string(c)) != ""
}

func (c ScanCode) String() string { return string(c) }

// ScanSource is the input modality a ScanEvent came from.
type ScanSource string

const (
	// SourceManual is an explicit submit (Enter key or button).
	SourceManual ScanSource = "manual"
	// SourceHardware is an auto-submitted keyboard-wedge scanner burst.
	SourceHardware ScanSource = "hardware"
	// SourceCamera is a code decoded from a camera frame.
	SourceCamera ScanSource = "camera"
)

// ScanEvent is the unit every input path hands to the lookup dispatcher.
type ScanEvent struct {
	Code   ScanCode   `json:"code"`
	Source ScanSource `json:"source"`
}

// ResolutionOutcome tags a ResolutionResult.
type ResolutionOutcome string

const (
	// OutcomeFound means the code matched an active catalog entry.
	OutcomeFound ResolutionOutcome = "FOUND"
	// OutcomeNotFound means no active catalog entry carries the code.
	OutcomeNotFound ResolutionOutcome = "NOT_FOUND"
)

// ResolutionResult is either Found(entry) or NotFound(code). It is handed to
// the caller exactly once and never retried.
type ResolutionResult struct {
	Outcome ResolutionOutcome `json:"outcome"`
	// Code is the scanned code in both variants.
	Code ScanCode `json:"code"`
	// Source is the modality of the event that produced the result.
	Source ScanSource `json:"source"`
	// Entry is only meaningful when Outcome is OutcomeFound.
	Entry CatalogEntry `json:"entry"`
}

// Found builds the successful variant.
func Found(event ScanEvent, entry CatalogEntry) ResolutionResult {
	return ResolutionResult{Outcome: OutcomeFound, Code: event.Code, Source: event.Source, Entry: entry}
}

// NotFound builds the failed variant.
func NotFound(event ScanEvent) ResolutionResult {
	return ResolutionResult{Outcome: OutcomeNotFound, Code: event.Code, Source: event.Source}
}

// IsFound reports whether the result carries a catalog entry.
func (r ResolutionResult) IsFound() bool {
	return r.Outcome == OutcomeFound
}
