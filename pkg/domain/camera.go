package domain

import "strings"

// CameraDevice is a video input that can be used for optical scanning.
type CameraDevice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// FacesEnvironment reports whether the label marks a back/rear/environment
// facing camera, which is preferred for scanning.
func (d CameraDevice) FacesEnvironment() bool {
	label := strings.ToLower(d.Label)

	return strings.Contains(label, "back") ||
		strings.Contains(label, "rear") ||
		strings.Contains(label, "environment")
}

// Symbology is a barcode format the optical path can decode.
type Symbology string

const (
	SymbologyEAN13   Symbology = "EAN_13"
	SymbologyEAN8    Symbology = "EAN_8"
	SymbologyUPCA    Symbology = "UPC_A"
	SymbologyUPCE    Symbology = "UPC_E"
	SymbologyCode128 Symbology = "CODE_128"
	SymbologyCode39  Symbology = "CODE_39"
	SymbologyCode93  Symbology = "CODE_93"
	SymbologyITF     Symbology = "ITF"
	SymbologyQR      Symbology = "QR_CODE"
)

// SupportedSymbologies returns the fixed set of formats decoded by camera
// sessions. EAN-13 comes before UPC-A so that 13 digit codes keep their
// leading digit.
func SupportedSymbologies() []Symbology {
	return []Symbology{
		SymbologyEAN13,
		SymbologyEAN8,
		SymbologyUPCA,
		SymbologyUPCE,
		SymbologyCode128,
		SymbologyCode39,
		SymbologyCode93,
		SymbologyITF,
		SymbologyQR,
	}
}
