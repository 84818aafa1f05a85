package camera

import (
	"image"
	"intake/pkg/domain"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// Decoder finds the first barcode of a configured symbology set in a frame.
// A Decoder is not safe for concurrent use; every session owns its own.
type Decoder struct {
	readers []gozxing.Reader
	hints   map[gozxing.DecodeHintType]any
}

func readerFor(s domain.Symbology) gozxing.Reader {
	switch s {
	case domain.SymbologyEAN13:
		return oned.NewEAN13Reader()
	case domain.SymbologyEAN8:
		return oned.NewEAN8Reader()
	case domain.SymbologyUPCA:
		return oned.NewUPCAReader()
	case domain.SymbologyUPCE:
		return oned.NewUPCEReader()
	case domain.SymbologyCode128:
		return oned.NewCode128Reader()
	case domain.SymbologyCode39:
		return oned.NewCode39Reader()
	case domain.SymbologyCode93:
		return oned.NewCode93Reader()
	case domain.SymbologyITF:
		return oned.NewITFReader()
	case domain.SymbologyQR:
		return qrcode.NewQRCodeReader()
	default:
		return nil
	}
}

// NewDecoder creates a decoder for formats, tried in the given order. Unknown
// formats are ignored.
func NewDecoder(formats []domain.Symbology) *Decoder {
	d := &Decoder{
		hints: map[gozxing.DecodeHintType]any{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
	for _, f := range formats {
		if r := readerFor(f); r != nil {
			d.readers = append(d.readers, r)
		}
	}

	return d
}

// Decode returns the payload of the first barcode found in img.
func (d *Decoder) Decode(img image.Image) (domain.ScanCode, bool) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", false
	}

	for _, r := range d.readers {
		res, err := r.Decode(bmp, d.hints)
		r.Reset()
		if err != nil || res == nil {
			continue
		}
		if code, ok := domain.ParseScanCode(res.GetText()); ok {
			return code, true
		}
	}

	return "", false
}
