package transform

import "strings"

// Barcode type names as used in the ERPNext barcode child table.
const (
	BarcodeEAN  = "EAN"
	BarcodeEAN8 = "EAN-8"
	BarcodeUPCA = "UPC-A"
	BarcodeISBN = "ISBN"
)

// defaultDenylist holds known placeholder barcodes that vendors ship in
// export files instead of real GTINs.
var defaultDenylist = []string{
	"0",
	"00000000",
	"0000000000000",
	"4017980000000",
}

// BarcodeValidator checks barcodes against structural rules plus a
// denylist of known placeholder codes. The zero value is not usable;
// construct via NewBarcodeValidator.
type BarcodeValidator struct {
	denylist map[string]struct{}
}

// NewBarcodeValidator returns a validator with the built-in placeholder
// denylist extended by the given additional codes.
func NewBarcodeValidator(extra ...string) *BarcodeValidator {
	denylist := make(map[string]struct{}, len(defaultDenylist)+len(extra))
	for _, code := range defaultDenylist {
		denylist[code] = struct{}{}
	}
	for _, code := range extra {
		code = strings.TrimSpace(code)
		if code != "" {
			denylist[code] = struct{}{}
		}
	}
	return &BarcodeValidator{denylist: denylist}
}

// IsValid reports whether code looks like a usable GTIN: all digits, at
// least EAN-8 length, and not a known placeholder.
func (v *BarcodeValidator) IsValid(code string) bool {
	code = strings.TrimSpace(code)
	if len(code) < 8 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	_, denied := v.denylist[code]
	return !denied
}

// IsValidBarcode validates against the built-in denylist only.
func IsValidBarcode(code string) bool {
	return NewBarcodeValidator().IsValid(code)
}

// DetectBarcodeType maps a barcode to its ERPNext barcode type by length
// and prefix. Unknown lengths default to EAN.
func DetectBarcodeType(code string) string {
	code = strings.TrimSpace(code)
	switch len(code) {
	case 13:
		if strings.HasPrefix(code, "978") || strings.HasPrefix(code, "979") {
			return BarcodeISBN
		}
		return BarcodeEAN
	case 12:
		return BarcodeUPCA
	case 8:
		return BarcodeEAN8
	default:
		return BarcodeEAN
	}
}
