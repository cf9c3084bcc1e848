package text

import "unicode"

// Direction is the writing direction of a piece of text
type Direction int

const (
	LTR     Direction = iota // Latin, Cyrillic, CJK, ...
	RTL                      // Arabic, Hebrew, Syriac, Thaana, N'Ko
	Neutral                  // Digits, punctuation, whitespace, symbols
)

func (d Direction) String() string {
	switch d {
	case LTR:
		return "LTR"
	case RTL:
		return "RTL"
	case Neutral:
		return "Neutral"
	default:
		return "Unknown"
	}
}

// rtlScripts are the scripts written right to left
var rtlScripts = []*unicode.RangeTable{
	unicode.Arabic,
	unicode.Hebrew,
	unicode.Syriac,
	unicode.Thaana,
	unicode.Nko,
}

// CharDirection returns the inherent direction of r. Letters of scripts
// that are not right to left count as LTR.
func CharDirection(r rune) Direction {
	if unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
		return Neutral
	}
	if unicode.In(r, rtlScripts...) {
		return RTL
	}
	return LTR
}

// DetectDirection returns the direction of the majority of strong
// (non-neutral) characters in s, LTR on a tie, and Neutral when s has no
// strong characters.
func DetectDirection(s string) Direction {
	ltr, rtl := 0, 0
	for _, r := range s {
		switch CharDirection(r) {
		case LTR:
			ltr++
		case RTL:
			rtl++
		}
	}

	switch {
	case ltr == 0 && rtl == 0:
		return Neutral
	case rtl > ltr:
		return RTL
	default:
		return LTR
	}
}
