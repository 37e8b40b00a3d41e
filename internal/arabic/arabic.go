// Package arabic provides orthographic normalization for Quranic Arabic text.
//
// All corpus lookups compare normalized forms: diacritics are stripped, the
// dagger alif is promoted to a full alif, and hamza/alif variants are unified.
// Variants generates the small set of spelling variants (proclitics, definite
// article, tanwin seat) that exact matching must tolerate.
package arabic

import "strings"

// letterRemap unifies hamza-carrier and alif variants to a canonical letter.
var letterRemap = map[rune]rune{
	'أ': 'ا', 'إ': 'ا', 'آ': 'ا', 'ٱ': 'ا',
	'ى': 'ي', 'ئ': 'ي',
	'ؤ': 'و',
}

// isDiacritic reports whether r is an Arabic combining mark (harakat, tanwin,
// shadda, sukun, Quranic annotation signs).
func isDiacritic(r rune) bool {
	switch {
	case r >= 0x064B && r <= 0x065F:
		return true
	case r >= 0x06D6 && r <= 0x06DC:
		return true
	case r >= 0x06DF && r <= 0x06E4:
		return true
	case r == 0x06E7 || r == 0x06E8:
		return true
	case r >= 0x06EA && r <= 0x06ED:
		return true
	}
	return false
}

// StripDiacritics removes all Arabic diacritics from text. The dagger alif
// (U+0670) is promoted to a full alif rather than dropped, so forms like
// الرحمٰن normalize to الرحمان and keep their long vowel.
func StripDiacritics(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == 0x0670: // dagger alif
			b.WriteRune('ا')
		case isDiacritic(r):
		case r == 'ـ': // tatweel
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize applies the full normalization: diacritics stripped, hamza/alif
// variants unified, surrounding whitespace trimmed.
func Normalize(text string) string {
	stripped := StripDiacritics(text)
	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if mapped, ok := letterRemap[r]; ok {
			b.WriteRune(mapped)
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// proclitics are single-letter prefixes that attach directly to a word.
// و is included as optional only: it doubles as a conjunction.
var proclitics = map[rune]bool{'ك': true, 'ف': true, 'ب': true, 'ل': true, 'س': true, 'و': true}

// Variants returns the orthographic variants of a normalized word: the word
// itself, the word minus one leading proclitic, minus the definite article,
// and minus a trailing tanwin-seat alif. Two words are considered an exact
// match when their variant sets intersect (العهن matches كالعهن, وفدا
// matches وفد).
func Variants(word string) map[string]bool {
	forms := map[string]bool{word: true}

	runes := []rune(word)
	if len(runes) > 3 && proclitics[runes[0]] {
		forms[string(runes[1:])] = true
	}

	for w := range copySet(forms) {
		r := []rune(w)
		if len(r) > 3 && r[0] == 'ا' && r[1] == 'ل' {
			forms[string(r[2:])] = true
		}
	}

	for w := range copySet(forms) {
		r := []rune(w)
		if len(r) > 3 && r[len(r)-1] == 'ا' {
			forms[string(r[:len(r)-1])] = true
		}
	}

	return forms
}

// Match reports whether two normalized words share at least one variant.
func Match(a, b string) bool {
	va := Variants(a)
	for v := range Variants(b) {
		if va[v] {
			return true
		}
	}
	return false
}

func copySet(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}

// arabicIndicZero is the code point of ٠.
const arabicIndicZero = 0x0660

// ParseNumber converts a string of Western or Arabic-Indic digits to an
// integer. Returns false if the string is empty or contains a non-digit.
func ParseNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		var d int
		switch {
		case r >= '0' && r <= '9':
			d = int(r - '0')
		case r >= arabicIndicZero && r <= arabicIndicZero+9:
			d = int(r - arabicIndicZero)
		default:
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}
