package arabic

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips harakat", "غَفَرَ", "غفر"},
		{"strips shadda", "تبّ", "تب"},
		{"hamza above alif", "أمة", "امة"},
		{"hamza below alif", "إبراهيم", "ابراهيم"},
		{"madda", "آيات", "ايات"},
		{"alif maqsura", "هدى", "هدي"},
		{"hamza on waw", "مؤمن", "مومن"},
		{"dagger alif promoted", "الرحمٰن", "الرحمان"},
		{"tatweel removed", "قـرآن", "قران"},
		{"trims whitespace", "  سجد ", "سجد"},
		{"plain passes through", "كتاب", "كتاب"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestVariants(t *testing.T) {
	v := Variants("كالعهن")
	for _, want := range []string{"كالعهن", "العهن", "عهن"} {
		if !v[want] {
			t.Errorf("Variants(كالعهن) missing %q, got %v", want, v)
		}
	}

	// Trailing tanwin-seat alif.
	v = Variants("وفدا")
	if !v["وفد"] {
		t.Errorf("Variants(وفدا) missing وفد, got %v", v)
	}

	// Short words keep only themselves: stripping would destroy the stem.
	v = Variants("عهن")
	if len(v) != 1 || !v["عهن"] {
		t.Errorf("Variants(عهن) = %v, want only itself", v)
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"العهن", "كالعهن", true},
		{"كالعهن", "عهن", true},
		{"وفدا", "وفد", true},
		{"صبر", "صبر", true},
		{"صبر", "سجد", false},
	}
	for _, tt := range tests {
		if got := Match(tt.a, tt.b); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"55", 55, true},
		{"٢", 2, true},
		{"١١٤", 114, true},
		{"", 0, false},
		{"البقرة", 0, false},
		{"12a", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseNumber(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
