package pipeline

import (
	"regexp"
	"strings"

	"github.com/Tameem1/quran-chatbot/internal/arabic"
)

// surahNames lists the 114 chapter names in canonical order. The lookup table
// below is built from normalized forms so hamza and diacritic variants match.
var surahNames = []string{
	"الفاتحة", "البقرة", "آل عمران", "النساء", "المائدة", "الأنعام", "الأعراف",
	"الأنفال", "التوبة", "يونس", "هود", "يوسف", "الرعد", "إبراهيم", "الحجر",
	"النحل", "الإسراء", "الكهف", "مريم", "طه", "الأنبياء", "الحج", "المؤمنون",
	"النور", "الفرقان", "الشعراء", "النمل", "القصص", "العنكبوت", "الروم",
	"لقمان", "السجدة", "الأحزاب", "سبإ", "فاطر", "يس", "الصافات", "ص", "الزمر",
	"غافر", "فصلت", "الشورى", "الزخرف", "الدخان", "الجاثية", "الأحقاف", "محمد",
	"الفتح", "الحجرات", "ق", "الذاريات", "الطور", "النجم", "القمر", "الرحمن",
	"الواقعة", "الحديد", "المجادلة", "الحشر", "الممتحنة", "الصف", "الجمعة",
	"المنافقون", "التغابن", "الطلاق", "التحريم", "الملك", "القلم", "الحاقة",
	"المعارج", "نوح", "الجن", "المزمل", "المدثر", "القيامة", "الإنسان",
	"المرسلات", "النبأ", "النازعات", "عبس", "التكوير", "الانفطار", "المطففين",
	"الانشقاق", "البروج", "الطارق", "الأعلى", "الغاشية", "الفجر", "البلد",
	"الشمس", "الليل", "الضحى", "الشرح", "التين", "العلق", "القدر", "البينة",
	"الزلزلة", "العاديات", "القارعة", "التكاثر", "العصر", "الهمزة", "الفيل",
	"قريش", "الماعون", "الكوثر", "الكافرون", "النصر", "المسد", "الإخلاص",
	"الفلق", "الناس",
}

var surahByNorm = func() map[string]int {
	m := make(map[string]int, len(surahNames))
	for i, name := range surahNames {
		m[arabic.Normalize(name)] = i + 1
	}
	return m
}()

// Matches "سورة البقرة", "سوره البقرة", "سورة 55".
var surahPattern = regexp.MustCompile(`(?:سورة|سوره)\s+([^\s.,،؟?]+)`)

// ExtractSurah returns the chapter number (1..114) when the question
// explicitly names one, or 0 when it does not.
func ExtractSurah(question string) int {
	m := surahPattern.FindStringSubmatch(question)
	if m == nil {
		return 0
	}
	raw := strings.Trim(m[1], " \u00a0\u200f")

	if num, ok := arabic.ParseNumber(raw); ok {
		if num >= 1 && num <= 114 {
			return num
		}
		return 0
	}

	key := arabic.Normalize(raw)
	if num, ok := surahByNorm[key]; ok {
		return num
	}
	// Tolerate a dropped definite article: "سورة بقرة".
	if !strings.HasPrefix(key, "ال") {
		if num, ok := surahByNorm["ال"+key]; ok {
			return num
		}
	}
	return 0
}

// SurahName returns the canonical Arabic name for a chapter number, or an
// empty string for an out-of-range number.
func SurahName(number int) string {
	if number < 1 || number > len(surahNames) {
		return ""
	}
	return surahNames[number-1]
}
