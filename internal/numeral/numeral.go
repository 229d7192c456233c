// Package numeral converts between Chinese numerals and integers as used in
// reign-year counting (元, 三, 十三, 二十, 四十八, 百二十 ...).
package numeral

import "strings"

// First is the glyph denoting a ruler's first year.
const First = "元"

// Pattern matches a reign-year numeral from 元 up to 九十九.
const Pattern = `(?:元|[二三四五六七八九]十[一二三四五六七八九]?|十[一二三四五六七八九]?|[一二三四五六七八九])`

var digits = map[rune]int{
	'零': 0, '〇': 0, '一': 1, '二': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

var digitGlyphs = []string{"零", "一", "二", "三", "四", "五", "六", "七", "八", "九"}

// Decode converts a numeral to an integer. It returns false for an empty
// string, any unrecognised glyph, or a value of zero.
func Decode(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if s == First {
		return 1, true
	}

	result, current := 0, 0
	for _, r := range s {
		if d, ok := digits[r]; ok {
			current = d
			continue
		}
		switch r {
		case '十':
			if current == 0 {
				current = 1
			}
			result += current * 10
			current = 0
		case '百':
			if current == 0 {
				current = 1
			}
			result += current * 100
			current = 0
		case '有', '又':
			// 十有三 = 13
		default:
			return 0, false
		}
	}

	result += current
	if result <= 0 {
		return 0, false
	}
	return result, true
}

// Encode renders n as a reign-year numeral. 1 renders as 元 and the tens
// coefficient is omitted when it is one (10 → 十). Values outside 1..999
// are rendered as an empty string.
func Encode(n int) string {
	switch {
	case n == 1:
		return First
	case n <= 0 || n > 999:
		return ""
	case n < 100:
		return tens(n, false)
	}

	var b strings.Builder
	hundreds, rest := n/100, n%100
	if hundreds > 1 {
		b.WriteString(digitGlyphs[hundreds])
	}
	b.WriteString("百")
	switch {
	case rest == 0:
	case rest < 10:
		b.WriteString(digitGlyphs[0])
		b.WriteString(digitGlyphs[rest])
	default:
		b.WriteString(tens(rest, true))
	}
	return b.String()
}

// tens renders 1..99; full writes the tens coefficient even when it is one.
func tens(n int, full bool) string {
	if n < 10 {
		return digitGlyphs[n]
	}
	var b strings.Builder
	t, ones := n/10, n%10
	if t > 1 || full {
		b.WriteString(digitGlyphs[t])
	}
	b.WriteString("十")
	if ones > 0 {
		b.WriteString(digitGlyphs[ones])
	}
	return b.String()
}

// Year renders n followed by 年, e.g. 元年, 二十四年.
func Year(n int) string {
	return Encode(n) + "年"
}
