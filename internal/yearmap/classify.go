package yearmap

import (
	"regexp"
	"strings"

	"github.com/ppiankov/shiji/internal/numeral"
	"github.com/ppiankov/shiji/internal/reign"
)

// Kind classifies the surface text of a year marker
type Kind int

const (
	KindNumeral     Kind = iota // Plain reign year: 二十四年
	KindEra                     // Era-dated year: 建元六年
	KindDuration                // Elapsed time or age: 十馀年, 五十岁, 立十二年
	KindUndecodable             // Anything else: 明年, 是年
)

func (k Kind) String() string {
	switch k {
	case KindNumeral:
		return "numeral"
	case KindEra:
		return "era"
	case KindDuration:
		return "duration"
	default:
		return "undecodable"
	}
}

// Surface patterns that mark a duration rather than a calendar year.
var durationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`馀年`),
	regexp.MustCompile(`有馀`),
	regexp.MustCompile(`岁`),
}

// Classification is the decoded form of one year marker
type Classification struct {
	Kind Kind
	Year int    // Decoded reign or era year
	Era  string // Era name for KindEra
}

// Classifier decides whether a year marker is a calendar year and decodes it
type Classifier struct {
	book         *reign.Book
	markers      string
	contextChars int
}

// NewClassifier creates a classifier. markers lists the characters that,
// found within contextChars before a marker, turn it into a duration.
func NewClassifier(book *reign.Book, markers string, contextChars int) *Classifier {
	return &Classifier{book: book, markers: markers, contextChars: contextChars}
}

// Classify decodes surface; before is the text immediately preceding the marker.
func (c *Classifier) Classify(surface, before string) Classification {
	for _, re := range durationPatterns {
		if re.MatchString(surface) {
			return Classification{Kind: KindDuration}
		}
	}

	var cl Classification
	if era, n, ok := c.book.MatchEra(surface); ok {
		cl = Classification{Kind: KindEra, Year: n, Era: era.Name}
	} else if n, ok := numeral.Decode(strings.TrimSuffix(surface, "年")); ok {
		cl = Classification{Kind: KindNumeral, Year: n}
	} else {
		return Classification{Kind: KindUndecodable}
	}

	if c.durationContext(before) {
		return Classification{Kind: KindDuration, Year: cl.Year}
	}
	return cl
}

func (c *Classifier) durationContext(before string) bool {
	runes := []rune(before)
	if len(runes) > c.contextChars {
		runes = runes[len(runes)-c.contextChars:]
	}
	return strings.ContainsAny(string(runes), c.markers)
}
