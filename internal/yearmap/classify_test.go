package yearmap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(testBook(), "立居历凡共在生国", 3)

	tests := []struct {
		name    string
		surface string
		before  string
		want    Classification
	}{
		{"plain numeral", "二十四年", "，", Classification{Kind: KindNumeral, Year: 24}},
		{"first year", "元年", "", Classification{Kind: KindNumeral, Year: 1}},
		{"era prefix", "元光二年", "", Classification{Kind: KindEra, Year: 2, Era: "元光"}},
		{"more than n years", "十馀年", "", Classification{Kind: KindDuration}},
		{"age", "五十岁", "", Classification{Kind: KindDuration}},
		{"reign length verb", "十五年", "@秦孝公@立", Classification{Kind: KindDuration, Year: 15}},
		{"verb outside context", "十五年", "立之，明", Classification{Kind: KindNumeral, Year: 15}},
		{"undecodable", "明年", "", Classification{Kind: KindUndecodable}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, c.Classify(tt.surface, tt.before)); diff != "" {
				t.Errorf("Classify(%q) mismatch (-want +got):\n%s", tt.surface, diff)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if KindEra.String() != "era" || KindUndecodable.String() != "undecodable" {
		t.Errorf("unexpected kind names %s %s", KindEra, KindUndecodable)
	}
}
