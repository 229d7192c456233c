package extract

import "testing"

func TestStripTags(t *testing.T) {
	got := StripTags("@鲁真公濞@%十五年%🌿")
	if got != "鲁真公濞十五年" {
		t.Errorf("StripTags = %q", got)
	}
}

func TestParagraph(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"[12] 秦孝公元年", "12", true},
		{"[3.1.2] 文字", "3.1.2", true},
		{"## 孝公", "", false},
		{"文字 [12]", "", false},
	}
	for _, tt := range tests {
		got, ok := Paragraph(tt.line)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Paragraph(%q) = %q, %v; want %q, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestHeading(t *testing.T) {
	if got, ok := Heading("## 文公、宁公"); !ok || got != "文公、宁公" {
		t.Errorf("Heading = %q, %v", got, ok)
	}
	if got, ok := Heading("### 秦王政时期"); !ok || got != "秦王政时期" {
		t.Errorf("Heading = %q, %v", got, ok)
	}
	if _, ok := Heading("# 秦本纪"); ok {
		t.Error("expected top-level title not to be a section heading")
	}
}

func TestRuneWindows(t *testing.T) {
	s := "秦孝公元年"
	pos := len("秦孝公")

	if got := Preceding(s, pos, 2); got != "孝公" {
		t.Errorf("Preceding = %q", got)
	}
	if got := Preceding(s, pos, 10); got != "秦孝公" {
		t.Errorf("Preceding clamped = %q", got)
	}
	if got := s[pos:ForwardRunes(s, pos, 1)]; got != "元" {
		t.Errorf("ForwardRunes = %q", got)
	}
	if got := ForwardRunes(s, pos, 10); got != len(s) {
		t.Errorf("ForwardRunes clamped = %d", got)
	}
}

func TestHasHan(t *testing.T) {
	if !HasHan("abc孝") {
		t.Error("expected Han character")
	}
	if HasHan("abc,.") {
		t.Error("expected no Han character")
	}
}
