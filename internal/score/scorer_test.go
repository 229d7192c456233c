package score

import (
	"testing"

	"github.com/ppiankov/shiji/internal/model"
)

func TestScorer_Calculate_Coverage(t *testing.T) {
	scorer := NewScorer()

	sum := &model.Summary{
		Mentions: 10,
		Dated:    9,
		ByMethod: map[model.Method]int{model.MethodNearbyRuler: 9, model.MethodUnresolved: 1},
	}
	result := scorer.Calculate(sum, 0)

	if result.Index != 90 {
		t.Errorf("Expected index 90, got %d", result.Index)
	}
	if len(result.Signals) != 2 {
		t.Fatalf("Expected coverage and unresolved signals, got %+v", result.Signals)
	}
	if result.Signals[0].Type != model.SignalDatingCoverage || result.Signals[0].Severity != model.SeverityInfo {
		t.Errorf("unexpected coverage signal %+v", result.Signals[0])
	}
	if result.Signals[1].Type != model.SignalUnresolved || result.Signals[1].Severity != model.SeverityInfo {
		t.Errorf("unexpected unresolved signal %+v", result.Signals[1])
	}
}

func TestScorer_Calculate_NoMentions(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Calculate(&model.Summary{}, 0)

	if result.Index != 0 {
		t.Errorf("Expected index 0, got %d", result.Index)
	}
	if len(result.Signals) != 1 || result.Signals[0].Severity != model.SeverityCritical {
		t.Errorf("Expected one critical signal, got %+v", result.Signals)
	}
}

func TestScorer_Calculate_Severities(t *testing.T) {
	tests := []struct {
		name  string
		dated int
		want  model.SignalSeverity
	}{
		{"high coverage", 80, model.SeverityInfo},
		{"partial coverage", 60, model.SeverityWarning},
		{"low coverage", 40, model.SeverityCritical},
	}

	scorer := NewScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scorer.Calculate(&model.Summary{Mentions: 100, Dated: tt.dated}, 0)
			if result.Index != tt.dated {
				t.Errorf("Expected index %d, got %d", tt.dated, result.Index)
			}
			if result.Signals[0].Severity != tt.want {
				t.Errorf("Expected severity %s, got %s", tt.want, result.Signals[0].Severity)
			}
		})
	}
}

func TestScorer_Calculate_Signals(t *testing.T) {
	scorer := NewScorer()

	sum := &model.Summary{
		Mentions:      20,
		Dated:         15,
		OutOfRange:    3,
		Recovered:     1,
		VoteConflicts: 2,
		ByMethod:      map[model.Method]int{model.MethodUnresolved: 4},
	}
	result := scorer.Calculate(sum, 5)

	got := make(map[model.SignalType]model.SignalSeverity)
	for _, s := range result.Signals {
		got[s.Type] = s.Severity
	}

	want := map[model.SignalType]model.SignalSeverity{
		model.SignalDatingCoverage:   model.SeverityWarning,
		model.SignalUnresolved:       model.SeverityWarning,
		model.SignalOutOfRange:       model.SeverityWarning,
		model.SignalVoteConflicts:    model.SeverityInfo,
		model.SignalUndatedRulerKeys: model.SeverityInfo,
	}
	for typ, sev := range want {
		if got[typ] != sev {
			t.Errorf("signal %s: expected %s, got %q", typ, sev, got[typ])
		}
	}
}
