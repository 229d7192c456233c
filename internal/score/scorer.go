// Package score computes the dating-coverage index of a run and the
// diagnostic signals behind it.
package score

import (
	"fmt"

	"github.com/ppiankov/shiji/internal/model"
)

// Scorer calculates the coverage index and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate derives the coverage breakdown from the counters of a summary.
// undated is the number of distinct ruler keys in the timeline.
func (s *Scorer) Calculate(sum *model.Summary, undated int) model.Coverage {
	index, coverage := s.calculateCoverage(sum)
	signals := []model.Signal{coverage}

	if sig, ok := s.detectUnresolved(sum); ok {
		signals = append(signals, sig)
	}
	if sig, ok := s.detectOutOfRange(sum); ok {
		signals = append(signals, sig)
	}
	if sig, ok := s.detectVoteConflicts(sum); ok {
		signals = append(signals, sig)
	}
	if undated > 0 {
		signals = append(signals, model.Signal{
			Type:        model.SignalUndatedRulerKeys,
			Severity:    model.SeverityInfo,
			Description: fmt.Sprintf("%d ruler keys indexed without an absolute year", undated),
			Data:        map[string]interface{}{"ruler_keys": undated},
		})
	}

	return model.Coverage{Index: index, Signals: signals}
}

// calculateCoverage returns the share of recorded mentions carrying an
// absolute year (0-100)
func (s *Scorer) calculateCoverage(sum *model.Summary) (int, model.Signal) {
	if sum.Mentions == 0 {
		return 0, model.Signal{
			Type:        model.SignalDatingCoverage,
			Severity:    model.SeverityCritical,
			Description: "No year mentions recorded",
			Data:        map[string]interface{}{"mentions": 0},
		}
	}

	ratio := float64(sum.Dated) / float64(sum.Mentions)
	index := sum.Dated * 100 / sum.Mentions

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityCritical
	} else if ratio < 0.8 {
		severity = model.SeverityWarning
	}

	return index, model.Signal{
		Type:        model.SignalDatingCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("Dated mentions: %d/%d (%d%%)", sum.Dated, sum.Mentions, index),
		Data: map[string]interface{}{
			"dated":    sum.Dated,
			"mentions": sum.Mentions,
			"ratio":    ratio,
			"formula":  "dated * 100 / mentions",
		},
	}
}

func (s *Scorer) detectUnresolved(sum *model.Summary) (model.Signal, bool) {
	n := sum.ByMethod[model.MethodUnresolved]
	if n == 0 {
		return model.Signal{}, false
	}
	severity := model.SeverityInfo
	if sum.Mentions > 0 && n*10 > sum.Mentions {
		severity = model.SeverityWarning
	}
	return model.Signal{
		Type:        model.SignalUnresolved,
		Severity:    severity,
		Description: fmt.Sprintf("%d mentions have no ruler attribution", n),
		Data:        map[string]interface{}{"unresolved": n, "mentions": sum.Mentions},
	}, true
}

func (s *Scorer) detectOutOfRange(sum *model.Summary) (model.Signal, bool) {
	if sum.OutOfRange == 0 && sum.Recovered == 0 {
		return model.Signal{}, false
	}
	severity := model.SeverityInfo
	if sum.OutOfRange > sum.Recovered {
		severity = model.SeverityWarning
	}
	return model.Signal{
		Type:     model.SignalOutOfRange,
		Severity: severity,
		Description: fmt.Sprintf("Out-of-range years: %d recovered, %d kept without a year",
			sum.Recovered, sum.OutOfRange),
		Data: map[string]interface{}{
			"recovered": sum.Recovered,
			"dropped":   sum.OutOfRange,
		},
	}, true
}

func (s *Scorer) detectVoteConflicts(sum *model.Summary) (model.Signal, bool) {
	if sum.VoteConflicts == 0 {
		return model.Signal{}, false
	}
	return model.Signal{
		Type:        model.SignalVoteConflicts,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("%d short titles without a unanimous chapter vote", sum.VoteConflicts),
		Data: map[string]interface{}{
			"conflicts":   sum.VoteConflicts,
			"corrections": sum.CorrectionsApplied,
		},
	}, true
}
