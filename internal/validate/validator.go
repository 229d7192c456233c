// Package validate checks the invariants of a built reign book before any
// year is resolved against it.
package validate

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/shiji/internal/model"
	"github.com/ppiankov/shiji/internal/reign"
)

// ErrAliasCollision is returned in strict mode when a variant names two rulers.
var ErrAliasCollision = errors.New("alias variant claimed by more than one ruler")

// IssueKind classifies a validation finding
type IssueKind string

const (
	IssueOpenWindow     IssueKind = "open_window"     // start_bce later than end_bce
	IssueEraOwner       IssueKind = "era_owner"       // Era without a known ruler
	IssueEraOutside     IssueKind = "era_outside"     // Era window outside its ruler's reign
	IssueAliasCollision IssueKind = "alias_collision" // Variant claimed twice; first claim kept
	IssueAliasShadowed  IssueKind = "alias_shadowed"  // Variant is itself a ruler name and never used
)

// Issue is one validation finding
type Issue struct {
	Kind     IssueKind            `json:"kind"`
	Severity model.SignalSeverity `json:"severity"`
	Subject  string               `json:"subject"`
	Detail   string               `json:"detail"`
}

// Validator checks a reign book
type Validator struct {
	tolerance int
	strict    bool
	logger    *zap.Logger
}

// NewValidator creates a validator. tolerance widens reign windows when
// checking era ownership; strict turns alias collisions into an error.
func NewValidator(tolerance int, strict bool, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{tolerance: tolerance, strict: strict, logger: logger}
}

// Validate returns every finding in a stable order. The error is non-nil only
// in strict mode when alias collisions exist.
func (v *Validator) Validate(b *reign.Book) ([]Issue, error) {
	var issues []Issue

	for _, p := range b.Periods() {
		if p.StartBCE < p.EndBCE {
			issues = append(issues, Issue{
				Kind:     IssueOpenWindow,
				Severity: model.SeverityCritical,
				Subject:  p.Name,
				Detail:   fmt.Sprintf("start %d is later than end %d", p.StartBCE, p.EndBCE),
			})
		}
	}

	for _, e := range b.Eras() {
		ruler, ok := b.Ruler(e.Ruler)
		if !ok {
			issues = append(issues, Issue{
				Kind:     IssueEraOwner,
				Severity: model.SeverityWarning,
				Subject:  e.Name,
				Detail:   fmt.Sprintf("ruler %q not in reign book", e.Ruler),
			})
			continue
		}
		if !ruler.Contains(e.StartBCE, v.tolerance) || !ruler.Contains(e.EndBCE, v.tolerance) {
			issues = append(issues, Issue{
				Kind:     IssueEraOutside,
				Severity: model.SeverityWarning,
				Subject:  e.Name,
				Detail: fmt.Sprintf("era %d-%d outside %s %d-%d",
					e.StartBCE, e.EndBCE, ruler.Name, ruler.StartBCE, ruler.EndBCE),
			})
		}
	}

	for _, c := range b.Collisions() {
		issues = append(issues, Issue{
			Kind:     IssueAliasCollision,
			Severity: model.SeverityWarning,
			Subject:  c.Variant,
			Detail:   fmt.Sprintf("kept %s, dropped %s", c.Kept, c.Dropped),
		})
	}

	for _, a := range b.Aliases() {
		if _, ok := b.Ruler(a.Variant); ok {
			issues = append(issues, Issue{
				Kind:     IssueAliasShadowed,
				Severity: model.SeverityInfo,
				Subject:  a.Variant,
				Detail:   fmt.Sprintf("direct ruler match wins over alias of %s", a.Canonical),
			})
		}
	}

	for _, is := range issues {
		v.logger.Warn("reign book issue",
			zap.String("kind", string(is.Kind)),
			zap.String("subject", is.Subject),
			zap.String("detail", is.Detail))
	}

	if n := len(b.Collisions()); v.strict && n > 0 {
		return issues, fmt.Errorf("%d variants: %w", n, ErrAliasCollision)
	}
	return issues, nil
}
