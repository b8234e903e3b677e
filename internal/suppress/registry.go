package suppress

import (
	"context"

	"hush/internal/diag"
	"hush/internal/lang"
	"hush/internal/workspace"
)

// Strategy is the per-language suppression capability. One implementation
// exists per supported language; the mechanism (in-source pragma vs.
// external list) is selected later via the equivalence key, not by the
// strategy lookup.
type Strategy interface {
	Language() lang.Language
	// CanSuppress reports whether the strategy can handle the given
	// diagnostic set.
	CanSuppress(diags []diag.Diagnostic) bool
	// Provider returns the all-occurrences provider that aggregates many
	// individual fixes into one multi-document edit.
	Provider() FixProvider
}

// FixProvider computes one aggregated multi-document edit for a language
// group. The equivalence key identifies the suppression mechanism; every
// invocation within one operation receives the same key so compatible
// fixes batch together.
type FixProvider interface {
	ComputeFix(ctx context.Context, snap *workspace.Snapshot, mapping DocDiagnostics, equivalenceKey string) (*EditSet, error)
}

// Registry maps languages to their suppression strategies.
type Registry struct {
	strategies map[lang.Language]Strategy
}

func NewRegistry() *Registry {
	return &Registry{strategies: make(map[lang.Language]Strategy)}
}

// Register adds a strategy, replacing any previous one for its language.
func (r *Registry) Register(s Strategy) {
	r.strategies[s.Language()] = s
}

// SuppressionFixer resolves the strategy for a language and diagnostic
// set. Returns nil when the language has no registered strategy or the
// strategy declines the set; the caller skips such groups silently.
func (r *Registry) SuppressionFixer(language lang.Language, diags []diag.Diagnostic) Strategy {
	s, ok := r.strategies[language]
	if !ok {
		return nil
	}
	if !s.CanSuppress(diags) {
		return nil
	}
	return s
}

// DefaultRegistry returns a registry with a strategy for every fixable
// language.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, l := range lang.All() {
		if l.Fixable() {
			r.Register(NewStrategy(l))
		}
	}
	return r
}
