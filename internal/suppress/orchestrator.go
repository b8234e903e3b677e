package suppress

import (
	"context"
	"fmt"
	"sort"

	"hush/internal/diag"
	"hush/internal/lang"
	"hush/internal/ui"
	"hush/internal/workspace"
)

// Base labels; multi-language operations parameterize them per group.
const (
	addTitle   = "Add suppressions"
	addMessage = "Computing and applying suppressions..."
)

// ApplyOptions configures one ApplySuppressions invocation.
type ApplyOptions struct {
	// SelectedOnly restricts the operation to the user's selection.
	SelectedOnly bool
	// InSource picks the in-source pragma mechanism; false picks the
	// external suppression list.
	InSource bool
	// Scope restricts the operation to fixable projects whose hierarchy
	// handle equals this value; "" accepts every project.
	Scope string
}

// RemoveOptions configures one RemoveSuppressions invocation.
type RemoveOptions struct {
	SelectedOnly bool
	Scope        string
}

// Orchestrator coordinates one bulk suppression operation end to end:
// selection, materialization, per-language grouping, strategy resolution,
// and sequential group-by-group application with remapping against the
// snapshot each group produces.
type Orchestrator struct {
	ws       *workspace.Workspace
	source   SelectionSource
	registry *Registry
	executor Executor
	runner   ui.Runner
}

// NewOrchestrator wires the engine. source may be nil, in which case both
// entry points are silent no-ops (there is nothing to act upon).
func NewOrchestrator(ws *workspace.Workspace, source SelectionSource, registry *Registry, executor Executor, runner ui.Runner) *Orchestrator {
	if runner == nil {
		runner = &ui.PlainRunner{Quiet: true}
	}
	return &Orchestrator{
		ws:       ws,
		source:   source,
		registry: registry,
		executor: executor,
		runner:   runner,
	}
}

// ApplySuppressions runs the whole add-suppressions operation under a
// cancellable scoped operation. Cancellation and empty selections are not
// errors: the operation simply ends with the workspace untouched. Groups
// already committed stay committed when a later group is declined.
func (o *Orchestrator) ApplySuppressions(opts ApplyOptions) error {
	if o.source == nil {
		return nil
	}
	include := o.scopePredicate(opts.Scope)
	_, err := o.runner.Run(addTitle, addMessage, true, func(ctx context.Context) error {
		return o.applyAll(ctx, include, opts)
	})
	return err
}

// RemoveSuppressions is the symmetric entry point of the contract. The
// removal algorithm is intentionally not implemented: it is an extension
// point awaiting its own design, not a mirror of ApplySuppressions.
func (o *Orchestrator) RemoveSuppressions(opts RemoveOptions) error {
	if o.source == nil {
		return nil
	}
	return nil
}

// scopePredicate resolves the scope handle against the current snapshot's
// project identifiers. Without a handle, every project is accepted; with
// one, only fixable-language projects carrying that handle pass.
func (o *Orchestrator) scopePredicate(scope string) func(*workspace.Project) bool {
	if scope == "" {
		return func(*workspace.Project) bool { return true }
	}
	allowed := make(map[workspace.ProjectID]bool)
	for _, p := range o.ws.Current().Projects() {
		if p.Language().Fixable() && p.Handle() == scope {
			allowed[p.ID()] = true
		}
	}
	return func(p *workspace.Project) bool { return allowed[p.ID()] }
}

func (o *Orchestrator) applyAll(ctx context.Context, include func(*workspace.Project) bool, opts ApplyOptions) error {
	records, err := o.source.Items(ctx, Selection{
		SelectedOnly: opts.SelectedOnly,
		IsAdd:        true,
		InSource:     opts.InSource,
	})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	baseline := o.ws.Current()
	mapping, err := Materialize(ctx, baseline, records, include)
	if err != nil {
		return err
	}
	if len(mapping) == 0 {
		return nil
	}

	key := KeyInList
	if opts.InSource {
		key = KeyInSource
	}

	groups := partitionByLanguage(mapping)
	languages := sortedLanguages(groups)
	multiLanguage := len(languages) > 1

	needsRemap := false
	for _, language := range languages {
		group := groups[language]
		if needsRemap {
			group, err = remap(ctx, o.ws.Current(), group)
			if err != nil {
				return err
			}
			if len(group) == 0 {
				continue
			}
		}

		flat := flatten(group)
		strategy := o.registry.SuppressionFixer(language, flat)
		if strategy == nil {
			continue
		}

		title, message := groupLabels(multiLanguage, language)
		before := o.ws.Current()
		err = o.executor.ComputeAndApply(ctx, Request{
			Mapping:        group,
			Workspace:      o.ws,
			Strategy:       strategy,
			Provider:       strategy.Provider(),
			EquivalenceKey: key,
			Title:          title,
			Message:        message,
		})
		if err != nil {
			return err
		}
		if o.ws.Current() == before {
			// Preview declined; stop without touching remaining groups.
			return nil
		}
		needsRemap = true
	}
	return nil
}

// partitionByLanguage splits the mapping into per-language groups. The
// groups form a partition of the input: every document lands in exactly
// one group.
func partitionByLanguage(mapping DocDiagnostics) map[lang.Language]DocDiagnostics {
	out := make(map[lang.Language]DocDiagnostics)
	for doc, diags := range mapping {
		language := doc.Language()
		if out[language] == nil {
			out[language] = make(DocDiagnostics)
		}
		out[language][doc] = diags
	}
	return out
}

// sortedLanguages returns group keys in a stable order.
func sortedLanguages(groups map[lang.Language]DocDiagnostics) []lang.Language {
	out := make([]lang.Language, 0, len(groups))
	for l := range groups {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// remap re-binds a group's diagnostics against snap. Documents that no
// longer resolve drop out silently; the rest get freshly bound
// diagnostics tied to snap's document values.
func remap(ctx context.Context, snap *workspace.Snapshot, group DocDiagnostics) (DocDiagnostics, error) {
	out := make(DocDiagnostics, len(group))
	for doc, diags := range group {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fresh := snap.Document(doc.ID())
		if fresh == nil {
			continue
		}
		rebound := make([]diag.Diagnostic, 0, len(diags))
		for _, d := range diags {
			nd, err := d.Record.Bind(ctx, fresh)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				continue
			}
			rebound = append(rebound, nd)
		}
		if len(rebound) > 0 {
			out[fresh] = rebound
		}
	}
	return out, nil
}

func flatten(group DocDiagnostics) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, diags := range group {
		out = append(out, diags...)
	}
	return out
}

func groupLabels(multiLanguage bool, language lang.Language) (title, message string) {
	if !multiLanguage {
		return addTitle, addMessage
	}
	title = fmt.Sprintf("%s for %s", addTitle, language.DisplayName())
	message = fmt.Sprintf("Computing and applying suppressions for %s...", language.DisplayName())
	return title, message
}
