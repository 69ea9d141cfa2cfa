package spec

import (
	"fmt"
	"strings"

	"github.com/clintab/clintab/internal/format"
	"github.com/clintab/clintab/internal/model"
)

// ColumnPlan is the compiled assignment for one dataset column: its
// role, its formatter (nil when no rule claimed it), its resolved label
// lines, and whether the specification hides it.
type ColumnPlan struct {
	// Name is the dataset column name.
	Name string

	// Role is the semantic category from the claiming rule, RoleNone
	// when no rule matched.
	Role model.Role

	// Formatter is the formatter from the claiming rule, nil when the
	// rule carried no format or no rule matched.
	Formatter format.Formatter

	// Label holds the explicit label lines, nil when the column has no
	// label entry. The relabel stage fills the fallback.
	Label []string

	// Hidden reports whether the hide selectors cover this column.
	// Merge secondaries become hidden during the pipeline, not here.
	Hidden bool
}

// Compiled is a specification resolved against a concrete column list.
// Every selector has been matched, every referenced column verified,
// and every formatter constructed; the pipeline consumes it without
// further validation.
type Compiled struct {
	// Spec is the specification this plan was compiled from.
	Spec *Specification

	// Columns holds one plan per dataset column, in dataset order.
	Columns []ColumnPlan

	// Merges are the validated merge pairs, in specification order.
	Merges []Merge

	// Spanners are the validated header bands with their column sets
	// reordered to dataset column order.
	Spanners []Spanner

	// AutoLabel reports whether unlabeled columns get humanized labels.
	AutoLabel bool
}

// Plan returns the compiled plan for the named column.
func (c *Compiled) Plan(name string) (ColumnPlan, bool) {
	for _, p := range c.Columns {
		if p.Name == name {
			return p, true
		}
	}
	return ColumnPlan{}, false
}

// Compile resolves the specification against an ordered dataset header.
//
// Resolution rules: rules apply in order and the first rule matching a
// column claims it; a rule that ends up claiming no column at all is
// ErrSelectorNoMatch; two rules that name the same column explicitly are
// ErrDuplicateRule; merge pairs, labels, spanners, and explicit
// selector names referencing absent columns are ErrUnknownColumn. Any
// error aborts compilation with no partial plan.
func (s *Specification) Compile(columns []string) (*Compiled, error) {
	if len(columns) == 0 {
		return nil, model.ErrNoColumns
	}

	index := make(map[string]int, len(columns))
	for i, name := range columns {
		index[name] = i
	}

	// Explicit selector names must exist before any matching happens,
	// so a typo surfaces as an unknown column rather than a silent
	// non-match.
	for i, r := range s.rules {
		for _, name := range r.Select.Names {
			if _, ok := index[name]; !ok {
				return nil, fmt.Errorf("rule %d column %q: %w", i, name, ErrUnknownColumn)
			}
		}
	}
	for i, sel := range s.hidden {
		for _, name := range sel.Names {
			if _, ok := index[name]; !ok {
				return nil, fmt.Errorf("hide entry %d column %q: %w", i, name, ErrUnknownColumn)
			}
		}
	}

	plans := make([]ColumnPlan, len(columns))
	for i, name := range columns {
		plans[i] = ColumnPlan{Name: name, Role: model.RoleNone}
	}

	// claimedBy maps column index to the rule that claimed it.
	claimedBy := make(map[int]int, len(columns))

	for ri, r := range s.rules {
		formatter, err := r.Format.Formatter()
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", ri, err)
		}

		matched := 0
		for ci, name := range columns {
			if !r.Select.matches(name) {
				continue
			}
			if prev, taken := claimedBy[ci]; taken {
				// Overlapping patterns resolve to the earlier rule;
				// explicitly naming an already-claimed column is a
				// configuration error.
				if containsName(r.Select.Names, name) {
					return nil, fmt.Errorf("rule %d and rule %d both claim column %q: %w",
						prev, ri, name, ErrDuplicateRule)
				}
				continue
			}
			claimedBy[ci] = ri
			plans[ci].Role = r.Role
			plans[ci].Formatter = formatter
			matched++
		}

		if matched == 0 {
			return nil, fmt.Errorf("rule %d: %w", ri, ErrSelectorNoMatch)
		}
	}

	// Hide selectors must cover at least one column each; hiding is
	// set-union so overlap between entries is fine.
	for i, sel := range s.hidden {
		matched := 0
		for ci, name := range columns {
			if sel.matches(name) {
				plans[ci].Hidden = true
				matched++
			}
		}
		if matched == 0 {
			return nil, fmt.Errorf("hide entry %d: %w", i, ErrSelectorNoMatch)
		}
	}

	for i, m := range s.merges {
		if _, ok := index[m.Primary]; !ok {
			return nil, fmt.Errorf("merge %d primary %q: %w", i, m.Primary, ErrUnknownColumn)
		}
		if _, ok := index[m.Secondary]; !ok {
			return nil, fmt.Errorf("merge %d secondary %q: %w", i, m.Secondary, ErrUnknownColumn)
		}
	}

	for column, label := range s.labels {
		ci, ok := index[column]
		if !ok {
			return nil, fmt.Errorf("label for %q: %w", column, ErrUnknownColumn)
		}
		plans[ci].Label = strings.Split(label, "\n")
	}

	spanners := make([]Spanner, 0, len(s.spanners))
	for i, sp := range s.spanners {
		for _, column := range sp.Columns {
			if _, ok := index[column]; !ok {
				return nil, fmt.Errorf("spanner %q column %q: %w", sp.Label, column, ErrUnknownColumn)
			}
		}
		if len(sp.Columns) == 0 {
			return nil, fmt.Errorf("spanner %d (%q): %w", i, sp.Label, ErrSelectorNoMatch)
		}

		// Band members keep the dataset's column order regardless of
		// how the specification listed them.
		ordered := make([]string, 0, len(sp.Columns))
		for _, name := range columns {
			if containsName(sp.Columns, name) {
				ordered = append(ordered, name)
			}
		}
		spanners = append(spanners, Spanner{Label: sp.Label, Columns: ordered})
	}

	return &Compiled{
		Spec:      s,
		Columns:   plans,
		Merges:    append([]Merge(nil), s.merges...),
		Spanners:  spanners,
		AutoLabel: s.autoLabel,
	}, nil
}

// containsName reports whether names contains name.
func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
