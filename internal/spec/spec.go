package spec

import (
	"fmt"

	"github.com/clintab/clintab/internal/format"
	"github.com/clintab/clintab/internal/model"
)

// Format names a cell formatter and carries its parameters. The zero
// value means "no formatter": the column's raw values pass through to
// the artifact untouched.
type Format struct {
	// Kind selects the formatter: "fixed", "signif", "integer",
	// "percent", or "" for none.
	Kind string `yaml:"kind,omitempty"`

	// Decimals is the decimal-place count for fixed and percent.
	Decimals int `yaml:"decimals,omitempty"`

	// Digits is the significant-figure count for signif.
	Digits int `yaml:"digits,omitempty"`

	// Scale multiplies percent input by 100 when true; when false the
	// data is assumed to already be in percent units.
	Scale bool `yaml:"scale,omitempty"`

	// Prefix and Suffix wrap the rendered value for integer and
	// percent, e.g. prefix " (" and suffix ")" for parenthesized
	// percentages, or "[" and "]" for bracketed counts.
	Prefix string `yaml:"prefix,omitempty"`
	Suffix string `yaml:"suffix,omitempty"`
}

// Formatter constructs the formatter the Format describes, or nil when
// Kind is empty.
func (f Format) Formatter() (format.Formatter, error) {
	switch f.Kind {
	case "":
		return nil, nil
	case "fixed":
		return format.NewFixed(f.Decimals)
	case "signif":
		return format.NewSignif(f.Digits)
	case "integer":
		return format.NewInteger(f.Prefix, f.Suffix), nil
	case "percent":
		return format.NewPercent(f.Scale, f.Decimals, f.Prefix, f.Suffix)
	default:
		return nil, fmt.Errorf("unknown formatter kind %q", f.Kind)
	}
}

// Rule assigns a role and an optional formatter to the columns its
// selector picks. Rule order is significant: when two patterns could
// match a column, the earlier rule wins.
type Rule struct {
	// Select picks the columns this rule applies to.
	Select Selector

	// Role is the semantic category attached to the matched columns.
	Role model.Role

	// Format describes the formatter applied to the matched columns.
	Format Format
}

// Merge pairs a primary column with a secondary column whose display
// strings are concatenated onto it. The secondary column is implicitly
// hidden afterwards.
type Merge struct {
	// Primary is the column that absorbs the pair's combined display.
	Primary string `yaml:"primary"`

	// Secondary is the column concatenated after the primary. A missing
	// secondary cell contributes an empty string.
	Secondary string `yaml:"secondary"`
}

// Spanner groups columns under one header band label.
type Spanner struct {
	// Label is the band text.
	Label string `yaml:"label"`

	// Columns lists the grouped columns by name.
	Columns []string `yaml:"columns"`
}

// Specification is the declarative bundle for one report: titles,
// formatting rules, merge pairs, labels, spanners, hidden columns, and
// footnotes. It is constructed once by a Builder (or loaded from YAML),
// compiled once against a dataset header, and never mutated afterwards.
type Specification struct {
	title       string
	subtitle    string
	dataPath    string
	rules       []Rule
	merges      []Merge
	labels      map[string]string
	spanners    []Spanner
	hidden      []Selector
	missingText string
	footnotes   []string
	autoLabel   bool
}

// Title returns the table title.
func (s *Specification) Title() string { return s.title }

// Subtitle returns the table subtitle, empty when none was set.
func (s *Specification) Subtitle() string { return s.subtitle }

// DataPath returns the per-report input override, empty when the report
// uses the caller-supplied dataset.
func (s *Specification) DataPath() string { return s.dataPath }

// MissingText returns the substitution string for missing cells.
func (s *Specification) MissingText() string { return s.missingText }

// Footnotes returns the ordered footnote texts. The returned slice is a
// copy.
func (s *Specification) Footnotes() []string {
	out := make([]string, len(s.footnotes))
	copy(out, s.footnotes)
	return out
}

// Builder accumulates a Specification through a fluent call chain and
// produces the immutable result with Build.
//
// Design decision: The builder collects everything first and validates
// in Build, rather than validating per call, so a specification assembled
// from config fragments reports its first problem at one well-defined
// point instead of panicking mid-chain.
type Builder struct {
	spec Specification
}

// NewBuilder starts a specification with the given table title.
func NewBuilder(title string) *Builder {
	return &Builder{
		spec: Specification{
			title:  title,
			labels: make(map[string]string),
		},
	}
}

// Subtitle sets the table subtitle.
func (b *Builder) Subtitle(subtitle string) *Builder {
	b.spec.subtitle = subtitle
	return b
}

// Data sets a per-report input file override used by batch rendering.
func (b *Builder) Data(path string) *Builder {
	b.spec.dataPath = path
	return b
}

// Rule appends a formatting rule. Rules apply in the order they are
// added; the first rule matching a column claims it.
func (b *Builder) Rule(sel Selector, role model.Role, f Format) *Builder {
	b.spec.rules = append(b.spec.rules, Rule{Select: sel, Role: role, Format: f})
	return b
}

// Merge appends a merge pair. Merges apply in the order they are added,
// and a column already merged may serve as the primary of a later pair.
func (b *Builder) Merge(primary, secondary string) *Builder {
	b.spec.merges = append(b.spec.merges, Merge{Primary: primary, Secondary: secondary})
	return b
}

// Label sets the presentation label for a column. Labels may contain
// "\n" as an explicit line-break marker for multi-line headers.
func (b *Builder) Label(column, label string) *Builder {
	b.spec.labels[column] = label
	return b
}

// Spanner appends a header band covering the named columns.
func (b *Builder) Spanner(label string, columns ...string) *Builder {
	b.spec.spanners = append(b.spec.spanners, Spanner{Label: label, Columns: columns})
	return b
}

// Hide appends selectors whose columns are dropped from the visible set.
// Hidden columns keep their data and remain addressable by name.
func (b *Builder) Hide(selectors ...Selector) *Builder {
	b.spec.hidden = append(b.spec.hidden, selectors...)
	return b
}

// MissingText sets the substitution string for missing cells. The
// default is the empty string.
func (b *Builder) MissingText(text string) *Builder {
	b.spec.missingText = text
	return b
}

// Footnote appends a source note. The text may contain the "{date}"
// placeholder, replaced with the build date when the artifact is
// produced.
func (b *Builder) Footnote(text string) *Builder {
	b.spec.footnotes = append(b.spec.footnotes, text)
	return b
}

// AutoLabel enables humanized fallback labels for columns without an
// explicit label: underscores become spaces and words are title-cased.
func (b *Builder) AutoLabel(enable bool) *Builder {
	b.spec.autoLabel = enable
	return b
}

// Build validates the accumulated specification and returns the
// immutable result. Dataset-dependent validation (selector matches,
// column existence) happens later in Compile; Build checks only what
// can be known without a header.
func (b *Builder) Build() (*Specification, error) {
	if b.spec.title == "" {
		return nil, ErrNoTitle
	}
	for i, r := range b.spec.rules {
		if r.Select.IsZero() {
			return nil, fmt.Errorf("rule %d: %w", i, ErrEmptySelector)
		}
		if _, err := r.Format.Formatter(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
	}
	for i, sel := range b.spec.hidden {
		if sel.IsZero() {
			return nil, fmt.Errorf("hide entry %d: %w", i, ErrEmptySelector)
		}
	}

	// Copy everything so later builder reuse cannot reach into the
	// returned specification.
	out := b.spec
	out.rules = append([]Rule(nil), b.spec.rules...)
	out.merges = append([]Merge(nil), b.spec.merges...)
	out.spanners = append([]Spanner(nil), b.spec.spanners...)
	out.hidden = append([]Selector(nil), b.spec.hidden...)
	out.footnotes = append([]string(nil), b.spec.footnotes...)
	out.labels = make(map[string]string, len(b.spec.labels))
	for k, v := range b.spec.labels {
		out.labels[k] = v
	}
	return &out, nil
}
