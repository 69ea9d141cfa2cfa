package spec

import "strings"

// Selector picks columns from a dataset header by explicit name, name
// prefix, or name suffix. The three forms may be combined; a column
// matches when any set form matches it.
//
// Selectors exist only inside an uncompiled specification. Compile
// resolves every selector once against a concrete header, and nothing
// downstream of compilation ever matches on column names again.
type Selector struct {
	// Names lists columns by exact name. Every listed name must exist
	// in the dataset the specification is compiled against.
	Names []string `yaml:"columns,omitempty"`

	// Prefix matches columns whose name starts with it.
	Prefix string `yaml:"prefix,omitempty"`

	// Suffix matches columns whose name ends with it, e.g. "_pct" for
	// every percentage column.
	Suffix string `yaml:"suffix,omitempty"`
}

// Columns creates a selector naming columns explicitly.
func Columns(names ...string) Selector {
	return Selector{Names: names}
}

// Prefix creates a selector matching columns by name prefix.
func Prefix(prefix string) Selector {
	return Selector{Prefix: prefix}
}

// Suffix creates a selector matching columns by name suffix.
func Suffix(suffix string) Selector {
	return Selector{Suffix: suffix}
}

// IsZero reports whether no form of the selector is set.
func (s Selector) IsZero() bool {
	return len(s.Names) == 0 && s.Prefix == "" && s.Suffix == ""
}

// matches reports whether the selector picks the given column name.
func (s Selector) matches(column string) bool {
	for _, name := range s.Names {
		if name == column {
			return true
		}
	}
	if s.Prefix != "" && strings.HasPrefix(column, s.Prefix) {
		return true
	}
	if s.Suffix != "" && strings.HasSuffix(column, s.Suffix) {
		return true
	}
	return false
}
