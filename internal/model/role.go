package model

import "fmt"

// Role is the semantic category of a column, attached when a report
// specification is compiled against a dataset header. It replaces
// runtime string-pattern dispatch: after compilation the pipeline and
// the renderers consult the tag, never the column name.
//
// Design decision: We use iota-based constants with a String() method,
// mirroring how finding severities are modeled elsewhere in this module,
// because roles are compared and switched on in hot paths and serialized
// only at the artifact boundary.
type Role int

const (
	// RoleNone marks columns outside the formatting pipeline entirely
	// (auxiliary data such as sort keys or category markers).
	RoleNone Role = iota

	// RoleLabel marks the row-label column ("n", "Mean (SD)", AE terms).
	RoleLabel

	// RoleGroupCount marks per-group subject counts, conventionally the
	// *_n columns.
	RoleGroupCount

	// RoleRawValue marks plain analytic values with no dedicated display
	// convention; they render with fixed or significant rounding.
	RoleRawValue

	// RolePercentage marks percentage columns, conventionally *_pct,
	// displayed parenthesized next to their paired count.
	RolePercentage

	// RoleBracketedCount marks secondary integer counts displayed in
	// brackets, such as per-group adverse-event totals.
	RoleBracketedCount

	// RolePValue marks statistical test p-values.
	RolePValue
)

// String returns the canonical name of the role, matching the spelling
// accepted by ParseRole.
func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleLabel:
		return "label"
	case RoleGroupCount:
		return "group-count"
	case RoleRawValue:
		return "raw-value"
	case RolePercentage:
		return "percentage"
	case RoleBracketedCount:
		return "bracketed-count"
	case RolePValue:
		return "p-value"
	default:
		return "unknown"
	}
}

// Numeric reports whether columns with this role hold numbers before
// formatting. Renderers right-align numeric roles.
func (r Role) Numeric() bool {
	switch r {
	case RoleGroupCount, RoleRawValue, RolePercentage, RoleBracketedCount, RolePValue:
		return true
	default:
		return false
	}
}

// ParseRole converts a specification-file spelling into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "", "none":
		return RoleNone, nil
	case "label":
		return RoleLabel, nil
	case "group-count":
		return RoleGroupCount, nil
	case "raw-value":
		return RoleRawValue, nil
	case "percentage":
		return RolePercentage, nil
	case "bracketed-count":
		return RoleBracketedCount, nil
	case "p-value":
		return RolePValue, nil
	default:
		return RoleNone, fmt.Errorf("unknown column role %q", s)
	}
}

// MarshalText serializes the role by its canonical name so artifacts
// remain readable in JSON form.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses the canonical name produced by MarshalText.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
