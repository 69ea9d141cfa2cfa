package spec

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/clintab/clintab/internal/model"
)

// DefaultSpecFile is the default specification file name.
const DefaultSpecFile = "report.yaml"

// fileSpec is the YAML shape of a specification file. It exists only to
// decode; Load converts it into a Specification through the Builder so
// YAML-loaded and code-built specifications validate identically.
type fileSpec struct {
	Title       string            `yaml:"title"`
	Subtitle    string            `yaml:"subtitle"`
	Data        string            `yaml:"data"`
	Rules       []fileRule        `yaml:"rules"`
	Merges      []Merge           `yaml:"merges"`
	Labels      map[string]string `yaml:"labels"`
	Spanners    []Spanner         `yaml:"spanners"`
	Hide        []Selector        `yaml:"hide"`
	MissingText string            `yaml:"missing_text"`
	Footnotes   []string          `yaml:"footnotes"`
	AutoLabel   bool              `yaml:"auto_label"`
}

// fileRule is the YAML shape of one rule; the role is spelled by its
// canonical name ("percentage", "p-value", ...).
type fileRule struct {
	Role   string   `yaml:"role"`
	Select Selector `yaml:"select"`
	Format Format   `yaml:"format"`
}

// Load parses a specification from YAML data.
func Load(data []byte) (*Specification, error) {
	var fs fileSpec
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("failed to parse specification: %w", err)
	}

	b := NewBuilder(fs.Title).
		Subtitle(fs.Subtitle).
		Data(fs.Data).
		MissingText(fs.MissingText).
		AutoLabel(fs.AutoLabel)

	for i, r := range fs.Rules {
		role, err := model.ParseRole(r.Role)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		b.Rule(r.Select, role, r.Format)
	}
	for _, m := range fs.Merges {
		b.Merge(m.Primary, m.Secondary)
	}
	for column, label := range fs.Labels {
		b.Label(column, label)
	}
	for _, sp := range fs.Spanners {
		b.Spanner(sp.Label, sp.Columns...)
	}
	b.Hide(fs.Hide...)
	for _, note := range fs.Footnotes {
		b.Footnote(note)
	}

	return b.Build()
}

// LoadFile loads a specification from a YAML file. A missing file is
// ErrSpecNotFound so callers can distinguish it from a malformed one.
func LoadFile(path string) (*Specification, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided spec path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrSpecNotFound)
		}
		return nil, err
	}

	s, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// FindFile searches for a specification file in the following order:
// 1. If specPath is specified, use it directly
// 2. Look for report.yaml in the current directory
// 3. Look for report.yaml in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindFile(specPath string) string {
	if specPath != "" {
		if _, err := os.Stat(specPath); err == nil {
			return specPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdSpec := filepath.Join(cwd, DefaultSpecFile)
		if _, err := os.Stat(cwdSpec); err == nil {
			return cwdSpec
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeSpec := filepath.Join(home, DefaultSpecFile)
		if _, err := os.Stat(homeSpec); err == nil {
			return homeSpec
		}
	}

	return ""
}
