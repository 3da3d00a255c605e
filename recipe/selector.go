package recipe

import (
	"strings"

	"github.com/google/uuid"

	"github.com/juliasilge/embed/table"
)

// Selector picks columns out of a table at training time. Selectors are
// declared when a step is constructed and resolved against the actual
// schema when the step is fit.
type Selector interface {
	// Resolve returns the concrete column names this selector picks.
	Resolve(t *table.Table) ([]string, error)

	// String describes the unresolved selector for printing.
	String() string
}

// vars selects columns by exact name.
type vars struct {
	names []string
}

// Vars selects the named columns. Resolution fails if any is absent.
func Vars(names ...string) Selector {
	return &vars{names: names}
}

func (v *vars) Resolve(t *table.Table) ([]string, error) {
	out := make([]string, 0, len(v.names))
	for _, name := range v.names {
		if _, err := t.Column(name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

func (v *vars) String() string {
	return strings.Join(v.names, ", ")
}

// allNominal selects every categorical column, minus exclusions.
type allNominal struct {
	except []string
}

// AllNominal selects every nominal column in the table, excluding the
// given names (typically the outcome).
func AllNominal(except ...string) Selector {
	return &allNominal{except: except}
}

func (a *allNominal) Resolve(t *table.Table) ([]string, error) {
	skip := make(map[string]struct{}, len(a.except))
	for _, name := range a.except {
		skip[name] = struct{}{}
	}
	var out []string
	for _, name := range t.Names() {
		if _, drop := skip[name]; drop {
			continue
		}
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if table.Nominal(col) {
			out = append(out, name)
		}
	}
	return out, nil
}

func (a *allNominal) String() string {
	if len(a.except) == 0 {
		return "all_nominal()"
	}
	return "all_nominal(-" + strings.Join(a.except, ", -") + ")"
}

// ResolveSelectors resolves a list of selectors against a table and
// returns the union of picked columns, deduplicated, in first-seen
// order.
func ResolveSelectors(t *table.Table, sels []Selector) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, sel := range sels {
		names, err := sel.Resolve(t)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out, nil
}

// RandID generates a default step identifier: the prefix plus a short
// random suffix, e.g. "lencode_glm_1b9a4f0c".
func RandID(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + raw[:8]
}
