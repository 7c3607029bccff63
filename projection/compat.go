package projection

import (
	"fmt"
	"groqkit/common"
	"strings"

	"github.com/pkg/errors"
)

// Compatible checks that every field of summary appears in full with the
// same kind and source path, recursing into sub-projections.
func Compatible(summary, full Fragment) error {
	if summary.Type != full.Type {
		return errors.Errorf("compare %s with %s", summary.Type, full.Type)
	}
	problems := compareFields("", summary.Fields, full.Fields)
	if len(problems) == 0 {
		return nil
	}
	return errors.Wrapf(common.ErrProjectionDrift, "%s: %s", summary.Type, strings.Join(problems, "; "))
}

func compareFields(prefix string, sub, super []Field) []string {
	problems := []string{}
	index := map[string]Field{}
	for _, f := range super {
		index[f.Name] = f
	}
	for _, f := range sub {
		name := prefix + f.Name
		g, ok := index[f.Name]
		if !ok {
			problems = append(problems, fmt.Sprintf("%s missing", name))
			continue
		}
		if f.kind != g.kind {
			problems = append(problems, fmt.Sprintf("%s is %s in summary but %s in full", name, f.kind, g.kind))
			continue
		}
		if f.Path != g.Path || f.expr != g.expr {
			problems = append(problems, fmt.Sprintf("%s selects %q in summary but %q in full", name, f.Path, g.Path))
			continue
		}
		if f.target != g.target {
			problems = append(problems, fmt.Sprintf("%s expands %s in summary but %s in full", name, f.target, g.target))
			continue
		}
		problems = append(problems, compareFields(name+".", f.fields, g.fields)...)
	}
	return problems
}

// CompatibleText performs the subset check on rendered projection text,
// comparing top-level keys only.
func CompatibleText(summary, full string) error {
	subNames, err := ParseFieldNames(summary)
	if err != nil {
		return errors.Wrap(err, "parse summary")
	}
	superNames, err := ParseFieldNames(full)
	if err != nil {
		return errors.Wrap(err, "parse full")
	}
	have := map[string]bool{}
	for _, n := range superNames {
		have[n] = true
	}
	missing := []string{}
	for _, n := range subNames {
		if !have[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return errors.Wrapf(common.ErrProjectionDrift, "missing %s", strings.Join(missing, ", "))
	}
	return nil
}
