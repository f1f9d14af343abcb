package milestone

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed default_catalog.cue
var defaultCatalogCUE string

// CompileError reports a catalog entry that could not be read.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CompileCatalog reads every entry under the top-level "milestone" struct,
// in declaration order:
//
//	milestone: streak_7: {
//		title:     "One Week"
//		icon:      "flame"
//		kind:      "current-streak"
//		threshold: 7
//	}
//
// The struct label is the milestone ID. kind and threshold are required;
// title and icon are optional display metadata. Semantic checks (known
// kind, positive threshold, unique IDs) are left to Validate.
func CompileCatalog(v cue.Value) ([]Rule, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	root := v.LookupPath(cue.ParsePath("milestone"))
	if !root.Exists() {
		return nil, &CompileError{
			Field:   "milestone",
			Message: "catalog has no milestone struct",
			Pos:     v.Pos(),
		}
	}

	iter, err := root.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var rules []Rule
	for iter.Next() {
		rule, err := compileRule(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func compileRule(id string, v cue.Value) (Rule, error) {
	rule := Rule{ID: id}
	field := "milestone." + id

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return rule, &CompileError{Field: field + ".kind", Message: "kind is required", Pos: v.Pos()}
	}
	kind, err := kindVal.String()
	if err != nil {
		return rule, formatCUEError(err)
	}
	rule.Kind = Kind(kind)

	thrVal := v.LookupPath(cue.ParsePath("threshold"))
	if !thrVal.Exists() {
		return rule, &CompileError{Field: field + ".threshold", Message: "threshold is required", Pos: v.Pos()}
	}
	thr, err := thrVal.Int64()
	if err != nil {
		return rule, &CompileError{Field: field + ".threshold", Message: "threshold must be an integer", Pos: thrVal.Pos()}
	}
	rule.Threshold = int(thr)

	if rule.Title, err = optionalString(v, "title"); err != nil {
		return rule, err
	}
	if rule.Icon, err = optionalString(v, "icon"); err != nil {
		return rule, err
	}
	return rule, nil
}

func optionalString(v cue.Value, name string) (string, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// CompileCatalogString compiles catalog source text. filename is used in
// error positions.
func CompileCatalogString(src, filename string) ([]Rule, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	return CompileCatalog(v)
}

// LoadCatalogFile compiles and validates the catalog at path.
func LoadCatalogFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	rules, err := CompileCatalogString(string(data), path)
	if err != nil {
		return nil, err
	}
	if errs := Validate(rules); len(errs) > 0 {
		return nil, errs
	}
	return rules, nil
}

// DefaultCatalog returns the built-in award catalog.
func DefaultCatalog() []Rule {
	rules, err := CompileCatalogString(defaultCatalogCUE, "default_catalog.cue")
	if err != nil {
		panic(fmt.Sprintf("milestone: built-in catalog does not compile: %v", err))
	}
	return rules
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
