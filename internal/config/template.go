package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Template is a string-valued HCL expression captured at load time and
// rendered per run, so `${run.branch}` style placeholders are substituted
// with the variables of the run that executes the step.
type Template struct {
	expr hcl.Expression
}

// NewTemplate wraps a raw HCL expression.
func NewTemplate(expr hcl.Expression) Template {
	return Template{expr: expr}
}

// Parse builds a template from an inline string, honoring the same
// ${run.*} placeholder syntax as loaded definitions. It is the constructor
// used when a definition is assembled in code rather than loaded from HCL.
// A string that fails to parse as a template is treated as a literal.
func Parse(s string) Template {
	expr, diags := hclsyntax.ParseTemplate([]byte(s), "inline", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return Template{expr: hcl.StaticExpr(cty.StringVal(s), hcl.Range{})}
	}
	return Template{expr: expr}
}

// IsZero reports whether the template holds no expression at all.
func (t Template) IsZero() bool {
	return t.expr == nil
}

// Render evaluates the template against the given run variables, exposed to
// the expression as the `run` object.
func (t Template) Render(vars map[string]string) (string, error) {
	if t.expr == nil {
		return "", fmt.Errorf("template has no expression")
	}

	runVals := make(map[string]cty.Value, len(vars))
	for k, v := range vars {
		runVals[k] = cty.StringVal(v)
	}
	runObj := cty.EmptyObjectVal
	if len(runVals) > 0 {
		runObj = cty.ObjectVal(runVals)
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"run": runObj},
	}

	val, diags := t.expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", fmt.Errorf("failed to render template: %w", diags)
	}

	val, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("template did not produce a string: %w", err)
	}
	if val.IsNull() {
		return "", fmt.Errorf("template produced a null value")
	}
	return val.AsString(), nil
}
