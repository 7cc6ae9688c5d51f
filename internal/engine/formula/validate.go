package formula

import "strings"

// ValidationResult reports the outcome of statically checking one formula,
// without evaluating it against live data (§4.4.6).
type ValidationResult struct {
	Empty            bool
	SyntaxError      error
	UnknownFunctions []string
	References       []string
}

// Validate parses formula and reports syntactic and structural issues. It
// never touches the Registry — reference *resolvability* is checked later, at
// evaluation time, once the dependency graph and lowered inputs are both
// available.
func Validate(formulaText string) ValidationResult {
	trimmed := strings.TrimSpace(formulaText)
	if trimmed == "" {
		return ValidationResult{Empty: true}
	}

	res := ValidationResult{References: ExtractReferences(trimmed)}

	expr, err := Parse(trimmed)
	if err != nil {
		res.SyntaxError = err
		return res
	}

	res.UnknownFunctions = collectUnknownFunctions(expr)
	return res
}

func collectUnknownFunctions(e Expr) []string {
	var out []string
	var walk func(Expr)
	walk = func(n Expr) {
		switch v := n.(type) {
		case *callExpr:
			if _, ok := functionLibrary[v.name]; !ok {
				out = append(out, v.name)
			}
			for _, a := range v.args {
				walk(a)
			}
		case *binaryExpr:
			walk(v.l)
			walk(v.r)
		case *unaryExpr:
			walk(v.x)
		}
	}
	walk(e)
	return out
}
