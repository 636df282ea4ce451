package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"

	"fabriq/internal/chart"
	"fabriq/internal/store"
)

// Result is the harvest of one sandbox run. A failed run reports Err with
// empty output; it never invalidates the text answer already shown.
type Result struct {
	Output string
	Chart  *chart.Spec
	Err    error
}

// Runner executes rewritten snippets in a yaegi interpreter with a fixed
// contract: exactly one input binding (salesdata.Records), a chart builder
// (charts.Bar/Line), captured stdout, a bounded wall clock, and an import
// whitelist that blocks filesystem, network, and process access.
type Runner struct {
	timeout time.Duration
	log     *zap.Logger
}

// DefaultTimeout bounds a single snippet execution.
const DefaultTimeout = 10 * time.Second

// allowedImports is the package whitelist for interpreted code. salesdata
// and charts are the host-provided bindings; the rest are side-effect-free
// stdlib packages.
//
// Explicitly blocked: os, os/exec, io, net, net/http, syscall, unsafe.
var allowedImports = map[string]bool{
	"strings":       true,
	"strconv":       true,
	"fmt":           true,
	"math":          true,
	"sort":          true,
	"time":          true,
	"regexp":        true,
	"bytes":         true,
	"unicode":       true,
	"encoding/json": true,

	"salesdata": true,
	"charts":    true,
}

// NewRunner builds a Runner. A zero timeout falls back to DefaultTimeout.
func NewRunner(timeout time.Duration, log *zap.Logger) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{timeout: timeout, log: log}
}

// ExtractAndRun pulls the first fenced code block out of a fallback
// response and executes it. ok is false when the response carries no code,
// in which case nothing ran.
func (r *Runner) ExtractAndRun(ctx context.Context, responseText string, records []store.SalesRecord) (Result, bool) {
	code, ok := ExtractCode(responseText)
	if !ok {
		return Result{}, false
	}
	return r.Run(ctx, code, records), true
}

// Run rewrites and executes one snippet against records. Any failure,
// including panics inside interpreted code, is converted into Result.Err
// rather than propagating.
func (r *Runner) Run(ctx context.Context, code string, records []store.SalesRecord) Result {
	code = Rewrite(code)

	if err := validateImports(code); err != nil {
		return Result{Err: fmt.Errorf("invalid imports: %w", err)}
	}
	program := wrapProgram(code)

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var stdout bytes.Buffer
	i := interp.New(interp.Options{Stdout: &stdout, Stderr: &stdout})
	if err := i.Use(stdlib.Symbols); err != nil {
		return Result{Err: fmt.Errorf("failed to load stdlib: %w", err)}
	}
	if err := i.Use(hostExports(records)); err != nil {
		return Result{Err: fmt.Errorf("failed to load host bindings: %w", err)}
	}

	done := make(chan Result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- Result{Err: fmt.Errorf("sandbox panic: %v", p)}
			}
		}()

		// Evaluating a package-main program also invokes main.
		if _, err := i.Eval(program); err != nil {
			done <- Result{Err: fmt.Errorf("code evaluation failed: %w", err)}
			return
		}
		done <- Result{Output: stdout.String(), Chart: harvestChart(i)}
	}()

	select {
	case res := <-done:
		if res.Err != nil {
			r.log.Warn("sandbox run failed", zap.Error(res.Err))
		}
		return res
	case <-ctx.Done():
		r.log.Warn("sandbox run timed out", zap.Duration("timeout", r.timeout))
		return Result{Err: fmt.Errorf("sandbox execution timed out: %w", ctx.Err())}
	}
}

// hostExports exposes the record collection and the chart constructors to
// interpreted code. Input is a read-only slice, output is a plain data
// object; no handles to the host cross the boundary.
func hostExports(records []store.SalesRecord) interp.Exports {
	return interp.Exports{
		"salesdata/salesdata": {
			"Records": reflect.ValueOf(records),
			"Num":     reflect.ValueOf(store.Num),
			"Record":  reflect.ValueOf((*store.SalesRecord)(nil)),
		},
		"charts/charts": {
			"Bar":  reflect.ValueOf(chart.Bar),
			"Line": reflect.ValueOf(chart.Line),
			"Spec": reflect.ValueOf((*chart.Spec)(nil)),
		},
	}
}

// harvestChart looks for the conventional chart binding left in scope by
// the snippet, in either script or package form.
func harvestChart(i *interp.Interpreter) *chart.Spec {
	for _, name := range []string{"chart", "main.chart"} {
		v, err := i.Eval(name)
		if err != nil || !v.IsValid() {
			continue
		}
		if spec, ok := v.Interface().(*chart.Spec); ok {
			return spec
		}
	}
	return nil
}

// validateImports rejects snippets importing anything off the whitelist,
// before a single line is interpreted.
func validateImports(code string) error {
	var forbidden []string
	imports, _ := splitImports(code)
	for _, pkg := range imports {
		if !allowedImports[pkg] {
			forbidden = append(forbidden, pkg)
		}
	}
	if len(forbidden) > 0 {
		return fmt.Errorf("forbidden imports: %s", strings.Join(forbidden, ", "))
	}
	return nil
}

// splitImports hoists the snippet's import clause, returning the imported
// paths and the remaining lines.
func splitImports(code string) ([]string, string) {
	var imports []string
	var body []string
	inBlock := false
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "import ("):
			inBlock = true
		case inBlock && strings.HasPrefix(trimmed, ")"):
			inBlock = false
		case inBlock, strings.HasPrefix(trimmed, "import "):
			pkg := trimmed
			if i := strings.Index(pkg, `"`); i >= 0 {
				if j := strings.LastIndex(pkg, `"`); j > i {
					pkg = pkg[i+1 : j]
				}
			}
			pkg = strings.Trim(pkg, `"`)
			if pkg != "" {
				imports = append(imports, pkg)
			}
		default:
			body = append(body, line)
		}
	}
	return imports, strings.Join(body, "\n")
}

// chartBinding matches the conventional chart assignment at the start of a
// line, in := , = and var forms, without touching comparisons.
var chartBinding = regexp.MustCompile(`(?m)^(\s*)(?:var\s+)?chart\s*(?::=|=)([^=])`)

// wrapProgram turns a script-form snippet into a complete program. Model
// output usually arrives as bare statements with an optional import
// clause; yaegi accepts either a full source file or a lone statement,
// not the mix. The imports are hoisted into a proper file header, unused
// ones dropped, the host bindings added when referenced, and the
// statements become the body of main. The conventional chart binding is
// promoted to a package variable so it survives the call.
func wrapProgram(code string) string {
	if strings.Contains(code, "package main") {
		return code
	}
	imports, body := splitImports(code)
	imports = append(imports, "salesdata", "charts")

	seen := map[string]bool{}
	var used []string
	for _, pkg := range imports {
		base := pkg
		if i := strings.LastIndex(base, "/"); i >= 0 {
			base = base[i+1:]
		}
		if seen[pkg] || !strings.Contains(body, base+".") {
			continue
		}
		seen[pkg] = true
		used = append(used, pkg)
	}
	sort.Strings(used)

	body = chartBinding.ReplaceAllString(body, "${1}chart =${2}")

	var b strings.Builder
	b.WriteString("package main\n\n")
	if len(used) > 0 {
		b.WriteString("import (\n")
		for _, pkg := range used {
			fmt.Fprintf(&b, "\t%q\n", pkg)
		}
		b.WriteString(")\n\n")
	}
	b.WriteString("var chart interface{}\n\nfunc main() {\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String()
}
