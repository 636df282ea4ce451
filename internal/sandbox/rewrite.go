package sandbox

import (
	"regexp"
	"strings"
)

// Generated code is told to read the prebound salesdata.Records, but models
// still occasionally emit snippets that load the dataset from disk. Rewrite
// rebinds those snippets to the in-memory collection so executed code never
// needs (or gets) file-system access, and expands the one known crash-prone
// arithmetic pattern over numeric-as-text fields.

var (
	// A file read feeding the dataset: the read itself is dropped, the
	// unmarshal target becomes a binding against salesdata.Records.
	fileReadLine  = regexp.MustCompile(`(?:os|ioutil)\.(?:ReadFile|Open)\s*\(`)
	unmarshalLine = regexp.MustCompile(`json\.Unmarshal\s*\([^,]+,\s*&(\w+)\s*\)`)
	loadCallLine  = regexp.MustCompile(`(?m)^(\s*)(\w+)\s*(?::=|=)\s*(?:loadSalesData|LoadSalesData|loadData)\s*\(\s*\)`)

	// total = <price field> * <quantity field>: both operands are raw text
	// in the dataset, so the product is expanded through Num, which coerces
	// malformed values to 0 instead of failing the whole snippet.
	totalAssign = regexp.MustCompile(`(total\s*(?::=|=)\s*)([\w.\[\]"]*(?:SellingPrice|selling_price)[\w.\[\]"]*)\s*\*\s*([\w.\[\]"]*(?:QuantityMeters|quantity_meters)[\w.\[\]"]*)`)
)

// Rewrite applies the defensive snippet transforms. It is idempotent.
func Rewrite(code string) string {
	code = rewriteDataLoad(code)
	code = totalAssign.ReplaceAllString(code, "${1}salesdata.Num(${2}) * salesdata.Num(${3})")
	return code
}

func rewriteDataLoad(code string) string {
	if !fileReadLine.MatchString(code) && !loadCallLine.MatchString(code) {
		return code
	}

	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	rebound := map[string]bool{}

	for _, line := range lines {
		if m := loadCallLine.FindStringSubmatch(line); m != nil {
			out = append(out, m[1]+m[2]+" := salesdata.Records")
			rebound[m[2]] = true
			continue
		}
		if fileReadLine.MatchString(line) {
			// Drop the read entirely; the unmarshal target is rebound below.
			continue
		}
		if m := unmarshalLine.FindStringSubmatch(line); m != nil {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out, indent+m[1]+" := salesdata.Records")
			rebound[m[1]] = true
			continue
		}
		out = append(out, line)
	}

	return dropDeadDecls(stripImports(strings.Join(out, "\n"), "os", "io/ioutil", "io", "bufio"), rebound)
}

// dropDeadDecls removes `var X ...` declarations for names that were rebound
// with := so the rewritten snippet does not redeclare them.
func dropDeadDecls(code string, rebound map[string]bool) string {
	if len(rebound) == 0 {
		return code
	}
	lines := strings.Split(code, "\n")
	out := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "var ") {
			name := strings.TrimPrefix(trimmed, "var ")
			if i := strings.IndexAny(name, " \t"); i > 0 && rebound[name[:i]] {
				continue
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// stripImports removes the named packages from single-line and block import
// statements, so rewrites that delete all uses of a package do not leave an
// unused import behind.
func stripImports(code string, pkgs ...string) string {
	drop := map[string]bool{}
	for _, p := range pkgs {
		drop[p] = true
	}

	lines := strings.Split(code, "\n")
	out := lines[:0]
	inBlock := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "import ("):
			inBlock = true
		case inBlock && trimmed == ")":
			inBlock = false
		case inBlock || strings.HasPrefix(trimmed, "import "):
			if drop[strings.Trim(strings.TrimPrefix(trimmed, "import "), `"`)] {
				continue
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
