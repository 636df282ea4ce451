package sandbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabriq/internal/chart"
	"fabriq/internal/store"
)

func sandboxRecords() []store.SalesRecord {
	return []store.SalesRecord{
		{FancyName: "ERNAN", Brand: "H&M", SellingPrice: "794.31", QuantityMeters: "4434"},
		{FancyName: "VAN GOGH", Brand: "Zara", SellingPrice: "abc", QuantityMeters: "900"},
	}
}

func TestRun_PrintsCapturedOutput(t *testing.T) {
	r := NewRunner(0, nil)
	code := `import "fmt"

sum := 0.0
for _, rec := range salesdata.Records {
	sum += salesdata.Num(rec.SellingPrice)
}
fmt.Printf("total %.2f\n", sum)`

	res := r.Run(context.Background(), code, sandboxRecords())
	require.NoError(t, res.Err)
	assert.Equal(t, "total 794.31\n", res.Output)
	assert.Nil(t, res.Chart)
}

func TestRun_HarvestsChartBinding(t *testing.T) {
	r := NewRunner(0, nil)
	code := `import "charts"

chart := charts.Bar("Sales by brand", []string{"H&M", "Zara"}, []float64{794.31, 0})`

	res := r.Run(context.Background(), code, sandboxRecords())
	require.NoError(t, res.Err)
	require.NotNil(t, res.Chart)
	assert.Equal(t, chart.KindBar, res.Chart.Kind)
	assert.Equal(t, "Sales by brand", res.Chart.Title)
	assert.Equal(t, []float64{794.31, 0}, res.Chart.Values)
}

func TestRun_ScriptWithoutImportClause(t *testing.T) {
	// The host bindings are available even when the snippet never
	// imports them.
	r := NewRunner(0, nil)
	code := `chart := charts.Bar("Quantity", []string{"ERNAN"}, []float64{salesdata.Num(salesdata.Records[0].QuantityMeters)})`

	res := r.Run(context.Background(), code, sandboxRecords())
	require.NoError(t, res.Err)
	require.NotNil(t, res.Chart)
	assert.Equal(t, []float64{4434}, res.Chart.Values)
}

func TestWrapProgram(t *testing.T) {
	wrapped := wrapProgram("import \"fmt\"\n\nfmt.Println(1)")
	assert.Contains(t, wrapped, "package main")
	assert.Contains(t, wrapped, "\t\"fmt\"")
	assert.Contains(t, wrapped, "func main() {")
	assert.NotContains(t, wrapped, "salesdata", "unreferenced bindings stay out")

	// Full programs pass through untouched.
	full := "package main\n\nfunc main() {}\n"
	assert.Equal(t, full, wrapProgram(full))

	// The chart binding becomes an assignment to the package variable,
	// comparisons are left alone.
	wrapped = wrapProgram("chart := charts.Bar(\"t\", nil, nil)\nif chart == nil {\n}")
	assert.Contains(t, wrapped, "chart = charts.Bar")
	assert.Contains(t, wrapped, "chart == nil")
}

func TestRun_ForbiddenImportRejected(t *testing.T) {
	r := NewRunner(0, nil)
	for _, pkg := range []string{"os", "os/exec", "net/http", "syscall", "unsafe"} {
		code := "import \"" + pkg + "\"\n"
		res := r.Run(context.Background(), code, nil)
		require.Error(t, res.Err, "import %q must be blocked", pkg)
		assert.Contains(t, res.Err.Error(), "forbidden")
		assert.Empty(t, res.Output)
	}
}

func TestRun_FileLoadNeverExecutesWithFilesystemAccess(t *testing.T) {
	// Even if a snippet tries to read the dataset from disk, the rewrite
	// rebinds it to the in-memory records before execution.
	r := NewRunner(0, nil)
	code := `import (
	"encoding/json"
	"fmt"
	"os"
)

data, _ := os.ReadFile("sales_data.json")
var items []salesdata.Record
json.Unmarshal(data, &items)
fmt.Println(len(items))`

	res := r.Run(context.Background(), code, sandboxRecords())
	require.NoError(t, res.Err)
	assert.Equal(t, "2\n", res.Output)
}

func TestRun_EvaluationFailureIsReportedNotPropagated(t *testing.T) {
	r := NewRunner(0, nil)
	res := r.Run(context.Background(), "this is not go code {{{", nil)
	require.Error(t, res.Err)
	assert.Empty(t, res.Output)
	assert.Nil(t, res.Chart)
}

func TestRun_Timeout(t *testing.T) {
	r := NewRunner(50*time.Millisecond, nil)
	code := `import "time"

time.Sleep(2 * time.Second)`

	start := time.Now()
	res := r.Run(context.Background(), code, nil)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "timed out")
	assert.Less(t, time.Since(start), time.Second)
}

func TestRun_FullProgramMainIsInvoked(t *testing.T) {
	r := NewRunner(0, nil)
	code := `package main

import "fmt"

func main() {
	fmt.Println("hello from main")
}`
	res := r.Run(context.Background(), code, nil)
	require.NoError(t, res.Err)
	assert.Equal(t, "hello from main\n", res.Output)
}

func TestExtractAndRun(t *testing.T) {
	r := NewRunner(0, nil)

	_, ok := r.ExtractAndRun(context.Background(), "prose only, no code", nil)
	assert.False(t, ok, "no fenced block means a no-op")

	text := "Here you go:\n```go\nimport \"fmt\"\n\nfmt.Println(\"ok\")\n```"
	res, ok := r.ExtractAndRun(context.Background(), text, sandboxRecords())
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, "ok\n", res.Output)
}

func TestValidateImports(t *testing.T) {
	assert.NoError(t, validateImports("import \"fmt\"\nfmt.Println(1)"))
	assert.NoError(t, validateImports("import (\n\t\"strings\"\n\t\"salesdata\"\n)"))
	assert.Error(t, validateImports("import \"net\""))
	assert.Error(t, validateImports("import (\n\t\"fmt\"\n\t\"os/exec\"\n)"))
}
