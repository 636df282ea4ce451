// Package chart defines the in-memory chart object handed back by sandboxed
// code and renders it to a PNG for the display layer.
package chart

import "fmt"

// Kind selects the chart shape.
type Kind string

const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
)

// Spec is a renderable visualization description. Sandboxed code builds one
// through Bar or Line and assigns it to the conventional `chart` binding;
// the host harvests it after execution. Only serialized data crosses the
// boundary, never live handles.
type Spec struct {
	Kind   Kind
	Title  string
	Labels []string
	Values []float64
}

// Bar builds a bar chart spec.
func Bar(title string, labels []string, values []float64) *Spec {
	return &Spec{Kind: KindBar, Title: title, Labels: labels, Values: values}
}

// Line builds a line chart spec.
func Line(title string, labels []string, values []float64) *Spec {
	return &Spec{Kind: KindLine, Title: title, Labels: labels, Values: values}
}

// Validate rejects specs that cannot be drawn.
func (s *Spec) Validate() error {
	if s == nil {
		return fmt.Errorf("nil chart spec")
	}
	if len(s.Values) == 0 {
		return fmt.Errorf("chart has no values")
	}
	if len(s.Labels) != 0 && len(s.Labels) != len(s.Values) {
		return fmt.Errorf("chart has %d labels for %d values", len(s.Labels), len(s.Values))
	}
	switch s.Kind {
	case KindBar, KindLine:
		return nil
	default:
		return fmt.Errorf("unsupported chart kind %q", s.Kind)
	}
}
