package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"mathlab/internal/numfmt"
)

// Markdown renders r as a short markdown report suitable for a terminal
// markdown renderer.
func (r Result) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", r.Type)
	fmt.Fprintf(&sb, "%s\n\n", r.ChatSummary)

	fields := []struct{ name, value string }{
		{"Domain", r.Analysis.Domain},
		{"Range", r.Analysis.Range},
		{"Derivative", r.Analysis.Derivative},
		{"Symmetry", r.Analysis.Symmetry},
		{"Graph", r.Graph.Expression},
	}
	wrote := false
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(&sb, "- **%s:** `%s`\n", f.name, f.value)
		wrote = true
	}

	points := []struct {
		name string
		pts  []Point
	}{
		{"Roots", r.KeyPoints.Roots},
		{"Intersections", r.KeyPoints.Intersections},
		{"Critical points", r.KeyPoints.CriticalPoints},
	}
	if r.KeyPoints.Vertex.Valid {
		fmt.Fprintf(&sb, "- **Vertex:** %s\n", formatPoint(r.KeyPoints.Vertex.Point))
		wrote = true
	}
	for _, p := range points {
		if len(p.pts) == 0 {
			continue
		}
		items := make([]string, len(p.pts))
		for i, q := range p.pts {
			items[i] = formatPoint(q)
		}
		fmt.Fprintf(&sb, "- **%s:** %s\n", p.name, strings.Join(items, ", "))
		wrote = true
	}
	if wrote {
		sb.WriteString("\n")
	}

	sb.WriteString("### Steps\n\n")
	sb.WriteString(escapeListMarker(r.ExplanationSteps))
	sb.WriteString("\n")
	return sb.String()
}

func formatPoint(p Point) string {
	return fmt.Sprintf("(%s, %s)", numfmt.Format(p.X), numfmt.Format(p.Y))
}

// listMarker matches a leading "1)" that markdown would read as an ordered
// list item and renumber.
var listMarker = regexp.MustCompile(`^(\d+)\)`)

func escapeListMarker(steps string) string {
	return listMarker.ReplaceAllString(steps, `$1\)`)
}
