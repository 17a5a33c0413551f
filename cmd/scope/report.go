package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/wippyai/scope/internal/demo"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))
)

func render(style lipgloss.Style, s string, styled bool) string {
	if !styled {
		return s
	}
	return style.Render(s)
}

func renderReport(rep demo.Report, styled bool) string {
	var b strings.Builder

	b.WriteString(render(titleStyle, rep.Scenario, styled))
	if rep.Duration > 0 {
		fmt.Fprintf(&b, " %s", rep.Duration.Round(time.Microsecond))
	}
	b.WriteString("\n")

	for _, st := range rep.Steps {
		b.WriteString("  ")
		b.WriteString(render(actionStyle, fmt.Sprintf("%-12s", st.Action), styled))
		if st.Err != nil {
			b.WriteString(render(errorStyle, st.Err.Error(), styled))
		} else {
			b.WriteString(st.Detail)
		}
		b.WriteString("\n")
	}

	if rep.OK() {
		b.WriteString(render(okStyle, "  ok", styled))
	} else {
		b.WriteString(render(errorStyle, "  FAILED: "+rep.Err.Error(), styled))
	}
	b.WriteString("\n")
	return b.String()
}

func renderReports(reports []demo.Report, styled bool) string {
	var b strings.Builder
	for _, rep := range reports {
		b.WriteString(renderReport(rep, styled))
		b.WriteString("\n")
	}
	return b.String()
}

// renderMetrics prints every sample gathered from reg, one per line.
func renderMetrics(reg prometheus.Gatherer, styled bool) (string, error) {
	families, err := reg.Gather()
	if err != nil {
		return "", err
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			lines = append(lines, fmt.Sprintf("%s%s %g", mf.GetName(), labels(m), value(mf.GetType(), m)))
		}
	}
	sort.Strings(lines)

	var b strings.Builder
	b.WriteString(render(helpStyle, "metrics", styled))
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString("  ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func labels(m *dto.Metric) string {
	if len(m.GetLabel()) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		parts = append(parts, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func value(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	default:
		return 0
	}
}
