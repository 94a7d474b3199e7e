package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sozercan/kube-foundry-sub000/internal/deployment"
	"github.com/sozercan/kube-foundry-sub000/internal/provider"
	"github.com/sozercan/kube-foundry-sub000/internal/util/naming"
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorYellow = lipgloss.Color("#eab308")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

func phaseStyle(phase deployment.Phase) lipgloss.Style {
	switch phase {
	case deployment.PhaseRunning:
		return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	case deployment.PhaseFailed:
		return lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	case deployment.PhaseTerminating:
		return lipgloss.NewStyle().Foreground(colorDim).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	}
}

// renderStatus produces the human readable status. Styling is applied only
// when styled is set.
func renderStatus(s deployment.Status, styled bool) string {
	render := func(style lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return style.Render(text)
	}

	var b strings.Builder
	b.WriteString(render(titleStyle, fmt.Sprintf("%s/%s", s.Namespace, s.Name)))
	b.WriteString("  ")
	b.WriteString(render(phaseStyle(s.Phase), string(s.Phase)))
	b.WriteString("\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(render(dimStyle, fmt.Sprintf("  %-10s", label)))
		b.WriteString(" ")
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("provider", s.Provider)
	model := s.ModelID
	if s.ServedModelName != "" && s.ServedModelName != s.ModelID {
		model = fmt.Sprintf("%s (served as %s)", s.ModelID, s.ServedModelName)
	}
	row("model", model)
	row("engine", string(s.Engine))
	row("mode", string(s.Mode))
	row("replicas", fmt.Sprintf("%d/%d ready", s.Replicas.Ready, s.Replicas.Desired))
	if s.PrefillReplicas != nil {
		row("prefill", fmt.Sprintf("%d/%d ready", s.PrefillReplicas.Ready, s.PrefillReplicas.Desired))
	}
	if s.DecodeReplicas != nil {
		row("decode", fmt.Sprintf("%d/%d ready", s.DecodeReplicas.Ready, s.DecodeReplicas.Desired))
	}
	row("service", s.FrontendService)
	row("endpoint", serviceAddress(s))
	row("created", s.CreatedAt)

	if len(s.Conditions) > 0 {
		b.WriteString("\n")
		b.WriteString(render(sectionStyle, "  Conditions"))
		b.WriteString("\n")
		for _, c := range s.Conditions {
			line := fmt.Sprintf("  %-24s %-8s", c.Type, c.Status)
			if c.Reason != "" {
				line += " " + c.Reason
			}
			if c.Message != "" {
				line += ": " + c.Message
			}
			b.WriteString(strings.TrimRight(line, " "))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// serviceAddress is the in-cluster address of the frontend service.
func serviceAddress(s deployment.Status) string {
	p, err := provider.ParseName(s.Provider)
	if err != nil || s.FrontendService == "" || s.Namespace == "" {
		return ""
	}
	return naming.ServiceAddress(s.FrontendService, s.Namespace, provider.FrontendPort(p, s.Engine))
}
