package tui

import (
	"fmt"
	"strings"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
	"github.com/CrisMolina12/CatchaiIA/internal/service"
)

func renderTurn(t domain.Turn) string {
	if t.Role == domain.RoleUser {
		return userStyle.Render("You: ") + t.Content + "\n"
	}
	var sb strings.Builder
	sb.WriteString(assistantStyle.Render("CatchAI: "))
	sb.WriteString(t.Content)
	sb.WriteString("\n")
	if len(t.Attributions) > 0 {
		sb.WriteString(dimStyle.Render(renderSources(t.Attributions)))
	}
	return sb.String()
}

func renderSources(attrs []domain.Attribution) string {
	var sb strings.Builder
	sb.WriteString("Sources:\n")
	for i, a := range attrs {
		page := "n/a"
		if a.PageNumber > 0 {
			page = fmt.Sprint(a.PageNumber)
		}
		fmt.Fprintf(&sb, "  [%d] %s, page %s\n", i+1, a.SourceDocument, page)
		fmt.Fprintf(&sb, "      %s...\n", strings.Join(strings.Fields(a.Excerpt), " "))
	}
	return sb.String()
}

func renderDocuments(res *domain.IngestResult) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Documents"))
	sb.WriteString("\n")
	for _, d := range res.Documents {
		fmt.Fprintf(&sb, "  %s  %d pages, %d chunks, %.2f MB\n",
			d.Name, d.PageCount, d.ChunkCount, float64(d.ByteSize)/(1024*1024))
		if d.Preview != "" {
			sb.WriteString(dimStyle.Render("    " + d.Preview))
			sb.WriteString("\n")
		}
	}
	fmt.Fprintf(&sb, "Total: %d files, %d pages, %d chunks\n", len(res.Documents), res.TotalPages(), res.TotalChunks)
	for _, s := range res.Skipped {
		fmt.Fprintf(&sb, "  skipped %s: %v\n", s.Name, s.Err)
	}
	return sb.String()
}

func renderThemes(themes []service.Theme) string {
	if len(themes) == 0 {
		return "No specific themes could be identified."
	}
	var sb strings.Builder
	for i, th := range themes {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, titleStyle.Render(th.Topic))
		if th.Description != "" {
			sb.WriteString("   " + th.Description + "\n")
		}
		if len(th.Documents) > 0 {
			sb.WriteString(dimStyle.Render("   in: "+strings.Join(th.Documents, ", ")) + "\n")
		}
	}
	return sb.String()
}
