package service

import "strings"

// Theme is one entry of a themes answer.
type Theme struct {
	Topic       string
	Description string
	Documents   []string
}

// ParseThemes reads THEME:/DESCRIPTION:/DOCUMENTS: blocks separated by "---".
// Blocks without a topic are dropped.
func ParseThemes(answer string) []Theme {
	var themes []Theme
	for _, section := range strings.Split(answer, "---") {
		var th Theme
		for _, line := range strings.Split(section, "\n") {
			line = strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
			line = strings.TrimLeft(line, "-* ")
			switch {
			case strings.HasPrefix(line, "THEME:"):
				th.Topic = strings.TrimSpace(strings.TrimPrefix(line, "THEME:"))
			case strings.HasPrefix(line, "DESCRIPTION:"):
				th.Description = strings.TrimSpace(strings.TrimPrefix(line, "DESCRIPTION:"))
			case strings.HasPrefix(line, "DOCUMENTS:"):
				th.Documents = splitList(strings.TrimPrefix(line, "DOCUMENTS:"))
			}
		}
		if th.Topic != "" {
			themes = append(themes, th)
		}
	}
	return themes
}

func splitList(s string) []string {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
