// Package prompt assembles retrieved chunks into source-labelled context and
// renders the model prompt around it.
package prompt

import (
	"fmt"
	"strings"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
)

// MaxChunksPerSource caps how many chunks of one document enter the context.
const MaxChunksPerSource = 3

const sectionHeader = "\n--- Document: %s ---\n"

// AssembleContext renders one labelled section per source, in set order,
// holding at most MaxChunksPerSource chunk contents each.
func AssembleContext(set domain.RetrievalSet) string {
	var sb strings.Builder
	for _, src := range set.Sources {
		chunks := set.Chunks[src]
		if len(chunks) > MaxChunksPerSource {
			chunks = chunks[:MaxChunksPerSource]
		}
		contents := make([]string, len(chunks))
		for i, c := range chunks {
			contents[i] = c.Content
		}
		fmt.Fprintf(&sb, sectionHeader, src)
		sb.WriteString(strings.Join(contents, "\n"))
		sb.WriteString("\n")
	}
	return sb.String()
}
