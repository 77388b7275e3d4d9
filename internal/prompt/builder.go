package prompt

import "strings"

const template = `You are a specialized PDF analysis assistant. Answer concisely and directly.

Context from multiple documents: {{context}}

Question: {{question}}

IMPORTANT instructions:
- You MUST analyze ALL the different documents provided in the context
- If there are CVs, schedules, risk analyses or other kinds of documents, mention information from EACH ONE
- Clearly identify which information comes from which file
- Do NOT focus on a single type of document
- If the question is general, give information from ALL the available files

Answer:`

// Build renders the prompt for question over an assembled context. Both
// values are interpolated verbatim.
func Build(structuredContext, question string) string {
	r := strings.NewReplacer("{{context}}", structuredContext, "{{question}}", question)
	return r.Replace(template)
}
