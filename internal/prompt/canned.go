package prompt

import "fmt"

// SummaryQuestion asks for an executive summary across all documents.
const SummaryQuestion = `Based on the loaded documents, give an executive summary that includes:
1. Main topics covered
2. Key points of each document
3. Connections between documents (if any)

Keep the summary concise but informative.`

// ThemesQuestion asks for the main themes in a parseable layout.
const ThemesQuestion = `Analyze all the loaded documents and identify the 3-5 main themes.

For each theme, provide:
1. Theme name
2. Short description
3. Documents where it appears

Response format:
THEME: [theme name]
DESCRIPTION: [short description]
DOCUMENTS: [list of documents]
---`

// CompareQuestion asks for a comparison of the documents along aspect.
func CompareQuestion(aspect string) string {
	return fmt.Sprintf(`Compare the loaded documents in terms of: %s

Provide:
1. Similarities found
2. Main differences
3. Comparative analysis

Structure your answer clearly.`, aspect)
}

// SuggestedQuestions are offered to users who have not asked anything yet.
var SuggestedQuestions = []string{
	"What are the main points of the documents?",
	"Is there contradictory information between the documents?",
	"What methodology do these documents use?",
	"What are the most important conclusions?",
	"What relevant numerical data do you find?",
}
