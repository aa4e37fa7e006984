package ai

import "fmt"

// ScoringSystemPrompt is the system instruction sent with every scoring request.
const ScoringSystemPrompt = "You are a helpful relevance scoring assistant."

const scoringPromptTemplate = `User query: '%s'
Product name: '%s'

On a scale of 0 to 10 (10 is extremely relevant, 0 is not relevant), how relevant is this product to the user query based ONLY on the product name and query?
Respond with only the numerical score (e.g., 'Score: 7' or just '7').`

// BuildScoringPrompt renders the user prompt for one query and product name.
// The inputs are embedded verbatim.
func BuildScoringPrompt(query, productName string) string {
	return fmt.Sprintf(scoringPromptTemplate, query, productName)
}
