package insight

import (
	"fmt"
	"sort"
	"strings"
)

// BuildPrompt renders the instruction text sent to the model: the department,
// one line per (question, rating) pair, and a fixed block asking for hyphen
// bullets plus a trailing "Summary:" line within a 100-130 word budget.
// Ratings are emitted in question order sorted lexicographically so the
// prompt is deterministic for a given submission.
func BuildPrompt(department string, ratings map[string]int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "An employee from the %s department has provided feedback on their wellness and satisfaction.\n", department)
	sb.WriteString("Their ratings (1=Strongly Disagree, 5=Strongly Agree) are as follows:\n\n")

	questions := make([]string, 0, len(ratings))
	for question := range ratings {
		questions = append(questions, question)
	}
	sort.Strings(questions)
	for _, question := range questions {
		fmt.Fprintf(&sb, "- **%s**: %d/5\n", question, ratings[question])
	}

	sb.WriteString("\n")
	sb.WriteString("Based on these ratings, please provide specific, actionable recommendations in bullet points\n")
	fmt.Fprintf(&sb, "to help retain this employee and improve their well-being within the %s department.\n", department)
	sb.WriteString("Focus on areas where ratings are lower (e.g., 1, 2, 3) but also acknowledge strengths.\n")
	sb.WriteString("It is crucial that you include a concise summary at the end of the bullet points.\n")
	sb.WriteString("The total output (bullet points and summary combined) should be between 100 and 130 words.\n")
	sb.WriteString("Format the recommendations strictly as a bulleted list using hyphens.\n")
	sb.WriteString("Start the summary with \"Summary:\".\n")
	return sb.String()
}
