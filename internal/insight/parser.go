package insight

import (
	"strings"

	"wellness-survey-service/internal/domain"
)

const (
	summaryMarker = "Summary:"
	// fallbackSummary is reported when the reply carried no recognizable
	// bullets and no summary line.
	fallbackSummary = "No distinct summary provided by AI."
)

// ParseReply splits a free-form model reply into ordered recommendations and
// a summary, line by line in a single pass. The rules are deliberately
// permissive and order-sensitive:
//
//  1. A line starting with "Summary:" becomes the summary; everything after
//     that line is ignored, even if it looks like a bullet.
//  2. Before the summary line, hyphen bullets are collected as-is; non-empty
//     lines without a hyphen are collected too (models frequently drop the
//     marker on wrapped bullets).
//  3. "**" emphasis markers are stripped everywhere.
//  4. If nothing was classified at all, the whole reply becomes a single
//     recommendation with a fixed placeholder summary.
func ParseReply(text string) domain.RecommendationResult {
	var recommendations []string
	summary := ""
	summaryFound := false

	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(stripped, summaryMarker):
			if !summaryFound {
				summary = stripMarkers(strings.TrimSpace(stripped[len(summaryMarker):]))
				summaryFound = true
			}
		case summaryFound:
			// Anything after the summary line is dropped.
		case stripped != "":
			recommendations = append(recommendations, stripMarkers(stripped))
		}
	}

	if len(recommendations) == 0 && summary == "" {
		return domain.RecommendationResult{
			Recommendations: []string{stripMarkers(strings.TrimSpace(text))},
			Summary:         fallbackSummary,
		}
	}
	return domain.RecommendationResult{Recommendations: recommendations, Summary: summary}
}

func stripMarkers(s string) string {
	return strings.ReplaceAll(s, "**", "")
}
