package retrieval

import (
	"fmt"
	"strings"

	"github.com/diar-analytics/majlis/pkg/domain/model"
)

// descriptionLimit is how many runes of a dataset description make it into
// the prompt context.
const descriptionLimit = 200

// BuildContext renders a retrieval result as the numbered evidence block
// passed to expert prompts. Entry [i] is 1-based and matches the citation
// indices the expert is instructed to emit, so inline [i] citations in
// analysis text resolve against the same ordering.
func BuildContext(result *model.RetrievalResult) string {
	if result == nil || len(result.Results) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, scored := range result.Results {
		d := scored.Dataset
		fmt.Fprintf(&sb, "[%d] %s\n", i+1, d.Title)
		fmt.Fprintf(&sb, "    Category: %s | Confidence: %d%% | Relevance: %.2f\n",
			d.Category, d.Confidence, scored.Similarity)
		if desc := truncate(d.Description, descriptionLimit); desc != "" {
			fmt.Fprintf(&sb, "    %s\n", desc)
		}
	}
	return sb.String()
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
