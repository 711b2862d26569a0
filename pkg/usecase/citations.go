package usecase

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/diar-analytics/majlis/pkg/domain/model"
	"github.com/diar-analytics/majlis/pkg/domain/types"
)

var citationPattern = regexp.MustCompile(`\[(\d+)\]`)

// checkCitations validates every inline [i] citation in each analysis against
// the 1-based numbering of that agent's own sources. Out-of-range citations
// become warnings; the analysis text is left untouched because it is the
// expert's verbatim output.
func checkCitations(decision *model.CouncilDecision) {
	for _, analysis := range decision.ExpertAnalyses {
		unresolved := unresolvedCitations(analysis.Text, analysis.Sources.Len())
		if len(unresolved) == 0 {
			continue
		}
		decision.Warn(types.StageCitation, analysis.Agent.Name,
			fmt.Sprintf("unresolved_citations: %v not in range 1..%d",
				unresolved, analysis.Sources.Len()))
	}
}

func unresolvedCitations(text string, sourceCount int) []int {
	seen := map[int]bool{}
	var out []int
	for _, match := range citationPattern.FindAllStringSubmatch(text, -1) {
		i, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if i >= 1 && i <= sourceCount {
			continue
		}
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}
