package usecase

import (
	"testing"

	"github.com/m-mizutani/gt"
)

func TestUnresolvedCitations(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		sources int
		want    []int
	}{
		{
			name:    "all in range",
			text:    "Occupancy rose [1] while arrivals fell [2].",
			sources: 3,
			want:    nil,
		},
		{
			name:    "out of range",
			text:    "See [1], [4] and [12].",
			sources: 2,
			want:    []int{4, 12},
		},
		{
			name:    "zero is never valid",
			text:    "As shown in [0].",
			sources: 5,
			want:    []int{0},
		},
		{
			name:    "no sources at all",
			text:    "Based on [1].",
			sources: 0,
			want:    []int{1},
		},
		{
			name:    "duplicates reported once",
			text:    "[7] then [7] again.",
			sources: 2,
			want:    []int{7},
		},
		{
			name:    "no citations",
			text:    "The data is insufficient for a sourced answer.",
			sources: 0,
			want:    nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := unresolvedCitations(tc.text, tc.sources)
			if tc.want == nil {
				gt.Array(t, got).Length(0)
				return
			}
			gt.Array(t, got).Equal(tc.want)
		})
	}
}
