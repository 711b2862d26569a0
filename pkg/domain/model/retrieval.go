package model

// ScoredDataset pairs a dataset with its query similarity in [0, 1]
type ScoredDataset struct {
	Dataset    *Dataset
	Similarity float64
}

// RetrievalResult is the ordered evidence returned for one query. Entries are
// sorted by similarity descending with ID-ascending tie-breaks, and no two
// entries share a title.
type RetrievalResult struct {
	Query   string
	Results []ScoredDataset
}

// Len returns the number of retrieved datasets
func (r *RetrievalResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Results)
}

// Titles returns the titles in retrieval order
func (r *RetrievalResult) Titles() []string {
	if r == nil {
		return nil
	}
	titles := make([]string, 0, len(r.Results))
	for _, s := range r.Results {
		titles = append(titles, s.Dataset.Title)
	}
	return titles
}
