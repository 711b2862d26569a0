package types

import "github.com/m-mizutani/goerr/v2"

// SourceType identifies the provenance of a dataset
type SourceType string

const (
	SourceTypeQatarOpenData     SourceType = "qatar_open_data"
	SourceTypeCorporateDocument SourceType = "corporate_document"
	SourceTypeGlobalSource      SourceType = "global_source"
)

// AllSourceTypes returns all valid source types
func AllSourceTypes() []SourceType {
	return []SourceType{
		SourceTypeQatarOpenData,
		SourceTypeCorporateDocument,
		SourceTypeGlobalSource,
	}
}

// IsValid checks if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypeQatarOpenData, SourceTypeCorporateDocument, SourceTypeGlobalSource:
		return true
	default:
		return false
	}
}

// String returns the string representation of the source type
func (s SourceType) String() string {
	return string(s)
}

// ParseSourceType parses a string into a SourceType
func ParseSourceType(s string) (SourceType, error) {
	st := SourceType(s)
	if !st.IsValid() {
		return "", goerr.New("invalid source type", goerr.V("source_type", s))
	}
	return st, nil
}
