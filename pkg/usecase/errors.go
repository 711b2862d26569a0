package usecase

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrAllExpertsFailed is returned when no selected expert produced an
	// analysis. A decision artifact without any analysis is meaningless.
	ErrAllExpertsFailed = goerr.New("all expert analyses failed")

	// ErrSynthesisFailed is returned when the synthesis call fails in
	// multi-agent mode. The artifact is contractually a decision sheet, so
	// this is not degradable.
	ErrSynthesisFailed = goerr.New("synthesis failed")
)
