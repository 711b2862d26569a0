package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrAgentsFileNotFound = goerr.New("agents file not found")
	ErrInvalidAgentsFile  = goerr.New("invalid agents file")
)
