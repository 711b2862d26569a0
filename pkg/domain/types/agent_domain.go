package types

import "github.com/m-mizutani/goerr/v2"

// AgentDomain identifies one of the four canonical expert domains
type AgentDomain string

const (
	AgentDomainRealEstate     AgentDomain = "real_estate"
	AgentDomainTourism        AgentDomain = "tourism"
	AgentDomainFinance        AgentDomain = "finance"
	AgentDomainInfrastructure AgentDomain = "infrastructure"
)

// AllAgentDomains returns the four canonical domains in their routing order
func AllAgentDomains() []AgentDomain {
	return []AgentDomain{
		AgentDomainRealEstate,
		AgentDomainTourism,
		AgentDomainFinance,
		AgentDomainInfrastructure,
	}
}

// IsValid checks if the agent domain is valid
func (d AgentDomain) IsValid() bool {
	switch d {
	case AgentDomainRealEstate, AgentDomainTourism, AgentDomainFinance, AgentDomainInfrastructure:
		return true
	default:
		return false
	}
}

// String returns the string representation of the agent domain
func (d AgentDomain) String() string {
	return string(d)
}

// Category returns the dataset category an expert of this domain retrieves from
func (d AgentDomain) Category() Category {
	switch d {
	case AgentDomainRealEstate:
		return CategoryRealEstate
	case AgentDomainTourism:
		return CategoryTourism
	case AgentDomainFinance:
		return CategoryEconomic
	case AgentDomainInfrastructure:
		return CategoryInfrastructure
	default:
		return ""
	}
}

// ParseAgentDomain parses a string into an AgentDomain
func ParseAgentDomain(s string) (AgentDomain, error) {
	d := AgentDomain(s)
	if !d.IsValid() {
		return "", goerr.New("invalid agent domain", goerr.V("domain", s))
	}
	return d, nil
}
