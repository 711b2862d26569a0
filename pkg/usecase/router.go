package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/diar-analytics/majlis/pkg/domain/prompt"
	"github.com/diar-analytics/majlis/pkg/domain/types"
	"github.com/diar-analytics/majlis/pkg/utils/logging"
)

// broadMarkers are phrases that indicate a question spans domains. Matching
// any of them routes to the full council without consulting the domain
// classifier.
var broadMarkers = []string{
	"overall",
	"big picture",
	"holistic",
	"across sectors",
	"all sectors",
	"strategy across",
	"implications",
	"state of the economy",
	"economy and",
	"long-term outlook",
	"diversification",
}

// domainKeywords drive the heuristic stage of the domain classifier. Scores
// are keyword hit counts; a unique maximum wins without a model call.
var domainKeywords = map[types.AgentDomain][]string{
	types.AgentDomainRealEstate: {
		"real estate", "property", "properties", "land", "construction",
		"building permit", "freehold", "ownership", "rent", "residential",
		"commercial space", "lusail", "the pearl",
	},
	types.AgentDomainTourism: {
		"tourism", "tourist", "hotel", "occupancy", "visitor", "hospitality",
		"cruise", "arrivals", "events", "world cup", "museum",
	},
	types.AgentDomainFinance: {
		"gdp", "inflation", "economic", "economy", "finance", "financial",
		"investment", "credit", "interest rate", "capital", "budget", "fiscal",
	},
	types.AgentDomainInfrastructure: {
		"infrastructure", "transport", "metro", "road", "utility", "utilities",
		"electricity", "power", "water", "cooling", "port", "airport",
	},
}

// Router decides which experts answer a question. The breadth check is a
// keyword heuristic; domain selection tries keywords first and escalates to
// the classifier model only on ambiguity.
type Router struct {
	experts    []*Expert
	classifier ModelBinding
}

// RouteResult is the routing decision for one query: the strategy and the
// experts to dispatch, in canonical order.
type RouteResult struct {
	Strategy types.Strategy
	Experts  []*Expert
}

// NewRouter builds a router over the council's experts. The classifier
// binding is optional; without it, ambiguous domain questions route to the
// full council.
func NewRouter(experts []*Expert, classifier ModelBinding) (*Router, error) {
	if len(experts) == 0 {
		return nil, goerr.New("at least one expert is required")
	}
	byDomain := map[types.AgentDomain]bool{}
	for _, e := range experts {
		if byDomain[e.Spec().Domain] {
			return nil, goerr.New("duplicate expert domain", goerr.V("domain", e.Spec().Domain))
		}
		byDomain[e.Spec().Domain] = true
	}

	return &Router{experts: experts, classifier: classifier}, nil
}

// Route classifies the query and selects experts. Broad questions and
// undecidable domain questions get the full panel; a clear domain match gets
// exactly one expert.
func (r *Router) Route(ctx context.Context, query string) (*RouteResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, goerr.New("query is empty")
	}

	if r.isBroad(query) {
		return &RouteResult{Strategy: types.StrategyMultiAgent, Experts: r.experts}, nil
	}

	domain, decided := r.classifyDomain(ctx, query)
	if !decided {
		return &RouteResult{Strategy: types.StrategyMultiAgent, Experts: r.experts}, nil
	}

	for _, e := range r.experts {
		if e.Spec().Domain == domain {
			return &RouteResult{Strategy: types.StrategySingleAgent, Experts: []*Expert{e}}, nil
		}
	}

	// Classifier picked a domain no expert covers; fall back to the panel.
	logging.From(ctx).Warn("no expert for classified domain, using full council",
		"domain", domain)
	return &RouteResult{Strategy: types.StrategyMultiAgent, Experts: r.experts}, nil
}

func (r *Router) isBroad(query string) bool {
	q := strings.ToLower(query)
	for _, marker := range broadMarkers {
		if strings.Contains(q, marker) {
			return true
		}
	}

	// Keyword hits in several domains also read as broad.
	domains := 0
	for _, keywords := range domainKeywords {
		for _, kw := range keywords {
			if strings.Contains(q, kw) {
				domains++
				break
			}
		}
	}
	return domains >= 3
}

// classifyDomain returns the best-fit domain and whether the decision is
// confident. An error from the classifier model is treated as indecision,
// never surfaced: routing must not fail a consult call.
func (r *Router) classifyDomain(ctx context.Context, query string) (types.AgentDomain, bool) {
	if domain, ok := keywordDomain(query); ok {
		return domain, true
	}

	if !r.classifier.Bound() {
		return "", false
	}

	domain, err := r.classifyWithModel(ctx, query)
	if err != nil {
		logging.From(ctx).Warn("domain classifier failed, falling back to full council",
			"error", err)
		return "", false
	}
	return domain, domain != ""
}

// keywordDomain scores each domain by keyword hits and returns the winner
// when it is unique.
func keywordDomain(query string) (types.AgentDomain, bool) {
	q := strings.ToLower(query)

	var best types.AgentDomain
	bestScore, tied := 0, false
	for _, domain := range types.AllAgentDomains() {
		score := 0
		for _, kw := range domainKeywords[domain] {
			if strings.Contains(q, kw) {
				score++
			}
		}
		switch {
		case score > bestScore:
			best, bestScore, tied = domain, score, false
		case score == bestScore && score > 0:
			tied = true
		}
	}

	if bestScore == 0 || tied {
		return "", false
	}
	return best, true
}

type domainClassification struct {
	Domain string `json:"domain"`
}

var classifierSchema = &gollem.Parameter{
	Type:        gollem.TypeObject,
	Description: "Expert domain classification of a business question",
	Properties: map[string]*gollem.Parameter{
		"domain": {
			Type:        gollem.TypeString,
			Description: "One of: real_estate, tourism, finance, infrastructure, undecided",
			Required:    true,
		},
	},
}

func (r *Router) classifyWithModel(ctx context.Context, query string) (types.AgentDomain, error) {
	session, err := r.classifier.Client.NewSession(ctx,
		gollem.WithSessionSystemPrompt(prompt.ClassifierSystem()),
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(classifierSchema),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create classifier session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(query))
	if err != nil {
		return "", goerr.Wrap(err, "classifier generation failed")
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("classifier returned no content")
	}

	var result domainClassification
	if err := json.Unmarshal([]byte(resp.Texts[0]), &result); err != nil {
		return "", goerr.Wrap(err, "failed to parse classifier response",
			goerr.V("response", resp.Texts[0]))
	}

	if result.Domain == "undecided" || result.Domain == "" {
		return "", nil
	}
	domain, err := types.ParseAgentDomain(result.Domain)
	if err != nil {
		return "", goerr.Wrap(err, "classifier returned unknown domain")
	}
	return domain, nil
}
