// Package prompt holds the council's prompt assets as embedded templates.
// Keeping them as data lets personalities and instructions be versioned
// without touching orchestration code.
package prompt

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"

	"github.com/diar-analytics/majlis/pkg/domain/model"
	"github.com/diar-analytics/majlis/pkg/domain/types"
)

//go:embed templates/*.md
var templateFS embed.FS

var (
	orgContext       string
	expertTemplates  map[types.AgentDomain]*template.Template
	deepReasoningTpl *template.Template
	synthesisTpl     *template.Template
	classifierSystem string
)

func init() {
	orgContext = mustRead("templates/org_context.md")
	classifierSystem = mustRead("templates/domain_classifier.md")

	expertTemplates = map[types.AgentDomain]*template.Template{
		types.AgentDomainRealEstate:     mustParse("templates/expert_real_estate.md"),
		types.AgentDomainTourism:        mustParse("templates/expert_tourism.md"),
		types.AgentDomainFinance:        mustParse("templates/expert_finance.md"),
		types.AgentDomainInfrastructure: mustParse("templates/expert_infrastructure.md"),
	}

	deepReasoningTpl = mustParse("templates/deep_reasoning.md")
	synthesisTpl = mustParse("templates/synthesis.md")
}

func mustRead(name string) string {
	data, err := templateFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(data)
}

func mustParse(name string) *template.Template {
	return template.Must(template.New(name).Parse(mustRead(name)))
}

// ExpertSystem renders the system prompt for an expert: persona template plus
// the fixed organizational context block.
func ExpertSystem(spec *model.AgentSpec) (string, error) {
	tpl, ok := expertTemplates[spec.Domain]
	if !ok {
		return "", goerr.New("no prompt template for agent domain", goerr.V("domain", spec.Domain))
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, spec); err != nil {
		return "", goerr.Wrap(err, "failed to render expert template", goerr.V("domain", spec.Domain))
	}

	buf.WriteString("\n\n")
	buf.WriteString(orgContext)
	return buf.String(), nil
}

// ExpertQuery renders the user prompt for an expert: the numbered evidence
// block followed by the question. The numbering in contextBlock matches the
// [i] citation indices the expert is instructed to emit.
func ExpertQuery(contextBlock, question string) string {
	var sb strings.Builder

	if strings.TrimSpace(contextBlock) == "" {
		sb.WriteString("No datasets matched this question in your domain. ")
		sb.WriteString("State explicitly that the available data is insufficient, ")
		sb.WriteString("and limit yourself to what can be said without sources.\n\n")
	} else {
		sb.WriteString("Available data sources:\n\n")
		sb.WriteString(contextBlock)
		sb.WriteString("\n")
	}

	sb.WriteString("Question: ")
	sb.WriteString(question)
	return sb.String()
}

// DeepReasoningData feeds the deep reasoning template
type DeepReasoningData struct {
	Question string
	Analyses []*model.AgentAnalysis
}

// DeepReasoning renders the cross-expert reasoning prompt
func DeepReasoning(data DeepReasoningData) (string, error) {
	var buf bytes.Buffer
	if err := deepReasoningTpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render deep reasoning template")
	}
	return buf.String(), nil
}

// SynthesisData feeds the synthesis template
type SynthesisData struct {
	Question      string
	Analyses      []*model.AgentAnalysis
	DeepReasoning string
	Debates       []model.Debate
	Degraded      bool
}

// Synthesis renders the CEO Decision Sheet prompt
func Synthesis(data SynthesisData) (string, error) {
	var buf bytes.Buffer
	if err := synthesisTpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render synthesis template")
	}
	return buf.String(), nil
}

// ClassifierSystem returns the system prompt of the domain classifier
func ClassifierSystem() string {
	return classifierSystem
}
