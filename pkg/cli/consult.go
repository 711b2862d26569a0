package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/diar-analytics/majlis/pkg/domain/model"
)

func cmdConsult() *cli.Command {
	var question string
	var cfg councilConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "question",
			Aliases:     []string{"q"},
			Usage:       "Question to put to the council",
			Required:    true,
			Destination: &question,
		},
	}
	flags = append(flags, cfg.flags()...)

	return &cli.Command{
		Name:    "consult",
		Aliases: []string{"c"},
		Usage:   "Ask the council one question and print the decision",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			council, _, closer, err := cfg.build(ctx)
			if err != nil {
				return err
			}
			defer closer()

			decision, err := council.Consult(ctx, question)
			if err != nil {
				return goerr.Wrap(err, "consult failed")
			}

			renderDecision(decision)
			return nil
		},
	}
}

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	agentColor   = color.New(color.FgGreen, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
	warningColor = color.New(color.FgYellow)
)

func renderDecision(d *model.CouncilDecision) {
	out := os.Stdout

	headerColor.Fprintf(out, "Decision %s (%s)\n", d.ID, d.Strategy)
	fmt.Fprintf(out, "Q: %s\n", d.Question)

	for _, analysis := range d.ExpertAnalyses {
		fmt.Fprintln(out)
		agentColor.Fprintf(out, "%s — %s\n", analysis.Agent.Name, analysis.Agent.Title)
		dimColor.Fprintf(out, "domain: %s | model: %s | sources: %d\n",
			analysis.Agent.Category, analysis.ModelID, analysis.Sources.Len())
		fmt.Fprintln(out, analysis.Text)
	}

	if d.DeepReasoning != nil {
		fmt.Fprintln(out)
		headerColor.Fprintln(out, "Deep Reasoning")
		dimColor.Fprintf(out, "model: %s\n", d.DeepReasoning.ModelID)
		fmt.Fprintln(out, d.DeepReasoning.Text)
	}

	for _, debate := range d.Debates {
		fmt.Fprintln(out)
		headerColor.Fprintf(out, "Debate: %s\n", debate.Topic)
		for _, pos := range debate.Positions {
			fmt.Fprintf(out, "  %s: %s\n", pos.AgentName, pos.Stance)
		}
	}

	if d.FinalSynthesis != nil {
		fmt.Fprintln(out)
		headerColor.Fprintln(out, "CEO Decision Sheet")
		dimColor.Fprintf(out, "model: %s\n", d.FinalSynthesis.ModelID)
		fmt.Fprintln(out, d.FinalSynthesis.Text)
	}

	fmt.Fprintln(out)
	headerColor.Fprintln(out, "Data Transparency")
	fmt.Fprintf(out, "total sources: %d\n", d.Transparency.TotalSources)
	for agent, count := range d.Transparency.PerAgentSources {
		fmt.Fprintf(out, "  %s: %d\n", agent, count)
	}
	for _, src := range d.Transparency.TopSources {
		fmt.Fprintf(out, "  [%dx] %s (%s, confidence %d%%)\n",
			src.CitedBy, src.Title, src.Category, src.Confidence)
	}

	if len(d.Warnings) > 0 {
		fmt.Fprintln(out)
		warningColor.Fprintln(out, "Warnings")
		for _, w := range d.Warnings {
			label := string(w.Stage)
			if w.Agent != "" {
				label += "/" + w.Agent
			}
			warningColor.Fprintf(out, "  %s: %s\n", label, strings.TrimSpace(w.Message))
		}
	}
}
