package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/diar-analytics/majlis/pkg/domain/model"
	"github.com/diar-analytics/majlis/pkg/usecase"
	"github.com/diar-analytics/majlis/pkg/utils/errutil"
	"github.com/diar-analytics/majlis/pkg/utils/safe"
)

type consultRequest struct {
	Question string `json:"question"`
}

type sourceResponse struct {
	Title      string  `json:"title"`
	Category   string  `json:"category"`
	Confidence int     `json:"confidence"`
	Similarity float64 `json:"similarity"`
}

type analysisResponse struct {
	AgentName  string           `json:"agent_name"`
	AgentTitle string           `json:"agent_title"`
	Category   string           `json:"category"`
	ModelID    string           `json:"model_id"`
	Text       string           `json:"analysis_text"`
	Sources    []sourceResponse `json:"sources"`
}

type modelTextResponse struct {
	ModelID string `json:"model_id"`
	Text    string `json:"text"`
}

type debatePositionResponse struct {
	AgentName string `json:"agent_name"`
	Stance    string `json:"stance"`
}

type debateResponse struct {
	Topic     string                   `json:"topic"`
	Positions []debatePositionResponse `json:"positions"`
}

type topSourceResponse struct {
	Title      string `json:"title"`
	Category   string `json:"category"`
	Confidence int    `json:"confidence"`
	CitedBy    int    `json:"cited_by"`
}

type transparencyResponse struct {
	TotalSources    int                 `json:"total_sources"`
	PerAgentSources map[string]int      `json:"per_agent_source_counts"`
	TopSources      []topSourceResponse `json:"top_sources"`
}

type warningResponse struct {
	Stage   string `json:"stage"`
	Agent   string `json:"agent,omitempty"`
	Message string `json:"message"`
}

type decisionResponse struct {
	ID             string               `json:"decision_id"`
	Question       string               `json:"question"`
	Strategy       string               `json:"strategy"`
	ExpertAnalyses []analysisResponse   `json:"expert_analyses"`
	DeepReasoning  *modelTextResponse   `json:"deep_reasoning,omitempty"`
	Debates        []debateResponse     `json:"debates"`
	FinalSynthesis *modelTextResponse   `json:"final_synthesis,omitempty"`
	Transparency   transparencyResponse `json:"data_transparency"`
	Warnings       []warningResponse    `json:"warnings"`
	CreatedAt      time.Time            `json:"created_at"`
}

func consultHandler(council ConsultUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		defer safe.Close(ctx, r.Body)

		var req consultRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Question) == "" {
			errutil.HandleHTTP(ctx, w, goerr.New("question is required"), http.StatusBadRequest)
			return
		}

		decision, err := council.Consult(ctx, req.Question)
		if err != nil {
			status := http.StatusBadGateway
			if errors.Is(err, usecase.ErrAllExpertsFailed) || errors.Is(err, usecase.ErrSynthesisFailed) {
				status = http.StatusServiceUnavailable
			}
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "consult failed"), status)
			return
		}

		writeJSON(ctx, w, toDecisionResponse(decision))
	}
}

func toDecisionResponse(d *model.CouncilDecision) decisionResponse {
	resp := decisionResponse{
		ID:        string(d.ID),
		Question:  d.Question,
		Strategy:  d.Strategy.String(),
		Debates:   make([]debateResponse, 0, len(d.Debates)),
		Warnings:  make([]warningResponse, 0, len(d.Warnings)),
		CreatedAt: d.CreatedAt,
	}

	for _, analysis := range d.ExpertAnalyses {
		a := analysisResponse{
			AgentName:  analysis.Agent.Name,
			AgentTitle: analysis.Agent.Title,
			Category:   analysis.Agent.Category.String(),
			ModelID:    analysis.ModelID,
			Text:       analysis.Text,
			Sources:    make([]sourceResponse, 0, analysis.Sources.Len()),
		}
		if analysis.Sources != nil {
			for _, scored := range analysis.Sources.Results {
				a.Sources = append(a.Sources, sourceResponse{
					Title:      scored.Dataset.Title,
					Category:   scored.Dataset.Category.String(),
					Confidence: scored.Dataset.Confidence,
					Similarity: scored.Similarity,
				})
			}
		}
		resp.ExpertAnalyses = append(resp.ExpertAnalyses, a)
	}

	if d.DeepReasoning != nil {
		resp.DeepReasoning = &modelTextResponse{ModelID: d.DeepReasoning.ModelID, Text: d.DeepReasoning.Text}
	}
	if d.FinalSynthesis != nil {
		resp.FinalSynthesis = &modelTextResponse{ModelID: d.FinalSynthesis.ModelID, Text: d.FinalSynthesis.Text}
	}

	for _, debate := range d.Debates {
		dr := debateResponse{Topic: debate.Topic}
		for _, pos := range debate.Positions {
			dr.Positions = append(dr.Positions, debatePositionResponse{
				AgentName: pos.AgentName,
				Stance:    pos.Stance,
			})
		}
		resp.Debates = append(resp.Debates, dr)
	}

	resp.Transparency = transparencyResponse{
		TotalSources:    d.Transparency.TotalSources,
		PerAgentSources: d.Transparency.PerAgentSources,
		TopSources:      make([]topSourceResponse, 0, len(d.Transparency.TopSources)),
	}
	for _, src := range d.Transparency.TopSources {
		resp.Transparency.TopSources = append(resp.Transparency.TopSources, topSourceResponse{
			Title:      src.Title,
			Category:   src.Category.String(),
			Confidence: src.Confidence,
			CitedBy:    src.CitedBy,
		})
	}

	for _, warning := range d.Warnings {
		resp.Warnings = append(resp.Warnings, warningResponse{
			Stage:   warning.Stage.String(),
			Agent:   warning.Agent,
			Message: warning.Message,
		})
	}

	return resp
}
