// ABOUTME: Evaluation runner: asks each scenario in a fresh chat session and scores it
// ABOUTME: Collects per-scenario results into a report that can be exported as JSON

package ragas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/answerbot/internal/chat"
	"github.com/harper/answerbot/internal/models"
)

// Answerer answers one question within a session; *chat.Service satisfies it
type Answerer interface {
	Respond(ctx context.Context, sess *chat.Session, model models.ChatModel, question string) (*models.Turn, error)
}

// Runner executes evaluation scenarios against the answering stack
type Runner struct {
	answerer     Answerer
	model        models.ChatModel
	systemPrompt string
	metrics      *MetricsCalculator
	logger       *log.Logger
}

// NewRunner creates a runner for model; a nil logger uses the default logger
func NewRunner(answerer Answerer, model models.ChatModel, systemPrompt string, logger *log.Logger) (*Runner, error) {
	if answerer == nil {
		return nil, errors.New("answerer is required")
	}
	if !model.Valid() {
		return nil, fmt.Errorf("%w: %d", models.ErrUnknownChatModel, int(model))
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		answerer:     answerer,
		model:        model,
		systemPrompt: systemPrompt,
		metrics:      NewMetricsCalculator(),
		logger:       logger,
	}, nil
}

// Run asks the scenario's warm-up turns and question in a fresh session and
// scores the final answer against the prompt the model was given. Failures
// of the answering stack are reported as an ERROR result, not returned.
func (r *Runner) Run(ctx context.Context, scenario Scenario) Result {
	sess := chat.NewSession(r.systemPrompt)
	r.logger.Debug("running scenario", "id", scenario.ID, "session", sess.ID())

	var cost float64
	for i, question := range scenario.Turns {
		turn, err := r.answerer.Respond(ctx, sess, r.model, question)
		if err != nil {
			return r.failed(scenario, cost, fmt.Errorf("turn %d: %w", i+1, err))
		}
		cost += turn.Cost
	}

	turn, err := r.answerer.Respond(ctx, sess, r.model, scenario.Question)
	if err != nil {
		return r.failed(scenario, cost, err)
	}
	cost += turn.Cost

	result := r.metrics.Evaluate(scenario, turn.Answer, []string{turn.Prompt})
	result.Model = r.model.String()
	result.Cost = cost

	r.logger.Info("scenario scored",
		"id", scenario.ID,
		"status", result.Status,
		"faithfulness", result.FaithfulnessScore,
		"context_recall", result.ContextRecallScore)
	return result
}

func (r *Runner) failed(scenario Scenario, cost float64, err error) Result {
	r.logger.Error("scenario failed", "id", scenario.ID, "err", err)
	return Result{
		ScenarioID:   scenario.ID,
		ScenarioName: scenario.Name,
		Model:        r.model.String(),
		Status:       StatusError,
		Cost:         cost,
		ErrorMessage: err.Error(),
	}
}

// RunAll runs scenarios in order, stopping early only if ctx is done
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) ([]Result, error) {
	results := make([]Result, 0, len(scenarios))
	for _, scenario := range scenarios {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, r.Run(ctx, scenario))
	}
	return results, nil
}

// Report summarizes a set of results
type Report struct {
	Timestamp string   `json:"timestamp"`
	Total     int      `json:"total"`
	Passed    int      `json:"passed"`
	Failed    int      `json:"failed"`
	TotalCost float64  `json:"total_cost"`
	Results   []Result `json:"results"`
}

// Summarize counts passes and failures; ERROR results count as failures
func Summarize(results []Result) Report {
	report := Report{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Total:     len(results),
		Results:   results,
	}
	for _, result := range results {
		if result.Status == StatusPass {
			report.Passed++
		} else {
			report.Failed++
		}
		report.TotalCost += result.Cost
	}
	return report
}

// ExportReport writes the report as indented JSON
func ExportReport(report Report, outputPath string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
