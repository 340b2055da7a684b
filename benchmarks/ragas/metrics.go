// ABOUTME: RAGAS-style faithfulness and context recall for contract answers
// ABOUTME: Deterministic scoring against each scenario's ground truth

package ragas

import (
	"fmt"
	"strings"
)

// PassThreshold is the minimum score on both metrics for a scenario to pass
const PassThreshold = 0.9

// Result statuses
const (
	StatusPass  = "PASS"
	StatusFail  = "FAIL"
	StatusError = "ERROR"
)

// Result is the scored outcome of one scenario
type Result struct {
	ScenarioID         string  `json:"scenario_id"`
	ScenarioName       string  `json:"scenario_name"`
	Model              string  `json:"model,omitempty"`
	FaithfulnessScore  float64 `json:"faithfulness"`
	ContextRecallScore float64 `json:"context_recall"`
	OverallScore       float64 `json:"overall"`
	Status             string  `json:"status"`
	FaithfulnessDetail string  `json:"faithfulness_detail,omitempty"`
	RecallDetail       string  `json:"recall_detail,omitempty"`
	Answer             string  `json:"answer,omitempty"`
	Cost               float64 `json:"cost"`
	ErrorMessage       string  `json:"error,omitempty"`
}

// MetricsCalculator computes scores for evaluated answers
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateFaithfulness computes faithfulness score (0.0-1.0)
// Faithfulness = does the answer carry the expected facts and none of the forbidden ones?
func (m *MetricsCalculator) CalculateFaithfulness(
	response string,
	expectedInResponse []string,
	forbiddenInResponse []string,
) (float64, string) {
	_, missing := matchFold(response, expectedInResponse)
	forbidden, _ := matchFold(response, forbiddenInResponse)

	switch {
	case len(missing) == 0 && len(forbidden) == 0:
		return 1.0, "Perfect faithfulness - answer matches ground truth"
	case len(missing) > 0 && len(forbidden) > 0:
		return 0.0, fmt.Sprintf("Faithfulness failure - missing %v, forbidden found %v", missing, forbidden)
	case len(missing) > 0:
		return 0.5, fmt.Sprintf("Partial faithfulness - missing %v", missing)
	default:
		return 0.5, fmt.Sprintf("Partial faithfulness - forbidden found %v", forbidden)
	}
}

// CalculateContextRecall computes context recall score (0.0-1.0)
// Context Recall = did the expected contract text reach the prompt?
func (m *MetricsCalculator) CalculateContextRecall(
	retrievedContext []string,
	expectedContextItems []string,
) (float64, string) {
	if len(expectedContextItems) == 0 {
		return 1.0, "No context retrieval required"
	}

	found, missing := matchFold(strings.Join(retrievedContext, " "), expectedContextItems)
	recall := float64(len(found)) / float64(len(expectedContextItems))
	if len(missing) == 0 {
		return 1.0, "Perfect context recall - all expected items in prompt"
	}
	return recall, fmt.Sprintf("Partial context recall (%.2f) - missing %v", recall, missing)
}

// matchFold splits items by whether text contains them, ignoring case
func matchFold(text string, items []string) (found, missing []string) {
	upper := strings.ToUpper(text)
	for _, item := range items {
		if strings.Contains(upper, strings.ToUpper(item)) {
			found = append(found, item)
		} else {
			missing = append(missing, item)
		}
	}
	return found, missing
}

// Evaluate scores a scenario's final answer and the context the model saw
func (m *MetricsCalculator) Evaluate(scenario Scenario, answer string, context []string) Result {
	faithfulness, faithfulnessDetail := m.CalculateFaithfulness(
		answer,
		scenario.GroundTruth.ExpectedInResponse,
		scenario.GroundTruth.ForbiddenInResponse,
	)

	recall, recallDetail := m.CalculateContextRecall(
		context,
		scenario.GroundTruth.ExpectedContextItems,
	)

	status := StatusFail
	if faithfulness >= PassThreshold && recall >= PassThreshold {
		status = StatusPass
	}

	return Result{
		ScenarioID:         scenario.ID,
		ScenarioName:       scenario.Name,
		FaithfulnessScore:  faithfulness,
		ContextRecallScore: recall,
		OverallScore:       (faithfulness + recall) / 2.0,
		Status:             status,
		FaithfulnessDetail: faithfulnessDetail,
		RecallDetail:       recallDetail,
		Answer:             answer,
	}
}
