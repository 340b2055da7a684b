// ABOUTME: Evaluation scenarios for contract question answering
// ABOUTME: Ground truth per question, built-in defaults and YAML scenario files
package ragas

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// NotFoundAnswer is what the model is told to say when the contract is silent
const NotFoundAnswer = "I could not find an answer"

// Scenario is one evaluated conversation: optional warm-up questions asked in
// the same session, then the scored question.
type Scenario struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Turns       []string    `yaml:"turns,omitempty" json:"turns,omitempty"`
	Question    string      `yaml:"question" json:"question"`
	GroundTruth GroundTruth `yaml:"ground_truth" json:"ground_truth"`
}

// GroundTruth defines expected outcomes for the scored question
type GroundTruth struct {
	ExpectedInResponse  []string `yaml:"expected_in_response,omitempty" json:"expected_in_response,omitempty"`   // must appear in the answer
	ForbiddenInResponse []string `yaml:"forbidden_in_response,omitempty" json:"forbidden_in_response,omitempty"` // must not appear in the answer

	// Contract text that should reach the prompt
	ExpectedContextItems []string `yaml:"expected_context_items,omitempty" json:"expected_context_items,omitempty"`
}

// Validate checks the scenario can be run and scored
func (s Scenario) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("scenario id cannot be empty")
	}
	if strings.TrimSpace(s.Question) == "" {
		return fmt.Errorf("scenario %s: question cannot be empty", s.ID)
	}
	for i, turn := range s.Turns {
		if strings.TrimSpace(turn) == "" {
			return fmt.Errorf("scenario %s: turn %d is empty", s.ID, i+1)
		}
	}
	return nil
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadScenarios reads a YAML file with a top-level scenarios list
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios: %w", err)
	}

	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scenarios %s: %w", path, err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios in %s", path)
	}

	seen := make(map[string]bool, len(file.Scenarios))
	for _, s := range file.Scenarios {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate scenario id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return file.Scenarios, nil
}

// Find returns the scenario with the given id (case-insensitive)
func Find(scenarios []Scenario, id string) (Scenario, bool) {
	for _, s := range scenarios {
		if strings.EqualFold(s.ID, id) {
			return s, true
		}
	}
	return Scenario{}, false
}

// DefaultScenarios returns the built-in smoke checks against the pilot contract
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			ID:          "vacation",
			Name:        "Vacation accrual",
			Description: "Direct lookup of a benefit the contract defines",
			Question:    "How is vacation accrued?",
			GroundTruth: GroundTruth{
				ExpectedInResponse:   []string{"vacation"},
				ForbiddenInResponse:  []string{NotFoundAnswer},
				ExpectedContextItems: []string{"vacation"},
			},
		},
		{
			ID:          "reserve-followup",
			Name:        "Reserve follow-up",
			Description: "Follow-up question that relies on the earlier turn",
			Turns:       []string{"What is a reserve pilot?"},
			Question:    "How much rest do they get between assignments?",
			GroundTruth: GroundTruth{
				ExpectedInResponse:   []string{"rest"},
				ForbiddenInResponse:  []string{NotFoundAnswer},
				ExpectedContextItems: []string{"reserve"},
			},
		},
		{
			ID:          "out-of-scope",
			Name:        "Out of scope",
			Description: "Question the contract cannot answer",
			Question:    "What is the capital of Australia?",
			GroundTruth: GroundTruth{
				ExpectedInResponse:  []string{NotFoundAnswer},
				ForbiddenInResponse: []string{"Canberra"},
			},
		},
	}
}
