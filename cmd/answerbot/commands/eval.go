// ABOUTME: CLI command to score answers against evaluation scenarios
// ABOUTME: Reports faithfulness and context recall per scenario, optionally as a JSON file
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/answerbot/benchmarks/ragas"
)

var (
	evalModel     string
	evalScenarios string
	evalScenario  string
	evalOutput    string
)

var (
	passedStatus = color.New(color.FgGreen).SprintFunc()
	failedStatus = color.New(color.FgRed).SprintFunc()
)

// NewEvalCmd creates the eval command
func NewEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Score answers against evaluation scenarios",
		Long: `Run evaluation scenarios through the full answering stack.

Each scenario is asked in a fresh conversation. The final answer is scored for
faithfulness (expected phrases present, forbidden phrases absent) and context
recall (expected contract text present in the prompt). A scenario passes when
both scores reach 0.9. Exits with an error if any scenario does not pass.

Without --scenarios a small built-in set is used.

Examples:
  answerbot eval
  answerbot eval --scenario out-of-scope
  answerbot eval --scenarios scenarios.yaml --output results.json`,
		Args: cobra.NoArgs,
		RunE: runEval,
	}

	cmd.Flags().StringVar(&evalModel, "model", "", "Chat model: GPT-3.5 or GPT-4 (default from ANSWERBOT_GPT_MODEL)")
	cmd.Flags().StringVar(&evalScenarios, "scenarios", "", "YAML file with a top-level scenarios list")
	cmd.Flags().StringVar(&evalScenario, "scenario", "", "Run only the scenario with this id")
	cmd.Flags().StringVar(&evalOutput, "output", "", "Also write the JSON report to this path")

	return cmd
}

func runEval(cmd *cobra.Command, args []string) error {
	scenarios := ragas.DefaultScenarios()
	if evalScenarios != "" {
		loaded, err := ragas.LoadScenarios(evalScenarios)
		if err != nil {
			return err
		}
		scenarios = loaded
	}
	if evalScenario != "" {
		s, ok := ragas.Find(scenarios, evalScenario)
		if !ok {
			return fmt.Errorf("unknown scenario %q", evalScenario)
		}
		scenarios = []ragas.Scenario{s}
	}

	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	model, err := resolveModel(evalModel, a.model)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, err := a.service(ctx, model)
	if err != nil {
		return err
	}

	runner, err := ragas.NewRunner(svc, model, a.cfg.SystemPrompt, a.logger.Logger)
	if err != nil {
		return err
	}
	results, err := runner.RunAll(ctx, scenarios)
	if err != nil {
		return err
	}

	report := ragas.Summarize(results)
	if evalOutput != "" {
		if err := ragas.ExportReport(report, evalOutput); err != nil {
			return err
		}
	}

	if outputFormat == "json" {
		if err := printJSON(cmd, report); err != nil {
			return err
		}
	} else {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "SCENARIO\tFAITHFULNESS\tRECALL\tSTATUS\n")
		fmt.Fprintf(w, "--------\t------------\t------\t------\n")
		for _, r := range results {
			status := failedStatus(r.Status)
			if r.Status == ragas.StatusPass {
				status = passedStatus(r.Status)
			}
			fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%s\n", r.ScenarioID, r.FaithfulnessScore, r.ContextRecallScore, status)
		}
		w.Flush()

		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "\nPassed %d of %d; Cost: $%.5f\n", report.Passed, report.Total, report.TotalCost)
			if evalOutput != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Results exported to: %s\n", evalOutput)
			}
		}
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d scenarios did not pass", report.Failed, report.Total)
	}
	return nil
}
