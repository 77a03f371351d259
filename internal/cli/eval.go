package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lunary-ai/checklogic/checks"
	"github.com/lunary-ai/checklogic/evaluate"
)

// errNoMatch is returned by eval --fail when the run does not satisfy the logic.
var errNoMatch = errors.New("run does not match")

func newEvalCmd(v *viper.Viper) *cobra.Command {
	var filters, logicFile, runFile string
	var fail bool

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a run record against filters",
		Long: `Eval checks whether a run record (JSON, from --run or stdin) satisfies
the filters given with --filters or the logic tree in --logic. Checks that
need a model or external service are skipped and listed in the output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(v)
			if err != nil {
				return err
			}

			g := checks.Deserialize(reg, filters)
			if logicFile != "" {
				data, err := readInput(cmd, nil, logicFile)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(data, &g); err != nil {
					return fmt.Errorf("failed to parse logic: %w", err)
				}
			}

			data, err := readInput(cmd, nil, runFile)
			if err != nil {
				return err
			}
			var run map[string]any
			if err := json.Unmarshal(data, &run); err != nil {
				return fmt.Errorf("failed to parse run: %w", err)
			}

			evaluator, err := evaluate.NewEvaluator(reg, evaluate.DefaultConfig())
			if err != nil {
				return err
			}
			result, err := evaluator.Evaluate(g, run)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
			if fail && !result.Passed {
				return errNoMatch
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filters, "filters", "", "query-string filters")
	cmd.Flags().StringVar(&logicFile, "logic", "", "file holding a JSON logic tree (overrides --filters)")
	cmd.Flags().StringVar(&runFile, "run", "-", "file holding the run record (- for stdin)")
	cmd.Flags().BoolVar(&fail, "fail", false, "exit with an error when the run does not match")
	return cmd
}
