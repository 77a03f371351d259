package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lunary-ai/checklogic/checks"
)

func newCatalogCmd(v *viper.Viper) *cobra.Command {
	var contextType, project, output string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the available checks",
		Long: `Catalog prints the checks offered in a context. Checks that only apply
to evaluations are hidden from filters, and filter-only checks are hidden
from evals. --project fills in the option locators of dynamic selects.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(v)
			if err != nil {
				return err
			}

			var list []checks.Check
			switch contextType {
			case "filters":
				list = reg.ForFilters()
			case "evals":
				list = reg.ForEvals()
			case "all":
				list = reg.Checks()
			default:
				return fmt.Errorf("unknown context %q (use filters, evals or all)", contextType)
			}

			infos := checks.DescribeAll(list, project, contextType)
			switch output {
			case "yaml":
				return writeYAML(cmd.OutOrStdout(), infos)
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			default:
				return fmt.Errorf("unknown output format %q (use json or yaml)", output)
			}
		},
	}

	cmd.Flags().StringVar(&contextType, "context", "filters", "filters, evals or all")
	cmd.Flags().StringVar(&project, "project", "", "project id used to resolve option locators")
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml or json")
	return cmd
}
