package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/lunary-ai/checklogic/checks"
)

func newEncodeCmd(v *viper.Viper) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "encode [logic]",
		Short: "Encode a JSON logic tree to its query-string form",
		Long: `Encode reads a logic tree in its JSON array form, for example

  ["AND", {"id": "status", "params": {"status": "error"}}]

from the argument, --file or stdin, and prints the query-string form.
Predicates whose values cannot be encoded are left out.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := newCodec(v)
			if err != nil {
				return err
			}

			data, err := readInput(cmd, args, file)
			if err != nil {
				return err
			}

			var g checks.Group
			if err := json.Unmarshal(data, &g); err != nil {
				return fmt.Errorf("failed to parse logic: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), codec.Serialize(g))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the logic tree from a file (- for stdin)")
	return cmd
}

func newDecodeCmd(v *viper.Viper) *cobra.Command {
	var output string
	var strict bool

	cmd := &cobra.Command{
		Use:   "decode <filters>",
		Short: "Decode a query-string filter set to a logic tree",
		Long: `Decode parses a query-string filter set such as

  status=error&cost=gte.0%2E5

and prints the logic tree. Segments naming unknown checks or carrying
malformed values are dropped; with --strict they are an error instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := newCodec(v)
			if err != nil {
				return err
			}

			g := codec.Deserialize(args[0])
			if dropped := countSegments(args[0]) - len(g.Children); dropped > 0 {
				if strict {
					return fmt.Errorf("%d filter segments could not be decoded", dropped)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "dropped %d filter segments\n", dropped)
			}

			return writeTree(cmd.OutOrStdout(), g, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when a segment cannot be decoded")
	return cmd
}

func readInput(cmd *cobra.Command, args []string, file string) ([]byte, error) {
	if len(args) == 1 {
		return []byte(args[0]), nil
	}
	if file != "" && file != "-" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		return data, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}

func countSegments(wire string) int {
	n := 0
	for _, segment := range strings.Split(wire, "&") {
		if segment != "" {
			n++
		}
	}
	return n
}

// writeTree prints g in its JSON array form, or the same structure as YAML.
func writeTree(w io.Writer, g checks.Group, format string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode logic: %w", err)
	}

	switch format {
	case "json":
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		var tree any
		if err := json.Unmarshal(data, &tree); err != nil {
			return fmt.Errorf("failed to encode logic: %w", err)
		}
		return writeYAML(w, tree)
	default:
		return fmt.Errorf("unknown output format %q (use json or yaml)", format)
	}
}

func writeYAML(w io.Writer, value any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
