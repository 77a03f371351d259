// Package cli implements the checklogic command line tool.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lunary-ai/checklogic/checks"
)

const version = "checklogic v0.3.0"

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree. Settings resolve from flags, then
// CHECKLOGIC_* environment variables, then the config file.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "checklogic",
		Short: "Encode, decode and evaluate filter logic",
		Long: `checklogic converts filter logic trees between their JSON form and the
compact query-string form used in URLs and saved views.

It can also list the check catalog and evaluate a run record against a
set of filters.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (YAML)")
	flags.String("registry", "", "check catalog file (YAML, default: built-in catalog)")
	flags.Bool("tagged", false, "write params as id:value pairs")

	_ = v.BindPFlag("registry", flags.Lookup("registry"))
	_ = v.BindPFlag("tagged", flags.Lookup("tagged"))

	rootCmd.AddCommand(
		newEncodeCmd(v),
		newDecodeCmd(v),
		newCatalogCmd(v),
		newEvalCmd(v),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			},
		},
	)
	return rootCmd
}

// initConfig reads in the config file and ENV variables
func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("CHECKLOGIC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
	}
	return nil
}

func loadRegistry(v *viper.Viper) (*checks.Registry, error) {
	path := v.GetString("registry")
	if path == "" {
		return checks.DefaultRegistry(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry file: %w", err)
	}
	defer f.Close()
	return checks.LoadRegistryYAML(f)
}

func newCodec(v *viper.Viper) (*checks.Codec, error) {
	reg, err := loadRegistry(v)
	if err != nil {
		return nil, err
	}
	if v.GetBool("tagged") {
		return checks.NewCodec(reg, checks.WithTaggedParams()), nil
	}
	return checks.NewCodec(reg), nil
}
