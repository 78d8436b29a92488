package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caredesk/caredesk/internal/config"
)

func init() { //nolint: gochecknoinits
	dumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "Dump as JSON")
	dumpCmd.Flags().BoolVar(&dumpYAML, "yaml", false, "Dump as YAML")
	dumpCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	configCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(configCmd)
}

var (
	dumpJSON bool
	dumpYAML bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration, env overrides and defaults applied",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := config.ReadConfig(configPath)
			if err != nil {
				return err
			}

			var out string

			switch {
			case dumpJSON:
				out, err = config.DumpConfigJSON(c)
			case dumpYAML:
				out, err = config.DumpConfigYAML(c)
			default:
				out, err = config.DumpConfig(c)
			}

			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), out)

			return err
		},
	}
)
