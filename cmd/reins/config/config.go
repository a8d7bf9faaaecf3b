// Package configcmder provides commands for reading and writing the reins
// configuration.
package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/reins/pkg/config"
)

const configShortDesc string = "Get and set reins configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long: `Get and set configuration values in .reins/config.toml.

Valid keys:
  ` + strings.Join(config.ValidConfigKeys(), "\n  "),
	}

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfger, err := config.NewConfiger("")
			if err != nil {
				return err
			}
			value, err := cfger.GetConfigValue(args[0])
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			cfger, err := config.NewConfiger("")
			if err != nil {
				return err
			}
			return cfger.SetConfigValue(args[0], args[1])
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List valid configuration keys",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, key := range config.ValidConfigKeys() {
				fmt.Println(key)
			}
			return nil
		},
	}

	cmd.AddCommand(get)
	cmd.AddCommand(set)
	cmd.AddCommand(list)

	return cmd
}
