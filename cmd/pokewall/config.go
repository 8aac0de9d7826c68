package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/kerbaras/pokewall/pkg/config"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or write the effective configuration",
	Long: `Print the configuration pokewall runs with: the config file merged over the defaults,
plus any --cache-dir override.

Use --write to save it to the --config path so it can be edited. An existing file is
only replaced with --force.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		write, _ := cmd.Flags().GetBool("write")
		force, _ := cmd.Flags().GetBool("force")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if !write {
			out, err := toml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			fmt.Print(string(out))
			return nil
		}

		path, err := config.ResolvePath(configPath)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to replace it)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Printf("📝 Config written: %s\n", path)
		return nil
	},
}

func init() {
	configCmd.Flags().Bool("write", false, "save the effective configuration to the config path")
	configCmd.Flags().Bool("force", false, "replace an existing config file")
	rootCmd.AddCommand(configCmd)
}
