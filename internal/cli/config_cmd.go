package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/taskflow/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
	}
	cmd.AddCommand(newConfigShowCmd(app), newConfigInitCmd())
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := app.Config
			rows := [][2]string{
				{"api_url", c.APIURL},
				{"timeout", c.Timeout.String()},
				{"db_path", c.DBPath},
				{"listen_addr", c.ListenAddr},
				{"theme", c.Theme},
				{"refresh_interval", c.RefreshInterval.String()},
				{"log_calls", fmt.Sprint(c.LogCalls)},
				{"log_file", c.LogFile},
			}
			for _, r := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%-17s %s\n", r[0], r[1])
			}
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
