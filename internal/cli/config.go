package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/mytasks/internal/config"
	"github.com/idilsaglam/mytasks/internal/persist"
	"github.com/idilsaglam/mytasks/internal/ui"
)

func newConfigCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := e.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.WriteDefault(path, force); err != nil {
				return fmt.Errorf("config init: %w", err)
			}
			ui.OK(e.out, "wrote "+path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			data, err := cfg.YAML()
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			fmt.Fprintln(e.out, "# effective configuration (defaults, file, .env, MYTASKS_*, flags)")
			fmt.Fprint(e.out, string(data))
			return nil
		},
	}

	cmd.AddCommand(initCmd, show)
	return cmd
}

func newStatusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where data lives and how each document loaded",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}
			cfg, _ := e.config()
			th := ui.Current()
			where := cfg.SQLitePath
			switch b := a.Backend().(type) {
			case *persist.FileBackend:
				where = b.Dir()
			case *persist.MemoryBackend:
				where = "not persisted"
			}
			lines := []string{
				fmt.Sprintf("%s  %s %s", th.Title.Render("Storage"), cfg.Backend, th.Muted.Render(where)),
				"",
			}
			for _, st := range a.Status() {
				style := th.Success
				switch st.Outcome {
				case persist.Missing:
					style = th.Muted
				case persist.Corrupt, persist.Unreadable:
					style = th.Error
				}
				line := fmt.Sprintf("%-14s %s", st.Name, style.Render(st.Outcome.String()))
				if st.SaveFailures > 0 {
					line += th.Error.Render(fmt.Sprintf("  %d failed saves", st.SaveFailures))
				}
				lines = append(lines, line)
			}
			ui.Panel(e.out, lines)
			return nil
		},
	}
}
