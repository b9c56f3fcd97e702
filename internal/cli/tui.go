package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/mytasks/internal/tui"
)

func newTUICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive task list and habits",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}
			if err := a.StartScheduler(time.Local); err != nil {
				return err
			}
			if err := tui.Run(a.Tasks, a.Habits); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}
}
