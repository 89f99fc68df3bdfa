package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(global *GlobalFlags) *cobra.Command {
	var limit int
	var clearAll bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently requested service lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, *global)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.store == nil {
				return errors.New("history storage is disabled or unavailable")
			}
			out := cmd.OutOrStdout()
			if clearAll {
				if err := a.store.ClearHistory(); err != nil {
					return err
				}
				a.log.Info("history cleared")
				_, err := fmt.Fprintln(out, "history cleared")
				return err
			}

			entries, err := a.store.RecentInputs(limit)
			if err != nil {
				return err
			}
			total, err := a.store.HistoryLen()
			if err != nil {
				return err
			}
			return printHistory(out, entries, total, time.Now())
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of entries to show, 0 for all")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "forget every stored input")
	return cmd
}
