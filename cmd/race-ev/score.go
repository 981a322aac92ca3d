package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score every event in the input once and write the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		summary, err := a.pipeline.Run(ctx)
		if summary == nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "run %s: %d events scored (%d empty) -> %s\n",
			summary.RunID, summary.Events, summary.Degenerate, cfg.Output.Path)
		for _, r := range summary.Results {
			res := r.Result
			fmt.Fprintf(out, "  %-24s %2d runners  balanced %2d  high-risk %2d\n",
				res.Event.ID, len(res.Participants), len(res.Portfolio.Balanced), len(res.Portfolio.HighRisk))
		}
		return err
	},
}
