package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Run the product discovery workflow once and print the result",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		client, err := newICEClient(cfg)
		if err != nil {
			return err
		}

		wf, err := newWorkflow(st, client, cfg)
		if err != nil {
			return err
		}

		result, err := wf.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "discovery workflow")
		}

		zap.L().Info("workflow complete",
			zap.Int("hot_categories", result.Summary.HotCategories),
			zap.Int("recommendations", result.Summary.FinalRecommendations),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(workflowCmd)
}
