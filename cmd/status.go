package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe store and ICE service connectivity",
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

		connections := wf.TestConnections(ctx)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(connections); err != nil {
			return err
		}

		for _, ok := range connections {
			if !ok {
				return eris.New("one or more services unavailable")
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
