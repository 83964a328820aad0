package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products <category>",
	Short: "List stored products in a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		products, err := wf.ProductsByCategory(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(products)
	},
}

func init() {
	rootCmd.AddCommand(productsCmd)
}
