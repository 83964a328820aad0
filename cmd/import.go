package main

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/discovery-funnel/internal/model"
)

var importCSVPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import scraped products from CSV into the store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		products, err := readProductsCSV(importCSVPath)
		if err != nil {
			return err
		}

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		inserted, err := st.InsertProducts(ctx, products)
		if err != nil {
			return eris.Wrap(err, "import products")
		}

		zap.L().Info("import complete",
			zap.Int64("inserted", inserted),
			zap.String("csv", importCSVPath),
		)
		return nil
	},
}

// readProductsCSV parses a CSV with a header row. Recognized columns:
// name, description, price, category, source_url, scraped_at (RFC 3339).
func readProductsCSV(path string) ([]model.CandidateProduct, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "import: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrap(err, "import: read header")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["name"]; !ok {
		return nil, eris.New("import: CSV is missing a name column")
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var products []model.CandidateProduct
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "import: read record")
		}

		p := model.CandidateProduct{
			Name:        field(record, "name"),
			Description: field(record, "description"),
			Category:    field(record, "category"),
			SourceURL:   field(record, "source_url"),
		}
		if raw := field(record, "price"); raw != "" {
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, eris.Wrapf(err, "import: bad price %q for %s", raw, p.Name)
			}
			p.Price = price
		}
		if raw := field(record, "scraped_at"); raw != "" {
			scrapedAt, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return nil, eris.Wrapf(err, "import: bad scraped_at %q for %s", raw, p.Name)
			}
			p.ScrapedAt = scrapedAt
		}
		products = append(products, p)
	}
	return products, nil
}

func init() {
	importCmd.Flags().StringVar(&importCSVPath, "csv", "", "path to CSV file (required)")
	_ = importCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(importCmd)
}
