// Package discovery implements the product discovery workflow: trending
// category research, viability vetting via the ICE AI service, and
// cross-referenced ranking of stored candidate products.
package discovery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/discovery-funnel/internal/model"
	"github.com/sells-group/discovery-funnel/internal/store"
	"github.com/sells-group/discovery-funnel/pkg/ice"
)

// ErrNoProducts is returned when the store holds no candidates; the
// workflow has nothing to vet and fails as a whole.
var ErrNoProducts = eris.New("no products found in store")

// connectivity probe parameters.
const probePrompt = "Test connection"

// Config parameterizes a Workflow.
type Config struct {
	// Model used for the hot-categories and viability requests.
	Model string
	// ProbeModel used by TestConnections.
	ProbeModel string
	Prompts    Prompts
}

// Workflow orchestrates one product discovery run. It holds no mutable
// state, so concurrent runs over the same collaborators do not interact.
type Workflow struct {
	store      store.Store
	ice        ice.Client
	model      string
	probeModel string
	prompts    Prompts
}

// New creates a Workflow over the given collaborators.
func New(st store.Store, client ice.Client, cfg Config) *Workflow {
	if cfg.Model == "" {
		cfg.Model = "gpt-4"
	}
	if cfg.ProbeModel == "" {
		cfg.ProbeModel = "gpt-3.5-turbo"
	}
	if cfg.Prompts.HotSelling == "" || cfg.Prompts.Viability == "" {
		defaults := DefaultPrompts()
		if cfg.Prompts.HotSelling == "" {
			cfg.Prompts.HotSelling = defaults.HotSelling
		}
		if cfg.Prompts.Viability == "" {
			cfg.Prompts.Viability = defaults.Viability
		}
	}
	return &Workflow{
		store:      st,
		ice:        client,
		model:      cfg.Model,
		probeModel: cfg.ProbeModel,
		prompts:    cfg.Prompts,
	}
}

// Run executes the full discovery pipeline and assembles the final report.
// It returns either a complete WorkflowResult or an error; there is no
// partial result shape.
func (w *Workflow) Run(ctx context.Context) (*model.WorkflowResult, error) {
	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID))
	log.Info("discovery workflow starting")

	var hot []model.HotCategory
	var products []model.CandidateProduct

	// The category research and the candidate fetch are independent of each
	// other; vetting needs both.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := w.ice.Generate(gCtx, w.model, w.prompts.HotSelling)
		if err != nil {
			return eris.Wrap(err, "workflow: hot categories request")
		}
		hot, err = ParseHotCategories(resp)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = w.store.ListProducts(gCtx)
		if err != nil {
			return eris.Wrap(err, "workflow: list products")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(products) == 0 {
		return nil, ErrNoProducts
	}
	log.Info("candidates fetched",
		zap.Int("hot_categories", len(hot)),
		zap.Int("products", len(products)),
	)

	resp, err := w.ice.Generate(ctx, w.model, w.prompts.ViabilityFor(products))
	if err != nil {
		return nil, eris.Wrap(err, "workflow: viability request")
	}
	vetted, err := ParseViability(resp, products)
	if err != nil {
		return nil, err
	}

	filtered := CrossReference(hot, vetted)
	recommendations := Rank(filtered)

	log.Info("discovery workflow complete",
		zap.Int("vetted", len(vetted)),
		zap.Int("matched", len(filtered)),
		zap.Int("recommendations", len(recommendations)),
	)

	return &model.WorkflowResult{
		Success:   true,
		Timestamp: time.Now().UTC(),
		Summary: model.WorkflowSummary{
			HotCategories:        len(hot),
			TotalProducts:        len(products),
			VettedProducts:       len(vetted),
			FinalRecommendations: len(recommendations),
		},
		HotSellingCategories: hot,
		Recommendations:      recommendations,
	}, nil
}

// ProductsByCategory passes a category query through to the store.
func (w *Workflow) ProductsByCategory(ctx context.Context, category string) ([]model.CandidateProduct, error) {
	products, err := w.store.ListProductsByCategory(ctx, category)
	if err != nil {
		return nil, eris.Wrapf(err, "workflow: products for category %s", category)
	}
	return products, nil
}

// TestConnections probes both collaborators independently. Failures are
// reported as false in the result map, never as an error.
func (w *Workflow) TestConnections(ctx context.Context) map[string]bool {
	results := map[string]bool{
		"store": false,
		"ice":   false,
	}

	if err := w.store.Ping(ctx); err != nil {
		zap.L().Warn("store connection probe failed", zap.Error(err))
	} else {
		results["store"] = true
	}

	if _, err := w.ice.Generate(ctx, w.probeModel, probePrompt); err != nil {
		zap.L().Warn("ice connection probe failed", zap.Error(err))
	} else {
		results["ice"] = true
	}

	return results
}
