package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/discovery-funnel/internal/model"
)

func vetted(products ...model.CandidateProduct) []model.VettedProduct {
	out := make([]model.VettedProduct, 0, len(products))
	for _, p := range products {
		out = append(out, model.VettedProduct{CandidateProduct: p})
	}
	return out
}

func TestCrossReference_MatchesAcrossFields(t *testing.T) {
	hot := []model.HotCategory{
		{Category: "Home Decor"},
		{Category: "Toys"},
	}
	input := vetted(
		model.CandidateProduct{ID: 1, Name: "Vase", Description: "Minimalist decor piece"},
		model.CandidateProduct{ID: 2, Name: "Wrench", Description: "Adjustable hand tool"},
		model.CandidateProduct{ID: 3, Name: "Stacking Toys", Description: "For toddlers"},
	)

	matched := CrossReference(hot, input)

	require.Len(t, matched, 2)
	assert.Equal(t, int64(1), matched[0].ID)
	assert.Equal(t, int64(3), matched[1].ID)
}

func TestCrossReference_CaseInsensitive(t *testing.T) {
	hot := []model.HotCategory{{Category: "GADGETS"}}
	input := vetted(
		model.CandidateProduct{ID: 1, Category: "gadgets"},
	)

	matched := CrossReference(hot, input)
	require.Len(t, matched, 1)
}

func TestCrossReference_SubstringQuirk(t *testing.T) {
	// Single-word tokens match inside longer words; this is intentional.
	hot := []model.HotCategory{{Category: "Home"}}
	input := vetted(
		model.CandidateProduct{ID: 1, Description: "homework organizer"},
	)

	matched := CrossReference(hot, input)
	require.Len(t, matched, 1)
}

func TestCrossReference_AnyTokenOfMultiWordCategory(t *testing.T) {
	hot := []model.HotCategory{{Category: "Desk Organizers"}}
	input := vetted(
		model.CandidateProduct{ID: 1, Name: "Standing desk mat"},
		model.CandidateProduct{ID: 2, Name: "Cable organizers"},
		model.CandidateProduct{ID: 3, Name: "Lamp"},
	)

	matched := CrossReference(hot, input)
	require.Len(t, matched, 2)
	assert.Equal(t, int64(1), matched[0].ID)
	assert.Equal(t, int64(2), matched[1].ID)
}

func TestCrossReference_PreservesInputOrder(t *testing.T) {
	hot := []model.HotCategory{{Category: "print"}}
	input := vetted(
		model.CandidateProduct{ID: 5, Name: "printer stand"},
		model.CandidateProduct{ID: 2, Name: "3D print bed"},
		model.CandidateProduct{ID: 9, Name: "print nozzle"},
	)

	matched := CrossReference(hot, input)
	require.Len(t, matched, 3)
	assert.Equal(t, []int64{5, 2, 9}, []int64{matched[0].ID, matched[1].ID, matched[2].ID})
}

func TestCrossReference_NoCategories(t *testing.T) {
	input := vetted(model.CandidateProduct{ID: 1, Name: "anything"})

	matched := CrossReference(nil, input)
	assert.Empty(t, matched)
}

func TestCrossReference_MissingFieldsTreatedAsEmpty(t *testing.T) {
	hot := []model.HotCategory{{Category: "decor"}}
	input := vetted(
		model.CandidateProduct{ID: 1}, // no category, name, or description
	)

	matched := CrossReference(hot, input)
	assert.Empty(t, matched)
}
