package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	price, err := Price("Ouro Insights", "51-100")
	require.NoError(t, err)
	assert.Equal(t, 449.9, price)

	price, err = Price("Prata", "1-10")
	require.NoError(t, err)
	assert.Equal(t, 99.9, price)
}

func TestPriceUnknownPlan(t *testing.T) {
	_, err := Price("Bronze", "1-10")
	assert.True(t, errors.Is(err, ErrInvalidPlan))
}

func TestPriceUnknownBracket(t *testing.T) {
	_, err := Price("Prata", "251-500")
	assert.True(t, errors.Is(err, ErrInvalidBracket))
}

// Todo plano precisa ter preço para todas as faixas anunciadas, e Plans()
// precisa expor exatamente o que Price() resolve.
func TestTableIsComplete(t *testing.T) {
	plans := Plans()
	require.Len(t, plans, 3)

	for _, plan := range plans {
		for _, bracket := range Brackets {
			price, err := Price(plan.Name, bracket)
			require.NoError(t, err, "plan %s bracket %s", plan.Name, bracket)
			assert.Greater(t, price, 0.0)
			assert.Equal(t, price, plan.Prices[bracket])
		}
	}
}

func TestPlansOrder(t *testing.T) {
	plans := Plans()
	require.Len(t, plans, 3)
	assert.Equal(t, "Prata", plans[0].Name)
	assert.Equal(t, "Ouro", plans[1].Name)
	assert.Equal(t, "Ouro Insights", plans[2].Name)
}
