package pricing

import (
	"errors"
	"fmt"

	"gestaorh-checkout-api/models"
)

var (
	ErrInvalidPlan    = errors.New("invalid plan")
	ErrInvalidBracket = errors.New("invalid employee bracket")
)

// Brackets são as faixas de funcionários aceitas pela tabela, na ordem em
// que a página de planos as exibe.
var Brackets = []string{"1-10", "11-25", "26-50", "51-100", "101-250"}

var planOrder = []string{"Prata", "Ouro", "Ouro Insights"}

// priceTable mapeia plano -> faixa de funcionários -> mensalidade em reais.
var priceTable = map[string]map[string]float64{
	"Prata": {
		"1-10":    99.9,
		"11-25":   149.9,
		"26-50":   199.9,
		"51-100":  299.9,
		"101-250": 449.9,
	},
	"Ouro": {
		"1-10":    149.9,
		"11-25":   199.9,
		"26-50":   279.9,
		"51-100":  399.9,
		"101-250": 599.9,
	},
	"Ouro Insights": {
		"1-10":    199.9,
		"11-25":   259.9,
		"26-50":   349.9,
		"51-100":  449.9,
		"101-250": 679.9,
	},
}

// Price resolve a mensalidade de um plano para uma faixa de funcionários.
// Um par (plano, faixa) fora da tabela é erro de programação e falha alto:
// nunca há preço padrão.
func Price(planName, bracket string) (float64, error) {
	brackets, ok := priceTable[planName]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPlan, planName)
	}
	price, ok := brackets[bracket]
	if !ok {
		return 0, fmt.Errorf("%w: %q for plan %q", ErrInvalidBracket, bracket, planName)
	}
	return price, nil
}

// Plans devolve a tabela completa na ordem de exibição.
func Plans() []models.Plan {
	plans := make([]models.Plan, 0, len(planOrder))
	for _, name := range planOrder {
		prices := make(map[string]float64, len(priceTable[name]))
		for bracket, price := range priceTable[name] {
			prices[bracket] = price
		}
		plans = append(plans, models.Plan{Name: name, Prices: prices})
	}
	return plans
}
