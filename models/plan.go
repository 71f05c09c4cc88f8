package models

// Plan expõe a tabela de preços de um plano para a página de contratação.
// Prices mapeia a faixa de funcionários (ex.: "51-100") para a mensalidade.
type Plan struct {
	Name   string             `json:"name"`
	Prices map[string]float64 `json:"prices"`
}
