package subscription

// Phone é um telefone decomposto no formato exigido pela API de assinaturas:
// DDI fixo 55, DDD de 2 dígitos e o restante como número do assinante.
type Phone struct {
	CountryCode string `json:"country_code"`
	AreaCode    string `json:"area_code"`
	Number      string `json:"number"`
}

// Phones carrega o celular obrigatório e o fixo apenas quando informado.
type Phones struct {
	HomePhone   *Phone `json:"home_phone,omitempty"`
	MobilePhone Phone  `json:"mobile_phone"`
}

type Address struct {
	Line1   string `json:"line_1"`
	Line2   string `json:"line_2,omitempty"`
	ZipCode string `json:"zip_code"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type Customer struct {
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	DocumentType string            `json:"document_type"`
	Document     string            `json:"document"`
	Type         string            `json:"type"`
	Address      Address           `json:"address"`
	Phones       Phones            `json:"phones"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type PricingScheme struct {
	SchemeType string  `json:"scheme_type"`
	Price      float64 `json:"price"`
}

type Item struct {
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Quantity      int           `json:"quantity"`
	PricingScheme PricingScheme `json:"pricing_scheme"`
}

type cardBilling struct {
	BillingAddress Address `json:"billing_address"`
}

// creditCard repete o endereço de cobrança sob o objeto do cartão, exigência
// do gateway na criação da assinatura.
type creditCard struct {
	Card cardBilling `json:"card"`
}

type orderRequest struct {
	Customer   Customer   `json:"customer"`
	Items      []Item     `json:"items"`
	CardToken  string     `json:"card_token"`
	CreditCard creditCard `json:"credit_card"`
}

type orderResponse struct {
	Succeeded bool `json:"succeeded"`
	Data      *struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"data"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
