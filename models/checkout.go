package models

// CustomerData reúne os dados cadastrais da empresa coletados no primeiro
// passo do assistente de contratação.
type CustomerData struct {
	CompanyName string  `json:"company_name"` // razão social
	TradeName   string  `json:"trade_name"`   // nome fantasia
	Document    string  `json:"document"`     // CNPJ
	Email       string  `json:"email"`
	Phone       string  `json:"phone,omitempty"` // fixo, opcional
	Mobile      string  `json:"mobile"`
	Address     Address `json:"address"`
}

type Address struct {
	ZipCode      string `json:"zipcode"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// PaymentData é o segundo passo do assistente. Quando SameAddress está
// ligada o endereço de cobrança digitado é irrelevante e é descartado na
// transição para a revisão.
type PaymentData struct {
	CardName       string   `json:"cardname"`
	CardNumber     string   `json:"cardnumber"`
	Expiry         string   `json:"expiry"` // MM/AA
	CVV            string   `json:"cvv"`
	SameAddress    bool     `json:"same_address"`
	BillingAddress *Address `json:"billing_address,omitempty"`
}
