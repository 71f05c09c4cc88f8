package pagarme

// BillingAddress segue o formato de endereço exigido pelo gateway.
type BillingAddress struct {
	Line1   string `json:"line_1"`
	Line2   string `json:"line_2,omitempty"`
	ZipCode string `json:"zip_code"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// CardTokenRequest é a entrada da tokenização. Os campos chegam já
// normalizados pelo serviço de pagamento: nome em maiúsculas, número e
// documento somente com dígitos.
type CardTokenRequest struct {
	HolderName     string
	HolderDocument string
	Number         string
	ExpMonth       int
	ExpYear        int
	CVV            string
	BillingAddress BillingAddress
	IdempotencyKey string
}

type cardPayload struct {
	Number         string         `json:"number"`
	HolderName     string         `json:"holder_name"`
	HolderDocument string         `json:"holder_document"`
	ExpMonth       int            `json:"exp_month"`
	ExpYear        int            `json:"exp_year"`
	CVV            string         `json:"cvv"`
	BillingAddress BillingAddress `json:"billing_address"`
}

type tokenRequest struct {
	Type string      `json:"type"`
	Card cardPayload `json:"card"`
}

type tokenResponse struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Card struct {
		LastFourDigits string `json:"last_four_digits"`
		Brand          string `json:"brand"`
	} `json:"card"`
}

type errorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}
