package models

// Order reúne tudo que a submissão precisa depois do passo de revisão:
// dados da empresa, dados de pagamento e o item único do plano escolhido
// com o preço já resolvido pela tabela.
type Order struct {
	CheckoutID  string
	Customer    CustomerData
	Payment     PaymentData
	PlanName    string
	Description string
	UnitPrice   float64
}

// EffectiveBillingAddress resolve o endereço de cobrança conforme a flag
// same_address: ligado usa o endereço cadastral da empresa, desligado usa o
// endereço de cobrança digitado no passo de pagamento.
func (o *Order) EffectiveBillingAddress() Address {
	if o.Payment.SameAddress || o.Payment.BillingAddress == nil {
		return o.Customer.Address
	}
	return *o.Payment.BillingAddress
}
