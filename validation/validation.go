package validation

import (
	"strings"

	"gestaorh-checkout-api/models"
	"gestaorh-checkout-api/utils"
)

// FieldErrors mapeia o nome do campo para a mensagem exibida junto dele no
// formulário.
type FieldErrors map[string]string

func (e FieldErrors) Valid() bool {
	return len(e) == 0
}

// ValidateCustomer aplica o schema do passo de dados cadastrais.
func ValidateCustomer(c *models.CustomerData) FieldErrors {
	errs := FieldErrors{}

	if len(strings.TrimSpace(c.CompanyName)) < 3 {
		errs["company_name"] = "Informe a razão social"
	}
	if len(strings.TrimSpace(c.TradeName)) < 2 {
		errs["trade_name"] = "Informe o nome fantasia"
	}
	if !utils.ValidateCNPJ(c.Document) {
		errs["document"] = "CNPJ inválido"
	}
	if !validEmail(c.Email) {
		errs["email"] = "E-mail inválido"
	}
	if len(utils.OnlyDigits(c.Mobile)) != 11 {
		errs["mobile"] = "Celular inválido"
	}
	if c.Phone != "" && len(utils.OnlyDigits(c.Phone)) != 10 {
		errs["phone"] = "Telefone fixo inválido"
	}

	addressErrors(&c.Address, "", errs)
	return errs
}

// ValidatePayment aplica o schema do passo de pagamento. A regra condicional
// do endereço de cobrança só executa quando same_address está desligada; com
// a flag ligada nenhum erro de cobrança é produzido. A regra roda apenas na
// transição de passo, nunca a cada tecla, para não exibir erros enquanto o
// usuário ainda alterna a flag.
func ValidatePayment(p *models.PaymentData) FieldErrors {
	errs := FieldErrors{}

	if len(strings.TrimSpace(p.CardName)) < 3 {
		errs["cardname"] = "Informe o nome impresso no cartão"
	}

	digits := utils.OnlyDigits(p.CardNumber)
	if len(digits) < 13 || len(digits) > 19 {
		errs["cardnumber"] = "Número de cartão inválido"
	}
	if !utils.ValidateExpiry(p.Expiry) {
		errs["expiry"] = "Validade inválida"
	}
	cvv := utils.OnlyDigits(p.CVV)
	if len(cvv) < 3 || len(cvv) > 4 {
		errs["cvv"] = "CVV inválido"
	}

	if !p.SameAddress {
		billing := p.BillingAddress
		if billing == nil {
			billing = &models.Address{}
		}
		addressErrors(billing, "billing_", errs)
	}

	return errs
}

// addressErrors aplica as regras de tamanho mínimo de cada subcampo de
// endereço, prefixando as chaves quando o endereço validado é o de cobrança.
func addressErrors(a *models.Address, prefix string, errs FieldErrors) {
	if len(utils.OnlyDigits(a.ZipCode)) < 8 {
		errs[prefix+"zipcode"] = "CEP inválido"
	}
	if len(strings.TrimSpace(a.Street)) < 3 {
		errs[prefix+"street"] = "Informe o endereço"
	}
	if strings.TrimSpace(a.Number) == "" {
		errs[prefix+"number"] = "Informe o número"
	}
	if len(strings.TrimSpace(a.Neighborhood)) < 2 {
		errs[prefix+"neighborhood"] = "Informe o bairro"
	}
	if len(strings.TrimSpace(a.City)) < 2 {
		errs[prefix+"city"] = "Informe a cidade"
	}
	if strings.TrimSpace(a.State) == "" {
		errs[prefix+"state"] = "Informe o estado"
	}
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(email, " \t")
}
