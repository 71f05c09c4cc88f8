package email

import (
	"fmt"
	"strings"
)

type ReceiptData struct {
	CompanyName    string
	PlanName       string
	Bracket        string
	Price          float64
	SubscriptionID string
}

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
    body { font-family: Arial, sans-serif; color: #333333; margin: 0; padding: 0; }
    .container { max-width: 560px; margin: 0 auto; padding: 24px; }
    .header { background-color: #1a4d8f; color: #ffffff; padding: 16px 24px; border-radius: 4px 4px 0 0; }
    .content { border: 1px solid #e0e0e0; border-top: none; padding: 24px; border-radius: 0 0 4px 4px; }
    .row { margin-bottom: 8px; }
    .label { color: #777777; }
    .price { font-size: 20px; font-weight: bold; color: #1a4d8f; }
    .footer { margin-top: 16px; font-size: 12px; color: #999999; }
</style>
</head>
<body>
<div class="container">
    <div class="header"><h2>GestãoRH</h2></div>
    <div class="content">
        <p>Olá, {{COMPANY_NAME}}!</p>
        <p>Sua assinatura foi confirmada. Bem-vindo ao GestãoRH.</p>
        <div class="row"><span class="label">Plano:</span> {{PLAN_NAME}}</div>
        <div class="row"><span class="label">Faixa de funcionários:</span> {{BRACKET}}</div>
        <div class="row"><span class="label">Valor mensal:</span> <span class="price">R$ {{PRICE}}</span></div>
        <div class="row"><span class="label">Identificador da assinatura:</span> {{SUBSCRIPTION_ID}}</div>
        <p>A primeira cobrança aparece na fatura do cartão em até 2 dias úteis.</p>
        <div class="footer">Este é um e-mail automático, não responda. Dúvidas: suporte@gestaorh.com.br</div>
    </div>
</div>
</body>
</html>
`

func renderReceipt(data ReceiptData) string {
	replacer := strings.NewReplacer(
		"{{COMPANY_NAME}}", data.CompanyName,
		"{{PLAN_NAME}}", data.PlanName,
		"{{BRACKET}}", data.Bracket,
		"{{PRICE}}", formatPrice(data.Price),
		"{{SUBSCRIPTION_ID}}", data.SubscriptionID,
	)
	return replacer.Replace(receiptTemplate)
}

// formatPrice escreve o valor no formato brasileiro, com vírgula decimal.
func formatPrice(value float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", value), ".", ",", 1)
}
