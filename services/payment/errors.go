package payment

// Mensagens exibidas ao usuário quando o gateway ou o backend falham.
const (
	InvalidCardMessage    = "Dados do cartão inválidos: verifique o número, data de validade e código de segurança"
	GenericFailureMessage = "Não foi possível processar o pagamento. Tente novamente em instantes."
)

// TokenizationError cobre falhas na troca do cartão por token. BadCardData
// indica resposta 422 do gateway; qualquer outra falha carrega a mensagem do
// corpo da resposta ou o fallback genérico.
type TokenizationError struct {
	BadCardData bool
	Message     string
}

func (e *TokenizationError) Error() string {
	return e.Message
}

// SubscriptionError cobre falhas na criação da assinatura depois de um token
// já emitido. O token não é revogado nem reaproveitado: é simplesmente
// descartado.
type SubscriptionError struct {
	Message string
}

func (e *SubscriptionError) Error() string {
	return e.Message
}
