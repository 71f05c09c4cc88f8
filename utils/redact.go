package utils

import "strings"

// MaskCardNumber mantém apenas os quatro últimos dígitos para uso em logs.
func MaskCardNumber(number string) string {
	clean := OnlyDigits(number)
	if len(clean) < 4 {
		return "****"
	}
	return "**** " + clean[len(clean)-4:]
}

// MaskDocument expõe somente a raiz do CNPJ (8 primeiros dígitos nunca
// aparecem completos em log).
func MaskDocument(document string) string {
	clean := OnlyDigits(document)
	if len(clean) < 3 {
		return "***"
	}
	return clean[:3] + strings.Repeat("*", len(clean)-3)
}
