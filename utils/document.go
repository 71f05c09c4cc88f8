package utils

import "fmt"

// Vetores de pesos do módulo 11 para os dois dígitos verificadores do CNPJ.
var (
	cnpjFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// FormatCNPJ formata 14 dígitos como 00.000.000/0000-00.
func FormatCNPJ(document string) string {
	clean := OnlyDigits(document)
	if len(clean) != 14 {
		return document
	}
	return fmt.Sprintf("%s.%s.%s/%s-%s",
		clean[0:2], clean[2:5], clean[5:8], clean[8:12], clean[12:])
}

// ValidateCNPJ valida os dois dígitos verificadores do CNPJ. Sequências com
// todos os dígitos iguais são rejeitadas de imediato, mesmo quando os
// verificadores fechariam.
func ValidateCNPJ(document string) bool {
	clean := OnlyDigits(document)
	if len(clean) != 14 {
		return false
	}

	allEqual := true
	for i := 1; i < len(clean); i++ {
		if clean[i] != clean[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	d1 := cnpjCheckDigit(clean[:12], cnpjFirstWeights)
	d2 := cnpjCheckDigit(clean[:12]+string(rune('0'+d1)), cnpjSecondWeights)

	return int(clean[12]-'0') == d1 && int(clean[13]-'0') == d2
}

// cnpjCheckDigit calcula 11 - (soma ponderada mod 11), com resto 0 ou 1
// resultando em dígito 0.
func cnpjCheckDigit(digits string, weights []int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weights[i]
	}
	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}
