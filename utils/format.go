package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// OnlyDigits remove tudo que não for dígito.
func OnlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// FormatMobilePhone formata um celular de 11 dígitos como (DD) DDDDD-DDDD.
// Entradas que não tenham exatamente 11 dígitos voltam sem alteração, o que
// torna o formatador idempotente.
func FormatMobilePhone(phone string) string {
	clean := OnlyDigits(phone)
	if len(clean) != 11 {
		return phone
	}
	return fmt.Sprintf("(%s) %s-%s", clean[0:2], clean[2:7], clean[7:])
}

// FormatLandlinePhone formata um telefone fixo de 10 dígitos como (DD) DDDD-DDDD.
func FormatLandlinePhone(phone string) string {
	clean := OnlyDigits(phone)
	if len(clean) != 10 {
		return phone
	}
	return fmt.Sprintf("(%s) %s-%s", clean[0:2], clean[2:6], clean[6:])
}

// FormatPostalCode formata um CEP de 8 dígitos como DDDDD-DDD.
func FormatPostalCode(cep string) string {
	clean := OnlyDigits(cep)
	if len(clean) != 8 {
		return cep
	}
	return fmt.Sprintf("%s-%s", clean[0:5], clean[5:])
}

// ValidatePostalCode exige pelo menos 8 dígitos.
func ValidatePostalCode(cep string) bool {
	return len(OnlyDigits(cep)) >= 8
}

// FormatCardNumber agrupa os dígitos do cartão em blocos de 4 separados por
// espaço, limitado a 19 caracteres no total (o limite do campo no formulário).
func FormatCardNumber(number string) string {
	clean := OnlyDigits(number)
	if clean == "" {
		return ""
	}

	var b strings.Builder
	for i, r := range clean {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	formatted := b.String()
	if len(formatted) > 19 {
		formatted = formatted[:19]
	}
	return strings.TrimSpace(formatted)
}

// FormatExpiry formata a validade do cartão como MM/AA.
func FormatExpiry(expiry string) string {
	clean := OnlyDigits(expiry)
	if len(clean) > 4 {
		clean = clean[:4]
	}
	if len(clean) <= 2 {
		return clean
	}
	return clean[:2] + "/" + clean[2:]
}

// ValidateExpiry aceita MM/AA com mês entre 1 e 12.
func ValidateExpiry(expiry string) bool {
	clean := OnlyDigits(expiry)
	if len(clean) != 4 {
		return false
	}
	month, err := strconv.Atoi(clean[:2])
	if err != nil {
		return false
	}
	return month >= 1 && month <= 12
}
