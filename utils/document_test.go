package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCNPJ(t *testing.T) {
	assert.True(t, ValidateCNPJ("11222333000181"))
	assert.True(t, ValidateCNPJ("11.222.333/0001-81"))

	assert.False(t, ValidateCNPJ("11222333000182"))  // verificador errado
	assert.False(t, ValidateCNPJ("112223330001"))    // curto
	assert.False(t, ValidateCNPJ("112223330001811")) // longo
	assert.False(t, ValidateCNPJ(""))
}

func TestValidateCNPJRejectsRepeatedDigits(t *testing.T) {
	for d := '0'; d <= '9'; d++ {
		doc := ""
		for i := 0; i < 14; i++ {
			doc += string(d)
		}
		assert.False(t, ValidateCNPJ(doc), "CNPJ %s deveria ser rejeitado", doc)
	}
}

func TestValidateCNPJDetectsSingleDigitMutation(t *testing.T) {
	valid := "11222333000181"
	for pos := 0; pos < len(valid); pos++ {
		for d := byte('0'); d <= '9'; d++ {
			if valid[pos] == d {
				continue
			}
			mutated := valid[:pos] + string(d) + valid[pos+1:]
			assert.False(t, ValidateCNPJ(mutated),
				"mutação na posição %d (%s) deveria invalidar", pos, mutated)
		}
	}
}

func TestFormatCNPJ(t *testing.T) {
	assert.Equal(t, "11.222.333/0001-81", FormatCNPJ("11222333000181"))
	assert.Equal(t, "11.222.333/0001-81", FormatCNPJ("11.222.333/0001-81"))
	assert.Equal(t, "112223330001", FormatCNPJ("112223330001"))
}
