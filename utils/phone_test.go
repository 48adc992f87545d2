package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	const countryCode = "972"

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"tireli yazım", "050-123-4567", "0501234567"},
		{"ülke kodlu", "972501234567", "0501234567"},
		{"zaten kanonik", "0501234567", "0501234567"},
		{"artı ve boşluklu", "+972 50 123 4567", "0501234567"},
		{"öneksiz abone numarası", "501234567", "0501234567"},
		{"ülke kodu sonrası sıfırlı", "9720501234567", "0501234567"},
		{"rakamsız", "abc", ""},
		{"boş", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.raw, countryCode))
		})
	}
}

// Aynı numaranın üç farklı yazımı tek kanonik forma inmeli: kayıt ve arama
// tarafı ancak bu sayede aynı davetlide buluşur.
func TestNormalizePhoneSpellingsConverge(t *testing.T) {
	spellings := []string{"050-123-4567", "972501234567", "0501234567"}
	for _, raw := range spellings {
		assert.Equal(t, "0501234567", NormalizePhone(raw, "972"), "yazım: %s", raw)
	}
}

func TestNormalizePhoneWithoutCountryCode(t *testing.T) {
	assert.Equal(t, "0501234567", NormalizePhone("501234567", ""))
	assert.Equal(t, "0501234567", NormalizePhone("0501234567", ""))
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("0501234567"))
	assert.True(t, IsValidPhone("050123456"))

	assert.False(t, IsValidPhone(""))
	assert.False(t, IsValidPhone("05012345"))       // çok kısa
	assert.False(t, IsValidPhone("05012345678901")) // çok uzun
	assert.False(t, IsValidPhone("5012345678"))     // sıfırla başlamıyor
}
