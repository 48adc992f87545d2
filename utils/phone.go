package utils

import "strings"

// NormalizePhone telefon numarasını kanonik forma indirger:
//   - rakam dışındaki her şey atılır ("050-123-4567" → "0501234567"),
//   - ülke kodu öneki baştaki sıfıra katlanır ("972501234567" → "0501234567"),
//   - öneksiz abone numarasının başına "0" eklenir ("501234567" → "0501234567").
//
// Aynı davetliye ait farklı yazımların tek bir kayıtta buluşması için
// hem kayıt hem arama tarafında bu form kullanılır.
func NormalizePhone(raw, countryCode string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}

	if countryCode != "" && strings.HasPrefix(digits, countryCode) && len(digits) > len(countryCode) {
		rest := digits[len(countryCode):]
		if !strings.HasPrefix(rest, "0") {
			return "0" + rest
		}
		return rest
	}

	if !strings.HasPrefix(digits, "0") {
		return "0" + digits
	}
	return digits
}

// IsValidPhone normalize edilmiş numaranın makul bir abone numarası olup
// olmadığını kontrol eder. Sıkı format doğrulaması bilinçli olarak yapılmaz.
func IsValidPhone(normalized string) bool {
	if len(normalized) < 9 || len(normalized) > 13 {
		return false
	}
	return strings.HasPrefix(normalized, "0")
}
