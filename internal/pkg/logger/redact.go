package logger

import "strings"

// RedactPhone masks a phone number for safe logging, keeping only the
// last three digits: "+56 9 1234 5678" → "***678".
func RedactPhone(phone string) string {
	var digits []rune
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 3 {
		return "***"
	}
	return "***" + string(digits[len(digits)-3:])
}

// RedactName masks a customer display name, keeping the first initial:
// "Maria Gonzalez" → "M***".
func RedactName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return string([]rune(name)[:1]) + "***"
}
