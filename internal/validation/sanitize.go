package validation

import (
	"fmt"
	"strings"
)

// ValidateRequiredFields verifica se cada campo exigido existe, não é nulo e não está em branco.
// Todos os ausentes são listados em uma única mensagem, na ordem pedida.
func ValidateRequiredFields(data map[string]interface{}, required []string) Result {
	if data == nil {
		return fail(KindFormat, "Invalid data format")
	}

	var missing []string
	for _, field := range required {
		value, present := data[field]
		if !present || value == nil || strings.TrimSpace(textOf(value)) == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return fail(KindCompleteness, "Missing required fields: "+strings.Join(missing, ", "))
	}
	return ok("All required fields present")
}

func textOf(value interface{}) string {
	if s, isString := value.(string); isString {
		return s
	}
	return fmt.Sprint(value)
}

// SanitizeString colapsa sequências de espaço em branco, apara as pontas e,
// se maxLength > 0, corta o resultado em exatamente maxLength caracteres.
func SanitizeString(text string, maxLength int) string {
	if text == "" {
		return ""
	}

	sanitized := strings.Join(strings.Fields(text), " ")
	if maxLength > 0 && runeLen(sanitized) > maxLength {
		sanitized = string([]rune(sanitized)[:maxLength])
	}
	return sanitized
}
