package validation

import "strings"

// FormatCPF formata 11 dígitos como XXX.XXX.XXX-XX. Qualquer outra entrada volta inalterada.
func FormatCPF(cpf string) string {
	r := []rune(cpf)
	if len(r) != cpfLength {
		return cpf
	}
	return string(r[:3]) + "." + string(r[3:6]) + "." + string(r[6:9]) + "-" + string(r[9:])
}

// NormalizePhone remove a pontuação e devolve só os dígitos ASCII.
func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// ValidatePhone aceita telefones com DDD: 10 ou 11 dígitos após remover a pontuação.
func ValidatePhone(phone string) bool {
	n := len(NormalizePhone(phone))
	return n == 10 || n == 11
}

// FormatPhone formata telefones de 10 dígitos como (XX) XXXX-XXXX e de 11 como (XX) XXXXX-XXXX.
func FormatPhone(phone string) string {
	digits := NormalizePhone(phone)
	switch len(digits) {
	case 10:
		return "(" + digits[:2] + ") " + digits[2:6] + "-" + digits[6:]
	case 11:
		return "(" + digits[:2] + ") " + digits[2:7] + "-" + digits[7:]
	}
	return phone
}

// Mask substitui todos os caracteres, exceto os últimos visible, por mask.
func Mask(data string, mask rune, visible int) string {
	if visible < 0 {
		visible = 0
	}
	r := []rune(data)
	if len(r) <= visible {
		return data
	}
	return strings.Repeat(string(mask), len(r)-visible) + string(r[len(r)-visible:])
}
