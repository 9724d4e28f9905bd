package validation

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	PasswordMinLength = 8
	PasswordMaxLength = 128
	cpfLength         = 11

	// EmailMaxLength acompanha a coluna users.email.
	EmailMaxLength = 255
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nonDigits    = regexp.MustCompile(`[^0-9]`)
)

// passwordSymbols é o conjunto fixo de caracteres especiais aceitos pela política de senha.
const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// ValidRoles lista os papéis aceitos, em ordem de exibição.
var ValidRoles = []string{"patient", "professional", "admin"}

// ValidateEmail verifica o formato local@dominio.tld. Não consulta DNS.
func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	return emailPattern.MatchString(email)
}

// CheckPasswordLength aplica o limite 8..128 caracteres. É a única fonte dessa regra:
// tanto ValidatePassword quanto domain.User.SetPassword a chamam.
func CheckPasswordLength(password string) Result {
	if password == "" {
		return fail(KindPolicy, "Password is required")
	}
	n := runeLen(password)
	if n < PasswordMinLength {
		return fail(KindPolicy, "Password must be at least 8 characters long")
	}
	if n > PasswordMaxLength {
		return fail(KindPolicy, "Password cannot exceed 128 characters")
	}
	return ok("Password length is valid")
}

// ValidatePassword aplica a política de senha. A primeira regra que falhar define a mensagem.
func ValidatePassword(password string) Result {
	if res := CheckPasswordLength(password); !res.Valid {
		return res
	}

	var hasLetter, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	if !hasLetter {
		return fail(KindPolicy, "Password must contain at least one letter")
	}
	if !hasDigit {
		return fail(KindPolicy, "Password must contain at least one number")
	}
	if !hasSymbol {
		return fail(KindPolicy, "Password must contain at least one special character")
	}
	return ok("Password is valid")
}

// NormalizeCPF remove tudo que não for dígito ASCII.
func NormalizeCPF(cpf string) string {
	return nonDigits.ReplaceAllString(cpf, "")
}

// CheckCPF valida o CPF distinguindo erro de formato (quantidade de dígitos)
// de falha nos dígitos verificadores.
func CheckCPF(cpf string) Result {
	digits := NormalizeCPF(cpf)
	if len(digits) != cpfLength {
		return fail(KindFormat, "Invalid CPF format")
	}
	if strings.Count(digits, digits[:1]) == cpfLength {
		return fail(KindChecksum, "Invalid CPF format")
	}

	d := make([]int, cpfLength)
	for i := range digits {
		d[i] = int(digits[i] - '0')
	}

	if d[9] != cpfCheckDigit(d[:9]) {
		return fail(KindChecksum, "Invalid CPF format")
	}
	if d[10] != cpfCheckDigit(d[:10]) {
		return fail(KindChecksum, "Invalid CPF format")
	}
	return ok("Valid CPF")
}

// ValidateCPF aceita CPFs com ou sem pontuação cujos dígitos verificadores conferem.
func ValidateCPF(cpf string) bool {
	return CheckCPF(cpf).Valid
}

// cpfCheckDigit calcula o dígito verificador: pesos de len(digits)+1 até 2.
func cpfCheckDigit(digits []int) int {
	weight := len(digits) + 1
	sum := 0
	for _, digit := range digits {
		sum += digit * weight
		weight--
	}
	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}

// ValidateRole aceita apenas patient, professional ou admin (sem diferenciar maiúsculas).
func ValidateRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	for _, valid := range ValidRoles {
		if role == valid {
			return true
		}
	}
	return false
}
