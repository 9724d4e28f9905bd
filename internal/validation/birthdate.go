package validation

import (
	"time"
)

const (
	birthDateLayout = "2006-01-02"
	MaxAge          = 120
)

// ValidateBirthDate interpreta uma data YYYY-MM-DD e rejeita datas futuras
// ou que impliquem idade acima de MaxAge.
func ValidateBirthDate(raw string, now Clock) (time.Time, Result) {
	if raw == "" {
		return time.Time{}, fail(KindCompleteness, "Birth date is required")
	}

	birth, err := time.Parse(birthDateLayout, raw)
	if err != nil {
		return time.Time{}, fail(KindFormat, "Invalid birth date format. Use YYYY-MM-DD")
	}

	today := now()
	if afterDay(birth, today) {
		return time.Time{}, fail(KindPolicy, "Birth date cannot be in the future")
	}
	if CalculateAge(birth, now) > MaxAge {
		return time.Time{}, fail(KindPolicy, "Invalid birth date: age cannot exceed 120 years")
	}
	return birth, ok("Valid birth date")
}

// CalculateAge devolve a idade em anos completos na data corrente do relógio.
func CalculateAge(birth time.Time, now Clock) int {
	ty, tm, td := now().Date()
	by, bm, bd := birth.Date()

	age := ty - by
	if tm < bm || (tm == bm && td < bd) {
		age--
	}
	return age
}

// AgeOf é a variante opcional de CalculateAge: sem data de nascimento não há idade.
func AgeOf(birth *time.Time, now Clock) *int {
	if birth == nil || birth.IsZero() {
		return nil
	}
	age := CalculateAge(*birth, now)
	return &age
}

// afterDay compara apenas o dia civil (ano, mês, dia).
func afterDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}
