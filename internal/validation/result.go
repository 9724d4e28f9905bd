// Package validation reúne os validadores e normalizadores usados pelos serviços antes de
// qualquer operação de persistência. Todas as funções são puras e seguras para uso concorrente.
package validation

import (
	"time"
	"unicode/utf8"
)

// Kind classifica o motivo de uma rejeição.
type Kind string

const (
	KindFormat       Kind = "format"       // formato inesperado (email, data, telefone)
	KindPolicy       Kind = "policy"       // regra de negócio (senha fraca, idade, role)
	KindChecksum     Kind = "checksum"     // dígitos verificadores do CPF
	KindCompleteness Kind = "completeness" // campos obrigatórios ausentes
)

// Result é o par (aprovado, motivo) devolvido pelos validadores.
// Rejeição é um valor de retorno, nunca um panic.
type Result struct {
	Valid   bool
	Kind    Kind
	Message string
}

func ok(msg string) Result { return Result{Valid: true, Message: msg} }

func fail(kind Kind, msg string) Result { return Result{Kind: kind, Message: msg} }

// Clock fornece o "hoje" para os cálculos de data de nascimento e idade.
type Clock func() time.Time

// SystemClock lê o relógio do sistema.
var SystemClock Clock = time.Now

// FixedClock devolve sempre o mesmo instante. Usado em testes.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
