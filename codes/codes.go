// Package codes generates the short opaque identifiers printed on tickets
// and mailed as one-time passwords. Codes are a salted bijective encoding of
// the row id, so they are stable, non-sequential and need no extra storage.
package codes

import (
	"fmt"
	"strings"

	hashids "github.com/speps/go-hashids/v2"
)

// Alphabet omits characters that read ambiguously in print (l, 0, uppercase).
const Alphabet = "abcdefghijkmnopqrstuvwxyz123456789"

const (
	ticketCodeLength = 6
	otpLength        = 8
)

type Generator struct {
	h *hashids.HashID
}

func NewGenerator(salt string) (*Generator, error) {
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = 16
	data.Alphabet = Alphabet

	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, fmt.Errorf("could not initialize code generator: %w", err)
	}
	return &Generator{h: h}, nil
}

// TicketCode derives the printed code for a ticket id. Truncation keeps codes
// typable; the tickets table enforces uniqueness as a backstop.
func (g *Generator) TicketCode(id int64) (string, error) {
	return g.encode(id, ticketCodeLength)
}

// OTP derives the one-time password mailed to an invited account.
func (g *Generator) OTP(id int64) (string, error) {
	return g.encode(id, otpLength)
}

func (g *Generator) encode(id int64, length int) (string, error) {
	s, err := g.h.EncodeInt64([]int64{id})
	if err != nil {
		return "", fmt.Errorf("could not encode id %d: %w", id, err)
	}
	s = strings.ToLower(s)
	if len(s) > length {
		s = s[:length]
	}
	return s, nil
}
