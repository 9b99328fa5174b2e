// identifier generates and validates store identifiers, with a small
// interface so tests can mock generation
package identifier

import (
	"encoding/hex"

	"github.com/google/uuid"

	apperr "github.com/kessel-run/starwars-api/internal/errors"
)

//go:generate mockgen -destination=mocks/mock_generator.go -package=mockidentifier -source=identifier.go

// Length is the fixed length of a store identifier.
const Length = 32

// Generator is an interface for generating identifiers
type Generator interface {
	New() string
}

// HexGenerator implements the Generator interface using Google's UUID package,
// encoding the 16 random bytes as a 32-character lowercase hex token.
type HexGenerator struct{}

// New generates a new identifier string
func (g *HexGenerator) New() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// NewHexGenerator creates a new HexGenerator
func NewHexGenerator() *HexGenerator {
	return &HexGenerator{}
}

// Validate confirms raw is a syntactically valid store identifier before any
// lookup happens. Pure, no I/O.
func Validate(raw string) error {
	if len(raw) != Length {
		return apperr.Validationf("provided id '%s' is not a valid character id", raw).
			WithDetails(apperr.FieldViolation{
				Path:    "characterId",
				Message: "\"characterId\" must be a 32-character hexadecimal string",
			})
	}

	for _, c := range raw {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return apperr.Validationf("provided id '%s' is not a valid character id", raw).
				WithDetails(apperr.FieldViolation{
					Path:    "characterId",
					Message: "\"characterId\" must be a 32-character hexadecimal string",
				})
		}
	}

	return nil
}
