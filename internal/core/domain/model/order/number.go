package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// numberAlphabet excludes ambiguous characters (0/O, 1/I/L) so support staff
// can read order numbers back over the phone.
const numberAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const numberSuffixLength = 6

// NewNumber generates a human-readable order number of the form
// ORD-20250601-K7M2QX: a date prefix plus a random suffix. Uniqueness is
// enforced by the database; collisions within a day are vanishingly unlikely
// at 31^6 combinations.
func NewNumber(now time.Time) (string, error) {
	suffix := make([]byte, numberSuffixLength)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(numberAlphabet))))
		if err != nil {
			return "", fmt.Errorf("generate order number: %w", err)
		}
		suffix[i] = numberAlphabet[n.Int64()]
	}

	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix), nil
}
