package uptask

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var codeMax = big.NewInt(1_000_000)

// NewConfirmationCode returns a six digit one-time code. Codes are not
// checked for uniqueness; they are short lived and scoped per user.
func NewConfirmationCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
