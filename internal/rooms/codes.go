package rooms

import (
	"crypto/rand"
	"math/big"
)

// Room codes are typed by hand from another device, so they stay short and
// uppercase. 36^6 combinations keep collisions negligible.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const codeLength = 6

func GenerateCode() (string, error) {
	code := make([]byte, codeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code), nil
}
