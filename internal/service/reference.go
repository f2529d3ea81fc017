package service

import (
	"crypto/rand"
	"math/big"

	"venuebook/internal/models"
)

const referenceAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newReference builds an unguessable booking reference: the fixed prefix
// followed by random upper base36 characters.
func newReference() string {
	out := make([]byte, models.ReferenceTokenLength)
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		out[i] = referenceAlphabet[idx.Int64()]
	}
	return models.ReferencePrefix + string(out)
}
