package utils

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const checkoutSuffixLength = 9
const letterBytes = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMu     sync.Mutex
)

// GenerateCheckoutSessionID produces the opaque token handed to the payment
// flow when a student enrolls in a paid group session.
func GenerateCheckoutSessionID() string {
	randMu.Lock()
	defer randMu.Unlock()

	b := make([]byte, checkoutSuffixLength)
	for i := range b {
		b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
	}
	return fmt.Sprintf("checkout_%d_%s", time.Now().UnixMilli(), string(b))
}
