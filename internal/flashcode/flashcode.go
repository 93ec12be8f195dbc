package flashcode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Prefix     = "PAY-"
	codeLength = 6
	alphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	DefaultTTL = 30 * time.Minute
)

var (
	ErrNotFound        = errors.New("flash code not found or expired")
	ErrProductMismatch = errors.New("flash code was issued for another product")
)

var codePattern = regexp.MustCompile(`^PAY-[A-Z0-9]{6}$`)

// Grant is what a live code locks in.
type Grant struct {
	Code      string    `json:"code"`
	ProductID uuid.UUID `json:"product_id"`
	Price     float64   `json:"price"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists issued codes. Redeem consumes the code: a second call for the same
// code returns ErrNotFound. Revoke drops a code that was issued but never handed out;
// revoking an unknown or expired code is not an error.
type Store interface {
	Issue(ctx context.Context, productID uuid.UUID, price float64, ttl time.Duration) (Grant, error)
	Redeem(ctx context.Context, code string, productID uuid.UUID) (Grant, error)
	Revoke(ctx context.Context, code string) error
}

// Generate returns a fresh PAY-XXXXXX code.
func Generate() (string, error) {
	var sb strings.Builder
	sb.Grow(len(Prefix) + codeLength)
	sb.WriteString(Prefix)
	size := big.NewInt(int64(len(alphabet)))
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("generate flash code: %w", err)
		}
		sb.WriteByte(alphabet[n.Int64()])
	}
	return sb.String(), nil
}

// Valid reports whether code has the PAY-XXXXXX shape.
func Valid(code string) bool {
	return codePattern.MatchString(code)
}

// Normalize upper-cases and trims user input so "pay-ab12cd " redeems.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func normalizeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
