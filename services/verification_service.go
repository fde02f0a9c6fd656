package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/sahilchouksey/course-platform-api/utils/cache"
)

// Code kinds. Email-verification and reset codes live under separate keys
// so one can never redeem the other.
const (
	CodeKindVerify = "verify"
	CodeKindReset  = "reset"
)

// CodeTTL is how long an issued code stays valid
const CodeTTL = 10 * time.Minute

var (
	ErrCodeMismatch = errors.New("verification code is invalid or has expired")
)

// VerificationService issues and redeems short-lived single-use codes,
// keyed by email in a shared TTL store. Keeping the state out of process
// memory lets any number of instances serve the verify call.
type VerificationService struct {
	store cache.Store
}

// NewVerificationService creates a new verification service
func NewVerificationService(store cache.Store) *VerificationService {
	return &VerificationService{store: store}
}

// IssueCode generates a 6-digit code for email and stores it with CodeTTL.
// Issuing again overwrites the previous code.
func (s *VerificationService) IssueCode(ctx context.Context, kind, email string) (string, error) {
	code, err := randomCode()
	if err != nil {
		return "", err
	}

	if err := s.store.Set(ctx, codeKey(kind, email), code, CodeTTL); err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}
	return code, nil
}

// CheckCode compares a submitted code without consuming it. Used by the
// two-step reset flow, where the code is verified once for the UI and
// redeemed later together with the new password.
func (s *VerificationService) CheckCode(ctx context.Context, kind, email, code string) error {
	stored, err := s.store.Get(ctx, codeKey(kind, email))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return ErrCodeMismatch
		}
		return err
	}
	if stored != code {
		return ErrCodeMismatch
	}
	return nil
}

// RedeemCode verifies and consumes a code. A redeemed code cannot be
// used twice.
func (s *VerificationService) RedeemCode(ctx context.Context, kind, email, code string) error {
	if err := s.CheckCode(ctx, kind, email, code); err != nil {
		return err
	}
	return s.store.Delete(ctx, codeKey(kind, email))
}

func codeKey(kind, email string) string {
	return fmt.Sprintf("code:%s:%s", kind, email)
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
