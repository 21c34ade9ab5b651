package enroll

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrPaymentRejected indicates the payment proof did not verify.
var ErrPaymentRejected = errors.New("payment rejected")

// Proof carries the callback evidence for a completed payment. Body is
// the raw callback payload; Signature is the provider's HMAC over it.
type Proof struct {
	Body      []byte
	Signature string
}

// PaymentVerifier decides whether a payment proof unlocks a course.
type PaymentVerifier interface {
	Verify(ctx context.Context, courseID string, proof Proof) error
}

// ManualVerifier accepts every confirmation. It stands in for the real
// provider callback in demo deployments and says so in the log.
type ManualVerifier struct{}

// Verify always accepts.
func (ManualVerifier) Verify(ctx context.Context, courseID string, proof Proof) error {
	slog.Info("payment accepted without verification (manual mode)", "course_id", courseID)
	return nil
}

// WebhookVerifier checks the provider's HMAC-SHA512 signature over the
// raw callback body.
type WebhookVerifier struct {
	secret []byte
}

// NewWebhookVerifier builds a verifier from the shared IPN secret.
func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("webhook secret is required")
	}
	return &WebhookVerifier{secret: []byte(secret)}, nil
}

// Verify recomputes the signature and compares it in constant time.
func (v *WebhookVerifier) Verify(ctx context.Context, courseID string, proof Proof) error {
	if len(proof.Body) == 0 || strings.TrimSpace(proof.Signature) == "" {
		return ErrPaymentRejected
	}
	mac := hmac.New(sha512.New, v.secret)
	mac.Write(proof.Body)
	want := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(want), []byte(strings.ToLower(strings.TrimSpace(proof.Signature)))) {
		return ErrPaymentRejected
	}
	return nil
}
