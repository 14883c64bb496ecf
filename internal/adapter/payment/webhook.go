package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/srgjo27/seat_reservation/internal/core/domain"
)

const (
	SignatureHeader  = "Payment-Signature"
	DefaultTolerance = 5 * time.Minute

	EventCheckoutCompleted = "checkout.session.completed"
	EventPaymentFailed     = "payment_intent.payment_failed"
)

var (
	ErrMissingSignature = domain.NewError(domain.KindValidation, "missing payment signature")
	ErrInvalidSignature = domain.NewError(domain.KindValidation, "payment signature does not match")
	ErrExpiredSignature = domain.NewError(domain.KindValidation, "payment signature timestamp outside tolerance")
	ErrMalformedEvent   = domain.NewError(domain.KindValidation, "malformed payment event")
)

// WebhookVerifier checks "t=<unix>,v1=<hex>" signatures where the digest is
// HMAC-SHA256 over "<t>.<payload>".
type WebhookVerifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

func NewWebhookVerifier(secret string, tolerance time.Duration) *WebhookVerifier {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	return &WebhookVerifier{
		secret:    []byte(secret),
		tolerance: tolerance,
		now:       time.Now,
	}
}

func (v *WebhookVerifier) Verify(payload []byte, header string) error {
	if header == "" {
		return ErrMissingSignature
	}

	var ts int64
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return ErrInvalidSignature.Wrap(err)
			}
			ts = n
		case "v1":
			signatures = append(signatures, val)
		}
	}

	if ts == 0 || len(signatures) == 0 {
		return ErrInvalidSignature
	}

	age := v.now().Sub(time.Unix(ts, 0))
	if age > v.tolerance || age < -v.tolerance {
		return ErrExpiredSignature
	}

	expected := computeSignature(v.secret, ts, payload)
	for _, sig := range signatures {
		got, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(got, expected) {
			return nil
		}
	}

	return ErrInvalidSignature
}

// Sign builds a signature header for payload, as the gateway would.
func Sign(secret string, payload []byte, at time.Time) string {
	ts := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(computeSignature([]byte(secret), ts, payload)))
}

func computeSignature(secret []byte, ts int64, payload []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

type gatewayEvent struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object struct {
			ID                 string            `json:"id"`
			PaymentIntent      string            `json:"payment_intent"`
			PaymentMethodTypes []string          `json:"payment_method_types"`
			AmountTotal        *int64            `json:"amount_total"`
			Amount             *int64            `json:"amount"`
			Metadata           map[string]string `json:"metadata"`
			LastPaymentError   *struct {
				Message string `json:"message"`
			} `json:"last_payment_error"`
		} `json:"object"`
	} `json:"data"`
}

// ParseOutcome decodes a verified webhook payload. Event types other than a
// completed checkout or a failed payment return ok=false.
func ParseOutcome(payload []byte) (outcome *domain.PaymentOutcome, ok bool, err error) {
	var evt gatewayEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, false, ErrMalformedEvent.Wrap(err)
	}

	var kind domain.OutcomeKind
	switch evt.Type {
	case EventCheckoutCompleted:
		kind = domain.OutcomeCompleted
	case EventPaymentFailed:
		kind = domain.OutcomeFailed
	default:
		return nil, false, nil
	}

	obj := evt.Data.Object
	meta, err := domain.ParseOutcomeMetadata(obj.Metadata)
	if err != nil {
		return nil, false, err
	}

	outcome = &domain.PaymentOutcome{
		NotificationID: evt.ID,
		Kind:           kind,
		ExternalRef:    obj.PaymentIntent,
		Metadata:       meta,
		ReceivedAt:     time.Now(),
	}
	if outcome.ExternalRef == "" {
		outcome.ExternalRef = obj.ID
	}
	if len(obj.PaymentMethodTypes) > 0 {
		outcome.PaymentMethod = obj.PaymentMethodTypes[0]
	}

	minor := obj.AmountTotal
	if minor == nil {
		minor = obj.Amount
	}
	if minor != nil {
		amount := FromMinorUnits(*minor)
		outcome.Amount = &amount
	}

	if kind == domain.OutcomeFailed && obj.LastPaymentError != nil {
		outcome.FailureMessage = obj.LastPaymentError.Message
	}

	return outcome, true, nil
}
