package enums

import (
	"fmt"
	"strings"
)

// PaymentStatus tracks the lifecycle of a payment against a sale.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusFailed    PaymentStatus = "failed"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusCancelled,
	PaymentStatusFailed,
}

// paymentStatusAliases maps the spellings payment providers actually send to
// the canonical statuses.
var paymentStatusAliases = map[string]PaymentStatus{
	"pending":    PaymentStatusPending,
	"processing": PaymentStatusPending,
	"confirmed":  PaymentStatusPaid,
	"paid":       PaymentStatusPaid,
	"approved":   PaymentStatusPaid,
	"cancelled":  PaymentStatusCancelled,
	"canceled":   PaymentStatusCancelled,
	"failed":     PaymentStatusFailed,
	"rejected":   PaymentStatusFailed,
	"declined":   PaymentStatusFailed,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStatus converts raw provider input into a PaymentStatus,
// accepting the alias spellings case-insensitively.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if status, ok := paymentStatusAliases[normalized]; ok {
		return status, nil
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
