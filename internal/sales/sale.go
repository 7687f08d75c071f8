package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rfarias/vehicle-sales-backend/internal/catalog"
	"github.com/rfarias/vehicle-sales-backend/pkg/enums"
	pkgerrors "github.com/rfarias/vehicle-sales-backend/pkg/errors"
)

// VehicleData is the immutable snapshot of the vehicle captured when the
// sale was created. Later catalog mutations never rewrite it.
type VehicleData struct {
	Brand         string
	Model         string
	Year          int
	Color         string
	OriginalPrice decimal.Decimal
}

// Sale records one purchase transaction. The payment code is assigned once
// at creation and never regenerated.
type Sale struct {
	ID            uuid.UUID
	VehicleID     uuid.UUID
	BuyerCPF      string
	BuyerName     string
	BuyerEmail    string
	SalePrice     decimal.Decimal
	PaymentCode   string
	PaymentStatus enums.PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	VehicleData   VehicleData
}

// NewSale validates the buyer fields and builds a pending sale priced at the
// snapshot's original price.
func NewSale(vehicleID uuid.UUID, buyerCPF, buyerName, buyerEmail string, snapshot catalog.Snapshot) (*Sale, error) {
	if strings.TrimSpace(buyerCPF) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer CPF is required")
	}
	if strings.TrimSpace(buyerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer name is required")
	}

	return &Sale{
		ID:            uuid.New(),
		VehicleID:     vehicleID,
		BuyerCPF:      buyerCPF,
		BuyerName:     buyerName,
		BuyerEmail:    buyerEmail,
		SalePrice:     snapshot.OriginalPrice,
		PaymentCode:   NewPaymentCode(),
		PaymentStatus: enums.PaymentStatusPending,
		CreatedAt:     time.Now().UTC(),
		VehicleData: VehicleData{
			Brand:         snapshot.Brand,
			Model:         snapshot.Model,
			Year:          snapshot.Year,
			Color:         snapshot.Color,
			OriginalPrice: snapshot.OriginalPrice,
		},
	}, nil
}

// UpdatePaymentStatus sets the status unconditionally. The sale record is
// never reversed; only the catalog side undoes a cancelled sale.
func (s *Sale) UpdatePaymentStatus(status enums.PaymentStatus) {
	s.PaymentStatus = status
	now := time.Now().UTC()
	s.UpdatedAt = &now
}

// NewPaymentCode generates a correlation token for payment-provider
// callbacks: PAY-<UTC date>-<8 uppercase hex chars from a fresh uuid>.
func NewPaymentCode() string {
	entropy := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("PAY-%s-%s", time.Now().UTC().Format("20060102"), entropy[:8])
}
