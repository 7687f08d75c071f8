package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rfarias/vehicle-sales-backend/pkg/enums"
	pkgerrors "github.com/rfarias/vehicle-sales-backend/pkg/errors"
)

const (
	MinVehicleYear = 1900
	MaxVehicleYear = 2030
)

// Vehicle represents a catalog listing plus its sale sub-state. A vehicle is
// sold exactly while buyer CPF, sale date and payment code are all set; a
// cancelled payment reverses the sale and clears the three of them.
type Vehicle struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Brand         string              `gorm:"column:brand;not null"`
	Model         string              `gorm:"column:model;not null"`
	Year          int                 `gorm:"column:year;not null"`
	Color         string              `gorm:"column:color;not null"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	IsSold        bool                `gorm:"column:is_sold;not null;default:false"`
	BuyerCPF      *string             `gorm:"column:buyer_cpf"`
	SaleDate      *time.Time          `gorm:"column:sale_date"`
	PaymentCode   *string             `gorm:"column:payment_code;uniqueIndex:idx_vehicles_payment_code"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     *time.Time          `gorm:"column:updated_at"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

// NewVehicle validates the descriptive fields and returns an unsold vehicle
// with a pending payment status.
func NewVehicle(brand, model string, year int, color string, price decimal.Decimal) (*Vehicle, error) {
	if strings.TrimSpace(brand) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "model is required")
	}
	if year < MinVehicleYear || year > MaxVehicleYear {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid year").
			WithDetails(map[string]any{"min": MinVehicleYear, "max": MaxVehicleYear})
	}
	if !price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than 0")
	}

	return &Vehicle{
		ID:            uuid.New(),
		Brand:         brand,
		Model:         model,
		Year:          year,
		Color:         color,
		Price:         price,
		PaymentStatus: enums.PaymentStatusPending,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// UpdateDetails mutates the descriptive fields. Only brand and price are
// checked, matching the registration-time rules that stuck for updates.
func (v *Vehicle) UpdateDetails(brand, model string, year int, color string, price decimal.Decimal) error {
	if strings.TrimSpace(brand) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "brand is required")
	}
	if !price.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than 0")
	}

	v.Brand = brand
	v.Model = model
	v.Year = year
	v.Color = color
	v.Price = price
	v.stampUpdate()
	return nil
}

// RegisterSale transitions the vehicle into the sold sub-state.
func (v *Vehicle) RegisterSale(buyerCPF, paymentCode string) error {
	if strings.TrimSpace(buyerCPF) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "buyer CPF is required")
	}
	if strings.TrimSpace(paymentCode) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment code is required")
	}
	if v.IsSold {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "vehicle is already sold")
	}

	now := time.Now().UTC()
	v.BuyerCPF = &buyerCPF
	v.SaleDate = &now
	v.PaymentCode = &paymentCode
	v.PaymentStatus = enums.PaymentStatusPending
	v.IsSold = true
	v.stampUpdate()
	return nil
}

// ApplyPaymentStatus records a payment-provider callback. The payment code is
// overwritten with whatever the caller sent, even when it differs from the
// original; a cancelled payment reverses the sale entirely. A failed payment
// keeps the vehicle sold.
func (v *Vehicle) ApplyPaymentStatus(paymentCode string, status enums.PaymentStatus) error {
	if !v.IsSold {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "vehicle is not sold")
	}

	v.PaymentStatus = status
	v.PaymentCode = &paymentCode

	if status == enums.PaymentStatusCancelled {
		v.IsSold = false
		v.BuyerCPF = nil
		v.SaleDate = nil
		v.PaymentCode = nil
	}

	v.stampUpdate()
	return nil
}

// Deletable reports whether the vehicle may leave the catalog.
func (v *Vehicle) Deletable() error {
	if v.IsSold {
		return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete a sold vehicle")
	}
	return nil
}

func (v *Vehicle) stampUpdate() {
	now := time.Now().UTC()
	v.UpdatedAt = &now
}
