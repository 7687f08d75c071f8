package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleDTO represents the sale payload returned to clients.
type SaleDTO struct {
	ID            uuid.UUID       `json:"id"`
	VehicleID     uuid.UUID       `json:"vehicleId"`
	BuyerCPF      string          `json:"buyerCpf"`
	BuyerName     string          `json:"buyerName"`
	BuyerEmail    string          `json:"buyerEmail"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	PaymentCode   string          `json:"paymentCode"`
	PaymentStatus string          `json:"paymentStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     *time.Time      `json:"updatedAt,omitempty"`
	VehicleData   VehicleDataDTO  `json:"vehicleData"`
}

// VehicleDataDTO surfaces the purchase-time snapshot.
type VehicleDataDTO struct {
	Brand         string          `json:"brand"`
	Model         string          `json:"model"`
	Year          int             `json:"year"`
	Color         string          `json:"color"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
}

// NewSaleDTO builds a DTO from the sale record.
func NewSaleDTO(sale *Sale) *SaleDTO {
	return &SaleDTO{
		ID:            sale.ID,
		VehicleID:     sale.VehicleID,
		BuyerCPF:      sale.BuyerCPF,
		BuyerName:     sale.BuyerName,
		BuyerEmail:    sale.BuyerEmail,
		SalePrice:     sale.SalePrice,
		PaymentCode:   sale.PaymentCode,
		PaymentStatus: sale.PaymentStatus.String(),
		CreatedAt:     sale.CreatedAt,
		UpdatedAt:     sale.UpdatedAt,
		VehicleData: VehicleDataDTO{
			Brand:         sale.VehicleData.Brand,
			Model:         sale.VehicleData.Model,
			Year:          sale.VehicleData.Year,
			Color:         sale.VehicleData.Color,
			OriginalPrice: sale.VehicleData.OriginalPrice,
		},
	}
}
