package vehicles

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rfarias/vehicle-sales-backend/pkg/db/models"
)

// VehicleDTO represents the catalog payload returned to clients.
type VehicleDTO struct {
	ID            uuid.UUID       `json:"id"`
	Brand         string          `json:"brand"`
	Model         string          `json:"model"`
	Year          int             `json:"year"`
	Color         string          `json:"color"`
	Price         decimal.Decimal `json:"price"`
	IsSold        bool            `json:"isSold"`
	PaymentStatus string          `json:"paymentStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     *time.Time      `json:"updatedAt,omitempty"`
}

// SoldVehicleDTO adds the sale sub-state for the sold read model.
type SoldVehicleDTO struct {
	VehicleDTO
	BuyerCPF    *string    `json:"buyerCpf,omitempty"`
	SaleDate    *time.Time `json:"saleDate,omitempty"`
	PaymentCode *string    `json:"paymentCode,omitempty"`
}

// NewVehicleDTO builds a DTO from the persisted model.
func NewVehicleDTO(vehicle *models.Vehicle) *VehicleDTO {
	return &VehicleDTO{
		ID:            vehicle.ID,
		Brand:         vehicle.Brand,
		Model:         vehicle.Model,
		Year:          vehicle.Year,
		Color:         vehicle.Color,
		Price:         vehicle.Price,
		IsSold:        vehicle.IsSold,
		PaymentStatus: vehicle.PaymentStatus.String(),
		CreatedAt:     vehicle.CreatedAt,
		UpdatedAt:     vehicle.UpdatedAt,
	}
}

// NewSoldVehicleDTO includes buyer and payment fields.
func NewSoldVehicleDTO(vehicle *models.Vehicle) *SoldVehicleDTO {
	return &SoldVehicleDTO{
		VehicleDTO:  *NewVehicleDTO(vehicle),
		BuyerCPF:    vehicle.BuyerCPF,
		SaleDate:    vehicle.SaleDate,
		PaymentCode: vehicle.PaymentCode,
	}
}

func newVehicleDTOs(rows []models.Vehicle) []VehicleDTO {
	dtos := make([]VehicleDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewVehicleDTO(&rows[i]))
	}
	return dtos
}
