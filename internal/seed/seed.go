package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rfarias/vehicle-sales-backend/internal/vehicles"
	"github.com/rfarias/vehicle-sales-backend/pkg/db/models"
	"github.com/rfarias/vehicle-sales-backend/pkg/logger"
)

type seedVehicle struct {
	brand string
	model string
	year  int
	color string
	price string
	sold  bool
	buyer string
	code  string
}

var catalogSeed = []seedVehicle{
	{brand: "Toyota", model: "Corolla", year: 2022, color: "Branco", price: "85000.00"},
	{brand: "Honda", model: "Civic", year: 2021, color: "Prata", price: "95000.00"},
	{brand: "Hyundai", model: "HB20", year: 2022, color: "Vermelho", price: "65000.00"},
	{brand: "Ford", model: "Ka", year: 2021, color: "Azul", price: "55000.00"},
	{brand: "Chevrolet", model: "Onix", year: 2023, color: "Branco", price: "70000.00"},
	{brand: "Nissan", model: "Kicks", year: 2022, color: "Prata", price: "88000.00"},
	{brand: "Renault", model: "Sandero", year: 2021, color: "Amarelo", price: "62000.00"},
	{brand: "Fiat", model: "Argo", year: 2022, color: "Verde", price: "68000.00"},
	{brand: "Peugeot", model: "208", year: 2023, color: "Cinza", price: "75000.00"},
	{brand: "Volkswagen", model: "Polo", year: 2022, color: "Azul", price: "72000.00"},
	{brand: "Jeep", model: "Renegade", year: 2022, color: "Laranja", price: "125000.00"},
	{brand: "Mitsubishi", model: "ASX", year: 2021, color: "Prata", price: "115000.00"},
	{brand: "Honda", model: "HR-V", year: 2023, color: "Preto", price: "135000.00"},
	{brand: "Hyundai", model: "Creta", year: 2022, color: "Branco", price: "118000.00"},
	{brand: "Volkswagen", model: "T-Cross", year: 2021, color: "Cinza", price: "108000.00"},
	{brand: "BMW", model: "320i", year: 2022, color: "Preto", price: "180000.00"},
	{brand: "Mercedes-Benz", model: "C200", year: 2021, color: "Branco", price: "220000.00"},
	{brand: "Audi", model: "A3", year: 2023, color: "Azul", price: "165000.00"},
	{brand: "Volvo", model: "XC40", year: 2022, color: "Cinza", price: "195000.00"},
	{brand: "Lexus", model: "UX250h", year: 2021, color: "Prata", price: "210000.00"},
	{brand: "Toyota", model: "Camry", year: 2020, color: "Preto", price: "120000.00", sold: true, buyer: "11111111111", code: "PAY-20250101-SEED0001"},
	{brand: "Honda", model: "Accord", year: 2019, color: "Branco", price: "110000.00", sold: true, buyer: "22222222222", code: "PAY-20250101-SEED0002"},
	{brand: "Volkswagen", model: "Passat", year: 2021, color: "Azul", price: "135000.00", sold: true, buyer: "33333333333", code: "PAY-20250101-SEED0003"},
	{brand: "Chevrolet", model: "Cruze", year: 2020, color: "Prata", price: "98000.00", sold: true, buyer: "44444444444", code: "PAY-20250101-SEED0004"},
	{brand: "Ford", model: "Fusion", year: 2019, color: "Vermelho", price: "92000.00", sold: true, buyer: "55555555555", code: "PAY-20250101-SEED0005"},
	{brand: "Nissan", model: "Sentra", year: 2020, color: "Cinza", price: "85000.00", sold: true, buyer: "66666666666", code: "PAY-20250101-SEED0006"},
	{brand: "Hyundai", model: "Elantra", year: 2021, color: "Branco", price: "88000.00", sold: true, buyer: "77777777777", code: "PAY-20250101-SEED0007"},
}

// Run populates the catalog with the demo fleet. It is idempotent: when any
// rows already exist the seed is skipped entirely.
func Run(ctx context.Context, repo *vehicles.Repository, logg *logger.Logger) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting vehicles: %w", err)
	}
	if count > 0 {
		if logg != nil {
			logg.Info(logg.WithField(ctx, "existing", count), "catalog already populated, skipping seed")
		}
		return nil
	}

	var available, sold int
	for _, entry := range catalogSeed {
		vehicle, err := models.NewVehicle(entry.brand, entry.model, entry.year, entry.color, decimal.RequireFromString(entry.price))
		if err != nil {
			return fmt.Errorf("building seed vehicle %s %s: %w", entry.brand, entry.model, err)
		}

		if _, err := repo.Create(ctx, vehicle); err != nil {
			return fmt.Errorf("inserting seed vehicle %s %s: %w", entry.brand, entry.model, err)
		}
		available++

		if entry.sold {
			if err := vehicle.RegisterSale(entry.buyer, entry.code); err != nil {
				return fmt.Errorf("registering seed sale %s %s: %w", entry.brand, entry.model, err)
			}
			if err := repo.RegisterSale(ctx, vehicle); err != nil {
				return fmt.Errorf("persisting seed sale %s %s: %w", entry.brand, entry.model, err)
			}
			available--
			sold++
		}
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{"available": available, "sold": sold})
		logg.Info(ctx, "catalog seeded")
	}
	return nil
}
