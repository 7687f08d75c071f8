package seed

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rfarias/vehicle-sales-backend/internal/vehicles"
	"github.com/rfarias/vehicle-sales-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:seed_%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Vehicle{}))
	return conn
}

func TestRunSeedsFleet(t *testing.T) {
	repo := vehicles.NewRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, Run(ctx, repo, nil))

	available, err := repo.ListBySold(ctx, false)
	require.NoError(t, err)
	assert.Len(t, available, 20)

	sold, err := repo.ListBySold(ctx, true)
	require.NoError(t, err)
	require.Len(t, sold, 7)
	for _, vehicle := range sold {
		assert.True(t, vehicle.IsSold)
		require.NotNil(t, vehicle.BuyerCPF)
		require.NotNil(t, vehicle.PaymentCode)
		assert.NotEmpty(t, *vehicle.PaymentCode)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	repo := vehicles.NewRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, Run(ctx, repo, nil))
	require.NoError(t, Run(ctx, repo, nil))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(27), count)
}
