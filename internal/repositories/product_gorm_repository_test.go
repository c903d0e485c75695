package repositories_test

import (
	"context"
	"testing"

	"farmstore/internal/database"
	"farmstore/internal/models"
	"farmstore/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMProductRepository_CRUD(t *testing.T) {
	db := database.OpenTest(t)
	ctx := context.Background()
	repo := repositories.NewGORMProductRepository(db)

	tilapia := seedProduct(t, repo, "premium-tilapia", "30.00")
	seedProduct(t, repo, "hearty-catfish", "25.00")

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bySlug, err := repo.GetBySlug(ctx, "premium-tilapia")
	require.NoError(t, err)
	assert.Equal(t, tilapia.ID, bySlug.ID)

	tilapia.UnitPrice = decimal.RequireFromString("32.50")
	require.NoError(t, repo.Update(ctx, tilapia))
	updated, err := repo.GetByID(ctx, tilapia.ID)
	require.NoError(t, err)
	assert.Equal(t, "32.50", updated.UnitPrice.StringFixed(2))

	require.NoError(t, repo.Delete(ctx, tilapia.ID))
	_, err = repo.GetByID(ctx, tilapia.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, tilapia.ID), repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &models.Product{ID: 777, Name: "x", Slug: "x"}), repositories.ErrNotFound)
}

func TestGORMProductRepository_FindFirstByName(t *testing.T) {
	db := database.OpenTest(t)
	ctx := context.Background()
	repo := repositories.NewGORMProductRepository(db)

	seedProduct(t, repo, "premium-tilapia", "30.00")
	catfish := &models.Product{Name: "Hearty Catfish", Slug: "hearty-catfish", UnitPrice: decimal.RequireFromString("25.00")}
	require.NoError(t, repo.Create(ctx, catfish))

	found, err := repo.FindFirstByName(ctx, "catfish")
	require.NoError(t, err)
	assert.Equal(t, catfish.ID, found.ID)

	_, err = repo.FindFirstByName(ctx, "eel")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMProductRepository_DeleteBlockedWhileReferenced(t *testing.T) {
	db := database.OpenTest(t)
	ctx := context.Background()
	products := repositories.NewGORMProductRepository(db)
	orders := repositories.NewGORMOrderRepository(db)

	catfish := seedProduct(t, products, "hearty-catfish", "25.00")
	require.NoError(t, orders.CreateWithItems(ctx, &models.Order{CustomerName: "Yaw"}, []models.OrderItem{
		{ProductID: &catfish.ID, ProductName: catfish.Name, Quantity: 1, UnitPrice: catfish.UnitPrice},
	}, decimal.RequireFromString("26.25")))

	err := products.Delete(ctx, catfish.ID)
	assert.ErrorIs(t, err, repositories.ErrProductInUse)

	_, err = products.GetByID(ctx, catfish.ID)
	assert.NoError(t, err)
}
