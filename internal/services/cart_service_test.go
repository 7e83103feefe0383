package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiendapesca/internal/apperrors"
	"tiendapesca/internal/models"
)

func TestCartAddCreatesLine(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "angler@example.com")
	product := env.seedProduct(t, "Deep Diver", "10.00", 5)

	require.NoError(t, env.cartSvc.Add(user.ID, product.ID, 2))

	items, err := env.cartSvc.List(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, product.ID, items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].Subtotal.Equal(decimal.RequireFromString("20.00")))
}

func TestCartAddAccumulatesExistingLine(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "angler@example.com")
	product := env.seedProduct(t, "Deep Diver", "10.00", 5)

	require.NoError(t, env.cartSvc.Add(user.ID, product.ID, 2))
	require.NoError(t, env.cartSvc.Add(user.ID, product.ID, 1))

	items, err := env.cartSvc.List(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	// One row per (user, product) at the database level too.
	var count int64
	require.NoError(t, env.db.Model(&models.CartLine{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCartAddRejectsOversell(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "angler@example.com")
	product := env.seedProduct(t, "Deep Diver", "10.00", 3)

	require.NoError(t, env.cartSvc.Add(user.ID, product.ID, 2))
	err := env.cartSvc.Add(user.ID, product.ID, 2)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflictStock, apperrors.CodeOf(err))
}

func TestCartAddValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "angler@example.com")
	product := env.seedProduct(t, "Deep Diver", "10.00", 3)

	err := env.cartSvc.Add(user.ID, product.ID, 0)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	err = env.cartSvc.Add(user.ID, 9999, 1)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestCartUpdateQuantityToZeroDeletesLine(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "angler@example.com")
	product := env.seedProduct(t, "Deep Diver", "10.00", 5)
	require.NoError(t, env.cartSvc.Add(user.ID, product.ID, 2))

	items, err := env.cartSvc.List(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, env.cartSvc.UpdateQuantity(user.ID, items[0].ID, 0))

	items, err = env.cartSvc.List(user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartLineOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner@example.com")
	other := env.seedUser(t, "other@example.com")
	product := env.seedProduct(t, "Deep Diver", "10.00", 5)
	require.NoError(t, env.cartSvc.Add(owner.ID, product.ID, 1))

	items, err := env.cartSvc.List(owner.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	err = env.cartSvc.UpdateQuantity(other.ID, items[0].ID, 3)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	err = env.cartSvc.Remove(other.ID, items[0].ID)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
}

func TestCartClearAndTotal(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "angler@example.com")
	lure := env.seedProduct(t, "Deep Diver", "10.00", 5)
	reel := env.seedProduct(t, "Baitcaster", "55.50", 2)

	require.NoError(t, env.cartSvc.Add(user.ID, lure.ID, 2))
	require.NoError(t, env.cartSvc.Add(user.ID, reel.ID, 1))

	total, err := env.cartSvc.Total(user.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("75.50")), "got %s", total)

	require.NoError(t, env.cartSvc.Clear(user.ID))
	items, err := env.cartSvc.List(user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartListUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.cartSvc.List(424242)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}
