package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shop/apperrors"
	"go-shop/models"
)

type cartFixture struct {
	carts    *mockCartRepository
	products *mockProductRepository
	svc      *CartService
}

func newCartFixture() *cartFixture {
	f := &cartFixture{
		carts:    new(mockCartRepository),
		products: new(mockProductRepository),
	}
	f.svc = NewCartService(f.carts, f.products, newTestLogger())
	return f
}

func TestAddItemCreatesCartLazily(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	f.products.On("FindByID", ctx, productID).Return(&models.Product{
		ID:    productID,
		Name:  "Mug",
		Price: 7.5,
		Image: "https://cdn.example.com/mug.jpg",
	}, nil)
	f.carts.On("FindByUser", ctx, userID).Return(nil, notFoundErr())
	f.carts.On("Insert", ctx, mock.AnythingOfType("*models.Cart")).Return(nil)

	cart, err := f.svc.AddItem(ctx, userID, productID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Mug", cart.Items[0].Name)
	assert.Equal(t, 7.5, cart.Items[0].Price)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	f.products.On("FindByID", ctx, productID).Return(&models.Product{
		ID:    productID,
		Name:  "Mug",
		Price: 7.5,
	}, nil)
	f.carts.On("FindByUser", ctx, userID).Return(&models.Cart{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Items: []models.CartItem{
			{ProductID: productID, Name: "Mug", Price: 7.5, Quantity: 1},
		},
	}, nil)
	f.carts.On("UpdateItems", ctx, mock.Anything, mock.Anything).Return(nil)

	cart, err := f.svc.AddItem(ctx, userID, productID, 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestAddItemSnapshotsPriceAtAddTime(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	existing := primitive.NewObjectID()
	added := primitive.NewObjectID()

	f.products.On("FindByID", ctx, added).Return(&models.Product{
		ID:    added,
		Name:  "Lamp",
		Price: 12,
	}, nil)
	// The line item added earlier keeps its old snapshot.
	f.carts.On("FindByUser", ctx, userID).Return(&models.Cart{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Items: []models.CartItem{
			{ProductID: existing, Name: "Mug", Price: 7.5, Quantity: 1},
		},
	}, nil)
	f.carts.On("UpdateItems", ctx, mock.Anything, mock.Anything).Return(nil)

	cart, err := f.svc.AddItem(ctx, userID, added, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 7.5, cart.Items[0].Price)
	assert.Equal(t, 12.0, cart.Items[1].Price)
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	f.products.On("FindByID", ctx, productID).Return(&models.Product{ID: productID}, nil)
	f.carts.On("FindByUser", ctx, userID).Return(nil, notFoundErr())
	f.carts.On("Insert", ctx, mock.AnythingOfType("*models.Cart")).Return(nil)

	cart, err := f.svc.AddItem(ctx, userID, productID, 0)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestAddItemUnknownProduct(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	f.products.On("FindByID", ctx, productID).Return(nil, notFoundErr())

	_, err := f.svc.AddItem(ctx, userID, productID, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	f.carts.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "UpdateItems", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetCartReturnsEmptyWhenAbsent(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	f.carts.On("FindByUser", ctx, userID).Return(nil, notFoundErr())

	cart, err := f.svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, cart.UserID)
	assert.Empty(t, cart.Items)
}

func TestRemoveItemFiltersLine(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	keep := primitive.NewObjectID()
	drop := primitive.NewObjectID()

	f.carts.On("FindByUser", ctx, userID).Return(&models.Cart{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Items: []models.CartItem{
			{ProductID: keep, Name: "Mug", Quantity: 1},
			{ProductID: drop, Name: "Lamp", Quantity: 2},
		},
	}, nil)
	f.carts.On("UpdateItems", ctx, mock.Anything, mock.Anything).Return(nil)

	cart, err := f.svc.RemoveItem(ctx, userID, drop)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, keep, cart.Items[0].ProductID)
}

func TestRemoveItemFromAbsentCart(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	f.carts.On("FindByUser", ctx, userID).Return(nil, notFoundErr())

	_, err := f.svc.RemoveItem(ctx, userID, primitive.NewObjectID())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestClearCartIsIdempotent(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	f.carts.On("DeleteByUser", ctx, userID).Return(nil)

	require.NoError(t, f.svc.ClearCart(ctx, userID))
	require.NoError(t, f.svc.ClearCart(ctx, userID))
}
