package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kashvicrafts/storefront-api/internal/model"
	"github.com/kashvicrafts/storefront-api/internal/repository"
)

type orderFixture struct {
	orders    *fakeOrderRepo
	items     *fakeOrderItemRepo
	products  *fakeProductRepo
	users     *fakeUserRepo
	addresses *fakeAddressRepo
	notifier  *fakeNotifier
	usecase   OrderUsecase
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	logger := zerolog.Nop()
	f := &orderFixture{
		orders:    newFakeOrderRepo(),
		items:     newFakeOrderItemRepo(),
		products:  newFakeProductRepo(),
		users:     newFakeUserRepo(),
		addresses: newFakeAddressRepo(),
		notifier:  &fakeNotifier{},
	}
	f.usecase = NewOrderUsecase(f.orders, f.items, f.products, f.users, f.addresses, f.notifier, &logger)
	return f
}

func (f *orderFixture) seedUser(t *testing.T) *model.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), &model.User{
		FullName: "Asha Verma",
		Email:    "asha@example.com",
		Mobile:   "9876543210",
	})
	require.NoError(t, err)
	return user
}

func TestCreateOrderPersistsHeaderAndItems(t *testing.T) {
	f := newOrderFixture(t)
	user := f.seedUser(t)
	productID := f.products.add("Diya Set", "Decor")

	order, err := f.usecase.CreateOrder(context.Background(), user.ID, CreateOrderParams{
		TotalPrice: 450,
		Items: []OrderItemParams{
			{ProductID: productID, Quantity: 3, Price: 150},
		},
	}, true)
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, user.ID, order.UserID)

	items, err := f.items.ListByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	require.Len(t, f.notifier.confirmations, 1)
	assert.Equal(t, user.Email, f.notifier.confirmations[0].user.Email)
}

func TestCreateOrderUnknownUser(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.usecase.CreateOrder(context.Background(), bson.NewObjectID(), CreateOrderParams{TotalPrice: 10}, false)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateOrderCompensatesHeaderOnItemFailure(t *testing.T) {
	f := newOrderFixture(t)
	user := f.seedUser(t)
	f.items.createManyErr = errors.New("write conflict")

	_, err := f.usecase.CreateOrder(context.Background(), user.ID, CreateOrderParams{
		TotalPrice: 450,
		Items:      []OrderItemParams{{ProductID: bson.NewObjectID(), Quantity: 1, Price: 450}},
	}, true)
	require.ErrorIs(t, err, ErrOrderCreationFailed)

	// The header must be gone, not merely soft-deleted.
	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.notifier.confirmations)

	page, err := f.usecase.FetchAllOrders(context.Background(), repository.FilterOrdersParams{}, model.PageOptions{})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
}

func TestFetchOrderDetailsInlinesProductNames(t *testing.T) {
	f := newOrderFixture(t)
	user := f.seedUser(t)
	diyaID := f.products.add("Diya Set", "Decor")

	order, err := f.usecase.CreateOrder(context.Background(), user.ID, CreateOrderParams{
		TotalPrice: 300,
		Items:      []OrderItemParams{{ProductID: diyaID, Quantity: 2, Price: 150}},
	}, false)
	require.NoError(t, err)

	details, err := f.usecase.FetchOrderDetails(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, details.Items, 1)
	assert.Equal(t, "Diya Set", details.Items[0].ProductName)
	assert.Equal(t, diyaID, details.Items[0].ProductID)
}

func TestFetchOrderDetailsSkipsDeletedItems(t *testing.T) {
	f := newOrderFixture(t)
	user := f.seedUser(t)
	keptID := f.products.add("Diya Set", "Decor")
	removedID := f.products.add("Lantern", "Decor")

	order, err := f.usecase.CreateOrder(context.Background(), user.ID, CreateOrderParams{
		TotalPrice: 500,
		Items: []OrderItemParams{
			{ProductID: keptID, Quantity: 1, Price: 150},
			{ProductID: removedID, Quantity: 1, Price: 350},
		},
	}, false)
	require.NoError(t, err)

	items, err := f.items.ListByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	for _, item := range items {
		if item.ProductID == removedID {
			_, err := f.items.SoftDelete(context.Background(), item.ID)
			require.NoError(t, err)
		}
	}

	details, err := f.usecase.FetchOrderDetails(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, details.Items, 1)
	assert.Equal(t, keptID, details.Items[0].ProductID)
}

func TestFetchOrderDetailsNotFound(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.usecase.FetchOrderDetails(context.Background(), bson.NewObjectID())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrdersJoinsUserAndAddress(t *testing.T) {
	f := newOrderFixture(t)
	user := f.seedUser(t)
	productID := f.products.add("Diya Set", "Decor")

	_, err := f.addresses.Create(context.Background(), &model.Address{
		UserID:  user.ID,
		City:    "Pune",
		State:   "Maharashtra",
		Pincode: "411001",
	})
	require.NoError(t, err)

	_, err = f.usecase.CreateOrder(context.Background(), user.ID, CreateOrderParams{
		TotalPrice: 150,
		Items:      []OrderItemParams{{ProductID: productID, Quantity: 1, Price: 150}},
	}, false)
	require.NoError(t, err)

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	rows, err := f.usecase.ListOrders(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Asha Verma", rows[0].FullName)
	assert.Equal(t, "asha@example.com", rows[0].Email)
	require.Len(t, rows[0].Addresses, 1)
	assert.Equal(t, "Pune", rows[0].Addresses[0].City)
	require.Len(t, rows[0].Items, 1)
	assert.Equal(t, "Diya Set", rows[0].Items[0].ProductName)
}

func TestDeleteOrderSoftDeletes(t *testing.T) {
	f := newOrderFixture(t)
	user := f.seedUser(t)

	order, err := f.usecase.CreateOrder(context.Background(), user.ID, CreateOrderParams{TotalPrice: 99}, false)
	require.NoError(t, err)

	require.NoError(t, f.usecase.DeleteOrder(context.Background(), order.ID))

	_, err = f.usecase.FetchOrderDetails(context.Background(), order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// A repeat delete races against nothing and reports not found.
	assert.Error(t, f.usecase.DeleteOrder(context.Background(), order.ID))
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newOrderFixture(t)
	user := f.seedUser(t)

	order, err := f.usecase.CreateOrder(context.Background(), user.ID, CreateOrderParams{TotalPrice: 99}, false)
	require.NoError(t, err)

	shipped := model.OrderStatusShipped
	updated, err := f.usecase.UpdateOrder(context.Background(), order.ID, repository.UpdateOrderParams{Status: &shipped})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, updated.Status)
}
