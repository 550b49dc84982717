package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qnrlabs/order_service/internal/models"
	"github.com/qnrlabs/order_service/internal/transport"
)

func createOrderAt(t *testing.T, env *testEnv, owner *models.User, description, status string, createdAt time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		Description: description,
		Status:      status,
		UserID:      owner.ID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	_, err := env.rp.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	return order
}

func TestOrderService_CreateOrder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "secret1", models.RoleUser)

	order, err := env.orders.CreateOrder(ctx, transport.CreateOrderRequest{
		Description: "ten boxes of screws",
		Status:      "PENDING",
	}, alice)
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.Equal(t, "ten boxes of screws", order.Description)
	assert.Equal(t, "PENDING", order.Status)
	assert.Equal(t, alice.ID, order.UserID)

	dto := transport.OrderToDTO(order)
	assert.Equal(t, "alice", dto.Username)
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "secret1", models.RoleUser)

	tests := []struct {
		name string
		req  transport.CreateOrderRequest
	}{
		{name: "missing description", req: transport.CreateOrderRequest{Status: "PENDING"}},
		{name: "missing status", req: transport.CreateOrderRequest{Description: "something"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			order, err := env.orders.CreateOrder(ctx, tt.req, alice)
			require.Error(t, err)
			assert.Nil(t, order)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestOrderService_GetOrder_Ownership(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "secret1", models.RoleUser)
	bob := env.createUser(t, "bob", "secret2", models.RoleUser)
	admin := env.createUser(t, "root", "secret3", models.RoleAdmin)

	order := createOrderAt(t, env, alice, "alice's order", "PENDING", time.Now())

	got, err := env.orders.GetOrder(ctx, order.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, "alice", got.User.Username)

	// a stranger sees not-found, not forbidden
	_, err = env.orders.GetOrder(ctx, order.ID, bob)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err = env.orders.GetOrder(ctx, order.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestOrderService_GetOrder_Missing(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "secret1", models.RoleUser)

	_, err := env.orders.GetOrder(context.Background(), 12345, alice)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderService_UpdateOrder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "secret1", models.RoleUser)
	bob := env.createUser(t, "bob", "secret2", models.RoleUser)

	created := time.Now().Add(-time.Hour)
	order := createOrderAt(t, env, alice, "original", "PENDING", created)

	_, err := env.orders.UpdateOrder(ctx, order.ID, transport.UpdateOrderRequest{
		Description: "hijacked",
		Status:      "DONE",
	}, bob)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := env.orders.UpdateOrder(ctx, order.ID, transport.UpdateOrderRequest{
		Description: "updated description",
		Status:      "SHIPPED",
	}, alice)
	require.NoError(t, err)

	assert.Equal(t, "updated description", updated.Description)
	assert.Equal(t, "SHIPPED", updated.Status)
	assert.True(t, updated.UpdatedAt.After(created))

	var stored models.Order
	require.NoError(t, env.db.First(&stored, order.ID).Error)
	assert.Equal(t, "updated description", stored.Description)
	assert.Equal(t, "SHIPPED", stored.Status)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "secret1", models.RoleUser)
	bob := env.createUser(t, "bob", "secret2", models.RoleUser)
	admin := env.createUser(t, "root", "secret3", models.RoleAdmin)

	order := createOrderAt(t, env, alice, "to be deleted", "PENDING", time.Now())

	err := env.orders.DeleteOrder(ctx, order.ID, bob)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, env.orders.DeleteOrder(ctx, order.ID, alice))

	_, err = env.orders.GetOrder(ctx, order.ID, alice)
	assert.ErrorIs(t, err, ErrNotFound)

	// admins may delete orders they do not own
	other := createOrderAt(t, env, alice, "admin removable", "PENDING", time.Now())
	require.NoError(t, env.orders.DeleteOrder(ctx, other.ID, admin))
}

func TestOrderService_ListOrders(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "secret1", models.RoleUser)
	bob := env.createUser(t, "bob", "secret2", models.RoleUser)

	base := time.Now().Add(-time.Hour)
	createOrderAt(t, env, alice, "oldest", "PENDING", base)
	createOrderAt(t, env, alice, "middle", "DONE", base.Add(10*time.Minute))
	createOrderAt(t, env, alice, "newest", "PENDING", base.Add(20*time.Minute))
	createOrderAt(t, env, bob, "bob's order", "PENDING", base.Add(30*time.Minute))

	orders, total, err := env.orders.ListOrders(ctx, alice, true, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, orders, 3)
	assert.Equal(t, "newest", orders[0].Description)
	assert.Equal(t, "oldest", orders[2].Description)

	orders, _, err = env.orders.ListOrders(ctx, alice, false, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "oldest", orders[0].Description)

	// second page
	orders, total, err = env.orders.ListOrders(ctx, alice, true, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, orders, 1)
	assert.Equal(t, "oldest", orders[0].Description)
}

func TestOrderService_ListOrdersByStatus(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "secret1", models.RoleUser)
	bob := env.createUser(t, "bob", "secret2", models.RoleUser)

	base := time.Now().Add(-time.Hour)
	createOrderAt(t, env, alice, "pending one", "PENDING", base)
	createOrderAt(t, env, alice, "done one", "DONE", base.Add(time.Minute))
	createOrderAt(t, env, alice, "pending two", "PENDING", base.Add(2*time.Minute))
	createOrderAt(t, env, bob, "bob pending", "PENDING", base.Add(3*time.Minute))

	orders, total, err := env.orders.ListOrdersByStatus(ctx, alice, "PENDING", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, orders, 2)
	assert.Equal(t, "pending two", orders[0].Description)
	for _, o := range orders {
		assert.Equal(t, alice.ID, o.UserID)
		assert.Equal(t, "PENDING", o.Status)
	}
}

func TestOrderService_SearchOrders(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "secret1", models.RoleUser)
	bob := env.createUser(t, "bob", "secret2", models.RoleUser)

	base := time.Now().Add(-time.Hour)
	createOrderAt(t, env, alice, "Wooden garden table", "PENDING", base)
	createOrderAt(t, env, bob, "GARDEN gnome, ceramic", "DONE", base.Add(time.Minute))
	createOrderAt(t, env, alice, "Steel office chair", "PENDING", base.Add(2*time.Minute))

	items, total, err := env.orders.SearchOrders(ctx, "garden", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "GARDEN gnome, ceramic", items[0].Description)
	assert.Equal(t, "bob", items[0].Username)
	assert.Equal(t, "Wooden garden table", items[1].Description)

	_, _, err = env.orders.SearchOrders(ctx, "", 1, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}
