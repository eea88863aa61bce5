package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickbite/models"
)

func TestCreateOrderComputesTotalServerSide(t *testing.T) {
	r, db := setupTest(t)
	staff := createUser(t, db, "resto1", "secret123", models.RoleRestaurant)
	customer := createUser(t, db, "cust", "secret123", models.RoleCustomer)
	burger := createFood(t, db, "Burger", 10.50, staff.ID, true)
	fries := createFood(t, db, "Fries", 5.25, staff.ID, true)

	// Client-supplied totals must be ignored
	w := doJSON(t, r, http.MethodPost, "/api/orders", accessToken(t, &customer), map[string]interface{}{
		"items": []map[string]interface{}{
			{"food": burger.ID, "quantity": 2},
			{"food": fries.ID, "quantity": 1},
		},
		"delivery_address": "12 Main St",
		"total_price":      0.01,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, 26.25, body["total_price"])
	assert.Equal(t, "pending", body["status"])

	items := body["items"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, 10.50, first["price"]) // captured unit price

	// A later price change never alters the frozen total
	orderID := uint(body["id"].(float64))
	require.NoError(t, db.Model(&models.Food{}).Where("id = ?", burger.ID).Update("price", 99.0).Error)

	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, 26.25, order.TotalPrice)

	var item models.OrderItem
	require.NoError(t, db.Where("order_id = ? AND food_id = ?", orderID, burger.ID).First(&item).Error)
	assert.Equal(t, 10.50, item.Price)
}

func TestCreateOrderRejectsUnavailableItems(t *testing.T) {
	r, db := setupTest(t)
	staff := createUser(t, db, "resto1", "secret123", models.RoleRestaurant)
	customer := createUser(t, db, "cust", "secret123", models.RoleCustomer)
	burger := createFood(t, db, "Burger", 10.50, staff.ID, true)
	hidden := createFood(t, db, "Pizza", 12.00, staff.ID, false)

	w := doJSON(t, r, http.MethodPost, "/api/orders", accessToken(t, &customer), map[string]interface{}{
		"items": []map[string]interface{}{
			{"food": burger.ID, "quantity": 1},
			{"food": hidden.ID, "quantity": 1},
		},
		"delivery_address": "12 Main St",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not available")

	// The whole order is rejected: nothing persisted
	var orders, items int64
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.OrderItem{}).Count(&items)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestCreateOrderRollsBackOnItemFailure(t *testing.T) {
	r, db := setupTest(t)
	staff := createUser(t, db, "resto1", "secret123", models.RoleRestaurant)
	customer := createUser(t, db, "cust", "secret123", models.RoleCustomer)
	burger := createFood(t, db, "Burger", 10.50, staff.ID, true)

	// Force the item insert to fail after the order row is written
	require.NoError(t, db.Migrator().DropTable(&models.OrderItem{}))

	w := doJSON(t, r, http.MethodPost, "/api/orders", accessToken(t, &customer), map[string]interface{}{
		"items":            []map[string]interface{}{{"food": burger.ID, "quantity": 1}},
		"delivery_address": "12 Main St",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())

	// The transaction must have rolled the order row back too
	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	assert.Zero(t, orders)
}

func TestCreateOrderReloadFailureSurfaces(t *testing.T) {
	r, db := setupTest(t)
	staff := createUser(t, db, "resto1", "secret123", models.RoleRestaurant)
	customer := createUser(t, db, "cust", "secret123", models.RoleCustomer)
	burger := createFood(t, db, "Burger", 10.50, staff.ID, true)

	// Break the post-commit reload (it preloads the customer row) so the
	// handler cannot render the created order
	require.NoError(t, db.Migrator().DropTable(&models.User{}))

	w := doJSON(t, r, http.MethodPost, "/api/orders", accessToken(t, &customer), map[string]interface{}{
		"items":            []map[string]interface{}{{"food": burger.ID, "quantity": 1}},
		"delivery_address": "12 Main St",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())

	// The order itself was committed before the reload
	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	assert.EqualValues(t, 1, orders)
}

func TestCreateOrderValidation(t *testing.T) {
	r, db := setupTest(t)
	customer := createUser(t, db, "cust", "secret123", models.RoleCustomer)
	token := accessToken(t, &customer)

	// Empty cart
	w := doJSON(t, r, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"items":            []map[string]interface{}{},
		"delivery_address": "12 Main St",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing delivery address
	w = doJSON(t, r, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"items": []map[string]interface{}{{"food": 1, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Zero quantity
	w = doJSON(t, r, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"items":            []map[string]interface{}{{"food": 1, "quantity": 0}},
		"delivery_address": "12 Main St",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderBroadcastsToAllStaff(t *testing.T) {
	r, db := setupTest(t)
	r1 := createUser(t, db, "resto1", "secret123", models.RoleRestaurant)
	createUser(t, db, "resto2", "secret123", models.RoleRestaurant)
	createUser(t, db, "resto3", "secret123", models.RoleRestaurant)
	customer := createUser(t, db, "cust", "secret123", models.RoleCustomer)
	burger := createFood(t, db, "Burger", 10.50, r1.ID, true)

	w := doJSON(t, r, http.MethodPost, "/api/orders", accessToken(t, &customer), map[string]interface{}{
		"items":            []map[string]interface{}{{"food": burger.ID, "quantity": 1}},
		"delivery_address": "12 Main St",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// One new_order notification per restaurant user, regardless of whose
	// food was ordered
	var count int64
	db.Model(&models.Notification{}).Where("type = ?", models.NotifyNewOrder).Count(&count)
	assert.EqualValues(t, 3, count)

	// The customer gets none
	db.Model(&models.Notification{}).Where("user_id = ?", customer.ID).Count(&count)
	assert.Zero(t, count)
}

func TestListOrdersScoping(t *testing.T) {
	r, db := setupTest(t)
	r1 := createUser(t, db, "resto1", "secret123", models.RoleRestaurant)
	r2 := createUser(t, db, "resto2", "secret123", models.RoleRestaurant)
	customer := createUser(t, db, "cust", "secret123", models.RoleCustomer)
	other := createUser(t, db, "other", "secret123", models.RoleCustomer)
	burger := createFood(t, db, "Burger", 10.50, r1.ID, true)
	fries := createFood(t, db, "Fries", 5.25, r1.ID, true)

	// An order with two items from R1's menu
	w := doJSON(t, r, http.MethodPost, "/api/orders", accessToken(t, &customer), map[string]interface{}{
		"items": []map[string]interface{}{
			{"food": burger.ID, "quantity": 1},
			{"food": fries.ID, "quantity": 2},
		},
		"delivery_address": "12 Main St",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// The customer sees their order
	w = doJSON(t, r, http.MethodGet, "/api/orders", accessToken(t, &customer), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)

	// Another customer sees nothing
	w = doJSON(t, r, http.MethodGet, "/api/orders", accessToken(t, &other), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))

	// R1 sees the order exactly once despite owning both items
	w = doJSON(t, r, http.MethodGet, "/api/orders", accessToken(t, &r1), nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decodeList(t, w)
	require.Len(t, orders, 1)
	assert.Len(t, orders[0]["items"].([]interface{}), 2)

	// R2 owns none of the items and sees nothing
	w = doJSON(t, r, http.MethodGet, "/api/orders", accessToken(t, &r2), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))
}

func TestGetOrderScoped(t *testing.T) {
	r, db := setupTest(t)
	r1 := createUser(t, db, "resto1", "secret123", models.RoleRestaurant)
	customer := createUser(t, db, "cust", "secret123", models.RoleCustomer)
	other := createUser(t, db, "other", "secret123", models.RoleCustomer)
	burger := createFood(t, db, "Burger", 10.50, r1.ID, true)

	w := doJSON(t, r, http.MethodPost, "/api/orders", accessToken(t, &customer), map[string]interface{}{
		"items":            []map[string]interface{}{{"food": burger.ID, "quantity": 1}},
		"delivery_address": "12 Main St",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := uint(decodeBody(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodGet, orderPath(orderID), accessToken(t, &customer), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Outside the caller's scope the order is invisible
	w = doJSON(t, r, http.MethodGet, orderPath(orderID), accessToken(t, &other), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaffOrdersAccess(t *testing.T) {
	r, db := setupTest(t)
	r1 := createUser(t, db, "resto1", "secret123", models.RoleRestaurant)
	r2 := createUser(t, db, "resto2", "secret123", models.RoleRestaurant)
	customer := createUser(t, db, "cust", "secret123", models.RoleCustomer)
	bare := createUser(t, db, "bare", "secret123", "")
	burger := createFood(t, db, "Burger", 10.50, r1.ID, true)

	w := doJSON(t, r, http.MethodPost, "/api/orders", accessToken(t, &customer), map[string]interface{}{
		"items":            []map[string]interface{}{{"food": burger.ID, "quantity": 1}},
		"delivery_address": "12 Main St",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Staff visibility is platform-wide: R2 sees R1's order too
	w = doJSON(t, r, http.MethodGet, "/api/orders/staff_orders", accessToken(t, &r2), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.EqualValues(t, 1, body["total"])

	// Status filter is an exact match
	w = doJSON(t, r, http.MethodGet, "/api/orders/staff_orders?status=approved", accessToken(t, &r2), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decodeBody(t, w)["total"])

	// Customers are forbidden
	w = doJSON(t, r, http.MethodGet, "/api/orders/staff_orders", accessToken(t, &customer), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A missing profile surfaces as not found on this endpoint
	w = doJSON(t, r, http.MethodGet, "/api/orders/staff_orders", accessToken(t, &bare), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApproveRejectOwnershipGate(t *testing.T) {
	r, db := setupTest(t)
	r1 := createUser(t, db, "resto1", "secret123", models.RoleRestaurant)
	r2 := createUser(t, db, "resto2", "secret123", models.RoleRestaurant)
	bare := createUser(t, db, "bare", "secret123", "")
	customer := createUser(t, db, "cust", "secret123", models.RoleCustomer)
	burger := createFood(t, db, "Burger", 10.50, r1.ID, true)

	w := doJSON(t, r, http.MethodPost, "/api/orders", accessToken(t, &customer), map[string]interface{}{
		"items":            []map[string]interface{}{{"food": burger.ID, "quantity": 1}},
		"delivery_address": "12 Main St",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := uint(decodeBody(t, w)["id"].(float64))

	// R2 holds the restaurant role but owns no item in the order
	w = doJSON(t, r, http.MethodPost, orderPath(orderID)+"/approve", accessToken(t, &r2), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Missing profile fails hard on this write path
	w = doJSON(t, r, http.MethodPost, orderPath(orderID)+"/approve", accessToken(t, &bare), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Customers cannot approve
	w = doJSON(t, r, http.MethodPost, orderPath(orderID)+"/approve", accessToken(t, &customer), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// R1 owns the item and may approve
	w = doJSON(t, r, http.MethodPost, orderPath(orderID)+"/approve", accessToken(t, &r1), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "approved", body["status"])
	assert.Equal(t, float64(orderID), body["order_id"])

	// The customer got an approval notification
	var notification models.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", customer.ID, models.NotifyApproved).First(&notification).Error)
}

func TestRejectDefaultsReason(t *testing.T) {
	r, db := setupTest(t)
	r1 := createUser(t, db, "resto1", "secret123", models.RoleRestaurant)
	customer := createUser(t, db, "cust", "secret123", models.RoleCustomer)
	burger := createFood(t, db, "Burger", 10.50, r1.ID, true)

	w := doJSON(t, r, http.MethodPost, "/api/orders", accessToken(t, &customer), map[string]interface{}{
		"items":            []map[string]interface{}{{"food": burger.ID, "quantity": 1}},
		"delivery_address": "12 Main St",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := uint(decodeBody(t, w)["id"].(float64))

	// No body at all
	w = doJSON(t, r, http.MethodPost, orderPath(orderID)+"/reject", accessToken(t, &r1), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "cancelled", body["status"]) // rejection reuses cancelled
	assert.Equal(t, "No reason provided", body["reason"])

	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, models.StatusCancelled, order.Status)

	var notification models.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", customer.ID, models.NotifyRejected).First(&notification).Error)
	assert.Contains(t, notification.Message, "No reason provided")
}

func TestRejectWithReason(t *testing.T) {
	r, db := setupTest(t)
	r1 := createUser(t, db, "resto1", "secret123", models.RoleRestaurant)
	customer := createUser(t, db, "cust", "secret123", models.RoleCustomer)
	burger := createFood(t, db, "Burger", 10.50, r1.ID, true)

	w := doJSON(t, r, http.MethodPost, "/api/orders", accessToken(t, &customer), map[string]interface{}{
		"items":            []map[string]interface{}{{"food": burger.ID, "quantity": 1}},
		"delivery_address": "12 Main St",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := uint(decodeBody(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodPost, orderPath(orderID)+"/reject", accessToken(t, &r1), map[string]interface{}{
		"reason": "Out of stock",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Out of stock", decodeBody(t, w)["reason"])
}

func TestUpdateOrderStatusLifecycle(t *testing.T) {
	r, db := setupTest(t)
	r1 := createUser(t, db, "resto1", "secret123", models.RoleRestaurant)
	customer := createUser(t, db, "cust", "secret123", models.RoleCustomer)
	burger := createFood(t, db, "Burger", 10.50, r1.ID, true)
	token := accessToken(t, &r1)

	w := doJSON(t, r, http.MethodPost, "/api/orders", accessToken(t, &customer), map[string]interface{}{
		"items":            []map[string]interface{}{{"food": burger.ID, "quantity": 1}},
		"delivery_address": "12 Main St",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := uint(decodeBody(t, w)["id"].(float64))

	// Skipping states is an invalid transition
	w = doJSON(t, r, http.MethodPut, orderPath(orderID)+"/status", token, map[string]interface{}{
		"status": "delivered",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	for _, status := range []string{"approved", "preparing", "on the way", "delivered"} {
		w = doJSON(t, r, http.MethodPut, orderPath(orderID)+"/status", token, map[string]interface{}{
			"status": status,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, models.StatusDelivered, order.Status)

	// The terminal transition produces a delivered notification
	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", customer.ID, models.NotifyDelivered).
		Count(&count)
	assert.EqualValues(t, 1, count)
}
