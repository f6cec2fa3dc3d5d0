package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"katalog/internal/events"
	"katalog/internal/handlers"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp builds a Fiber app backed by an in-memory SQLite database.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	// An in-memory SQLite database lives per connection.
	sqlDB, err := db.DB()
	assert.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	assert.NoError(t, db.AutoMigrate(&models.Product{}))

	productRepo := repositories.NewGORMProductRepository(db)
	notifier := events.NewNotifier(events.LogPublisher{})
	productService := services.NewProductService(productRepo, notifier)
	productHandler := handlers.NewProductHandler(productService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)

	return app
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1) // -1 for no timeout
	assert.NoError(t, err)
	return resp
}

func decodeView(t *testing.T, resp *http.Response) models.ProductView {
	t.Helper()
	var view models.ProductView
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	resp.Body.Close()
	return view
}

func TestProductCRUDFlow(t *testing.T) {
	app := setupApp(t)

	// --- Create ---
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":  "Laptop",
		"price": 15000.00,
		"stock": 10,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/api/v1/products/1", resp.Header.Get("Location"))
	created := decodeView(t, resp)
	assert.Equal(t, uint(1), created.ID)
	assert.Equal(t, "Laptop", created.Name)
	assert.True(t, created.IsActive)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	// --- List ---
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var list []models.ProductView
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	assert.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	// --- Get by id ---
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decodeView(t, resp)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Name, fetched.Name)

	// --- Partial update: only stock changes ---
	resp = doJSON(t, app, http.MethodPut, "/api/v1/products/1", map[string]interface{}{
		"stock": 5,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeView(t, resp)
	assert.Equal(t, "Laptop", updated.Name)
	assert.Equal(t, created.Price, updated.Price)
	assert.Equal(t, 5, updated.Stock)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	// --- Whitespace-only name leaves the stored name alone ---
	resp = doJSON(t, app, http.MethodPut, "/api/v1/products/1", map[string]interface{}{
		"name": "   ",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	updated = decodeView(t, resp)
	assert.Equal(t, "Laptop", updated.Name)

	// --- Delete ---
	resp = doJSON(t, app, http.MethodDelete, "/api/v1/products/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var deleteResp map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&deleteResp))
	resp.Body.Close()
	assert.Equal(t, "Product deleted successfully", deleteResp["message"])
	assert.Equal(t, float64(1), deleteResp["id"])

	// --- Deleted product is gone from every read path ---
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	list = nil
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	assert.Empty(t, list)

	// --- Repeated delete reports not found, never a second success ---
	resp = doJSON(t, app, http.MethodDelete, "/api/v1/products/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// --- Update of a deleted product reports not found ---
	resp = doJSON(t, app, http.MethodPut, "/api/v1/products/1", map[string]interface{}{
		"stock": 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateProductValidation(t *testing.T) {
	app := setupApp(t)

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing name", map[string]interface{}{"price": 10.0}},
		{"missing price", map[string]interface{}{"name": "Laptop"}},
		{"name too long", map[string]interface{}{"name": strings.Repeat("x", 101), "price": 10.0}},
		{"description too long", map[string]interface{}{"name": "Laptop", "price": 10.0, "description": strings.Repeat("x", 501)}},
		{"negative stock", map[string]interface{}{"name": "Laptop", "price": 10.0, "stock": -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/v1/products", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			resp.Body.Close()
		})
	}

	// Malformed JSON body
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// An explicit zero price is present, so it passes the required check.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":  "Freebie",
		"price": 0,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestGetProductErrors(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/products/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Contains(t, body["message"], "not found")

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestHeadProductExists(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":  "Monitor",
		"price": 2000.00,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeView(t, resp)

	path := fmt.Sprintf("/api/v1/products/%d", created.ID)
	resp = doJSON(t, app, http.MethodHead, path, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	bodyBytes, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Empty(t, bodyBytes)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodHead, "/api/v1/products/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Existence flips to not-found after a soft delete.
	resp = doJSON(t, app, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodHead, path, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateCanDeactivateProduct(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":  "Webcam",
		"price": 500.00,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeView(t, resp)
	path := fmt.Sprintf("/api/v1/products/%d", created.ID)

	// Deactivating through PUT behaves like a soft delete for reads.
	resp = doJSON(t, app, http.MethodPut, path, map[string]interface{}{
		"isActive": false,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeView(t, resp)
	assert.False(t, updated.IsActive)

	resp = doJSON(t, app, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
