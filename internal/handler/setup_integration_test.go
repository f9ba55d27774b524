//go:build integration

package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/FadhilPratama/cvstm-babat-admin/internal/model"
	"github.com/FadhilPratama/cvstm-babat-admin/pkg/config"
	"github.com/FadhilPratama/cvstm-babat-admin/pkg/database"
	"github.com/FadhilPratama/cvstm-babat-admin/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var metricsOnce sync.Once

// setupTestDB connects to the test Postgres database, migrates the
// schema and truncates all tables for test isolation.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	metricsOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("failed to load configuration: %v", err)
		}
		prometheus.InitMetrics(cfg)
	})

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres password=postgres dbname=storehub_test sslmode=disable"
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "failed to connect to test database")

	require.NoError(t, conn.AutoMigrate(
		&model.User{},
		&model.Store{},
		&model.Banner{},
		&model.Category{},
		&model.Product{},
		&model.ProductImage{},
	))

	cleanTables(t, conn)
	database.SetDB(conn)
	return conn
}

// cleanTables truncates all tables, order handled by CASCADE
func cleanTables(t *testing.T, conn *gorm.DB) {
	t.Helper()
	err := conn.Exec("TRUNCATE product_images, products, categories, banners, stores, users RESTART IDENTITY CASCADE").Error
	require.NoError(t, err, "failed to clean test database")
}

// newJSONContext builds an Echo context carrying a JSON body, path
// parameters and, when userID is non-zero, the identity the auth
// middleware would have resolved.
func newJSONContext(t *testing.T, method string, body interface{}, params map[string]string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, "/", reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := echo.New().NewContext(req, rec)
	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for name, value := range params {
		names = append(names, name)
		values = append(values, value)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	if userID != 0 {
		c.Set("user_id", userID)
	}
	return c, rec
}

// newQueryContext builds an Echo context for a public GET with query
// parameters in target, e.g. "/?isFeatured=true".
func newQueryContext(t *testing.T, target string, params map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	req := httptest.NewRequest("GET", target, nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for name, value := range params {
		names = append(names, name)
		values = append(values, value)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// Fixture helpers, written straight to the database

func seedOwner(t *testing.T, conn *gorm.DB, email string) *model.User {
	t.Helper()
	user := model.User{Email: email, Password: "x"}
	require.NoError(t, conn.Create(&user).Error)
	return &user
}

func seedStore(t *testing.T, conn *gorm.DB, ownerID uint, name string) *model.Store {
	t.Helper()
	store := model.Store{Name: name, OwnerID: ownerID}
	require.NoError(t, conn.Create(&store).Error)
	return &store
}

func seedBanner(t *testing.T, conn *gorm.DB, storeID uint) *model.Banner {
	t.Helper()
	banner := model.Banner{StoreID: storeID, Label: "Front page", ImageURL: "http://x/banner.png"}
	require.NoError(t, conn.Create(&banner).Error)
	return &banner
}

func seedCategory(t *testing.T, conn *gorm.DB, storeID, bannerID uint) *model.Category {
	t.Helper()
	category := model.Category{StoreID: storeID, BannerID: bannerID, Name: "Tonics"}
	require.NoError(t, conn.Create(&category).Error)
	return &category
}

func seedProduct(t *testing.T, conn *gorm.DB, storeID, categoryID uint, name string, featured, archived bool, urls ...string) *model.Product {
	t.Helper()
	product := model.Product{
		StoreID:    storeID,
		CategoryID: categoryID,
		Name:       name,
		Price:      10000,
		IsFeatured: featured,
		IsArchived: archived,
	}
	require.NoError(t, conn.Create(&product).Error)
	for _, url := range urls {
		require.NoError(t, conn.Create(&model.ProductImage{ProductID: product.ID, URL: url}).Error)
	}
	return &product
}
