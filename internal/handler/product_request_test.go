package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/FadhilPratama/cvstm-babat-admin/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductRequest() ProductRequest {
	return ProductRequest{
		Name:       "Seed A",
		Price:      10000,
		CategoryID: 1,
		Images:     []ImageInput{{URL: "http://x/1.png"}},
	}
}

func TestProductRequest_Validate(t *testing.T) {
	t.Run("valid request passes", func(t *testing.T) {
		req := validProductRequest()
		assert.Empty(t, req.validate())
	})

	t.Run("missing name", func(t *testing.T) {
		req := validProductRequest()
		req.Name = ""
		assert.Equal(t, "name is required", req.validate())
	})

	t.Run("missing price", func(t *testing.T) {
		req := validProductRequest()
		req.Price = 0
		assert.Equal(t, "price is required", req.validate())
	})

	t.Run("missing category", func(t *testing.T) {
		req := validProductRequest()
		req.CategoryID = 0
		assert.Equal(t, "category_id is required", req.validate())
	})

	t.Run("empty image list", func(t *testing.T) {
		req := validProductRequest()
		req.Images = nil
		assert.Equal(t, "at least one image is required", req.validate())
	})

	t.Run("blank image url", func(t *testing.T) {
		req := validProductRequest()
		req.Images = []ImageInput{{URL: ""}}
		assert.Equal(t, "image url is required", req.validate())
	})
}

func TestProductRequest_Apply(t *testing.T) {
	t.Run("blank optional text becomes null", func(t *testing.T) {
		req := validProductRequest()
		req.Description = "   "
		req.Manufacturer = ""

		var product model.Product
		req.apply(&product)

		assert.Nil(t, product.Description)
		assert.Nil(t, product.Manufacturer)
		assert.Nil(t, product.ActiveIngredients)
		assert.Nil(t, product.NetWeight)
		assert.Nil(t, product.ShelfLife)
		assert.Nil(t, product.Packaging)
	})

	t.Run("provided optional text is trimmed and kept", func(t *testing.T) {
		req := validProductRequest()
		req.Description = "  herbal tonic  "

		var product model.Product
		req.apply(&product)

		require.NotNil(t, product.Description)
		assert.Equal(t, "herbal tonic", *product.Description)
	})

	t.Run("replaces every scalar field", func(t *testing.T) {
		old := "stale"
		product := model.Product{
			Name:        "Old",
			Price:       1,
			CategoryID:  9,
			IsFeatured:  true,
			IsArchived:  true,
			Description: &old,
		}

		req := validProductRequest()
		req.apply(&product)

		assert.Equal(t, "Seed A", product.Name)
		assert.Equal(t, float64(10000), product.Price)
		assert.Equal(t, uint(1), product.CategoryID)
		assert.False(t, product.IsFeatured)
		assert.False(t, product.IsArchived)
		assert.Nil(t, product.Description)
	})
}

func TestProductRequest_Images(t *testing.T) {
	req := validProductRequest()
	req.Images = []ImageInput{{URL: "http://x/1.png"}, {URL: "http://x/2.png"}}

	rows := req.images(7)
	require.Len(t, rows, 2)
	assert.Equal(t, uint(7), rows[0].ProductID)
	assert.Equal(t, "http://x/1.png", rows[0].URL)
	assert.Equal(t, "http://x/2.png", rows[1].URL)
}

func listContext(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestParseProductListParams(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		params := parseProductListParams(listContext(t, "/"))
		assert.False(t, params.Global)
		assert.False(t, params.FeaturedOnly)
		assert.Empty(t, params.CategoryID)
		assert.Empty(t, params.Query)
	})

	t.Run("featured only when literally true", func(t *testing.T) {
		params := parseProductListParams(listContext(t, "/?isFeatured=true"))
		assert.True(t, params.FeaturedOnly)

		params = parseProductListParams(listContext(t, "/?isFeatured=false"))
		assert.False(t, params.FeaturedOnly)

		params = parseProductListParams(listContext(t, "/?isFeatured=1"))
		assert.False(t, params.FeaturedOnly)
	})

	t.Run("global opt-in is explicit", func(t *testing.T) {
		params := parseProductListParams(listContext(t, "/?global=true"))
		assert.True(t, params.Global)

		params = parseProductListParams(listContext(t, "/?global=yes"))
		assert.False(t, params.Global)
	})

	t.Run("category and query pass through", func(t *testing.T) {
		params := parseProductListParams(listContext(t, "/?categoryId=3&q=tonic"))
		assert.Equal(t, "3", params.CategoryID)
		assert.Equal(t, "tonic", params.Query)
	})
}
