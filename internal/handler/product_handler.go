package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	mid "github.com/FadhilPratama/cvstm-babat-admin/internal/middleware"
	"github.com/FadhilPratama/cvstm-babat-admin/internal/model"
	"github.com/FadhilPratama/cvstm-babat-admin/pkg/database"
	"github.com/FadhilPratama/cvstm-babat-admin/pkg/logger"
	"github.com/FadhilPratama/cvstm-babat-admin/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImageInput is a single image URL submitted with a product
type ImageInput struct {
	URL string `json:"url"`
}

// ProductRequest defines the structure for product creation/update
// requests. Both create and update carry the full field set: updates
// replace every scalar field and the whole image set.
type ProductRequest struct {
	Name              string       `json:"name"`
	Price             float64      `json:"price"`
	CategoryID        uint         `json:"category_id"`
	IsFeatured        bool         `json:"is_featured"`
	IsArchived        bool         `json:"is_archived"`
	Description       string       `json:"description"`
	ActiveIngredients string       `json:"active_ingredients"`
	NetWeight         string       `json:"net_weight"`
	Manufacturer      string       `json:"manufacturer"`
	ShelfLife         string       `json:"shelf_life"`
	Packaging         string       `json:"packaging"`
	Images            []ImageInput `json:"images"`
}

// validate checks the required fields and returns a user-facing message
func (r *ProductRequest) validate() string {
	switch {
	case r.Name == "":
		return "name is required"
	case r.Price <= 0:
		return "price is required"
	case r.CategoryID == 0:
		return "category_id is required"
	case len(r.Images) == 0:
		return "at least one image is required"
	}
	for _, img := range r.Images {
		if img.URL == "" {
			return "image url is required"
		}
	}
	return ""
}

// apply replaces every scalar field of the product from the request,
// normalizing blank optional text to null
func (r *ProductRequest) apply(p *model.Product) {
	p.Name = r.Name
	p.Price = r.Price
	p.CategoryID = r.CategoryID
	p.IsFeatured = r.IsFeatured
	p.IsArchived = r.IsArchived
	p.Description = optionalText(r.Description)
	p.ActiveIngredients = optionalText(r.ActiveIngredients)
	p.NetWeight = optionalText(r.NetWeight)
	p.Manufacturer = optionalText(r.Manufacturer)
	p.ShelfLife = optionalText(r.ShelfLife)
	p.Packaging = optionalText(r.Packaging)
}

// images builds the image rows for the given product ID
func (r *ProductRequest) images(productID uint) []model.ProductImage {
	rows := make([]model.ProductImage, 0, len(r.Images))
	for _, img := range r.Images {
		rows = append(rows, model.ProductImage{ProductID: productID, URL: img.URL})
	}
	return rows
}

// optionalText normalizes a blank optional field to null
func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// productListParams holds the parsed query parameters of the product
// list endpoint
type productListParams struct {
	CategoryID   string
	FeaturedOnly bool
	Query        string
	Global       bool
}

// parseProductListParams reads the list filters from the request.
// The featured filter applies only when the parameter is literally
// "true"; absent or anything else means no filter. The global flag is
// equally strict since it widens the result across stores.
func parseProductListParams(c echo.Context) productListParams {
	return productListParams{
		CategoryID:   c.QueryParam("categoryId"),
		FeaturedOnly: c.QueryParam("isFeatured") == "true",
		Query:        c.QueryParam("q"),
		Global:       c.QueryParam("global") == "true",
	}
}

// ListProducts retrieves the products of a store, public read path.
// Archived products are never returned. With global=true the store
// scope is dropped and the result spans all stores, which the public
// storefront uses for cross-store search.
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	params := parseProductListParams(c)

	query := database.GetDB().Model(&model.Product{}).Where("is_archived = ?", false)

	if !params.Global {
		storeID, err := pathID(c, "storeId")
		if err != nil {
			log.Warn("Invalid store ID", zap.Error(err))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store ID"})
		}
		query = query.Where("store_id = ?", storeID)
	}

	if params.CategoryID != "" {
		categoryID, err := strconv.ParseUint(params.CategoryID, 10, 32)
		if err != nil {
			log.Warn("Invalid category filter", zap.String("category_id", params.CategoryID))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category ID"})
		}
		query = query.Where("category_id = ?", uint(categoryID))
	}

	if params.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}

	if params.Query != "" {
		query = query.Where("name ILIKE ?", "%"+params.Query+"%")
	}

	var products []model.Product
	defer prometheus.TrackDBOperation("query")(time.Now())
	result := query.Preload("Images").Preload("Category").
		Order("created_at DESC").Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve products"})
	}

	log.Info("Products retrieved",
		zap.Int("count", len(products)),
		zap.Bool("global", params.Global))
	return c.JSON(http.StatusOK, products)
}

// GetProduct retrieves a single product with its images and category,
// public read path
func GetProduct(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, err := pathID(c, "storeId")
	if err != nil {
		log.Warn("Invalid store ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store ID"})
	}

	productID, err := pathID(c, "productId")
	if err != nil {
		log.Warn("Invalid product ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product ID"})
	}

	var product model.Product
	result := database.GetDB().Preload("Images").Preload("Category").
		Where("id = ? AND store_id = ?", productID, storeID).First(&product)
	if result.Error != nil {
		log.Warn("Product not found",
			zap.Uint("product_id", productID),
			zap.Uint("store_id", storeID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles creating a new product with its image set.
// The product row and its image rows are written in one transaction.
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := mid.GetUserIDFromContext(c)
	if !ok {
		log.Error("Missing user identity in context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	storeID, err := pathID(c, "storeId")
	if err != nil {
		log.Warn("Invalid store ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store ID"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse product creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if msg := req.validate(); msg != "" {
		log.Warn("Invalid product data", zap.String("reason", msg))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	if _, err := ownedStore(database.GetDB(), storeID, userID); err != nil {
		log.Warn("Store ownership check failed",
			zap.Uint("store_id", storeID),
			zap.Uint("user_id", userID))
		prometheus.OwnershipDeniedCounter.Inc()
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	if _, err := categoryInStore(database.GetDB(), req.CategoryID, storeID); err != nil {
		log.Warn("Category reference does not resolve within store",
			zap.Uint("category_id", req.CategoryID),
			zap.Uint("store_id", storeID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category not found in this store"})
	}

	product := model.Product{StoreID: storeID}
	req.apply(&product)

	defer prometheus.TrackDBOperation("transaction")(time.Now())
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		images := req.images(product.ID)
		if err := tx.Create(&images).Error; err != nil {
			return err
		}
		product.Images = images
		return nil
	})
	if err != nil {
		log.Error("Failed to create product",
			zap.Uint("store_id", storeID),
			zap.String("name", req.Name),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "product creation failed"})
	}

	prometheus.RecordProductOperation("create")
	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.Uint("store_id", storeID),
		zap.String("name", product.Name),
		zap.Int("image_count", len(product.Images)))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles replacing an existing product and its whole
// image set. The old image rows are deleted, the scalar fields saved
// and the new image rows inserted inside one transaction, so readers
// never observe a product with a partial image set.
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := mid.GetUserIDFromContext(c)
	if !ok {
		log.Error("Missing user identity in context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	storeID, err := pathID(c, "storeId")
	if err != nil {
		log.Warn("Invalid store ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store ID"})
	}

	productID, err := pathID(c, "productId")
	if err != nil {
		log.Warn("Invalid product ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product ID"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse product update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if msg := req.validate(); msg != "" {
		log.Warn("Invalid product data", zap.String("reason", msg))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	if _, err := ownedStore(database.GetDB(), storeID, userID); err != nil {
		log.Warn("Store ownership check failed",
			zap.Uint("store_id", storeID),
			zap.Uint("user_id", userID))
		prometheus.OwnershipDeniedCounter.Inc()
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	if _, err := categoryInStore(database.GetDB(), req.CategoryID, storeID); err != nil {
		log.Warn("Category reference does not resolve within store",
			zap.Uint("category_id", req.CategoryID),
			zap.Uint("store_id", storeID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category not found in this store"})
	}

	var product model.Product
	result := database.GetDB().Where("id = ? AND store_id = ?", productID, storeID).First(&product)
	if result.Error != nil {
		log.Warn("Product not found for update",
			zap.Uint("product_id", productID),
			zap.Uint("store_id", storeID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	req.apply(&product)

	defer prometheus.TrackDBOperation("transaction")(time.Now())
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Save(&product).Error; err != nil {
			return err
		}
		images := req.images(product.ID)
		if err := tx.Create(&images).Error; err != nil {
			return err
		}
		product.Images = images
		return nil
	})
	if err != nil {
		log.Error("Failed to update product",
			zap.Uint("product_id", product.ID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "product update failed"})
	}

	prometheus.RecordProductOperation("update")
	log.Info("Product updated",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int("image_count", len(product.Images)))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles deleting a product together with its images
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := mid.GetUserIDFromContext(c)
	if !ok {
		log.Error("Missing user identity in context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	storeID, err := pathID(c, "storeId")
	if err != nil {
		log.Warn("Invalid store ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store ID"})
	}

	productID, err := pathID(c, "productId")
	if err != nil {
		log.Warn("Invalid product ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product ID"})
	}

	if _, err := ownedStore(database.GetDB(), storeID, userID); err != nil {
		log.Warn("Store ownership check failed",
			zap.Uint("store_id", storeID),
			zap.Uint("user_id", userID))
		prometheus.OwnershipDeniedCounter.Inc()
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	var product model.Product
	result := database.GetDB().Where("id = ? AND store_id = ?", productID, storeID).First(&product)
	if result.Error != nil {
		log.Warn("Product not found for deletion",
			zap.Uint("product_id", productID),
			zap.Uint("store_id", storeID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	defer prometheus.TrackDBOperation("transaction")(time.Now())
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		log.Error("Failed to delete product",
			zap.Uint("product_id", productID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "product deletion failed"})
	}

	prometheus.RecordProductOperation("delete")
	log.Info("Product deleted", zap.Uint("product_id", productID))
	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted successfully"})
}
