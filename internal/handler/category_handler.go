package handler

import (
	"net/http"
	"time"

	mid "github.com/FadhilPratama/cvstm-babat-admin/internal/middleware"
	"github.com/FadhilPratama/cvstm-babat-admin/internal/model"
	"github.com/FadhilPratama/cvstm-babat-admin/pkg/database"
	"github.com/FadhilPratama/cvstm-babat-admin/pkg/logger"
	"github.com/FadhilPratama/cvstm-babat-admin/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CategoryRequest defines the structure for category creation/update requests
type CategoryRequest struct {
	Name     string `json:"name"`
	BannerID uint   `json:"banner_id"`
}

// ListCategories retrieves all categories of a store, public read path
func ListCategories(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, err := pathID(c, "storeId")
	if err != nil {
		log.Warn("Invalid store ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store ID"})
	}

	var categories []model.Category
	if result := database.GetDB().Where("store_id = ?", storeID).Find(&categories); result.Error != nil {
		log.Error("Failed to retrieve categories",
			zap.Uint("store_id", storeID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve categories"})
	}

	return c.JSON(http.StatusOK, categories)
}

// GetCategory retrieves a single category with its banner, public read path
func GetCategory(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, err := pathID(c, "storeId")
	if err != nil {
		log.Warn("Invalid store ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store ID"})
	}

	categoryID, err := pathID(c, "categoryId")
	if err != nil {
		log.Warn("Invalid category ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category ID"})
	}

	var category model.Category
	result := database.GetDB().Preload("Banner").
		Where("id = ? AND store_id = ?", categoryID, storeID).First(&category)
	if result.Error != nil {
		log.Warn("Category not found",
			zap.Uint("category_id", categoryID),
			zap.Uint("store_id", storeID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	}

	return c.JSON(http.StatusOK, category)
}

// CreateCategory handles creating a new category under a store.
// The referenced banner must belong to the same store.
func CreateCategory(c echo.Context) error {
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

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse category creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name == "" {
		log.Warn("Missing category name")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.BannerID == 0 {
		log.Warn("Missing banner reference")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "banner_id is required"})
	}

	if _, err := ownedStore(database.GetDB(), storeID, userID); err != nil {
		log.Warn("Store ownership check failed",
			zap.Uint("store_id", storeID),
			zap.Uint("user_id", userID))
		prometheus.OwnershipDeniedCounter.Inc()
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	if _, err := bannerInStore(database.GetDB(), req.BannerID, storeID); err != nil {
		log.Warn("Banner reference does not resolve within store",
			zap.Uint("banner_id", req.BannerID),
			zap.Uint("store_id", storeID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "banner not found in this store"})
	}

	category := model.Category{
		StoreID:  storeID,
		BannerID: req.BannerID,
		Name:     req.Name,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&category); result.Error != nil {
		log.Error("Failed to create category",
			zap.Uint("store_id", storeID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "category creation failed"})
	}

	prometheus.RecordCategoryOperation("create")
	log.Info("Category created",
		zap.Uint("category_id", category.ID),
		zap.Uint("store_id", storeID),
		zap.String("name", category.Name))
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles replacing the fields of an existing category.
// The new banner reference is validated against the same store.
func UpdateCategory(c echo.Context) error {
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

	categoryID, err := pathID(c, "categoryId")
	if err != nil {
		log.Warn("Invalid category ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category ID"})
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse category update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name == "" {
		log.Warn("Missing category name")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.BannerID == 0 {
		log.Warn("Missing banner reference")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "banner_id is required"})
	}

	if _, err := ownedStore(database.GetDB(), storeID, userID); err != nil {
		log.Warn("Store ownership check failed",
			zap.Uint("store_id", storeID),
			zap.Uint("user_id", userID))
		prometheus.OwnershipDeniedCounter.Inc()
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	category, err := categoryInStore(database.GetDB(), categoryID, storeID)
	if err != nil {
		log.Warn("Category not found for update",
			zap.Uint("category_id", categoryID),
			zap.Uint("store_id", storeID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	}

	if _, err := bannerInStore(database.GetDB(), req.BannerID, storeID); err != nil {
		log.Warn("Banner reference does not resolve within store",
			zap.Uint("banner_id", req.BannerID),
			zap.Uint("store_id", storeID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "banner not found in this store"})
	}

	category.Name = req.Name
	category.BannerID = req.BannerID

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(category); result.Error != nil {
		log.Error("Failed to update category",
			zap.Uint("category_id", categoryID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "category update failed"})
	}

	prometheus.RecordCategoryOperation("update")
	log.Info("Category updated",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name))
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory handles deleting a category. Deletion is refused
// while products still reference the category.
func DeleteCategory(c echo.Context) error {
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

	categoryID, err := pathID(c, "categoryId")
	if err != nil {
		log.Warn("Invalid category ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category ID"})
	}

	if _, err := ownedStore(database.GetDB(), storeID, userID); err != nil {
		log.Warn("Store ownership check failed",
			zap.Uint("store_id", storeID),
			zap.Uint("user_id", userID))
		prometheus.OwnershipDeniedCounter.Inc()
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	// Resolve the category within the caller's store before touching
	// reference counts, so foreign category IDs stay indistinguishable
	// from missing ones
	if _, err := categoryInStore(database.GetDB(), categoryID, storeID); err != nil {
		log.Warn("Category not found for deletion",
			zap.Uint("category_id", categoryID),
			zap.Uint("store_id", storeID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	}

	var count int64
	countResult := database.GetDB().Model(&model.Product{}).
		Where("category_id = ? AND store_id = ?", categoryID, storeID).Count(&count)
	if countResult.Error != nil {
		log.Error("Failed to count products referencing category",
			zap.Uint("category_id", categoryID),
			zap.Error(countResult.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "category deletion failed"})
	}
	if count > 0 {
		log.Warn("Category still referenced by products",
			zap.Uint("category_id", categoryID),
			zap.Int64("count", count))
		return c.JSON(http.StatusConflict, echo.Map{"error": "category is still referenced by products"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Where("store_id = ?", storeID).Delete(&model.Category{}, categoryID)
	if result.Error != nil {
		log.Error("Failed to delete category",
			zap.Uint("category_id", categoryID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "category deletion failed"})
	}

	if result.RowsAffected == 0 {
		log.Warn("Category not found for deletion", zap.Uint("category_id", categoryID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	}

	prometheus.RecordCategoryOperation("delete")
	log.Info("Category deleted", zap.Uint("category_id", categoryID))
	return c.JSON(http.StatusOK, echo.Map{"message": "category deleted successfully"})
}
