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

// StoreRequest defines the structure for store creation/update requests
type StoreRequest struct {
	Name string `json:"name"`
}

// CreateStore handles creating a new store for the authenticated owner
func CreateStore(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := mid.GetUserIDFromContext(c)
	if !ok {
		log.Error("Missing user identity in context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req StoreRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse store creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name == "" {
		log.Warn("Missing store name")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	store := model.Store{
		Name:    req.Name,
		OwnerID: userID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&store); result.Error != nil {
		log.Error("Failed to create store", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store creation failed"})
	}

	prometheus.RecordStoreOperation("create")
	log.Info("Store created",
		zap.Uint("store_id", store.ID),
		zap.String("name", store.Name),
		zap.Uint("owner_id", store.OwnerID))
	return c.JSON(http.StatusCreated, store)
}

// ListStores retrieves all stores owned by the caller
func ListStores(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := mid.GetUserIDFromContext(c)
	if !ok {
		log.Error("Missing user identity in context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var stores []model.Store
	if result := database.GetDB().Where("owner_id = ?", userID).Find(&stores); result.Error != nil {
		log.Error("Failed to retrieve stores",
			zap.Uint("owner_id", userID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve stores"})
	}

	return c.JSON(http.StatusOK, stores)
}

// GetStore retrieves a single store owned by the caller
func GetStore(c echo.Context) error {
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

	store, err := ownedStore(database.GetDB(), storeID, userID)
	if err != nil {
		log.Warn("Store ownership check failed",
			zap.Uint("store_id", storeID),
			zap.Uint("user_id", userID))
		prometheus.OwnershipDeniedCounter.Inc()
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	return c.JSON(http.StatusOK, store)
}

// UpdateStore handles renaming an existing store
func UpdateStore(c echo.Context) error {
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

	var req StoreRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse store update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name == "" {
		log.Warn("Missing store name")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	store, err := ownedStore(database.GetDB(), storeID, userID)
	if err != nil {
		log.Warn("Store ownership check failed",
			zap.Uint("store_id", storeID),
			zap.Uint("user_id", userID))
		prometheus.OwnershipDeniedCounter.Inc()
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	store.Name = req.Name

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(store); result.Error != nil {
		log.Error("Failed to update store",
			zap.Uint("store_id", storeID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store update failed"})
	}

	prometheus.RecordStoreOperation("update")
	log.Info("Store updated",
		zap.Uint("store_id", store.ID),
		zap.String("name", store.Name))
	return c.JSON(http.StatusOK, store)
}

// DeleteStore handles deleting a store owned by the caller.
// Deletion is refused while banners, categories or products still
// exist under the store.
func DeleteStore(c echo.Context) error {
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

	store, err := ownedStore(database.GetDB(), storeID, userID)
	if err != nil {
		log.Warn("Store ownership check failed",
			zap.Uint("store_id", storeID),
			zap.Uint("user_id", userID))
		prometheus.OwnershipDeniedCounter.Inc()
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	// Refuse deletion while dependent resources exist. A failed count
	// must not let the deletion through.
	children := []struct {
		model   interface{}
		message string
	}{
		{&model.Product{}, "store still has products"},
		{&model.Category{}, "store still has categories"},
		{&model.Banner{}, "store still has banners"},
	}
	for _, child := range children {
		var count int64
		countResult := database.GetDB().Model(child.model).Where("store_id = ?", storeID).Count(&count)
		if countResult.Error != nil {
			log.Error("Failed to count store contents",
				zap.Uint("store_id", storeID),
				zap.Error(countResult.Error))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store deletion failed"})
		}
		if count > 0 {
			log.Warn("Store still has dependent resources",
				zap.Uint("store_id", storeID),
				zap.Int64("count", count))
			return c.JSON(http.StatusConflict, echo.Map{"error": child.message})
		}
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(store); result.Error != nil {
		log.Error("Failed to delete store",
			zap.Uint("store_id", storeID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store deletion failed"})
	}

	prometheus.RecordStoreOperation("delete")
	log.Info("Store deleted", zap.Uint("store_id", storeID))
	return c.JSON(http.StatusOK, echo.Map{"message": "store deleted successfully"})
}
