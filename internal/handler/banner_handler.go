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

// BannerRequest defines the structure for banner creation/update requests
type BannerRequest struct {
	Label    string `json:"label"`
	ImageURL string `json:"image_url"`
}

// ListBanners retrieves all banners of a store, public read path
func ListBanners(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, err := pathID(c, "storeId")
	if err != nil {
		log.Warn("Invalid store ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store ID"})
	}

	var banners []model.Banner
	if result := database.GetDB().Where("store_id = ?", storeID).Find(&banners); result.Error != nil {
		log.Error("Failed to retrieve banners",
			zap.Uint("store_id", storeID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve banners"})
	}

	return c.JSON(http.StatusOK, banners)
}

// GetBanner retrieves a single banner of a store, public read path
func GetBanner(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, err := pathID(c, "storeId")
	if err != nil {
		log.Warn("Invalid store ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store ID"})
	}

	bannerID, err := pathID(c, "bannerId")
	if err != nil {
		log.Warn("Invalid banner ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid banner ID"})
	}

	var banner model.Banner
	result := database.GetDB().Where("id = ? AND store_id = ?", bannerID, storeID).First(&banner)
	if result.Error != nil {
		log.Warn("Banner not found",
			zap.Uint("banner_id", bannerID),
			zap.Uint("store_id", storeID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "banner not found"})
	}

	return c.JSON(http.StatusOK, banner)
}

// CreateBanner handles creating a new banner under a store
func CreateBanner(c echo.Context) error {
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

	var req BannerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse banner creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Label == "" {
		log.Warn("Missing banner label")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "label is required"})
	}
	if req.ImageURL == "" {
		log.Warn("Missing banner image URL")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image_url is required"})
	}

	if _, err := ownedStore(database.GetDB(), storeID, userID); err != nil {
		log.Warn("Store ownership check failed",
			zap.Uint("store_id", storeID),
			zap.Uint("user_id", userID))
		prometheus.OwnershipDeniedCounter.Inc()
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	banner := model.Banner{
		StoreID:  storeID,
		Label:    req.Label,
		ImageURL: req.ImageURL,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&banner); result.Error != nil {
		log.Error("Failed to create banner",
			zap.Uint("store_id", storeID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "banner creation failed"})
	}

	prometheus.RecordBannerOperation("create")
	log.Info("Banner created",
		zap.Uint("banner_id", banner.ID),
		zap.Uint("store_id", storeID),
		zap.String("label", banner.Label))
	return c.JSON(http.StatusCreated, banner)
}

// UpdateBanner handles replacing the fields of an existing banner
func UpdateBanner(c echo.Context) error {
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

	bannerID, err := pathID(c, "bannerId")
	if err != nil {
		log.Warn("Invalid banner ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid banner ID"})
	}

	var req BannerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse banner update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Label == "" {
		log.Warn("Missing banner label")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "label is required"})
	}
	if req.ImageURL == "" {
		log.Warn("Missing banner image URL")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image_url is required"})
	}

	if _, err := ownedStore(database.GetDB(), storeID, userID); err != nil {
		log.Warn("Store ownership check failed",
			zap.Uint("store_id", storeID),
			zap.Uint("user_id", userID))
		prometheus.OwnershipDeniedCounter.Inc()
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	var banner model.Banner
	result := database.GetDB().Where("id = ? AND store_id = ?", bannerID, storeID).First(&banner)
	if result.Error != nil {
		log.Warn("Banner not found for update",
			zap.Uint("banner_id", bannerID),
			zap.Uint("store_id", storeID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "banner not found"})
	}

	banner.Label = req.Label
	banner.ImageURL = req.ImageURL

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&banner); result.Error != nil {
		log.Error("Failed to update banner",
			zap.Uint("banner_id", bannerID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "banner update failed"})
	}

	prometheus.RecordBannerOperation("update")
	log.Info("Banner updated",
		zap.Uint("banner_id", banner.ID),
		zap.String("label", banner.Label))
	return c.JSON(http.StatusOK, banner)
}

// DeleteBanner handles deleting a banner. Deletion is refused while
// any category still references the banner, so categories never end
// up with a dangling banner reference.
func DeleteBanner(c echo.Context) error {
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

	bannerID, err := pathID(c, "bannerId")
	if err != nil {
		log.Warn("Invalid banner ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid banner ID"})
	}

	if _, err := ownedStore(database.GetDB(), storeID, userID); err != nil {
		log.Warn("Store ownership check failed",
			zap.Uint("store_id", storeID),
			zap.Uint("user_id", userID))
		prometheus.OwnershipDeniedCounter.Inc()
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	// Resolve the banner within the caller's store before touching
	// reference counts, so foreign banner IDs stay indistinguishable
	// from missing ones
	if _, err := bannerInStore(database.GetDB(), bannerID, storeID); err != nil {
		log.Warn("Banner not found for deletion",
			zap.Uint("banner_id", bannerID),
			zap.Uint("store_id", storeID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "banner not found"})
	}

	var count int64
	countResult := database.GetDB().Model(&model.Category{}).
		Where("banner_id = ? AND store_id = ?", bannerID, storeID).Count(&count)
	if countResult.Error != nil {
		log.Error("Failed to count categories referencing banner",
			zap.Uint("banner_id", bannerID),
			zap.Error(countResult.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "banner deletion failed"})
	}
	if count > 0 {
		log.Warn("Banner still referenced by categories",
			zap.Uint("banner_id", bannerID),
			zap.Int64("count", count))
		return c.JSON(http.StatusConflict, echo.Map{"error": "banner is still referenced by categories"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Where("store_id = ?", storeID).Delete(&model.Banner{}, bannerID)
	if result.Error != nil {
		log.Error("Failed to delete banner",
			zap.Uint("banner_id", bannerID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "banner deletion failed"})
	}

	if result.RowsAffected == 0 {
		log.Warn("Banner not found for deletion", zap.Uint("banner_id", bannerID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "banner not found"})
	}

	prometheus.RecordBannerOperation("delete")
	log.Info("Banner deleted", zap.Uint("banner_id", bannerID))
	return c.JSON(http.StatusOK, echo.Map{"message": "banner deleted successfully"})
}
