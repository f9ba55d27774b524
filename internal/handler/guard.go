package handler

import (
	"strconv"

	"github.com/FadhilPratama/cvstm-babat-admin/internal/model"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// pathID parses a numeric path parameter, rejecting malformed values
// before any business logic runs
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// ownedStore returns the store with the given ID when it is owned by
// userID. A store that does not exist and a store owned by someone
// else both miss the lookup, so callers cannot probe for existence.
func ownedStore(db *gorm.DB, storeID, userID uint) (*model.Store, error) {
	var store model.Store
	if result := db.Where("id = ? AND owner_id = ?", storeID, userID).First(&store); result.Error != nil {
		return nil, result.Error
	}
	return &store, nil
}

// bannerInStore resolves a banner reference restricted to the given
// store. A miss means the reference is invalid, not the resource path.
func bannerInStore(db *gorm.DB, bannerID, storeID uint) (*model.Banner, error) {
	var banner model.Banner
	if result := db.Where("id = ? AND store_id = ?", bannerID, storeID).First(&banner); result.Error != nil {
		return nil, result.Error
	}
	return &banner, nil
}

// categoryInStore resolves a category reference restricted to the given store
func categoryInStore(db *gorm.DB, categoryID, storeID uint) (*model.Category, error) {
	var category model.Category
	if result := db.Where("id = ? AND store_id = ?", categoryID, storeID).First(&category); result.Error != nil {
		return nil, result.Error
	}
	return &category, nil
}
