package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PremPMehta/food-del-be-sub000/internal/models"
)

/* =========================
   CATEGORIES & DISHES
========================= */

type createCategoryRequest struct {
	Title    string `json:"title" binding:"required"`
	Sequence int    `json:"sequence"`
}

func CreateCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/categories"
		defer handlePanic(c, route)

		var req createCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		category := models.Category{
			Title:     req.Title,
			Sequence:  req.Sequence,
			IsActive:  true,
			Dishes:    []models.Dish{},
			CreatedAt: time.Now(),
		}

		res, err := db.Collection("categories").InsertOne(ctx, category)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		id, _ := res.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, gin.H{"categoryId": id.Hex()})
	}
}

type customizeOptionRequest struct {
	Title      string  `json:"title" binding:"required"`
	PriceAddOn float64 `json:"priceAddOn"`
}

type customizeCategoryRequest struct {
	Title         string                   `json:"title" binding:"required"`
	AllowMultiple bool                     `json:"allowMultiple"`
	Limit         int                      `json:"limit"`
	Options       []customizeOptionRequest `json:"options" binding:"required"`
}

type addDishRequest struct {
	Title               string                     `json:"title" binding:"required"`
	Description         string                     `json:"description"`
	ThalPrice           float64                    `json:"thalPrice" binding:"required,gt=0"`
	NormalPrice         float64                    `json:"normalPrice" binding:"required,gt=0"`
	Diet                string                     `json:"diet" binding:"required,oneof=Veg Nonveg Jain"`
	CustomizeCategories []customizeCategoryRequest `json:"customizeCategories"`
}

// AddDish appends a dish to a category. Customize option ids are generated
// here; the pricing engine validates selections against them.
func AddDish(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/categories/:id/dishes"
		defer handlePanic(c, route)

		categoryID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req addDishRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		dish := models.Dish{
			ID:          primitive.NewObjectID(),
			Title:       req.Title,
			Description: req.Description,
			ThalPrice:   req.ThalPrice,
			NormalPrice: req.NormalPrice,
			Diet:        req.Diet,
			IsActive:    true,
		}
		for _, cat := range req.CustomizeCategories {
			limit := cat.Limit
			if limit <= 0 {
				limit = 1
			}
			custCat := models.CustomizeCategory{
				ID:            primitive.NewObjectID(),
				Title:         cat.Title,
				AllowMultiple: cat.AllowMultiple,
				Limit:         limit,
			}
			for _, opt := range cat.Options {
				custCat.Options = append(custCat.Options, models.CustomizeOption{
					ID:         primitive.NewObjectID(),
					Title:      opt.Title,
					PriceAddOn: opt.PriceAddOn,
				})
			}
			dish.CustomizeCategories = append(dish.CustomizeCategories, custCat)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("categories").UpdateByID(ctx, categoryID, bson.M{
			"$push": bson.M{"dishes": dish},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "category not found")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"dishId": dish.ID.Hex()})
	}
}

func RemoveDish(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/categories/:id/dishes/:dishId"
		defer handlePanic(c, route)

		categoryID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}
		dishID, err := primitive.ObjectIDFromHex(c.Param("dishId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid dishId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("categories").UpdateByID(ctx, categoryID, bson.M{
			"$pull": bson.M{"dishes": bson.M{"_id": dishID}},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "category not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "dish removed"})
	}
}

func DeleteCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/categories/:id"
		defer handlePanic(c, route)

		categoryID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// Soft delete: placed orders keep their category references valid
		// for audit while the category disappears from the catalog.
		res, err := db.Collection("categories").UpdateByID(ctx, categoryID, bson.M{
			"$set": bson.M{"isActive": false},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "category not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "category deactivated"})
	}
}

/* =========================
   COMBOS
========================= */

type createComboRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Diet        string  `json:"diet" binding:"required,oneof=Veg Nonveg Jain"`
}

func CreateCombo(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/combos"
		defer handlePanic(c, route)

		var req createComboRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		combo := models.Combo{
			Title:       req.Title,
			Description: req.Description,
			Amount:      req.Amount,
			Diet:        req.Diet,
			IsActive:    true,
			CreatedAt:   time.Now(),
		}

		res, err := db.Collection("combos").InsertOne(ctx, combo)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		id, _ := res.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, gin.H{"comboId": id.Hex()})
	}
}

func DeleteCombo(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/combos/:id"
		defer handlePanic(c, route)

		comboID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("combos").UpdateByID(ctx, comboID, bson.M{
			"$set": bson.M{"isActive": false},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "combo not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "combo deactivated"})
	}
}

/* =========================
   KITCHENS
========================= */

type createKitchenRequest struct {
	Name          string   `json:"name" binding:"required"`
	Pincodes      []string `json:"pincodes"`
	VegOnly       bool     `json:"vegOnly"`
	MasterKitchen bool     `json:"masterKitchen"`
}

func CreateKitchen(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/kitchens"
		defer handlePanic(c, route)

		var req createKitchenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		k := models.Kitchen{
			Name:          req.Name,
			Pincodes:      req.Pincodes,
			VegOnly:       req.VegOnly,
			MasterKitchen: req.MasterKitchen,
			IsActive:      true,
			CreatedAt:     time.Now(),
		}

		res, err := db.Collection("kitchens").InsertOne(ctx, k)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		id, _ := res.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, gin.H{"kitchenId": id.Hex()})
	}
}

func ListKitchens(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/kitchens"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("kitchens").Find(ctx, bson.M{}, options.Find())
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		kitchens := []models.Kitchen{}
		if err := cursor.All(ctx, &kitchens); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, kitchens)
	}
}

/* =========================
   REFERRAL SETTINGS
========================= */

type referralLevelRequest struct {
	Level      int     `json:"level" binding:"required,min=1,max=3"`
	Percentage float64 `json:"percentage" binding:"min=0"`
	MaxBonus   float64 `json:"maxBonus" binding:"min=0"`
}

type upsertReferralSettingsRequest struct {
	Category string                 `json:"category" binding:"required,oneof=membership topup"`
	Levels   []referralLevelRequest `json:"levels" binding:"required"`
}

// UpsertReferralSettings replaces the per-level bonus rates for one
// category.
func UpsertReferralSettings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/referral-settings"
		defer handlePanic(c, route)

		var req upsertReferralSettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		levels := make([]models.ReferralLevelSetting, 0, len(req.Levels))
		for _, l := range req.Levels {
			levels = append(levels, models.ReferralLevelSetting{
				Level:      l.Level,
				Percentage: l.Percentage,
				MaxBonus:   l.MaxBonus,
			})
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		_, err := db.Collection("referralsettings").UpdateOne(ctx,
			bson.M{"category": req.Category},
			bson.M{"$set": bson.M{"levels": levels}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "referral settings saved"})
	}
}
