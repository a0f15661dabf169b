package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/PremPMehta/food-del-be-sub000/internal/finance"
	"github.com/PremPMehta/food-del-be-sub000/internal/invoice"
	"github.com/PremPMehta/food-del-be-sub000/internal/kitchen"
	"github.com/PremPMehta/food-del-be-sub000/internal/metrics"
	"github.com/PremPMehta/food-del-be-sub000/internal/models"
	"github.com/PremPMehta/food-del-be-sub000/internal/notify"
	"github.com/PremPMehta/food-del-be-sub000/internal/pricing"
)

/* =========================
   REQUEST DTOs
========================= */

type orderCustomizationRequest struct {
	CategoryID string   `json:"categoryId" binding:"required"`
	OptionIDs  []string `json:"optionIds" binding:"required"`
}

type orderDishRequest struct {
	DishID         string                      `json:"dishId" binding:"required"`
	Quantity       int                         `json:"quantity" binding:"required"`
	Customizations []orderCustomizationRequest `json:"customizations"`
}

type orderCategoryRequest struct {
	CategoryID string             `json:"categoryId" binding:"required"`
	Dishes     []orderDishRequest `json:"dishes" binding:"required"`
}

type orderComboRequest struct {
	ComboID  string `json:"comboId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

type orderDeliveryRequest struct {
	Address string `json:"address" binding:"required"`
	Pincode string `json:"pincode" binding:"required"`
	Note    string `json:"note"`
}

type placeOrderRequest struct {
	Categories   []orderCategoryRequest `json:"categories"`
	Combos       []orderComboRequest    `json:"combos"`
	Delivery     orderDeliveryRequest   `json:"delivery" binding:"required"`
	ScheduledFor *time.Time             `json:"scheduledFor"`
}

/* =========================
   PLACE ORDER
========================= */

// PlaceThalOrder places a scheduled thal order priced on the thal tier.
func PlaceThalOrder(db *mongo.Database, orch *finance.Orchestrator, notifier notify.Notifier, mailer *invoice.Mailer) gin.HandlerFunc {
	return placeOrder(db, orch, notifier, mailer, models.OrderKindThal, "POST /orders/thal")
}

// PlaceFastfoodOrder places an immediate fastfood order priced on the normal
// tier.
func PlaceFastfoodOrder(db *mongo.Database, orch *finance.Orchestrator, notifier notify.Notifier, mailer *invoice.Mailer) gin.HandlerFunc {
	return placeOrder(db, orch, notifier, mailer, models.OrderKindFastfood, "POST /orders/fastfood")
}

func placeOrder(db *mongo.Database, orch *finance.Orchestrator, notifier notify.Notifier, mailer *invoice.Mailer, kind, route string) gin.HandlerFunc {
	tier := pricing.TierNormal
	if kind == models.OrderKindThal {
		tier = pricing.TierThal
	}

	return func(c *gin.Context) {
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req placeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if kind == models.OrderKindThal && req.ScheduledFor == nil {
			respondWithError(c, http.StatusBadRequest, route, "scheduledFor is required for thal orders")
			return
		}

		user, ok := currentUser(c, db, route)
		if !ok {
			return
		}

		cart, err := buildCart(req)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		catalog, err := pricing.LoadCatalog(ctx, db, cart)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		priced, err := pricing.PriceCart(catalog, cart, tier)
		if err != nil {
			respondPricingError(c, route, err)
			return
		}

		kitchens, err := kitchen.Load(ctx, db)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		assigned, err := kitchen.Route(kitchens, req.Delivery.Pincode, priced.AllVeg)
		if err != nil {
			respondWithError(c, http.StatusUnprocessableEntity, route, "no kitchen serves this pincode")
			return
		}

		result, err := orch.PlaceOrder(ctx, finance.PlacementInput{
			User:   user,
			Kind:   kind,
			Priced: priced,
			Contact: models.OrderContact{
				Name:  user.Name,
				Email: user.Email,
				Phone: user.Phone,
			},
			Delivery: models.OrderDelivery{
				Address: req.Delivery.Address,
				Pincode: req.Delivery.Pincode,
				Note:    req.Delivery.Note,
			},
			Kitchen:      assigned,
			ScheduledFor: req.ScheduledFor,
		})
		if err != nil {
			respondPlacementError(c, route, err)
			return
		}

		order := result.Order
		metrics.OrdersPlacedTotal.WithLabelValues(order.Kind, order.PaymentMode).Inc()
		metrics.OrdersPlacedAmountTotal.WithLabelValues(order.PaymentMode).Add(order.TotalAmount)

		go notifier.PublishOrder(notify.OrderEvent{
			OrderID:     order.ID.Hex(),
			UserID:      order.UserID.Hex(),
			Kind:        order.Kind,
			Status:      order.Status,
			TotalAmount: order.TotalAmount,
			PaymentMode: order.PaymentMode,
		})
		go mailer.SendOrderInvoice(order)

		log.Printf("[ORDER] [INFO] %s order %s placed (%s, %.2f)", order.Kind, order.ID.Hex(), order.PaymentMode, order.TotalAmount)

		if result.PaymentLink != "" {
			c.JSON(http.StatusCreated, gin.H{
				"orderId":     order.ID.Hex(),
				"status":      order.Status,
				"paymentLink": result.PaymentLink,
			})
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func buildCart(req placeOrderRequest) (pricing.Cart, error) {
	var cart pricing.Cart

	for _, cat := range req.Categories {
		categoryID, err := primitive.ObjectIDFromHex(cat.CategoryID)
		if err != nil {
			return pricing.Cart{}, errors.New("invalid categoryId")
		}

		catSel := pricing.CategorySelection{CategoryID: categoryID}
		for _, dish := range cat.Dishes {
			dishID, err := primitive.ObjectIDFromHex(dish.DishID)
			if err != nil {
				return pricing.Cart{}, errors.New("invalid dishId")
			}

			dishSel := pricing.DishSelection{DishID: dishID, Quantity: dish.Quantity}
			for _, cust := range dish.Customizations {
				custCatID, err := primitive.ObjectIDFromHex(cust.CategoryID)
				if err != nil {
					return pricing.Cart{}, errors.New("invalid customization categoryId")
				}
				sel := pricing.CustomizationSelection{CategoryID: custCatID}
				for _, optionID := range cust.OptionIDs {
					oid, err := primitive.ObjectIDFromHex(optionID)
					if err != nil {
						return pricing.Cart{}, errors.New("invalid customization optionId")
					}
					sel.OptionIDs = append(sel.OptionIDs, oid)
				}
				dishSel.Customizations = append(dishSel.Customizations, sel)
			}
			catSel.Dishes = append(catSel.Dishes, dishSel)
		}
		cart.Categories = append(cart.Categories, catSel)
	}

	for _, combo := range req.Combos {
		comboID, err := primitive.ObjectIDFromHex(combo.ComboID)
		if err != nil {
			return pricing.Cart{}, errors.New("invalid comboId")
		}
		cart.Combos = append(cart.Combos, pricing.ComboSelection{ComboID: comboID, Quantity: combo.Quantity})
	}

	return cart, nil
}

func respondPricingError(c *gin.Context, route string, err error) {
	var notFound pricing.NotFoundError
	if errors.As(err, &notFound) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "catalog item not found",
			"kind":  notFound.Kind,
			"id":    notFound.ID.Hex(),
		})
		return
	}
	var invalid pricing.InvalidSelectionError
	if errors.As(err, &invalid) {
		respondWithError(c, http.StatusBadRequest, route, invalid.Reason)
		return
	}
	var limit pricing.LimitExceededError
	if errors.As(err, &limit) {
		respondWithError(c, http.StatusBadRequest, route, limit.Error())
		return
	}
	respondWithError(c, http.StatusBadRequest, route, err.Error())
}

func respondPlacementError(c *gin.Context, route string, err error) {
	var gwErr finance.GatewayError
	switch {
	case errors.Is(err, finance.ErrInactiveUser):
		respondWithError(c, http.StatusForbidden, route, "user is inactive")
	case errors.Is(err, finance.ErrWalletConflict):
		respondWithError(c, http.StatusConflict, route, "wallet balance changed, retry")
	case errors.As(err, &gwErr):
		log.Printf("[%s] gateway error: %v", route, err)
		respondWithError(c, http.StatusBadGateway, route, "payment gateway unavailable")
	default:
		log.Printf("[%s] placement failed: %v", route, err)
		respondWithError(c, http.StatusInternalServerError, route, "db error")
	}
}

/* =========================
   USER ORDER VIEWS
========================= */

func GetMyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/orders"
		defer handlePanic(c, route)

		user, ok := currentUser(c, db, route)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"userId": user.ID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := []models.Order{}
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

func GetMyOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/orders/:id"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		user, ok := currentUser(c, db, route)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID, "userId": user.ID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, order)
	}
}
