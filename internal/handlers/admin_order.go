package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PremPMehta/food-del-be-sub000/internal/finance"
	"github.com/PremPMehta/food-del-be-sub000/internal/models"
	"github.com/PremPMehta/food-del-be-sub000/internal/notify"
)

// adminStatusTransitions lists the status changes an operator may apply.
// payment_pending is owned by webhook reconciliation and cannot be advanced
// by hand; cancelling a payment_pending order is allowed.
var adminStatusTransitions = map[string][]string{
	models.OrderStatusPaymentPending: {models.OrderStatusCancelled},
	models.OrderStatusPending:        {models.OrderStatusAccepted, models.OrderStatusRejected, models.OrderStatusCancelled},
	models.OrderStatusAccepted:       {models.OrderStatusCompleted, models.OrderStatusCancelled},
}

func canTransition(from, to string) bool {
	for _, allowed := range adminStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func ListOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination")
			return
		}

		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}
		if kind := c.Query("kind"); kind != "" {
			filter["kind"] = kind
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page - 1) * limit).
			SetLimit(limit)

		cursor, err := db.Collection("orders").Find(ctx, filter, opts)
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

		c.JSON(http.StatusOK, gin.H{"orders": orders, "page": page, "limit": limit})
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus applies an operator status change, guarded by the
// transition table above. Cancelling an order that still waits on its
// gateway leg goes through the orchestrator so a split order's wallet leg is
// refunded with the cancellation.
func UpdateOrderStatus(db *mongo.Database, orch *finance.Orchestrator, notifier notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/api/orders/:id/status"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "order not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if !canTransition(order.Status, req.Status) {
			respondWithError(c, http.StatusUnprocessableEntity, route, "invalid status transition")
			return
		}

		if order.Status == models.OrderStatusPaymentPending {
			// The only allowed transition out of payment_pending is a
			// cancellation, which must also unwind the wallet leg.
			if err := orch.CancelUnpaidOrder(ctx, orderID); err != nil {
				if errors.Is(err, finance.ErrOrderConflict) {
					respondWithError(c, http.StatusConflict, route, "order status changed, retry")
					return
				}
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
		} else {
			// Conditional on the status just read so two racing operators
			// cannot both apply a transition.
			res, err := db.Collection("orders").UpdateOne(ctx,
				bson.M{"_id": orderID, "status": order.Status},
				bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
			)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			if res.MatchedCount == 0 {
				respondWithError(c, http.StatusConflict, route, "order status changed, retry")
				return
			}
		}

		go notifier.PublishOrder(notify.OrderEvent{
			OrderID: orderID.Hex(),
			UserID:  order.UserID.Hex(),
			Kind:    order.Kind,
			Status:  req.Status,
		})

		c.JSON(http.StatusOK, gin.H{"message": "order updated", "status": req.Status})
	}
}

func DeleteOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/orders/:id"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("orders").DeleteOne(ctx, bson.M{"_id": orderID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
	}
}
