package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PremPMehta/food-del-be-sub000/internal/finance"
	"github.com/PremPMehta/food-del-be-sub000/internal/models"
)

type topupRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// TopupWallet mints a gateway payment link that credits the wallet once the
// webhook confirms it.
func TopupWallet(db *mongo.Database, orch *finance.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user/wallet/topup"
		defer handlePanic(c, route)

		var req topupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		user, ok := currentUser(c, db, route)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		payment, link, err := orch.CreateFundingLink(ctx, user, req.Amount,
			models.TxnPurposeTopup, "wallet top-up")
		if err != nil {
			respondFundingError(c, route, err)
			return
		}

		log.Printf("[WALLET] [INFO] top-up link minted for %s (%.2f)", user.Email, req.Amount)
		c.JSON(http.StatusCreated, gin.H{
			"paymentId":   payment.ID.Hex(),
			"paymentLink": link,
		})
	}
}

// GetWallet returns the current spendable balance.
func GetWallet(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/wallet"
		defer handlePanic(c, route)

		user, ok := currentUser(c, db, route)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"walletBalance": user.WalletBalance,
			"isPrimeMember": user.IsPrimeMember,
		})
	}
}

// GetWalletHistory reads the user's ledger movements newest-first. The
// history is a view over the transactions collection; there is no second
// embedded copy to fall out of sync.
func GetWalletHistory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/wallet/history"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination")
			return
		}

		user, ok := currentUser(c, db, route)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page - 1) * limit).
			SetLimit(limit)

		cursor, err := db.Collection("transactions").Find(ctx, bson.M{"userId": user.ID}, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		transactions := []models.Transaction{}
		if err := cursor.All(ctx, &transactions); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"walletBalance": user.WalletBalance,
			"transactions":  transactions,
			"page":          page,
			"limit":         limit,
		})
	}
}

// PurchaseMembership mints a gateway link for the configured membership
// price; the webhook flips isPrimeMember and fans out referral bonuses.
func PurchaseMembership(db *mongo.Database, orch *finance.Orchestrator, membershipPrice float64) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user/membership/purchase"
		defer handlePanic(c, route)

		user, ok := currentUser(c, db, route)
		if !ok {
			return
		}
		if user.IsPrimeMember {
			respondWithError(c, http.StatusConflict, route, "already a prime member")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		payment, link, err := orch.CreateFundingLink(ctx, user, membershipPrice,
			models.TxnPurposeMembership, "prime membership purchase")
		if err != nil {
			respondFundingError(c, route, err)
			return
		}

		log.Printf("[WALLET] [INFO] membership link minted for %s", user.Email)
		c.JSON(http.StatusCreated, gin.H{
			"paymentId":   payment.ID.Hex(),
			"amount":      membershipPrice,
			"paymentLink": link,
		})
	}
}

func respondFundingError(c *gin.Context, route string, err error) {
	var gwErr finance.GatewayError
	switch {
	case errors.Is(err, finance.ErrInactiveUser):
		respondWithError(c, http.StatusForbidden, route, "user is inactive")
	case errors.As(err, &gwErr):
		log.Printf("[%s] gateway error: %v", route, err)
		respondWithError(c, http.StatusBadGateway, route, "payment gateway unavailable")
	default:
		log.Printf("[%s] funding link failed: %v", route, err)
		respondWithError(c, http.StatusInternalServerError, route, "db error")
	}
}
