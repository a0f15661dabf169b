package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/PremPMehta/food-del-be-sub000/internal/database"
	"github.com/PremPMehta/food-del-be-sub000/internal/gateway"
	"github.com/PremPMehta/food-del-be-sub000/internal/models"
	"github.com/PremPMehta/food-del-be-sub000/internal/pricing"
)

// Orchestrator owns every multi-document money movement. All of its
// operations run as single MongoDB transactions; gateway calls happen
// before the transaction opens, never inside it.
type Orchestrator struct {
	db              *mongo.Database
	gw              gateway.Gateway
	membershipPrice float64
	returnURL       string
	cancelURL       string
}

func NewOrchestrator(db *mongo.Database, gw gateway.Gateway, membershipPrice float64, returnURL, cancelURL string) *Orchestrator {
	return &Orchestrator{
		db:              db,
		gw:              gw,
		membershipPrice: membershipPrice,
		returnURL:       returnURL,
		cancelURL:       cancelURL,
	}
}

// PlacementInput is a fully priced, validated, kitchen-routed order ready
// for financing.
type PlacementInput struct {
	User         models.User
	Kind         string
	Priced       *pricing.PricedCart
	Contact      models.OrderContact
	Delivery     models.OrderDelivery
	Kitchen      models.Kitchen
	ScheduledFor *time.Time
}

// PlacementResult carries the created order and, when a gateway leg exists,
// the hosted payment link the client must be redirected to.
type PlacementResult struct {
	Order       models.Order
	PaymentLink string
}

// PlaceOrder decides the financing strategy and persists the transactions,
// payment and order in one unit. Wallet-only orders start at pending;
// anything with a gateway leg starts at payment_pending and advances only
// after webhook reconciliation.
func (o *Orchestrator) PlaceOrder(ctx context.Context, in PlacementInput) (*PlacementResult, error) {
	if in.User.Status != models.UserStatusActive {
		return nil, ErrInactiveUser
	}

	plan := Decide(in.Priced.Total, in.User.WalletBalance)

	// The gateway link is minted before the database transaction so network
	// I/O never runs while the unit of work is open. A link orphaned by a
	// later rollback simply expires at the gateway.
	var link *gateway.Link
	if plan.GatewayLeg > 0 {
		var err error
		link, err = o.gw.CreateLink(ctx, gateway.LinkRequest{
			Amount:        plan.GatewayLeg,
			Description:   fmt.Sprintf("%s order for %s", in.Kind, in.Contact.Name),
			Reference:     "order_" + uuid.NewString(),
			CustomerName:  in.Contact.Name,
			CustomerEmail: in.Contact.Email,
			CustomerPhone: in.Contact.Phone,
			ReturnURL:     o.returnURL,
			CancelURL:     o.cancelURL,
		})
		if err != nil {
			return nil, GatewayError{Err: err}
		}
	}

	now := time.Now()
	orderID := primitive.NewObjectID()
	order := newOrder(in, plan, orderID, now)

	err := database.WithTxn(ctx, o.db.Client(), func(sessCtx mongo.SessionContext) error {
		order.PaymentRefs = nil

		if plan.WalletLeg > 0 {
			txnID, err := o.debitWallet(sessCtx, in.User, plan.WalletLeg, orderID, now)
			if err != nil {
				return err
			}
			order.PaymentRefs = append(order.PaymentRefs, txnID)
		}

		if plan.GatewayLeg > 0 {
			txnID, err := o.createGatewayLeg(sessCtx, in.User.ID, plan.GatewayLeg, link,
				models.TxnPurposeOrder, fmt.Sprintf("gateway leg of %s order", in.Kind), &orderID, now)
			if err != nil {
				return err
			}
			order.PaymentRefs = append(order.PaymentRefs, txnID)
		}

		_, err := o.db.Collection("orders").InsertOne(sessCtx, order)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &PlacementResult{Order: order}
	if link != nil {
		result.PaymentLink = link.URL
	}
	return result, nil
}

// newOrder builds the order document for a financing plan. Pure: wallet-only
// orders are immediately pending, anything with a gateway leg waits at
// payment_pending for reconciliation.
func newOrder(in PlacementInput, plan Plan, orderID primitive.ObjectID, now time.Time) models.Order {
	order := models.Order{
		ID:           orderID,
		UserID:       in.User.ID,
		Kind:         in.Kind,
		Contact:      in.Contact,
		Delivery:     in.Delivery,
		Items:        in.Priced.Items,
		Combos:       in.Priced.Combos,
		TotalAmount:  in.Priced.Total,
		IsJain:       in.Priced.IsJain,
		KitchenID:    in.Kitchen.ID,
		PaymentMode:  plan.Mode,
		Status:       models.OrderStatusPaymentPending,
		ScheduledFor: in.ScheduledFor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if plan.Mode == models.PaymentModeWallet {
		order.Status = models.OrderStatusPending
	}
	return order
}

// CancelUnpaidOrder cancels an order still waiting on its gateway leg and
// refunds the wallet leg of a split order. The pending gateway payment is
// left for its webhook: an expiry finds the order already cancelled and
// stops, a late confirmation refunds the charge to the wallet.
func (o *Orchestrator) CancelUnpaidOrder(ctx context.Context, orderID primitive.ObjectID) error {
	return database.WithTxn(ctx, o.db.Client(), func(sessCtx mongo.SessionContext) error {
		now := time.Now()

		var order models.Order
		err := o.db.Collection("orders").FindOneAndUpdate(sessCtx,
			bson.M{"_id": orderID, "status": models.OrderStatusPaymentPending},
			bson.M{"$set": bson.M{"status": models.OrderStatusCancelled, "updatedAt": now}},
		).Decode(&order)
		if err == mongo.ErrNoDocuments {
			return ErrOrderConflict
		}
		if err != nil {
			return err
		}

		var gwTxn models.Transaction
		err = o.db.Collection("transactions").FindOne(sessCtx, bson.M{
			"orderId": order.ID,
			"method":  models.TxnMethodGateway,
			"purpose": models.TxnPurposeOrder,
		}).Decode(&gwTxn)
		if err == mongo.ErrNoDocuments {
			return nil
		}
		if err != nil {
			return err
		}

		refund := splitRefundAmount(order, gwTxn.Amount)
		if refund <= 0 {
			return nil
		}
		_, err = o.creditWallet(sessCtx, order.UserID, refund,
			models.TxnMethodWallet, models.TxnPurposeRefund,
			"wallet refund for cancelled order", nil, &order.ID, now)
		return err
	})
}

// debitWallet moves the wallet leg. The update filter matches the exact
// balance the financing decision was made against, so a racing top-up or
// spend aborts the placement instead of corrupting the ledger snapshot.
func (o *Orchestrator) debitWallet(sessCtx mongo.SessionContext, user models.User, amount float64, orderID primitive.ObjectID, now time.Time) (primitive.ObjectID, error) {
	res, err := o.db.Collection("users").UpdateOne(sessCtx, bson.M{
		"_id":           user.ID,
		"status":        models.UserStatusActive,
		"walletBalance": user.WalletBalance,
	}, bson.M{
		"$inc": bson.M{"walletBalance": -amount},
		"$set": bson.M{"updatedAt": now},
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	if res.MatchedCount == 0 {
		return primitive.NilObjectID, ErrWalletConflict
	}

	starting := user.WalletBalance
	closing := starting - amount
	txn := models.Transaction{
		ID:              primitive.NewObjectID(),
		UserID:          user.ID,
		Direction:       models.TxnDirectionDebit,
		Amount:          amount,
		Method:          models.TxnMethodWallet,
		Purpose:         models.TxnPurposeOrder,
		Status:          models.TxnStatusCompleted,
		OrderID:         &orderID,
		Description:     "wallet leg of order",
		StartingBalance: &starting,
		ClosingBalance:  &closing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := o.db.Collection("transactions").InsertOne(sessCtx, txn); err != nil {
		return primitive.NilObjectID, err
	}
	return txn.ID, nil
}

// createGatewayLeg persists the pending Payment/Transaction pair for a
// minted payment link. Both start pending and are resolved only by webhook
// reconciliation.
func (o *Orchestrator) createGatewayLeg(sessCtx mongo.SessionContext, userID primitive.ObjectID, amount float64, link *gateway.Link, purpose, description string, orderID *primitive.ObjectID, now time.Time) (primitive.ObjectID, error) {
	txnID := primitive.NewObjectID()
	paymentID := primitive.NewObjectID()

	direction := models.TxnDirectionDebit
	if purpose != models.TxnPurposeOrder {
		// Top-ups and membership purchases land in the wallet on
		// confirmation.
		direction = models.TxnDirectionCredit
	}

	txn := models.Transaction{
		ID:          txnID,
		UserID:      userID,
		Direction:   direction,
		Amount:      amount,
		Method:      models.TxnMethodGateway,
		Purpose:     purpose,
		Status:      models.TxnStatusPending,
		PaymentID:   &paymentID,
		OrderID:     orderID,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := o.db.Collection("transactions").InsertOne(sessCtx, txn); err != nil {
		return primitive.NilObjectID, err
	}

	payment := models.Payment{
		ID:             paymentID,
		GatewayOrderID: link.GatewayOrderID,
		UserID:         userID,
		Amount:         amount,
		Purpose:        purpose,
		Description:    description,
		Status:         models.PaymentStatusPending,
		TransactionID:  txnID,
		Link:           link.URL,
		CreatedAt:      now,
	}
	if _, err := o.db.Collection("payments").InsertOne(sessCtx, payment); err != nil {
		return primitive.NilObjectID, err
	}
	return txnID, nil
}

// CreateFundingLink mints a gateway link for a wallet top-up or membership
// purchase and persists its pending Payment/Transaction pair.
func (o *Orchestrator) CreateFundingLink(ctx context.Context, user models.User, amount float64, purpose, description string) (*models.Payment, string, error) {
	if user.Status != models.UserStatusActive {
		return nil, "", ErrInactiveUser
	}

	link, err := o.gw.CreateLink(ctx, gateway.LinkRequest{
		Amount:        amount,
		Description:   description,
		Reference:     purpose + "_" + uuid.NewString(),
		CustomerName:  user.Name,
		CustomerEmail: user.Email,
		CustomerPhone: user.Phone,
		ReturnURL:     o.returnURL,
		CancelURL:     o.cancelURL,
	})
	if err != nil {
		return nil, "", GatewayError{Err: err}
	}

	now := time.Now()
	var payment models.Payment
	err = database.WithTxn(ctx, o.db.Client(), func(sessCtx mongo.SessionContext) error {
		txnID, err := o.createGatewayLeg(sessCtx, user.ID, amount, link, purpose, description, nil, now)
		if err != nil {
			return err
		}
		return o.db.Collection("payments").FindOne(sessCtx, bson.M{"transactionId": txnID}).Decode(&payment)
	})
	if err != nil {
		return nil, "", err
	}
	return &payment, link.URL, nil
}
