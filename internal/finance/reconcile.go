package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PremPMehta/food-del-be-sub000/internal/database"
	"github.com/PremPMehta/food-del-be-sub000/internal/gateway"
	"github.com/PremPMehta/food-del-be-sub000/internal/models"
)

// ReconcileOutcome summarizes one processed webhook for logging and metrics.
type ReconcileOutcome struct {
	Purpose         string
	EventType       string
	AlreadyTerminal bool
	OrderID         *primitive.ObjectID
	RewardsPaid     int
	RewardAmount    float64
}

// Reconcile applies one verified gateway event. Everything runs in a single
// database transaction; a replayed webhook is acknowledged without effects
// because the payment status flips pending→terminal with a conditional
// update, not a read-then-write.
func (o *Orchestrator) Reconcile(ctx context.Context, event *gateway.Event) (*ReconcileOutcome, error) {
	outcome := &ReconcileOutcome{EventType: event.Type}

	err := database.WithTxn(ctx, o.db.Client(), func(sessCtx mongo.SessionContext) error {
		now := time.Now()

		targetStatus := models.PaymentStatusCompleted
		if event.Type == gateway.EventExpired {
			targetStatus = models.PaymentStatusFailed
		}

		var payment models.Payment
		err := o.db.Collection("payments").FindOneAndUpdate(sessCtx,
			bson.M{"gatewayOrderId": event.GatewayOrderID, "status": models.PaymentStatusPending},
			bson.M{"$set": bson.M{"status": targetStatus, "confirmedAt": now}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&payment)
		if err == mongo.ErrNoDocuments {
			// Either the payment is unknown or another delivery already
			// resolved it.
			count, countErr := o.db.Collection("payments").CountDocuments(sessCtx,
				bson.M{"gatewayOrderId": event.GatewayOrderID})
			if countErr != nil {
				return countErr
			}
			if count == 0 {
				return ErrPaymentNotFound
			}
			return ErrAlreadyReconciled
		}
		if err != nil {
			return err
		}

		outcome.Purpose = payment.Purpose

		if gateway.RupeesToPaise(payment.Amount) != gateway.RupeesToPaise(event.Amount) {
			return AmountMismatchError{Expected: payment.Amount, Got: event.Amount}
		}

		var txn models.Transaction
		if err := o.db.Collection("transactions").FindOne(sessCtx,
			bson.M{"_id": payment.TransactionID}).Decode(&txn); err != nil {
			return fmt.Errorf("linked transaction missing: %w", err)
		}
		if txn.Status != models.TxnStatusPending {
			return ErrAlreadyReconciled
		}

		if event.Type == gateway.EventExpired {
			return o.applyExpiry(sessCtx, txn, outcome, now)
		}
		return o.applyConfirmation(sessCtx, txn, outcome, now)
	})

	if errors.Is(err, ErrAlreadyReconciled) {
		outcome.AlreadyTerminal = true
		return outcome, nil
	}
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// reconcileEffect is the set of state changes a confirmed payment applies.
type reconcileEffect struct {
	creditWallet     bool
	grantMembership  bool
	referralCategory string
	advanceOrder     bool
}

// confirmationEffect decides, by transaction purpose, what a confirmed
// payment does. Pure; applyConfirmation executes the effects inside the
// reconciliation transaction.
func confirmationEffect(txn models.Transaction, user models.User, membershipPrice float64) (reconcileEffect, error) {
	switch txn.Purpose {
	case models.TxnPurposeTopup:
		return reconcileEffect{creditWallet: true, referralCategory: models.ReferralCategoryTopup}, nil

	case models.TxnPurposeMembership:
		if user.IsPrimeMember {
			return reconcileEffect{}, ErrUnreconcilable
		}
		if gateway.RupeesToPaise(txn.Amount) != gateway.RupeesToPaise(membershipPrice) {
			return reconcileEffect{}, ErrUnreconcilable
		}
		return reconcileEffect{
			creditWallet:     true,
			grantMembership:  true,
			referralCategory: models.ReferralCategoryMembership,
		}, nil

	case models.TxnPurposeOrder:
		if txn.OrderID == nil {
			return reconcileEffect{}, ErrUnreconcilable
		}
		return reconcileEffect{advanceOrder: true}, nil

	default:
		return reconcileEffect{}, ErrUnreconcilable
	}
}

// splitRefundAmount is the wallet leg owed back to the customer when a split
// order is cancelled while its gateway leg is unresolved. Zero for other
// payment modes.
func splitRefundAmount(order models.Order, gatewayLeg float64) float64 {
	if order.PaymentMode != models.PaymentModeSplit {
		return 0
	}
	leg := order.TotalAmount - gatewayLeg
	if leg < 0 {
		return 0
	}
	return leg
}

func (o *Orchestrator) applyConfirmation(sessCtx mongo.SessionContext, txn models.Transaction, outcome *ReconcileOutcome, now time.Time) error {
	var user models.User
	if txn.Purpose == models.TxnPurposeTopup || txn.Purpose == models.TxnPurposeMembership {
		var err error
		user, err = o.loadUser(sessCtx, txn.UserID)
		if err != nil {
			return err
		}
	}

	effect, err := confirmationEffect(txn, user, o.membershipPrice)
	if err != nil {
		return err
	}

	if effect.creditWallet {
		if err := o.creditAndComplete(sessCtx, txn, now); err != nil {
			return err
		}
	}
	if effect.grantMembership {
		_, err := o.db.Collection("users").UpdateByID(sessCtx, user.ID, bson.M{
			"$set": bson.M{"isPrimeMember": true, "updatedAt": now},
		})
		if err != nil {
			return err
		}
	}
	if effect.advanceOrder {
		outcome.OrderID = txn.OrderID
		if err := o.completeTransaction(sessCtx, txn.ID, models.TxnStatusCompleted, nil, nil, now); err != nil {
			return err
		}
		res, err := o.db.Collection("orders").UpdateOne(sessCtx,
			bson.M{"_id": *txn.OrderID, "status": models.OrderStatusPaymentPending},
			bson.M{"$set": bson.M{"status": models.OrderStatusPending, "updatedAt": now}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			// The order left payment_pending before the gateway confirmed;
			// the charge lands in the wallet instead of buying a cancelled
			// order.
			return o.refundConfirmedCancelled(sessCtx, txn, now)
		}
	}
	if effect.referralCategory != "" {
		return o.fanOutReferralBonus(sessCtx, user, txn.Amount, effect.referralCategory, outcome, now)
	}
	return nil
}

// refundConfirmedCancelled credits a confirmed gateway charge back to the
// wallet when its order was cancelled before the confirmation arrived.
func (o *Orchestrator) refundConfirmedCancelled(sessCtx mongo.SessionContext, txn models.Transaction, now time.Time) error {
	var order models.Order
	if err := o.db.Collection("orders").FindOne(sessCtx, bson.M{"_id": *txn.OrderID}).Decode(&order); err != nil {
		return fmt.Errorf("linked order missing: %w", err)
	}
	if order.Status != models.OrderStatusCancelled {
		return nil
	}
	_, err := o.creditWallet(sessCtx, txn.UserID, txn.Amount,
		models.TxnMethodWallet, models.TxnPurposeRefund,
		"wallet refund for payment confirmed after order cancellation", nil, &order.ID, now)
	return err
}

// applyExpiry handles a gateway "expired" event: the payment and transaction
// fail, the linked order (if any) is cancelled, and a split order's wallet
// leg is refunded so the customer is made whole.
func (o *Orchestrator) applyExpiry(sessCtx mongo.SessionContext, txn models.Transaction, outcome *ReconcileOutcome, now time.Time) error {
	if err := o.completeTransaction(sessCtx, txn.ID, models.TxnStatusFailed, nil, nil, now); err != nil {
		return err
	}

	if txn.Purpose != models.TxnPurposeOrder || txn.OrderID == nil {
		return nil
	}
	outcome.OrderID = txn.OrderID

	var order models.Order
	if err := o.db.Collection("orders").FindOne(sessCtx, bson.M{"_id": *txn.OrderID}).Decode(&order); err != nil {
		return fmt.Errorf("linked order missing: %w", err)
	}

	res, err := o.db.Collection("orders").UpdateOne(sessCtx,
		bson.M{"_id": order.ID, "status": models.OrderStatusPaymentPending},
		bson.M{"$set": bson.M{"status": models.OrderStatusCancelled, "updatedAt": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Order already left payment_pending; an admin cancellation has
		// already refunded any wallet leg.
		return nil
	}

	if refund := splitRefundAmount(order, txn.Amount); refund > 0 {
		_, err := o.creditWallet(sessCtx, order.UserID, refund,
			models.TxnMethodWallet, models.TxnPurposeRefund,
			"wallet refund for expired order payment", nil, &order.ID, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// creditAndComplete credits the transaction amount to its user's wallet and
// marks the transaction completed with the balance snapshots.
func (o *Orchestrator) creditAndComplete(sessCtx mongo.SessionContext, txn models.Transaction, now time.Time) error {
	starting, closing, err := o.applyWalletCredit(sessCtx, txn.UserID, txn.Amount, now)
	if err != nil {
		return err
	}
	return o.completeTransaction(sessCtx, txn.ID, models.TxnStatusCompleted, &starting, &closing, now)
}

// applyWalletCredit increments the wallet atomically and returns the balance
// snapshots around the movement.
func (o *Orchestrator) applyWalletCredit(sessCtx mongo.SessionContext, userID primitive.ObjectID, amount float64, now time.Time) (starting, closing float64, err error) {
	var after models.User
	err = o.db.Collection("users").FindOneAndUpdate(sessCtx,
		bson.M{"_id": userID},
		bson.M{"$inc": bson.M{"walletBalance": amount}, "$set": bson.M{"updatedAt": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&after)
	if err != nil {
		return 0, 0, err
	}
	return after.WalletBalance - amount, after.WalletBalance, nil
}

// creditWallet credits a wallet and records the movement as a new completed
// transaction.
func (o *Orchestrator) creditWallet(sessCtx mongo.SessionContext, userID primitive.ObjectID, amount float64, method, purpose, description string, paymentID, orderID *primitive.ObjectID, now time.Time) (models.Transaction, error) {
	starting, closing, err := o.applyWalletCredit(sessCtx, userID, amount, now)
	if err != nil {
		return models.Transaction{}, err
	}

	txn := models.Transaction{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		Direction:       models.TxnDirectionCredit,
		Amount:          amount,
		Method:          method,
		Purpose:         purpose,
		Status:          models.TxnStatusCompleted,
		PaymentID:       paymentID,
		OrderID:         orderID,
		Description:     description,
		StartingBalance: &starting,
		ClosingBalance:  &closing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := o.db.Collection("transactions").InsertOne(sessCtx, txn); err != nil {
		return models.Transaction{}, err
	}
	return txn, nil
}

func (o *Orchestrator) completeTransaction(sessCtx mongo.SessionContext, txnID primitive.ObjectID, status string, starting, closing *float64, now time.Time) error {
	set := bson.M{"status": status, "updatedAt": now}
	if starting != nil {
		set["startingBalance"] = *starting
	}
	if closing != nil {
		set["closingBalance"] = *closing
	}
	_, err := o.db.Collection("transactions").UpdateByID(sessCtx, txnID, bson.M{"$set": set})
	return err
}

func (o *Orchestrator) loadUser(sessCtx mongo.SessionContext, userID primitive.ObjectID) (models.User, error) {
	var user models.User
	err := o.db.Collection("users").FindOne(sessCtx, bson.M{"_id": userID}).Decode(&user)
	return user, err
}
