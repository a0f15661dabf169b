// Package finance is the money-movement core: it decides how an order is
// financed, creates the ledger entries and the order inside one database
// transaction, and reconciles asynchronous gateway confirmations.
package finance

import (
	"errors"
	"fmt"

	"github.com/PremPMehta/food-del-be-sub000/internal/models"
)

// Placement and reconciliation failures surfaced to handlers.
var (
	ErrInactiveUser      = errors.New("user is inactive")
	ErrWalletConflict    = errors.New("wallet balance changed, retry placement")
	ErrOrderConflict     = errors.New("order status changed, retry")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrAlreadyReconciled = errors.New("payment already reconciled")
	ErrUnreconcilable    = errors.New("payment purpose cannot be reconciled")
)

// GatewayError wraps a failed call to the external gateway. Placement aborts
// with nothing persisted when it occurs.
type GatewayError struct {
	Err error
}

func (e GatewayError) Error() string {
	return "payment gateway unavailable: " + e.Err.Error()
}

func (e GatewayError) Unwrap() error { return e.Err }

// AmountMismatchError means the gateway confirmed a different amount than
// the payment was created for. No state is mutated.
type AmountMismatchError struct {
	Expected float64
	Got      float64
}

func (e AmountMismatchError) Error() string {
	return fmt.Sprintf("confirmed amount %.2f does not match payment amount %.2f", e.Got, e.Expected)
}

// Plan is the financing decision for one order total against one wallet
// balance. Exactly one of the three modes applies:
//
//	total <= balance              wallet only
//	total >  balance, balance > 0 split (wallet zeroed, remainder on gateway)
//	total >  balance, balance = 0 gateway only
//
// WalletLeg + GatewayLeg always equals the total.
type Plan struct {
	Mode       string
	WalletLeg  float64
	GatewayLeg float64
}

// Decide partitions an order total across the wallet and the gateway.
func Decide(total, walletBalance float64) Plan {
	switch {
	case total <= walletBalance:
		return Plan{Mode: models.PaymentModeWallet, WalletLeg: total}
	case walletBalance > 0:
		return Plan{Mode: models.PaymentModeSplit, WalletLeg: walletBalance, GatewayLeg: total - walletBalance}
	default:
		return Plan{Mode: models.PaymentModeGateway, GatewayLeg: total}
	}
}
