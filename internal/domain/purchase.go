package domain

import "time"

// TransactionKind names the purchase flow a directive starts.
type TransactionKind string

const (
	KindBuy    TransactionKind = "Buy"
	KindUpsell TransactionKind = "Upsell"
	KindCancel TransactionKind = "Cancel"
)

// Valid reports whether k is one of the known kinds.
func (k TransactionKind) Valid() bool {
	switch k {
	case KindBuy, KindUpsell, KindCancel:
		return true
	}
	return false
}

// Outcome is the result of a purchase round trip.
type Outcome string

const (
	OutcomeAccepted         Outcome = "ACCEPTED"
	OutcomeDeclined         Outcome = "DECLINED"
	OutcomeAlreadyPurchased Outcome = "ALREADY_PURCHASED"
	OutcomeNotEntitled      Outcome = "NOT_ENTITLED"
	OutcomeError            Outcome = "ERROR"
	// OutcomeFailed is the terminal state for non-200 responses and outcomes
	// that make no sense for the transaction kind.
	OutcomeFailed Outcome = "FAILED"
)

// DirectiveType is the outward directive type for purchase requests.
const DirectiveType = "SendPurchaseRequest"

// Directive asks the platform to run a purchase dialog.
type Directive struct {
	Type             string
	Kind             TransactionKind
	ProductID        string
	CorrelationToken string
	Message          string
}

// PurchaseTransition is the terminal result of one purchase round trip.
type PurchaseTransition struct {
	Kind      TransactionKind
	ProductID string
	Token     string
	Outcome   Outcome
}

// PendingTransaction tracks an offered directive until its response arrives.
type PendingTransaction struct {
	Token     string          `json:"token"`
	UserID    string          `json:"userId"`
	Kind      TransactionKind `json:"kind"`
	ProductID string          `json:"productId"`
	// Origin is the name of the event that triggered the offer.
	Origin    string    `json:"origin"`
	CreatedAt time.Time `json:"createdAt"`
}
