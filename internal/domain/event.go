package domain

// Intent and request names as delivered by the platform.
const (
	NameLaunch           = "LaunchRequest"
	NameSessionEnded     = "SessionEndedRequest"
	NamePurchaseResponse = "Connections.Response"

	IntentYes             = "AMAZON.YesIntent"
	IntentNo              = "AMAZON.NoIntent"
	IntentHelp            = "AMAZON.HelpIntent"
	IntentCancel          = "AMAZON.CancelIntent"
	IntentStop            = "AMAZON.StopIntent"
	IntentSimpleHello     = "SimpleHelloIntent"
	IntentWhatCanIBuy     = "WhatCanIBuyIntent"
	IntentTellMeMore      = "TellMeMoreAboutSharingPackIntent"
	IntentBuySharingPack  = "BuySharingPackIntent"
	IntentShareGreeting   = "ShareGreetingIntent"
	IntentPurchaseHistory = "PurchaseHistoryIntent"
	IntentRefund          = "RefundSharingPackIntent"
	IntentCoinInventory   = "CoinInventoryIntent"
)

// Event is one incoming turn. The set of implementations is closed; new kinds
// are added here and handled in every type switch over Event.
type Event interface {
	// Name is recorded as the user's last intent.
	Name() string
	isEvent()
}

type (
	Launch struct{}

	// Hello covers both "say hello" and "yes" (another greeting).
	Hello struct{ Intent string }

	No              struct{}
	WhatCanIBuy     struct{}
	TellMeMore      struct{}
	BuySharingPack  struct{}
	ShareGreeting   struct{}
	PurchaseHistory struct{}
	Refund          struct{}
	CoinInventory   struct{}
	Help            struct{}

	// Stop covers cancel and stop.
	Stop struct{ Intent string }

	// PurchaseResponse is the second phase of a purchase round trip.
	PurchaseResponse struct {
		Kind          TransactionKind
		ProductID     string
		Token         string
		StatusCode    string
		StatusMessage string
		Outcome       Outcome
		Message       string
	}

	SessionEnded struct{ Reason string }

	// Unrecognized is any request no handler matches.
	Unrecognized struct {
		RequestType string
		Intent      string
	}
)

func (Launch) Name() string          { return NameLaunch }
func (e Hello) Name() string         { return orDefault(e.Intent, IntentSimpleHello) }
func (No) Name() string              { return IntentNo }
func (WhatCanIBuy) Name() string     { return IntentWhatCanIBuy }
func (TellMeMore) Name() string      { return IntentTellMeMore }
func (BuySharingPack) Name() string  { return IntentBuySharingPack }
func (ShareGreeting) Name() string   { return IntentShareGreeting }
func (PurchaseHistory) Name() string { return IntentPurchaseHistory }
func (Refund) Name() string          { return IntentRefund }
func (CoinInventory) Name() string   { return IntentCoinInventory }
func (Help) Name() string            { return IntentHelp }
func (e Stop) Name() string          { return orDefault(e.Intent, IntentStop) }
func (PurchaseResponse) Name() string {
	return NamePurchaseResponse
}
func (SessionEnded) Name() string { return NameSessionEnded }
func (e Unrecognized) Name() string {
	return orDefault(e.Intent, e.RequestType)
}

func (Launch) isEvent()           {}
func (Hello) isEvent()            {}
func (No) isEvent()               {}
func (WhatCanIBuy) isEvent()      {}
func (TellMeMore) isEvent()       {}
func (BuySharingPack) isEvent()   {}
func (ShareGreeting) isEvent()    {}
func (PurchaseHistory) isEvent()  {}
func (Refund) isEvent()           {}
func (CoinInventory) isEvent()    {}
func (Help) isEvent()             {}
func (Stop) isEvent()             {}
func (PurchaseResponse) isEvent() {}
func (SessionEnded) isEvent()     {}
func (Unrecognized) isEvent()     {}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
