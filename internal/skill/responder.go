// Package skill turns one event plus a snapshot of the user's state into a
// reply. Nothing here performs I/O: the caller loads state before Respond and
// applies the reply's mutations afterwards.
package skill

import (
	"fmt"

	"github.com/google/uuid"

	"greeting-sender/internal/domain"
)

// TurnState is the read-only input to Respond.
type TurnState struct {
	// Attributes holds the durable record after this turn's reconciliation.
	Attributes domain.Attributes
	// Catalog is only meaningful when CatalogErr is nil.
	Catalog    domain.Catalog
	CatalogErr error
	// Pending is the tracked offer for a purchase response, if any.
	Pending *domain.PendingTransaction
	// PreviousIntent is the durable last intent before this turn.
	PreviousIntent string
}

func (s TurnState) catalogAvailable() bool {
	return s.CatalogErr == nil
}

// Card is a simple title/content card.
type Card struct {
	Title   string
	Content string
}

// Reply is everything a turn produces. Nil pointers mean "unchanged".
type Reply struct {
	Speech     string
	Reprompt   string
	Card       *Card
	Directive  *domain.Directive
	Ledger     *domain.CoinLedger
	Greeting   *domain.Greeting
	EndSession bool
	Transition *domain.PurchaseTransition
}

// Responder builds replies.
type Responder struct {
	pick     Picker
	newToken func() string
}

// Option configures a Responder.
type Option func(*Responder)

// WithPicker replaces the random phrase picker.
func WithPicker(p Picker) Option {
	return func(r *Responder) {
		if p != nil {
			r.pick = p
		}
	}
}

// WithTokenGenerator replaces the correlation token generator.
func WithTokenGenerator(fn func() string) Option {
	return func(r *Responder) {
		if fn != nil {
			r.newToken = fn
		}
	}
}

func NewResponder(opts ...Option) *Responder {
	r := &Responder{
		pick:     randomPicker{},
		newToken: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond dispatches on the event kind.
func (r *Responder) Respond(ev domain.Event, st TurnState) Reply {
	switch e := ev.(type) {
	case domain.Launch:
		return r.launch()
	case domain.Hello:
		return r.hello()
	case domain.No:
		return Reply{Speech: r.goodbye(), EndSession: true}
	case domain.WhatCanIBuy:
		return r.whatCanIBuy(st)
	case domain.TellMeMore:
		return r.offerUpsell("Sure", st)
	case domain.BuySharingPack:
		return r.offerBuy(st)
	case domain.ShareGreeting:
		return r.share(st)
	case domain.PurchaseHistory:
		return r.purchaseHistory(st)
	case domain.Refund:
		return r.offerCancel(st)
	case domain.CoinInventory:
		return r.coinInventory(st)
	case domain.Help:
		return Reply{Speech: msgHelp, Reprompt: msgHelp, Card: &Card{Title: SkillName, Content: msgHelp}}
	case domain.Stop:
		bye := r.goodbye()
		return Reply{Speech: bye, Card: &Card{Title: SkillName, Content: bye}, EndSession: true}
	case domain.PurchaseResponse:
		return r.HandlePurchaseResponse(e, st)
	case domain.SessionEnded:
		return Reply{}
	case domain.Unrecognized:
		return Fallback()
	default:
		return Fallback()
	}
}

// Fallback is the reply for events no handler understands.
func Fallback() Reply {
	return Reply{Speech: msgNotUnderstood, Reprompt: msgNotUnderstood}
}

func (r *Responder) launch() Reply {
	text := welcomeText()
	return Reply{Speech: text, Reprompt: text, Card: &Card{Title: SkillName, Content: text}}
}

func (r *Responder) hello() Reply {
	g := r.greeting()
	return Reply{
		Speech: fmt.Sprintf("Here's your greeting: %s. That's hello in %s. To share a greeting at any time, just say share this greeting. What would you like to do?",
			g.Text, g.Language),
		Reprompt: r.yesNo(),
		Card:     &Card{Title: SkillName, Content: fmt.Sprintf("%s! That's hello in %s", g.Text, g.Language)},
		Greeting: &g,
	}
}

func (r *Responder) whatCanIBuy(st TurnState) Reply {
	var products []domain.Product
	if st.catalogAvailable() {
		products = st.Catalog.Purchasable()
	}
	if len(products) == 0 {
		return Reply{
			Speech:   "There are no products to offer to you right now. Sorry about that. Would you like a greeting instead?",
			Reprompt: msgRepeat,
		}
	}
	return Reply{
		Speech: sentences(
			fmt.Sprintf("Products available for purchase at this time are %s.", speakableList(products)),
			"To learn more about a product, say 'Tell me more about' followed by the product name.",
			"If you are ready to buy, say, 'Buy' followed by the product name. So what can I help you with?",
		),
		Reprompt: msgRepeat,
	}
}

func (r *Responder) share(st TurnState) Reply {
	g := st.Attributes.SavedGreeting()
	ledger := st.Attributes.Ledger
	if ledger.CoinsAvailable > 0 {
		spent := domain.ConsumeCoin(ledger)
		return Reply{
			Speech:   sentences(shareText(g), r.yesNo()),
			Reprompt: sentences(sharedRepromptText(g), r.yesNo()),
			Card:     &Card{Title: SkillName, Content: fmt.Sprintf("%s - hello in %s was shared with your favorite friend", g.Text, g.Language)},
			Ledger:   &spent,
		}
	}
	reply := r.offerUpsell("Darn it. Looks like you are out of sharing coins", st)
	reply.Greeting = &g
	return reply
}

func (r *Responder) purchaseHistory(st TurnState) Reply {
	if !st.catalogAvailable() {
		return r.catalogDown()
	}
	entitled := st.Catalog.Entitled()
	if len(entitled) == 0 {
		return Reply{
			Speech:   "You haven't purchased anything yet. To learn more about the products you can buy, say - what can I buy. How can I help?",
			Reprompt: sentences("You asked me for what you've bought, but you haven't purchased anything yet. You can say - what can I buy, or say yes to get another greeting.", r.yesNo()),
		}
	}
	list := speakableList(entitled)
	coins := st.Attributes.Ledger.CoinsAvailable
	if coins > 0 {
		return Reply{
			Speech: sentences(
				fmt.Sprintf("You bought the following items: %s. You have %d sharing coins available.", list, coins),
				"To share a greeting at any time, just say share this greeting.",
				r.yesNo(),
			),
			Reprompt: sentences(
				fmt.Sprintf("You asked me for what you've bought, here's a list %s. You have %d sharing coins available.", list, coins),
				r.yesNo(),
			),
		}
	}
	return r.offerUpsell(fmt.Sprintf("You bought the following items: %s, but you're out of sharing coins", list), st)
}

func (r *Responder) coinInventory(st TurnState) Reply {
	coins := st.Attributes.Ledger.CoinsAvailable
	if coins > 0 {
		return Reply{
			Speech:   sentences(fmt.Sprintf("You now have %d sharing coins available.", coins), r.yesNo()),
			Reprompt: r.yesNo(),
		}
	}
	return r.offerUpsell("Darn it. Looks like you are out of coins", st)
}

func (r *Responder) catalogDown() Reply {
	return Reply{
		Speech:   sentences("I can't check your purchases right now.", r.yesNo()),
		Reprompt: r.yesNo(),
	}
}
