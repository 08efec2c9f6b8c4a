package skill

import (
	"fmt"

	"greeting-sender/internal/domain"
)

const statusOK = "200"

// offerBuy, offerUpsell and offerCancel are the only paths that start a
// purchase flow. Each returns either a directive or a decline-style prompt.

func (r *Responder) offerBuy(st TurnState) Reply {
	p, ok := r.offerable(st)
	if !ok {
		return r.cannotBuy("")
	}
	return Reply{Directive: r.directive(domain.KindBuy, p.ProductID, "")}
}

func (r *Responder) offerUpsell(preamble string, st TurnState) Reply {
	p, ok := r.offerable(st)
	if !ok {
		return r.cannotBuy(preamble)
	}
	msg := sentences(preamble+".", summarySentence(p), r.learnMore())
	return Reply{Directive: r.directive(domain.KindUpsell, p.ProductID, msg)}
}

func (r *Responder) offerCancel(st TurnState) Reply {
	if !st.catalogAvailable() {
		return r.catalogDown()
	}
	p, n := st.Catalog.FindByReference(domain.SharingPackRef)
	if n == 0 || !p.Entitled {
		return Reply{
			Speech:   "It looks like you haven't purchased the Sharing Pack yet. To learn more about the products you can buy, say - what can I buy. How can I help?",
			Reprompt: r.yesNo(),
		}
	}
	return Reply{Directive: r.directive(domain.KindCancel, p.ProductID, "")}
}

// offerable resolves the Sharing Pack and reports whether it may be offered.
func (r *Responder) offerable(st TurnState) (domain.Product, bool) {
	if !st.catalogAvailable() {
		return domain.Product{}, false
	}
	p, n := st.Catalog.FindByReference(domain.SharingPackRef)
	if n == 0 || !p.Purchasable {
		return domain.Product{}, false
	}
	return p, true
}

func (r *Responder) cannotBuy(preamble string) Reply {
	speech := "Sorry. You can't buy this right now."
	if preamble != "" {
		speech = preamble + ". " + speech
	}
	return Reply{Speech: sentences(speech, r.yesNo()), Reprompt: r.yesNo()}
}

func (r *Responder) directive(kind domain.TransactionKind, productID, message string) *domain.Directive {
	return &domain.Directive{
		Type:             domain.DirectiveType,
		Kind:             kind,
		ProductID:        productID,
		CorrelationToken: r.newToken(),
		Message:          message,
	}
}

func summarySentence(p domain.Product) string {
	if p.Summary == "" {
		return ""
	}
	return p.Summary + "."
}

// HandlePurchaseResponse resolves the terminal state of a purchase round trip
// and builds the matching reply. The ledger is only touched on an accepted
// Sharing Pack purchase that was started from a share request; everything
// else is left to the next turn's reconciliation.
func (r *Responder) HandlePurchaseResponse(ev domain.PurchaseResponse, st TurnState) Reply {
	t := domain.PurchaseTransition{Kind: ev.Kind, ProductID: ev.ProductID, Token: ev.Token}
	if t.ProductID == "" && st.Pending != nil {
		t.ProductID = st.Pending.ProductID
	}

	if ev.StatusCode != statusOK {
		t.Outcome = domain.OutcomeFailed
		return Reply{Speech: msgPurchaseError, Transition: &t}
	}

	var reply Reply
	switch ev.Kind {
	case domain.KindBuy, domain.KindUpsell:
		reply = r.buyOutcome(ev, &t, st)
	case domain.KindCancel:
		reply = r.cancelOutcome(ev, &t, st)
	default:
		t.Outcome = domain.OutcomeFailed
		reply = r.unexpectedOutcome(t.ProductID, st)
	}
	reply.Transition = &t
	return reply
}

func (r *Responder) buyOutcome(ev domain.PurchaseResponse, t *domain.PurchaseTransition, st TurnState) Reply {
	switch ev.Outcome {
	case domain.OutcomeAccepted:
		t.Outcome = domain.OutcomeAccepted
		if !isSharingPack(t.ProductID, st) {
			name := productName(t.ProductID, st)
			return Reply{Speech: sentences(fmt.Sprintf("Thanks for buying the %s.", name), r.yesNo()), Reprompt: r.yesNo()}
		}
		return r.acceptedSharingPack(st)
	case domain.OutcomeDeclined:
		t.Outcome = domain.OutcomeDeclined
		return Reply{Speech: sentences("No Problem.", r.yesNo()), Reprompt: r.yesNo()}
	case domain.OutcomeAlreadyPurchased:
		t.Outcome = domain.OutcomeAlreadyPurchased
		return Reply{
			Speech:   "You have already purchased the Sharing Pack. To share a greeting with a friend at any time, just say share this greeting. What would you like to do?",
			Reprompt: "To share a greeting at any time, just say share this greeting. You can also say give me another greeting. What would you like to do?",
		}
	}
	t.Outcome = domain.OutcomeFailed
	return r.unexpectedOutcome(t.ProductID, st)
}

func (r *Responder) acceptedSharingPack(st TurnState) Reply {
	granted := fmt.Sprintf("This gives you %d sharing coins you can use to share greetings with your friends.", domain.CoinsPerPack)
	ledger := st.Attributes.Ledger
	if shareInProgress(st) && ledger.CoinsAvailable > 0 {
		g := st.Attributes.SavedGreeting()
		spent := domain.ConsumeCoin(ledger)
		return Reply{
			Speech: sentences(
				granted,
				shareText(g),
				fmt.Sprintf("You now have a total of %d sharing coins available.", spent.CoinsAvailable),
				r.yesNo(),
			),
			Reprompt: sentences(sharedRepromptText(g), r.yesNo()),
			Ledger:   &spent,
		}
	}
	return Reply{
		Speech: sentences(
			granted,
			fmt.Sprintf("You now have a total of %d sharing coins available.", ledger.CoinsAvailable),
			"To share a greeting at any time, just say - share greeting.",
			r.yesNo(),
		),
		Reprompt: r.yesNo(),
	}
}

func (r *Responder) cancelOutcome(ev domain.PurchaseResponse, t *domain.PurchaseTransition, st TurnState) Reply {
	switch ev.Outcome {
	case domain.OutcomeAccepted, domain.OutcomeDeclined, domain.OutcomeNotEntitled:
		// The platform already spoke the cancellation result.
		t.Outcome = ev.Outcome
		return Reply{Speech: r.yesNo(), Reprompt: r.yesNo()}
	}
	t.Outcome = domain.OutcomeFailed
	return r.unexpectedOutcome(t.ProductID, st)
}

func (r *Responder) unexpectedOutcome(productID string, st TurnState) Reply {
	return Reply{Speech: fmt.Sprintf("Something unexpected happened, but thanks for your interest in the %s.", productName(productID, st))}
}

// shareInProgress reports whether the offer was made to complete a share.
func shareInProgress(st TurnState) bool {
	if st.Pending != nil {
		return st.Pending.Origin == domain.IntentShareGreeting
	}
	return st.PreviousIntent == domain.IntentShareGreeting
}

// isSharingPack is false only when the catalog positively lists the product
// under another reference name.
func isSharingPack(productID string, st TurnState) bool {
	if !st.catalogAvailable() {
		return true
	}
	p, ok := st.Catalog.FindByID(productID)
	if !ok {
		return true
	}
	return p.ReferenceName == domain.SharingPackRef
}

func productName(productID string, st TurnState) string {
	if st.catalogAvailable() {
		if p, ok := st.Catalog.FindByID(productID); ok && p.Name != "" {
			return p.Name
		}
	}
	return "Sharing Pack"
}
