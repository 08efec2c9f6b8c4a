package skill

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"greeting-sender/internal/domain"
)

func purchaseResponse(kind domain.TransactionKind, outcome domain.Outcome) domain.PurchaseResponse {
	return domain.PurchaseResponse{
		Kind:       kind,
		ProductID:  sharingPackID,
		Token:      testToken,
		StatusCode: "200",
		Outcome:    outcome,
	}
}

func TestPurchaseResponse_TransitionTable(t *testing.T) {
	cases := []struct {
		name    string
		kind    domain.TransactionKind
		outcome domain.Outcome
		status  string
		want    domain.Outcome
	}{
		{name: "buy accepted", kind: domain.KindBuy, outcome: domain.OutcomeAccepted, want: domain.OutcomeAccepted},
		{name: "upsell accepted", kind: domain.KindUpsell, outcome: domain.OutcomeAccepted, want: domain.OutcomeAccepted},
		{name: "buy declined", kind: domain.KindBuy, outcome: domain.OutcomeDeclined, want: domain.OutcomeDeclined},
		{name: "buy already purchased", kind: domain.KindBuy, outcome: domain.OutcomeAlreadyPurchased, want: domain.OutcomeAlreadyPurchased},
		{name: "buy error", kind: domain.KindBuy, outcome: domain.OutcomeError, want: domain.OutcomeFailed},
		{name: "buy not entitled", kind: domain.KindBuy, outcome: domain.OutcomeNotEntitled, want: domain.OutcomeFailed},
		{name: "cancel accepted", kind: domain.KindCancel, outcome: domain.OutcomeAccepted, want: domain.OutcomeAccepted},
		{name: "cancel declined", kind: domain.KindCancel, outcome: domain.OutcomeDeclined, want: domain.OutcomeDeclined},
		{name: "cancel not entitled", kind: domain.KindCancel, outcome: domain.OutcomeNotEntitled, want: domain.OutcomeNotEntitled},
		{name: "cancel already purchased", kind: domain.KindCancel, outcome: domain.OutcomeAlreadyPurchased, want: domain.OutcomeFailed},
		{name: "unknown outcome", kind: domain.KindUpsell, outcome: domain.Outcome("MAYBE"), want: domain.OutcomeFailed},
		{name: "unknown kind", kind: domain.TransactionKind("Gift"), outcome: domain.OutcomeAccepted, want: domain.OutcomeFailed},
		{name: "non 200 status", kind: domain.KindBuy, outcome: domain.OutcomeAccepted, status: "500", want: domain.OutcomeFailed},
	}

	r := newTestResponder()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := purchaseResponse(tc.kind, tc.outcome)
			if tc.status != "" {
				ev.StatusCode = tc.status
			}
			st := stateWith(domain.CoinLedger{CoinsPurchased: 5, CoinsAvailable: 5}, sharingPack(true, 1))
			reply := r.Respond(ev, st)
			require.NotNil(t, reply.Transition)
			require.Equal(t, tc.want, reply.Transition.Outcome)
			require.Equal(t, testToken, reply.Transition.Token)
			require.Equal(t, sharingPackID, reply.Transition.ProductID)
			require.Nil(t, reply.Directive)
			require.NotEmpty(t, reply.Speech)
			if tc.want != domain.OutcomeAccepted {
				require.Nil(t, reply.Ledger)
			}
		})
	}
}

func TestPurchaseResponse_FailedStatusNeverTouchesLedger(t *testing.T) {
	ev := purchaseResponse(domain.KindUpsell, domain.OutcomeAccepted)
	ev.StatusCode = "400"
	st := stateWith(domain.CoinLedger{CoinsPurchased: 5, CoinsAvailable: 5}, sharingPack(true, 1))
	st.Pending = &domain.PendingTransaction{Token: testToken, Origin: domain.IntentShareGreeting}

	reply := newTestResponder().Respond(ev, st)
	require.Equal(t, msgPurchaseError, reply.Speech)
	require.Nil(t, reply.Ledger)
}

func TestPurchaseResponse_AcceptedDuringShare(t *testing.T) {
	g := domain.Greetings[1]
	st := stateWith(domain.CoinLedger{CoinsPurchased: 5, CoinsAvailable: 5}, sharingPack(true, 1))
	st.Attributes.Greeting = &g
	st.Pending = &domain.PendingTransaction{Token: testToken, Kind: domain.KindUpsell, ProductID: sharingPackID, Origin: domain.IntentShareGreeting}

	reply := newTestResponder().Respond(purchaseResponse(domain.KindUpsell, domain.OutcomeAccepted), st)
	require.NotNil(t, reply.Ledger)
	require.Equal(t, domain.CoinLedger{CoinsPurchased: 5, CoinsUsed: 1, CoinsAvailable: 4}, *reply.Ledger)
	require.Contains(t, reply.Speech, "I have shared the greeting - Bonjour")
	require.Contains(t, reply.Speech, "You now have a total of 4 sharing coins available.")
}

func TestPurchaseResponse_AcceptedDuringShareFallsBackToPreviousIntent(t *testing.T) {
	st := stateWith(domain.CoinLedger{CoinsPurchased: 5, CoinsAvailable: 5}, sharingPack(true, 1))
	st.PreviousIntent = domain.IntentShareGreeting

	reply := newTestResponder().Respond(purchaseResponse(domain.KindUpsell, domain.OutcomeAccepted), st)
	require.NotNil(t, reply.Ledger)
	require.Equal(t, 1, reply.Ledger.CoinsUsed)
}

func TestPurchaseResponse_PendingOriginWinsOverPreviousIntent(t *testing.T) {
	st := stateWith(domain.CoinLedger{CoinsPurchased: 5, CoinsAvailable: 5}, sharingPack(true, 1))
	st.PreviousIntent = domain.IntentShareGreeting
	st.Pending = &domain.PendingTransaction{Token: testToken, Origin: domain.IntentBuySharingPack}

	reply := newTestResponder().Respond(purchaseResponse(domain.KindBuy, domain.OutcomeAccepted), st)
	require.Nil(t, reply.Ledger)
	require.Contains(t, reply.Speech, "You now have a total of 5 sharing coins available.")
}

func TestPurchaseResponse_AcceptedStandalone(t *testing.T) {
	st := stateWith(domain.CoinLedger{CoinsPurchased: 5, CoinsAvailable: 5}, sharingPack(true, 1))
	st.Pending = &domain.PendingTransaction{Token: testToken, Origin: domain.IntentBuySharingPack}

	reply := newTestResponder().Respond(purchaseResponse(domain.KindBuy, domain.OutcomeAccepted), st)
	require.Nil(t, reply.Ledger, "standalone purchase must not debit")
	require.Contains(t, reply.Speech, fmt.Sprintf("This gives you %d sharing coins", domain.CoinsPerPack))
}

func TestPurchaseResponse_AcceptedDuringShareWithoutVisibleCoins(t *testing.T) {
	// Reconciliation was skipped, so the new coins are not visible yet.
	st := catalogDownState(domain.CoinLedger{})
	st.Pending = &domain.PendingTransaction{Token: testToken, Origin: domain.IntentShareGreeting}

	require.NotPanics(t, func() {
		reply := newTestResponder().Respond(purchaseResponse(domain.KindUpsell, domain.OutcomeAccepted), st)
		require.Nil(t, reply.Ledger)
		require.Equal(t, domain.OutcomeAccepted, reply.Transition.Outcome)
	})
}

func TestPurchaseResponse_CancelAcceptedLeavesLedgerAlone(t *testing.T) {
	st := stateWith(domain.CoinLedger{CoinsPurchased: 5, CoinsUsed: 2, CoinsAvailable: 3}, sharingPack(false, 1))
	reply := newTestResponder().Respond(purchaseResponse(domain.KindCancel, domain.OutcomeAccepted), st)
	require.Nil(t, reply.Ledger)
	require.Nil(t, reply.Directive)
	require.Equal(t, yesNoQuestions[0], reply.Speech)
}

func TestPurchaseResponse_AcceptedOtherProduct(t *testing.T) {
	other := domain.Product{ProductID: "other", ReferenceName: "Greetings_Pack", Name: "Greetings Pack", Purchasable: true}
	st := stateWith(domain.CoinLedger{CoinsPurchased: 5, CoinsAvailable: 5}, sharingPack(true, 1), other)
	st.Pending = &domain.PendingTransaction{Token: testToken, Origin: domain.IntentShareGreeting}

	ev := purchaseResponse(domain.KindBuy, domain.OutcomeAccepted)
	ev.ProductID = "other"
	reply := newTestResponder().Respond(ev, st)
	require.Nil(t, reply.Ledger)
	require.Contains(t, reply.Speech, "Thanks for buying the Greetings Pack.")
}

func TestPurchaseResponse_ProductFromPending(t *testing.T) {
	st := stateWith(domain.CoinLedger{}, sharingPack(true, 0))
	st.Pending = &domain.PendingTransaction{Token: testToken, ProductID: sharingPackID}
	ev := purchaseResponse(domain.KindBuy, domain.OutcomeError)
	ev.ProductID = ""

	reply := newTestResponder().Respond(ev, st)
	require.Equal(t, sharingPackID, reply.Transition.ProductID)
	require.Equal(t, "Something unexpected happened, but thanks for your interest in the Sharing Pack.", reply.Speech)
}
