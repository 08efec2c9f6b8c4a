package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalog_FindByReference(t *testing.T) {
	c := Catalog{
		{ProductID: "a", ReferenceName: SharingPackRef, Purchasable: false},
		{ProductID: "b", ReferenceName: SharingPackRef, Purchasable: true},
	}
	p, n := c.FindByReference(SharingPackRef)
	require.Equal(t, 2, n)
	require.Equal(t, "a", p.ProductID)

	_, n = c.FindByReference("Nope")
	require.Zero(t, n)
}

func TestCatalog_Filters(t *testing.T) {
	c := Catalog{
		{ProductID: "owned", Entitled: true, Purchasable: true},
		{ProductID: "buyable", Purchasable: true},
		{ProductID: "locked"},
	}
	require.Equal(t, []Product{c[1]}, c.Purchasable())
	require.Equal(t, []Product{c[0]}, c.Entitled())

	p, ok := c.FindByID("locked")
	require.True(t, ok)
	require.Equal(t, "locked", p.ProductID)
	_, ok = c.FindByID("missing")
	require.False(t, ok)
}

func TestAttributes_SessionMirror(t *testing.T) {
	g := Greetings[1]
	a := Attributes{Ledger: CoinLedger{CoinsPurchased: 5, CoinsAvailable: 5}, Greeting: &g, LastIntent: IntentShareGreeting}
	s := a.Session()
	require.Equal(t, 5, s.CoinsAvailable)
	require.Equal(t, IntentShareGreeting, s.LastIntent)
	require.Equal(t, g, *s.Greeting)
	require.NotSame(t, a.Greeting, s.Greeting)

	require.Equal(t, DefaultGreeting, Attributes{}.SavedGreeting())
}

func TestEventNames(t *testing.T) {
	require.Equal(t, IntentSimpleHello, Hello{}.Name())
	require.Equal(t, IntentYes, Hello{Intent: IntentYes}.Name())
	require.Equal(t, IntentStop, Stop{}.Name())
	require.Equal(t, NamePurchaseResponse, PurchaseResponse{Kind: KindBuy}.Name())
	require.Equal(t, "Weird", Unrecognized{RequestType: "IntentRequest", Intent: "Weird"}.Name())
	require.Equal(t, "Display.ElementSelected", Unrecognized{RequestType: "Display.ElementSelected"}.Name())
}
