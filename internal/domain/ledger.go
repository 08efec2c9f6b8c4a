package domain

// CoinsPerPack is the number of sharing coins granted per Sharing Pack entitlement.
const CoinsPerPack = 5

// CoinLedger is the durable per-user sharing-coin balance.
//
// At rest after reconciliation CoinsAvailable == CoinsPurchased - CoinsUsed and
// CoinsUsed <= CoinsPurchased.
type CoinLedger struct {
	CoinsPurchased int
	CoinsUsed      int
	CoinsAvailable int
}

// TruePurchased derives the authoritative purchased-coin count from the catalog.
// ok is false when the catalog does not list the Sharing Pack; callers must not
// reconcile against a catalog that cannot vouch for the bundle.
func TruePurchased(c Catalog) (coins int, ok bool) {
	p, n := c.FindByReference(SharingPackRef)
	if n == 0 {
		return 0, false
	}
	count := p.ActiveEntitlementCount
	if count < 0 {
		count = 0
	}
	return count * CoinsPerPack, true
}

// Reconcile recomputes the ledger against the authoritative purchased count.
// A drop in purchases (refund or return) lowers CoinsPurchased and clamps
// CoinsUsed to it; a rise simply raises CoinsPurchased.
func Reconcile(l CoinLedger, truePurchased int) CoinLedger {
	if truePurchased < 0 {
		truePurchased = 0
	}
	if l.CoinsPurchased < 0 {
		l.CoinsPurchased = 0
	}
	if l.CoinsUsed < 0 {
		l.CoinsUsed = 0
	}

	switch {
	case truePurchased < l.CoinsPurchased:
		l.CoinsPurchased = truePurchased
		if l.CoinsUsed > l.CoinsPurchased {
			l.CoinsUsed = l.CoinsPurchased
		}
	case truePurchased > l.CoinsPurchased:
		l.CoinsPurchased = truePurchased
	}
	// Usage above purchases with no drift means a corrupted record.
	if l.CoinsUsed > l.CoinsPurchased {
		l.CoinsUsed = l.CoinsPurchased
	}

	l.CoinsAvailable = l.CoinsPurchased - l.CoinsUsed
	return l
}

// ConsumeCoin debits one coin. Callers must check CoinsAvailable > 0 first;
// consuming from an empty ledger is a programming error.
func ConsumeCoin(l CoinLedger) CoinLedger {
	if l.CoinsAvailable <= 0 {
		panic("domain: ConsumeCoin called with no coins available")
	}
	l.CoinsAvailable--
	l.CoinsUsed++
	return l
}
