package domain

import "time"

// SessionContext is the per-session working copy of durable state.
type SessionContext struct {
	LastIntent     string    `json:"lastIntent,omitempty"`
	Greeting       *Greeting `json:"greeting,omitempty"`
	CoinsAvailable int       `json:"coinsAvailable"`
}

// Attributes is the durable per-user record.
type Attributes struct {
	UserID     string
	Ledger     CoinLedger
	Greeting   *Greeting
	LastIntent string
	UpdatedAt  time.Time
}

// SavedGreeting returns the stored greeting or the default one.
func (a Attributes) SavedGreeting() Greeting {
	if a.Greeting == nil {
		return DefaultGreeting
	}
	return *a.Greeting
}

// Session mirrors the durable attributes into a session context.
func (a Attributes) Session() SessionContext {
	s := SessionContext{
		LastIntent:     a.LastIntent,
		CoinsAvailable: a.Ledger.CoinsAvailable,
	}
	if a.Greeting != nil {
		g := *a.Greeting
		s.Greeting = &g
	}
	return s
}
