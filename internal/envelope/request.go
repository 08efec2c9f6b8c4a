// Package envelope maps the platform's JSON request and response envelopes
// to domain events and skill replies.
package envelope

import (
	"encoding/json"

	"greeting-sender/internal/domain"
)

// Request types.
const (
	TypeLaunch           = "LaunchRequest"
	TypeIntent           = "IntentRequest"
	TypeSessionEnded     = "SessionEndedRequest"
	TypePurchaseResponse = "Connections.Response"
)

// Request is the incoming envelope.
type Request struct {
	Version string      `json:"version"`
	Session *Session    `json:"session,omitempty"`
	Context Context     `json:"context"`
	Request RequestBody `json:"request"`
}

type Session struct {
	SessionID  string          `json:"sessionId"`
	New        bool            `json:"new"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
	User       User            `json:"user"`
}

type User struct {
	UserID string `json:"userId"`
}

type Context struct {
	System System `json:"System"`
}

type System struct {
	APIEndpoint    string      `json:"apiEndpoint"`
	APIAccessToken string      `json:"apiAccessToken"`
	User           User        `json:"user"`
	Application    Application `json:"application"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type RequestBody struct {
	Type      string           `json:"type"`
	RequestID string           `json:"requestId"`
	Locale    string           `json:"locale"`
	Intent    *Intent          `json:"intent,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	Name      string           `json:"name,omitempty"`
	Status    *Status          `json:"status,omitempty"`
	Payload   *PurchasePayload `json:"payload,omitempty"`
	Token     string           `json:"token,omitempty"`
}

type Intent struct {
	Name string `json:"name"`
}

type Status struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PurchasePayload struct {
	PurchaseResult string `json:"purchaseResult"`
	ProductID      string `json:"productId"`
	Message        string `json:"message"`
}

// UserID prefers the system user, which is present on every request type.
func (r Request) UserID() string {
	if r.Context.System.User.UserID != "" {
		return r.Context.System.User.UserID
	}
	if r.Session != nil {
		return r.Session.User.UserID
	}
	return ""
}

// SessionContext decodes the session attributes. Malformed attributes are
// ignored: the durable store is authoritative.
func (r Request) SessionContext() domain.SessionContext {
	var sc domain.SessionContext
	if r.Session == nil || len(r.Session.Attributes) == 0 {
		return sc
	}
	_ = json.Unmarshal(r.Session.Attributes, &sc)
	return sc
}

// Event maps the request body to the event union.
func (r Request) Event() domain.Event {
	body := r.Request
	switch body.Type {
	case TypeLaunch:
		return domain.Launch{}
	case TypeSessionEnded:
		return domain.SessionEnded{Reason: body.Reason}
	case TypePurchaseResponse:
		return purchaseResponse(body)
	case TypeIntent:
		if body.Intent == nil {
			return domain.Unrecognized{RequestType: body.Type}
		}
		return intentEvent(body.Intent.Name)
	}
	return domain.Unrecognized{RequestType: body.Type}
}

func intentEvent(name string) domain.Event {
	switch name {
	case domain.IntentYes, domain.IntentSimpleHello:
		return domain.Hello{Intent: name}
	case domain.IntentNo:
		return domain.No{}
	case domain.IntentWhatCanIBuy:
		return domain.WhatCanIBuy{}
	case domain.IntentTellMeMore:
		return domain.TellMeMore{}
	case domain.IntentBuySharingPack:
		return domain.BuySharingPack{}
	case domain.IntentShareGreeting:
		return domain.ShareGreeting{}
	case domain.IntentPurchaseHistory:
		return domain.PurchaseHistory{}
	case domain.IntentRefund:
		return domain.Refund{}
	case domain.IntentCoinInventory:
		return domain.CoinInventory{}
	case domain.IntentHelp:
		return domain.Help{}
	case domain.IntentCancel, domain.IntentStop:
		return domain.Stop{Intent: name}
	}
	return domain.Unrecognized{RequestType: TypeIntent, Intent: name}
}

func purchaseResponse(body RequestBody) domain.PurchaseResponse {
	ev := domain.PurchaseResponse{
		Kind:  domain.TransactionKind(body.Name),
		Token: body.Token,
	}
	if body.Status != nil {
		ev.StatusCode = body.Status.Code
		ev.StatusMessage = body.Status.Message
	}
	if body.Payload != nil {
		ev.ProductID = body.Payload.ProductID
		ev.Outcome = domain.Outcome(body.Payload.PurchaseResult)
		ev.Message = body.Payload.Message
	}
	return ev
}
