package envelope

import (
	"greeting-sender/internal/domain"
	"greeting-sender/internal/skill"
)

const (
	responseVersion      = "1.0"
	speechTypePlain      = "PlainText"
	cardTypeSimple       = "Simple"
	sendRequestDirective = "Connections.SendRequest"
)

// Response is the outgoing envelope.
type Response struct {
	Version           string                 `json:"version"`
	SessionAttributes *domain.SessionContext `json:"sessionAttributes,omitempty"`
	Response          ResponseBody           `json:"response"`
}

type ResponseBody struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	Card             *Card         `json:"card,omitempty"`
	Directives       []Directive   `json:"directives,omitempty"`
	ShouldEndSession *bool         `json:"shouldEndSession,omitempty"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

type Card struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Directive struct {
	Type    string           `json:"type"`
	Name    string           `json:"name"`
	Payload DirectivePayload `json:"payload"`
	Token   string           `json:"token"`
}

type DirectivePayload struct {
	InSkillProduct InSkillProduct `json:"InSkillProduct"`
	UpsellMessage  string         `json:"upsellMessage,omitempty"`
}

type InSkillProduct struct {
	ProductID string `json:"productId"`
}

// Render builds the response envelope for reply. session is echoed back as
// the session attributes unless the session is ending.
func Render(reply skill.Reply, session domain.SessionContext) Response {
	out := Response{Version: responseVersion}
	body := &out.Response

	if reply.Speech != "" {
		body.OutputSpeech = &OutputSpeech{Type: speechTypePlain, Text: reply.Speech}
	}
	if reply.Reprompt != "" {
		body.Reprompt = &Reprompt{OutputSpeech: OutputSpeech{Type: speechTypePlain, Text: reply.Reprompt}}
	}
	if reply.Card != nil {
		body.Card = &Card{Type: cardTypeSimple, Title: reply.Card.Title, Content: reply.Card.Content}
	}
	if d := reply.Directive; d != nil {
		body.Directives = []Directive{renderDirective(*d)}
	}

	if reply.EndSession {
		end := true
		body.ShouldEndSession = &end
	} else {
		sc := session
		out.SessionAttributes = &sc
	}
	return out
}

func renderDirective(d domain.Directive) Directive {
	return Directive{
		Type: sendRequestDirective,
		Name: string(d.Kind),
		Payload: DirectivePayload{
			InSkillProduct: InSkillProduct{ProductID: d.ProductID},
			UpsellMessage:  d.Message,
		},
		Token: d.CorrelationToken,
	}
}
