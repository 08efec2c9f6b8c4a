package skill

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"greeting-sender/internal/domain"
)

// SkillName is used in cards and the welcome prompt.
const SkillName = "Greeting Sender"

const (
	msgPurchaseError = "There was an error handling your purchase request. Please try again or contact us for help."
	msgNotUnderstood = "Sorry, I can't understand the command. Please say again."
	msgHelp          = "You can say hello to me! How can I help?"
	msgRepeat        = "I didn't catch that. What can I help you with?"
)

var (
	goodbyes = []string{
		"OK.  Goodbye!",
		"Have a great day!",
		"Come back again soon!",
	}
	yesNoQuestions = []string{
		"Would you like another greeting?",
		"Can I give you another greeting?",
		"Do you want to hear another greeting?",
	}
	learnMorePrompts = []string{
		"Want to learn more about it?",
		"Should I tell you more about it?",
		"Want to learn about it?",
		"Interested in learning more about it?",
	}
)

// Picker chooses an index in [0, n).
type Picker interface {
	Pick(n int) int
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(n int) int

func (f PickerFunc) Pick(n int) int { return f(n) }

type randomPicker struct{}

func (randomPicker) Pick(n int) int { return rand.IntN(n) }

func (r *Responder) choose(options []string) string {
	return options[r.pick.Pick(len(options))]
}

func (r *Responder) yesNo() string     { return r.choose(yesNoQuestions) }
func (r *Responder) goodbye() string   { return r.choose(goodbyes) }
func (r *Responder) learnMore() string { return r.choose(learnMorePrompts) }

func (r *Responder) greeting() domain.Greeting {
	return domain.Greetings[r.pick.Pick(len(domain.Greetings))]
}

func welcomeText() string {
	return fmt.Sprintf("Welcome to %s, you can say hello! How can I help?", SkillName)
}

func shareText(g domain.Greeting) string {
	return fmt.Sprintf("Alright. I have shared the greeting - %s, which is hello in %s with your favorite friend.", g.Text, g.Language)
}

func sharedRepromptText(g domain.Greeting) string {
	return fmt.Sprintf("I have shared the greeting - %s, which is hello in %s with your favorite friend.", g.Text, g.Language)
}

// speakableList renders names as "a, b and c".
func speakableList(products []domain.Product) string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		name := p.Name
		if name == "" {
			name = p.ReferenceName
		}
		names = append(names, name)
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}

func sentences(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
