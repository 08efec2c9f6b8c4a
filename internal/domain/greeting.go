package domain

// Greeting is a "hello" in some language.
type Greeting struct {
	Language string `json:"language"`
	Text     string `json:"greeting"`
}

// DefaultGreeting is shared when the user never asked for one.
var DefaultGreeting = Greeting{Language: "english", Text: "Good Morning"}

// Greetings is the fixed catalog greetings are drawn from.
var Greetings = []Greeting{
	{Language: "hindi", Text: "Namaste"},
	{Language: "french", Text: "Bonjour"},
	{Language: "spanish", Text: "Hola"},
	{Language: "japanese", Text: "Konichiwa"},
	{Language: "italian", Text: "Ciao"},
}
