package pages

import "time"

// QuoteContext selects the tone of the daily quote.
type QuoteContext string

const (
	Morning QuoteContext = "morning"
	Evening QuoteContext = "evening"
)

// ContextFor returns Morning before noon and Evening otherwise.
func ContextFor(t time.Time) QuoteContext {
	if t.Hour() < 12 {
		return Morning
	}
	return Evening
}

type Quote struct {
	Text   string `json:"quote"`
	Author string `json:"author"`
}

// FallbackQuote is shown when the quote source fails.
var FallbackQuote = Quote{
	Text:   "Discipline is doing what needs to be done, even if you don't want to do it.",
	Author: "Anonymous",
}

// QuoteSource supplies the motivational quote for the Home page.
type QuoteSource interface {
	Quote(ctx QuoteContext, day time.Time) (Quote, error)
}

var builtinQuotes = map[QuoteContext][]Quote{
	Morning: {
		{Text: "The secret of getting ahead is getting started.", Author: "Mark Twain"},
		{Text: "Take care of your body. It's the only place you have to live.", Author: "Jim Rohn"},
		{Text: "Early to bed and early to rise makes a man healthy, wealthy, and wise.", Author: "Benjamin Franklin"},
		{Text: "Well begun is half done.", Author: "Aristotle"},
	},
	Evening: {
		{Text: "Rest when you're weary. Refresh and renew yourself.", Author: "Ralph Marston"},
		{Text: "We are what we repeatedly do. Excellence, then, is not an act, but a habit.", Author: "Will Durant"},
		{Text: "Sleep is the golden chain that ties health and our bodies together.", Author: "Thomas Dekker"},
		FallbackQuote,
	},
}

// BuiltinQuotes rotates through a fixed list, one quote per calendar day.
type BuiltinQuotes struct{}

func (BuiltinQuotes) Quote(ctx QuoteContext, day time.Time) (Quote, error) {
	list := builtinQuotes[ctx]
	if len(list) == 0 {
		return FallbackQuote, nil
	}
	return list[day.YearDay()%len(list)], nil
}
