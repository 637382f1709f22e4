package projections

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Insight and recommendation keys. The English text doubles as the key.
const (
	msgLowAverage        = "Low overall attendance - below 70%%"
	msgLowAverageRec     = "Consider changing the training time or talking to the parents"
	msgHighCancellation  = "High cancellation rate - more than 20%%"
	msgHighCancelRec     = "Review why trainings were cancelled and consider alternative dates"
	msgLowPerformers     = "%d members attend less than 60%%"
	msgLowPerformersRec  = "Contact the parents of members with low attendance"
	msgHighPerformers    = "%d members attend more than 90%%"
	msgHighPerformersRec = "Recognize members with excellent attendance"
	msgImproving         = "Attendance has been improving recently"
	msgDeclining         = "Attendance has been declining recently"
	msgDecliningRec      = "Find out what is causing the drop in attendance"
)

// SupportedLanguages lists the languages insights can be rendered in. The first is the fallback.
var SupportedLanguages = []language.Tag{language.English, language.Czech}

var (
	insightCatalog = newInsightCatalog()
	langMatcher    = language.NewMatcher(SupportedLanguages)
)

func newInsightCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	cs := map[string]string{
		msgLowAverage:        "Nízká celková docházka - méně než 70%%",
		msgLowAverageRec:     "Zvažte změnu času tréninků nebo komunikaci s rodiči",
		msgHighCancellation:  "Vysoká míra zrušení tréninků - více než 20%%",
		msgHighCancelRec:     "Analyzujte důvody zrušení a zvažte alternativní termíny",
		msgLowPerformers:     "%d členů má docházku pod 60%%",
		msgLowPerformersRec:  "Kontaktujte rodiče členů s nízkou docházkou",
		msgHighPerformers:    "%d členů má docházku nad 90%%",
		msgHighPerformersRec: "Oceňte členy s vynikající docházkou",
		msgImproving:         "Docházka se v poslední době zlepšuje",
		msgDeclining:         "Docházka se v poslední době zhoršuje",
		msgDecliningRec:      "Identifikujte příčiny poklesu docházky",
	}
	for key, text := range cs {
		_ = b.SetString(language.English, key, key)
		_ = b.SetString(language.Czech, key, text)
	}
	return b
}

// NewPrinter returns a printer for the best match of the given language preferences,
// e.g. a query parameter followed by an Accept-Language header.
func NewPrinter(prefs ...string) *message.Printer {
	tag, _ := language.MatchStrings(langMatcher, prefs...)
	return message.NewPrinter(tag, message.Catalog(insightCatalog))
}
