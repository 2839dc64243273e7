package router

import (
	"time"

	tg "cafebot/core/telegram"
	"cafebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Dialogue is the minimal interface the text route needs from the
// conversation engine adapter.
type Dialogue interface {
	HandleText(c tele.Context) error
}

// TextRoutes builds the handler for plain text updates. Every text
// message goes through the dialogue engine; the engine itself decides
// between menu selection, an in-progress conversation step, and the
// unknown-input fallback.
func TextRoutes(dialogue Dialogue) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if dialogue == nil {
			logHandlerSummary(c, "dialogue", start, nil)
			return nil
		}
		return handleWithSummary(c, "dialogue", start, func() error {
			return dialogue.HandleText(c)
		})
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}
