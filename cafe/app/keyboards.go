package app

import (
	tele "gopkg.in/telebot.v4"

	"cafebot/cafe/catalog"
	"cafebot/cafe/dialogue"
	"cafebot/core/telegram/keyboard"
)

// Callback keys for the inline confirmation buttons.
const (
	cbOrderConfirm = "order_confirm"
	cbOrderCancel  = "order_cancel"
)

// keyboards maps the engine's abstract markup tags to Telegram
// keyboards, built once from the catalog at startup.
type keyboards struct {
	mainMenu   *tele.ReplyMarkup
	quantity   *tele.ReplyMarkup
	confirm    *tele.ReplyMarkup
	cancelOnly *tele.ReplyMarkup
}

func buildKeyboards(cat *catalog.Catalog) *keyboards {
	menuRows := keyboard.ChunkLabels(cat.Labels(), 1)
	menuRows = append(menuRows,
		[]string{dialogue.BtnBook},
		[]string{dialogue.BtnHelp},
	)

	return &keyboards{
		mainMenu: keyboard.ReplyButtons(menuRows...),
		quantity: keyboard.OneTimeReplyButtons(
			[]string{"1", "2", "3+"},
			[]string{dialogue.BtnCancel},
		),
		// Confirmation is inline so the decision stays attached to the
		// summary message and routes through the callback registry.
		confirm: keyboard.InlineButtonsRows([]keyboard.InlineBtn{
			{Text: dialogue.BtnConfirm, Unique: cbOrderConfirm},
			{Text: dialogue.BtnCancel, Unique: cbOrderCancel},
		}),
		cancelOnly: keyboard.ReplyButtons([]string{dialogue.BtnCancel}),
	}
}

// forMarkup resolves a reply's markup tag. MarkupNone returns nil,
// which keeps whatever keyboard the chat currently shows.
func (k *keyboards) forMarkup(m dialogue.Markup) *tele.ReplyMarkup {
	switch m {
	case dialogue.MarkupMainMenu:
		return k.mainMenu
	case dialogue.MarkupQuantity:
		return k.quantity
	case dialogue.MarkupConfirm:
		return k.confirm
	case dialogue.MarkupCancelOnly:
		return k.cancelOnly
	default:
		return nil
	}
}
