package app

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	"cafebot/cafe/dialogue"
	"cafebot/core/telegram/helpers"
)

// dialogueAdapter bridges telebot updates to the platform-free engine:
// it narrows the update to the engine's message shape and maps reply
// markup tags back to real keyboards.
type dialogueAdapter struct {
	engine *dialogue.Engine
	kb     *keyboards
}

func newDialogueAdapter(engine *dialogue.Engine, kb *keyboards) *dialogueAdapter {
	return &dialogueAdapter{engine: engine, kb: kb}
}

func messageFrom(c tele.Context) dialogue.Message {
	msg := dialogue.Message{Text: c.Text()}
	if sender := c.Sender(); sender != nil {
		msg.UserID = sender.ID
		msg.Username = sender.Username
		msg.DisplayName = strings.TrimSpace(sender.FirstName + " " + sender.LastName)
	}
	if chat := c.Chat(); chat != nil {
		msg.ChatID = chat.ID
	}
	return msg
}

// HandleText feeds one text update through the engine.
func (a *dialogueAdapter) HandleText(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	replies, err := a.engine.HandleText(ctx, messageFrom(c))
	if sendErr := a.deliver(c, replies); sendErr != nil && err == nil {
		err = sendErr
	}
	return err
}

// ConfirmCallback handles the inline ✅ button on the order summary.
func (a *dialogueAdapter) ConfirmCallback(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	a.detachInlineKeyboard(c)
	replies, err := a.engine.Confirm(ctx, messageFrom(c))
	if sendErr := a.deliver(c, replies); sendErr != nil && err == nil {
		err = sendErr
	}
	return err
}

// CancelCallback handles the inline ❌ button on the order summary.
func (a *dialogueAdapter) CancelCallback(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	a.detachInlineKeyboard(c)
	replies, err := a.engine.Cancel(ctx, messageFrom(c))
	if sendErr := a.deliver(c, replies); sendErr != nil && err == nil {
		err = sendErr
	}
	return err
}

// detachInlineKeyboard strips the buttons from the summary message so
// a decision cannot be pressed twice. Best effort.
func (a *dialogueAdapter) detachInlineKeyboard(c tele.Context) {
	_ = c.Edit(&tele.ReplyMarkup{})
}

func (a *dialogueAdapter) deliver(c tele.Context, replies []dialogue.Reply) error {
	for _, r := range replies {
		markup := a.kb.forMarkup(r.Markup)
		if err := helpers.SendMD(c, r.Text, markup); err != nil {
			return err
		}
	}
	return nil
}
