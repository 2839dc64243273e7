package app

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"cafebot/cafe/dialogue"
	"cafebot/core/buildinfo"
	tg "cafebot/core/telegram"
	"cafebot/core/telegram/commands"
	"cafebot/core/telegram/helpers"
	"cafebot/core/telegram/sender"
)

// buildRegistry wires the command set and the inline confirmation
// callbacks.
func buildRegistry(cfg *Config, engine *dialogue.Engine, adapter *dialogueAdapter, dispatcher *sender.Dispatcher) *tg.Registry {
	reg := tg.NewRegistry()

	sendReply := func(c tele.Context, r dialogue.Reply) error {
		return helpers.SendMD(c, r.Text, adapter.kb.forMarkup(r.Markup))
	}

	reg.RegisterCommand("/start", commands.Command{
		Description: "Меню и приветствие",
		Handler: func(c tele.Context) error {
			return sendReply(c, engine.Greeting())
		},
	})

	reg.RegisterCommand("/help", commands.Command{
		Description: "Часы работы и как сделать заказ",
		Handler: func(c tele.Context) error {
			return sendReply(c, engine.Help())
		},
	})

	reg.RegisterCommand("/cancel", commands.Command{
		Description: "Отменить текущий заказ",
		Handler: func(c tele.Context) error {
			ctx := helpers.BuildContext(c)
			replies, err := engine.Cancel(ctx, messageFrom(c))
			if sendErr := adapter.deliver(c, replies); sendErr != nil && err == nil {
				err = sendErr
			}
			return err
		},
	})

	reg.RegisterCommand("/debug", commands.Command{
		Description: "Сессия и конфигурация",
		AdminOnly:   true,
		Hidden:      true,
		Handler: func(c tele.Context) error {
			ctx := helpers.BuildContext(c)
			msg := messageFrom(c)
			s, err := engine.Session(ctx, msg.UserID)
			if err != nil {
				return err
			}
			draft := "—"
			if s.Draft != nil {
				draft = fmt.Sprintf("%s × %d = %d₽", s.Draft.Item, s.Draft.Quantity, s.Draft.Total)
			}
			var sendErrors uint64
			if dispatcher != nil {
				sendErrors = dispatcher.ErrorCount()
			}
			text := fmt.Sprintf(
				"🔍 **DEBUG**\n\n"+
					"🆔 User: `%d`\n"+
					"💬 Chat: `%d`\n"+
					"📊 Step: `%s`\n"+
					"📦 Draft: %s\n"+
					"⚙️ Admin: `%d`\n"+
					"💾 Storage: `%s`\n"+
					"📮 Send errors: `%d`\n"+
					"📞 %s",
				msg.UserID, msg.ChatID, s.Step, draft,
				cfg.Telegram.AdminID, cfg.Storage.Driver, sendErrors, cfg.Cafe.Phone,
			)
			return helpers.SendMD(c, text)
		},
	})

	reg.RegisterCommand("/version", commands.Command{
		Description: "Версия сборки",
		AdminOnly:   true,
		Hidden:      true,
		Handler: func(c tele.Context) error {
			return helpers.SendText(c, fmt.Sprintf(
				"cafebot %s (%s, %s)",
				buildinfo.Version, buildinfo.Commit, buildinfo.Date,
			))
		},
	})

	_ = reg.RegisterCallback(cbOrderConfirm, adapter.ConfirmCallback)
	_ = reg.RegisterCallback(cbOrderCancel, adapter.CancelCallback)

	return reg
}
