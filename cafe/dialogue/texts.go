package dialogue

import (
	"fmt"
	"time"
)

const (
	textFallback       = "👋 Выберите из меню ☕"
	textOrderCancelled = "❌ Заказ отменён"
	textBookCancelled  = "❌ Бронь отменена"
	textQuantityHint   = "❌ Выберите: **1**, **2**, **3+** или **❌ Отмена**"
	textConfirmHint    = "Выберите **✅ Подтвердить** или **❌ Отмена**"
	textBookWhenPrompt = "🗓 На какую дату и время бронируем?\nНапример: `05.09 19:30`"
	textBookWhenHint   = "❌ Не смог разобрать дату. Формат: `05.09 19:30` или `2026-09-05 19:30`"
	textBookWhenPast   = "❌ Эта дата уже прошла. Укажите дату в будущем."
	textReceiptFailed  = "🎉 Заказ принят! Не удалось отправить чек, но мы уже готовим ☕"
	textStorageTrouble = "⚠️ Что-то пошло не так, попробуйте ещё раз"
)

func textGreeting(cafeName string) string {
	return fmt.Sprintf(
		"👋 Добро пожаловать в **%s** ☕\n\nВыберите позицию из меню или забронируйте столик.",
		cafeName,
	)
}

func textHelp(cafeName, phone string, open, close int) string {
	return fmt.Sprintf(
		"☕ **%s**\n\n"+
			"🕒 Часы работы: %02d:00–%02d:00\n"+
			"📞 %s\n\n"+
			"Чтобы сделать заказ: выберите позицию в меню, укажите количество порций и подтвердите.\n"+
			"Столик можно забронировать кнопкой «%s».",
		cafeName, open, close, phone, BtnBook,
	)
}

func textItemChosen(item string, price int) string {
	return fmt.Sprintf("**%s** — %d₽\n\nОтличный выбор 😊\n\n**Сколько порций?**", item, price)
}

func textOrderSummary(item string, qty, total int) string {
	return fmt.Sprintf(
		"**📋 Ваш заказ:**\n\n`%s` × **%d**\n**Итого:** `%d₽`\n\n**Подтвердить?**",
		item, qty, total,
	)
}

func textBookPartyPrompt(when time.Time) string {
	return fmt.Sprintf("🗓 %s\n\n**На сколько человек?**", when.Format("02.01.2006 15:04"))
}

func textBookPartyHint(maxParty int) string {
	return fmt.Sprintf("❌ Укажите число гостей от 1 до %d или **❌ Отмена**", maxParty)
}

func textBookingDone(when time.Time, party int) string {
	return fmt.Sprintf(
		"✅ **Столик забронирован!**\n\n🗓 %s\n👥 %d чел.\n\nЖдём вас ☕",
		when.Format("02.01.2006 15:04"), party,
	)
}
