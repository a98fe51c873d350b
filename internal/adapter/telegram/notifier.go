package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/apperror"
	"github.com/zahratun/orders-service/internal/port"
)

// Customer-facing status messages, in Uzbek.
// Клиентские сообщения о статусе, на узбекском языке.
var statusMessages = map[domain.OrderStatus]string{
	domain.StatusPreparing: "✅ Buyurtmangiz qabul qilindi va tayyorlanmoqda.",
	domain.StatusReady:     "🎉 Buyurtmangiz tayyor! Tez orada yetkazib beramiz.",
	domain.StatusDelivered: "🎊 Buyurtmangiz yetkazildi! Yana buyurtma berishingiz mumkin.",
	domain.StatusCancelled: "❌ Buyurtmangiz bekor qilindi. Qo'shimcha ma'lumot uchun biz bilan bog'laning.",
}

// Notifier sends order notifications through the Telegram Bot API.
// Notifier отправляет уведомления о заказах через Telegram Bot API.
//
// Delivery is best-effort: errors are returned so callers can log them,
// but the order flow never depends on Telegram availability.
// Доставка best-effort: ошибки возвращаются для логирования вызывающим,
// но поток заказов никогда не зависит от доступности Telegram.
type Notifier struct {
	bot         *tgbotapi.BotAPI // Bot API client / Клиент Bot API
	adminChatID int64            // Staff chat for new-order alerts / Чат персонала для новых заказов
}

// NewNotifier creates a new Notifier. A nil bot disables sending,
// which is useful in tests and local development without a token.
// NewNotifier создаёт новый Notifier. Нулевой bot отключает отправку,
// что полезно в тестах и локальной разработке без токена.
func NewNotifier(bot *tgbotapi.BotAPI, adminChatID int64) *Notifier {
	return &Notifier{
		bot:         bot,
		adminChatID: adminChatID,
	}
}

// NotifyAdminsNewOrder posts a new-order summary to the staff chat.
// NotifyAdminsNewOrder публикует сводку нового заказа в чат персонала.
func (n *Notifier) NotifyAdminsNewOrder(ctx context.Context, order *domain.Order) error {
	if n.bot == nil || n.adminChatID == 0 {
		return nil
	}

	msg := tgbotapi.NewMessage(n.adminChatID, formatNewOrder(order))
	if _, err := n.bot.Send(msg); err != nil {
		return apperror.Internal("failed to send admin notification", err)
	}
	return nil
}

// NotifyCustomerStatus tells the customer about an order status change.
// Statuses without a message (e.g. new) are skipped silently.
// NotifyCustomerStatus сообщает клиенту о смене статуса заказа.
// Статусы без сообщения (например, new) молча пропускаются.
func (n *Notifier) NotifyCustomerStatus(ctx context.Context, tgID int64, status domain.OrderStatus) error {
	if n.bot == nil {
		return nil
	}

	text, ok := statusMessages[status]
	if !ok {
		return nil
	}

	msg := tgbotapi.NewMessage(tgID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return apperror.Internal("failed to send customer notification", err)
	}
	return nil
}

// formatNewOrder renders the staff notification for a new order.
// formatNewOrder формирует уведомление персонала о новом заказе.
func formatNewOrder(order *domain.Order) string {
	var b strings.Builder

	mode := "Olib ketish"
	if order.DeliveryMode == domain.DeliveryModeDelivery {
		mode = "Yetkazish"
	}

	fmt.Fprintf(&b, "🆕 Yangi buyurtma!\n\n")
	fmt.Fprintf(&b, "ID: %d\n", order.ID)
	fmt.Fprintf(&b, "Foydalanuvchi: %d\n", order.TgID)
	fmt.Fprintf(&b, "Telefon: %s\n", order.Phone)
	fmt.Fprintf(&b, "Rejim: %s\n", mode)
	if order.Address != "" {
		fmt.Fprintf(&b, "Manzil: %s\n", order.Address)
	}
	if order.Comment != "" {
		fmt.Fprintf(&b, "Izoh: %s\n", order.Comment)
	}

	b.WriteString("\nMahsulotlar:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  • %s x%d - %d UZS\n", item.Title, item.Qty, item.Price*int64(item.Qty))
	}

	fmt.Fprintf(&b, "\nJami: %d UZS", order.Total)
	return b.String()
}

// Ensure interface compliance. / Проверка соответствия интерфейсу.
var _ port.Notifier = (*Notifier)(nil)
