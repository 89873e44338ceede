package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/designer-studio/internal/infrastructure/telegram"
	"github.com/ignatzorin/designer-studio/internal/logger"
	"github.com/ignatzorin/designer-studio/internal/metrics"
)

// Outcome результат попытки уведомить администратора.
type Outcome string

const (
	OutcomeSent     Outcome = "sent"
	OutcomeDisabled Outcome = "disabled"
	OutcomeFailed   Outcome = "failed"
)

const (
	kindOrder   = "order"
	kindComment = "comment"
)

// Sender отправка сообщения в Telegram.
type Sender interface {
	SendMessage(ctx context.Context, msg telegram.Message) error
}

type OrderNotification struct {
	OrderID        string
	Title          string
	ClientName     string
	ClientUsername string
}

type CommentNotification struct {
	OrderID    string
	Comment    string
	ClientName string
}

// Dispatcher шлёт уведомления администратору. Ошибки доставки только логируются:
// заказ или комментарий к этому моменту уже сохранены.
type Dispatcher struct {
	sender     Sender
	chatID     string
	consoleURL string
	now        func() time.Time
	log        *logrus.Entry
}

// NewDispatcher без sender или chatID уведомления выключены.
func NewDispatcher(sender Sender, chatID, consoleURL string) *Dispatcher {
	return &Dispatcher{
		sender:     sender,
		chatID:     chatID,
		consoleURL: consoleURL,
		now:        time.Now,
		log:        logger.Component("notify"),
	}
}

func (d *Dispatcher) Enabled() bool {
	return d != nil && d.sender != nil && d.chatID != ""
}

func (d *Dispatcher) OrderCreated(ctx context.Context, n OrderNotification) Outcome {
	msg := telegram.Message{
		Text:        d.orderText(n),
		ReplyMarkup: d.orderButton(n.OrderID),
	}
	return d.dispatch(ctx, kindOrder, n.OrderID, msg)
}

func (d *Dispatcher) CommentPosted(ctx context.Context, n CommentNotification) Outcome {
	msg := telegram.Message{Text: commentText(n)}
	return d.dispatch(ctx, kindComment, n.OrderID, msg)
}

func (d *Dispatcher) dispatch(ctx context.Context, kind, orderID string, msg telegram.Message) Outcome {
	if !d.Enabled() {
		metrics.Notifications.WithLabelValues(kind, string(OutcomeDisabled)).Inc()
		return OutcomeDisabled
	}

	msg.ChatID = d.chatID
	msg.ParseMode = telegram.ParseModeMarkdown

	if err := d.sender.SendMessage(ctx, msg); err != nil {
		d.log.WithFields(logrus.Fields{
			"kind":     kind,
			"order_id": orderID,
		}).WithError(err).Error("не удалось отправить уведомление в Telegram")
		metrics.Notifications.WithLabelValues(kind, string(OutcomeFailed)).Inc()
		return OutcomeFailed
	}

	metrics.Notifications.WithLabelValues(kind, string(OutcomeSent)).Inc()
	return OutcomeSent
}

var moscow = time.FixedZone("MSK", 3*60*60)

func (d *Dispatcher) orderText(n OrderNotification) string {
	client := escapeMarkdown(n.ClientName)
	if n.ClientUsername != "" {
		client += " (@" + escapeMarkdown(strings.TrimPrefix(n.ClientUsername, "@")) + ")"
	}

	return fmt.Sprintf(
		"🎯 *Новый заказ!*\n\n"+
			"📝 *Проект:* %s\n"+
			"👤 *Клиент:* %s\n"+
			"🆔 *ID заказа:* %s\n"+
			"⏰ *Время:* %s\n\n"+
			"_Не забудь связаться с клиентом в течение 24 часов_",
		escapeMarkdown(n.Title),
		client,
		escapeMarkdown(n.OrderID),
		d.now().In(moscow).Format("02.01.2006, 15:04:05"),
	)
}

func (d *Dispatcher) orderButton(orderID string) *telegram.ReplyMarkup {
	if d.consoleURL == "" {
		return nil
	}
	sep := "?"
	if strings.Contains(d.consoleURL, "?") {
		sep = "&"
	}
	return &telegram.ReplyMarkup{InlineKeyboard: [][]telegram.InlineButton{{
		{Text: "📋 Открыть заказ в админке", URL: d.consoleURL + sep + "id=eq." + orderID},
	}}}
}

func commentText(n CommentNotification) string {
	return fmt.Sprintf(
		"💬 *Новый комментарий в заказе*\n\n"+
			"👤 *От:* %s\n"+
			"📝 *Сообщение:* %s\n"+
			"🆔 *ID заказа:* %s\n\n"+
			"_Ответьте клиенту в приложении_",
		escapeMarkdown(n.ClientName),
		escapeMarkdown(n.Comment),
		escapeMarkdown(n.OrderID),
	)
}

// escapeMarkdown экранирует служебные символы legacy Markdown Bot API.
var markdownEscaper = strings.NewReplacer(`_`, `\_`, `*`, `\*`, "`", "\\`", `[`, `\[`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
