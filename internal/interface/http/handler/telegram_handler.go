package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/designer-studio/internal/interface/http/dto"
	"github.com/ignatzorin/designer-studio/internal/interface/http/response"
	"github.com/ignatzorin/designer-studio/internal/usecase/notify"
)

// AdminNotifier отправка уведомлений администратору.
type AdminNotifier interface {
	OrderCreated(ctx context.Context, n notify.OrderNotification) notify.Outcome
	CommentPosted(ctx context.Context, n notify.CommentNotification) notify.Outcome
}

// TelegramHandler ручная отправка уведомлений. Исход отправки на ответ не влияет.
type TelegramHandler struct {
	notifier AdminNotifier
}

func NewTelegramHandler(notifier AdminNotifier) *TelegramHandler {
	return &TelegramHandler{notifier: notifier}
}

// NotifyOrder godoc
// @Summary Уведомить о новом заказе
// @Tags telegram
// @Accept json
// @Produce json
// @Param input body dto.NotifyOrderRequest true "Заказ"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /telegram/notify [post]
func (h *TelegramHandler) NotifyOrder(c *gin.Context) {
	var req dto.NotifyOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "order_id, title и client_name обязательны")
		return
	}

	h.notifier.OrderCreated(c.Request.Context(), notify.OrderNotification{
		OrderID:        req.OrderID,
		Title:          req.Title,
		ClientName:     req.ClientName,
		ClientUsername: req.ClientUsername,
	})

	response.OK(c)
}

// NotifyComment godoc
// @Summary Уведомить о комментарии
// @Tags telegram
// @Accept json
// @Produce json
// @Param input body dto.NotifyCommentRequest true "Комментарий"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /telegram/comment [post]
func (h *TelegramHandler) NotifyComment(c *gin.Context) {
	var req dto.NotifyCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "order_id, comment и client_name обязательны")
		return
	}

	h.notifier.CommentPosted(c.Request.Context(), notify.CommentNotification{
		OrderID:    req.OrderID,
		Comment:    req.Comment,
		ClientName: req.ClientName,
	})

	response.OK(c)
}
