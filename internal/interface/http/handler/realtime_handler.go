package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/identity"
	"github.com/ignatzorin/designer-studio/internal/interface/http/dto"
	"github.com/ignatzorin/designer-studio/internal/interface/http/response"
	"github.com/ignatzorin/designer-studio/internal/logger"
	"github.com/ignatzorin/designer-studio/internal/metrics"
	"github.com/ignatzorin/designer-studio/internal/realtime"
	"github.com/ignatzorin/designer-studio/internal/usecase/comment"
	"github.com/ignatzorin/designer-studio/internal/usecase/order"
	"github.com/ignatzorin/designer-studio/internal/ws"
)

// Каналы WebSocket, один на экран Mini App.
const (
	ChannelOrders   = "orders"
	ChannelOrder    = "order"
	ChannelComments = "comments"
)

// Типы кадров.
const (
	FrameSnapshot     = "snapshot"
	FrameOrderInsert  = "order_inserted"
	FrameOrderUpdate  = "order_updated"
	FrameOrderDetails = "order"
	FrameComment      = "comment"
)

type RealtimeHandler struct {
	broker        *realtime.Broker
	tokens        *identity.TokenManager
	getOrderUC    *order.GetOrderUseCase
	listOrdersUC  *order.ListOrdersUseCase
	watchOrdersUC *order.WatchOrdersUseCase
	listComments  *comment.ListCommentsUseCase
	watchComments *comment.WatchCommentsUseCase
	upgrader      websocket.Upgrader
}

func NewRealtimeHandler(
	broker *realtime.Broker,
	tokens *identity.TokenManager,
	getOrderUC *order.GetOrderUseCase,
	listOrdersUC *order.ListOrdersUseCase,
	listComments *comment.ListCommentsUseCase,
	watchComments *comment.WatchCommentsUseCase,
	allowedOrigins []string,
) *RealtimeHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &RealtimeHandler{
		broker:        broker,
		tokens:        tokens,
		getOrderUC:    getOrderUC,
		listOrdersUC:  listOrdersUC,
		watchOrdersUC: order.NewWatchOrdersUseCase(getOrderUC),
		listComments:  listComments,
		watchComments: watchComments,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// Handle godoc
// @Summary Подписка на изменения
// @Description WebSocket. channel=orders: список заказов; order и comments требуют order_id. Кадры {"type","data"}
// @Tags realtime
// @Param token query string true "access_token из /auth/sync-user"
// @Param channel query string true "orders | order | comments"
// @Param order_id query string false "ID заказа"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /ws [get]
func (h *RealtimeHandler) Handle(c *gin.Context) {
	profileID, err := h.tokens.ParseAccess(c.Query("token"))
	if err != nil || profileID == uuid.Nil {
		response.Unauthorized(c, "невалидный access токен")
		return
	}

	channel := c.Query("channel")
	var orderID uuid.UUID
	switch channel {
	case ChannelOrders:
	case ChannelOrder, ChannelComments:
		orderID, err = uuid.Parse(c.Query("order_id"))
		if err != nil {
			response.BadRequest(c, "некорректный order_id")
			return
		}
		if _, err := h.getOrderUC.Owned(c.Request.Context(), profileID, orderID); err != nil {
			response.Error(c, err)
			return
		}
	default:
		response.BadRequest(c, "channel должен быть orders, order или comments")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту
		return
	}

	log := logger.Component("ws").WithFields(logrus.Fields{
		"profile_id": profileID,
		"channel":    channel,
	})

	client := ws.NewClient(conn)
	err = client.Run(c.Request.Context(), func(ctx context.Context) error {
		switch channel {
		case ChannelOrders:
			return h.serveOrders(ctx, client, profileID)
		case ChannelOrder:
			return h.serveOrder(ctx, client, profileID, orderID)
		default:
			return h.serveComments(ctx, client, profileID, orderID)
		}
	})
	if err != nil {
		log.WithError(err).Debug("подписка завершена")
	}
}

// subscribe подписки открываются до снимка, чтобы не потерять изменения между ними.
func (h *RealtimeHandler) subscribe(topic realtime.Topic) *realtime.Subscription {
	metrics.RealtimeSubscriptions.Inc()
	return h.broker.Subscribe(topic)
}

func (h *RealtimeHandler) release(sub *realtime.Subscription) {
	sub.Close()
	metrics.RealtimeSubscriptions.Dec()
}

func (h *RealtimeHandler) serveOrders(ctx context.Context, client *ws.Client, profileID uuid.UUID) error {
	sub := h.subscribe(realtime.Topic{Table: realtime.TableOrders, Column: "client_id", Value: profileID.String()})
	defer h.release(sub)

	orders, err := h.listOrdersUC.Execute(ctx, profileID)
	if err != nil {
		return err
	}
	if err := client.Send(ctx, FrameSnapshot, dto.ToOrderResponses(orders)); err != nil {
		return err
	}

	return h.watchOrdersUC.Orders(ctx, profileID, sub.C(), func(op realtime.Op, o *entity.Order) error {
		frame := FrameOrderUpdate
		if op == realtime.OpInsert {
			frame = FrameOrderInsert
		}
		return client.Send(ctx, frame, dto.ToOrderResponse(o))
	})
}

func (h *RealtimeHandler) serveOrder(ctx context.Context, client *ws.Client, profileID, orderID uuid.UUID) error {
	orderSub := h.subscribe(realtime.Topic{Table: realtime.TableOrders, Column: "id", Value: orderID.String()})
	defer h.release(orderSub)
	stageSub := h.subscribe(realtime.Topic{Table: realtime.TableOrderStages, Column: "order_id", Value: orderID.String()})
	defer h.release(stageSub)

	details, err := h.getOrderUC.Execute(ctx, profileID, orderID)
	if err != nil {
		return err
	}
	if err := client.Send(ctx, FrameSnapshot, dto.ToOrderDetailsResponse(details)); err != nil {
		return err
	}

	return h.watchOrdersUC.Order(ctx, profileID, orderID, orderSub.C(), stageSub.C(), func(d *order.Details) error {
		return client.Send(ctx, FrameOrderDetails, dto.ToOrderDetailsResponse(d))
	})
}

func (h *RealtimeHandler) serveComments(ctx context.Context, client *ws.Client, profileID, orderID uuid.UUID) error {
	sub := h.subscribe(realtime.Topic{Table: realtime.TableOrderComments, Column: "order_id", Value: orderID.String()})
	defer h.release(sub)

	comments, err := h.listComments.Execute(ctx, profileID, orderID)
	if err != nil {
		return err
	}
	if err := client.Send(ctx, FrameSnapshot, dto.ToCommentResponses(comments, profileID)); err != nil {
		return err
	}

	thread := entity.NewCommentThread(comments)
	return h.watchComments.Execute(ctx, orderID, thread, sub.C(), func(cm *entity.OrderComment) error {
		return client.Send(ctx, FrameComment, dto.ToCommentResponse(cm, profileID))
	})
}
