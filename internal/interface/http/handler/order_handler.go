package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/designer-studio/internal/interface/http/dto"
	"github.com/ignatzorin/designer-studio/internal/interface/http/response"
	"github.com/ignatzorin/designer-studio/internal/usecase/order"
)

type OrderHandler struct {
	createOrderUC *order.CreateOrderUseCase
	getOrderUC    *order.GetOrderUseCase
	listOrdersUC  *order.ListOrdersUseCase
	updateOrderUC *order.UpdateOrderStatusUseCase
	updateStageUC *order.UpdateStageStatusUseCase
}

func NewOrderHandler(
	createOrderUC *order.CreateOrderUseCase,
	getOrderUC *order.GetOrderUseCase,
	listOrdersUC *order.ListOrdersUseCase,
	updateOrderUC *order.UpdateOrderStatusUseCase,
	updateStageUC *order.UpdateStageStatusUseCase,
) *OrderHandler {
	return &OrderHandler{
		createOrderUC: createOrderUC,
		getOrderUC:    getOrderUC,
		listOrdersUC:  listOrdersUC,
		updateOrderUC: updateOrderUC,
		updateStageUC: updateStageUC,
	}
}

// CreateOrder godoc
// @Summary Создать заказ
// @Description Создаёт заказ с шестью этапами и уведомляет администратора
// @Tags orders
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param input body dto.CreateOrderRequest true "Бриф"
// @Success 201 {object} response.Response{data=dto.OrderDetailsResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	client, ok := currentProfile(c)
	if !ok {
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	deadline, err := dto.ParseDeadline(req.Deadline)
	if err != nil {
		response.Error(c, err)
		return
	}

	details, err := h.createOrderUC.Execute(c.Request.Context(), order.CreateOrderInput{
		Client:      client,
		Title:       req.Title,
		Description: req.Description,
		ServiceType: req.ServiceType,
		Budget:      req.Budget.Value,
		Deadline:    deadline,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToOrderDetailsResponse(details))
}

// ListOrders godoc
// @Summary Мои заказы
// @Tags orders
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} response.Response{data=[]dto.OrderResponse}
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	client, ok := currentProfile(c)
	if !ok {
		return
	}

	orders, err := h.listOrdersUC.Execute(c.Request.Context(), client.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOrderResponses(orders))
}

// GetOrder godoc
// @Summary Заказ с этапами
// @Tags orders
// @Produce json
// @Security TelegramInitData
// @Param id path string true "ID заказа"
// @Success 200 {object} response.Response{data=dto.OrderDetailsResponse}
// @Failure 404 {object} response.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	client, ok := currentProfile(c)
	if !ok {
		return
	}
	orderID, ok := uuidParam(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	details, err := h.getOrderUC.Execute(c.Request.Context(), client.ID, orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOrderDetailsResponse(details))
}

// Stats godoc
// @Summary Сводка по заказам
// @Tags profile
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} response.Response{data=dto.StatsResponse}
// @Router /profile/stats [get]
func (h *OrderHandler) Stats(c *gin.Context) {
	client, ok := currentProfile(c)
	if !ok {
		return
	}

	stats, err := h.listOrdersUC.Stats(c.Request.Context(), client.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToStatsResponse(stats))
}

// UpdateOrderStatus godoc
// @Summary Сменить статус заказа
// @Description Операторский маршрут, переходы не проверяются
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminToken
// @Param id path string true "ID заказа"
// @Param input body dto.UpdateStatusRequest true "Новый статус"
// @Success 200 {object} response.Response{data=dto.OrderResponse}
// @Router /admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := uuidParam(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status обязателен")
		return
	}

	updated, err := h.updateOrderUC.Execute(c.Request.Context(), orderID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOrderResponse(updated))
}

// UpdateStageStatus godoc
// @Summary Сменить статус этапа
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminToken
// @Param id path string true "ID этапа"
// @Param input body dto.UpdateStatusRequest true "Новый статус"
// @Success 200 {object} response.Response{data=dto.StageResponse}
// @Router /admin/stages/{id}/status [patch]
func (h *OrderHandler) UpdateStageStatus(c *gin.Context) {
	stageID, ok := uuidParam(c, "id", "некорректный ID этапа")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status обязателен")
		return
	}

	stage, err := h.updateStageUC.Execute(c.Request.Context(), stageID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToStageResponse(*stage))
}
