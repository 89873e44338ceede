package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/designer-studio/internal/interface/http/dto"
	"github.com/ignatzorin/designer-studio/internal/interface/http/response"
	"github.com/ignatzorin/designer-studio/internal/usecase/portfolio"
)

type PortfolioHandler struct {
	listUC *portfolio.ListPortfolioUseCase
	getUC  *portfolio.GetPortfolioItemUseCase
}

func NewPortfolioHandler(listUC *portfolio.ListPortfolioUseCase, getUC *portfolio.GetPortfolioItemUseCase) *PortfolioHandler {
	return &PortfolioHandler{listUC: listUC, getUC: getUC}
}

// ListPortfolio godoc
// @Summary Портфолио
// @Tags portfolio
// @Produce json
// @Param category query string false "web_design | ui_ux | branding | motion | all"
// @Param q query string false "Поиск по названию, описанию и клиенту"
// @Success 200 {object} response.Response{data=[]dto.PortfolioItemResponse}
// @Failure 400 {object} response.Response
// @Router /portfolio [get]
func (h *PortfolioHandler) ListPortfolio(c *gin.Context) {
	items, err := h.listUC.Execute(c.Request.Context(), portfolio.ListPortfolioInput{
		Category: c.Query("category"),
		Search:   c.Query("q"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToPortfolioItemResponses(items))
}

// GetPortfolioItem godoc
// @Summary Кейс портфолио
// @Tags portfolio
// @Produce json
// @Param id path string true "ID кейса"
// @Success 200 {object} response.Response{data=dto.PortfolioItemResponse}
// @Failure 404 {object} response.Response
// @Router /portfolio/{id} [get]
func (h *PortfolioHandler) GetPortfolioItem(c *gin.Context) {
	id, ok := uuidParam(c, "id", "некорректный ID кейса")
	if !ok {
		return
	}

	item, err := h.getUC.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToPortfolioItemResponse(item))
}
