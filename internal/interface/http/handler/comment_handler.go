package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/designer-studio/internal/interface/http/dto"
	"github.com/ignatzorin/designer-studio/internal/interface/http/response"
	"github.com/ignatzorin/designer-studio/internal/usecase/comment"
)

type CommentHandler struct {
	listUC *comment.ListCommentsUseCase
	postUC *comment.PostCommentUseCase
	noteUC *comment.PostInternalNoteUseCase
}

func NewCommentHandler(listUC *comment.ListCommentsUseCase, postUC *comment.PostCommentUseCase, noteUC *comment.PostInternalNoteUseCase) *CommentHandler {
	return &CommentHandler{listUC: listUC, postUC: postUC, noteUC: noteUC}
}

// ListComments godoc
// @Summary Комментарии заказа
// @Description Без внутренних заметок, по возрастанию времени
// @Tags comments
// @Produce json
// @Security TelegramInitData
// @Param id path string true "ID заказа"
// @Success 200 {object} response.Response{data=[]dto.CommentResponse}
// @Failure 404 {object} response.Response
// @Router /orders/{id}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	client, ok := currentProfile(c)
	if !ok {
		return
	}
	orderID, ok := uuidParam(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	comments, err := h.listUC.Execute(c.Request.Context(), client.ID, orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToCommentResponses(comments, client.ID))
}

// PostComment godoc
// @Summary Написать комментарий
// @Description При оптимистичном режиме ответ содержит готовый комментарий
// @Tags comments
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param id path string true "ID заказа"
// @Param input body dto.CreateCommentRequest true "Текст"
// @Success 201 {object} response.Response{data=dto.PostCommentResponse}
// @Failure 400 {object} response.Response
// @Router /orders/{id}/comments [post]
func (h *CommentHandler) PostComment(c *gin.Context) {
	client, ok := currentProfile(c)
	if !ok {
		return
	}
	orderID, ok := uuidParam(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	result, err := h.postUC.Execute(c.Request.Context(), comment.PostCommentInput{
		Author:        client,
		OrderID:       orderID,
		Content:       req.Content,
		AttachmentURL: req.AttachmentURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.PostCommentResponse{ID: result.ID}
	if result.Comment != nil {
		full := dto.ToCommentResponse(result.Comment, client.ID)
		resp.Comment = &full
	}
	response.Created(c, resp)
}

// PostInternalNote godoc
// @Summary Внутренняя заметка
// @Description Заметка оператора, клиенту не показывается
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminToken
// @Param id path string true "ID заказа"
// @Param input body dto.InternalNoteRequest true "Заметка"
// @Success 201 {object} response.Response{data=dto.CommentResponse}
// @Router /admin/orders/{id}/comments [post]
func (h *CommentHandler) PostInternalNote(c *gin.Context) {
	orderID, ok := uuidParam(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	var req dto.InternalNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "author_id обязателен")
		return
	}
	authorID, err := uuid.Parse(req.AuthorID)
	if err != nil {
		response.BadRequest(c, "некорректный author_id")
		return
	}

	note, err := h.noteUC.Execute(c.Request.Context(), orderID, authorID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToCommentResponse(note, authorID))
}
