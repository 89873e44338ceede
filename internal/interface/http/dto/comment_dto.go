package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
)

type CreateCommentRequest struct {
	Content       string  `json:"content"`
	AttachmentURL *string `json:"attachment_url"`
}

type InternalNoteRequest struct {
	AuthorID string `json:"author_id" binding:"required"`
	Content  string `json:"content"`
}

type CommentAuthorResponse struct {
	FirstName string  `json:"first_name"`
	Username  *string `json:"username"`
}

type CommentResponse struct {
	ID            uuid.UUID              `json:"id"`
	OrderID       uuid.UUID              `json:"order_id"`
	AuthorID      uuid.UUID              `json:"author_id"`
	Content       string                 `json:"content"`
	AttachmentURL *string                `json:"attachment_url"`
	IsInternal    bool                   `json:"is_internal"`
	IsOwn         bool                   `json:"is_own"`
	CreatedAt     time.Time              `json:"created_at"`
	Author        *CommentAuthorResponse `json:"author"`
}

// ToCommentResponse viewer нужен для признака "своё сообщение".
func ToCommentResponse(c *entity.OrderComment, viewer uuid.UUID) CommentResponse {
	resp := CommentResponse{
		ID:            c.ID,
		OrderID:       c.OrderID,
		AuthorID:      c.AuthorID,
		Content:       c.Content,
		AttachmentURL: c.AttachmentURL,
		IsInternal:    c.IsInternal,
		IsOwn:         c.IsOwnBy(viewer),
		CreatedAt:     c.CreatedAt,
	}
	if c.Author != nil {
		resp.Author = &CommentAuthorResponse{FirstName: c.Author.FirstName, Username: c.Author.Username}
	}
	return resp
}

func ToCommentResponses(comments []*entity.OrderComment, viewer uuid.UUID) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, ToCommentResponse(c, viewer))
	}
	return out
}

// PostCommentResponse Comment заполнен только при оптимистичном добавлении.
type PostCommentResponse struct {
	ID      uuid.UUID        `json:"id"`
	Comment *CommentResponse `json:"comment,omitempty"`
}
