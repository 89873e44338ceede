package dto

// NotifyOrderRequest тело /api/telegram/notify.
type NotifyOrderRequest struct {
	OrderID        string `json:"order_id" binding:"required"`
	Title          string `json:"title" binding:"required"`
	ClientName     string `json:"client_name" binding:"required"`
	ClientUsername string `json:"client_username"`
}

// NotifyCommentRequest тело /api/telegram/comment.
type NotifyCommentRequest struct {
	OrderID    string `json:"order_id" binding:"required"`
	Comment    string `json:"comment" binding:"required"`
	ClientName string `json:"client_name" binding:"required"`
}

type MediaResponse struct {
	URL string `json:"url"`
}
