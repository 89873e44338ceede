package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/designer-studio/internal/pkg/apperror"
	"github.com/ignatzorin/designer-studio/internal/validation"
)

// CommentAuthor данные автора из join с profiles.
type CommentAuthor struct {
	FirstName string
	Username  *string
}

type OrderComment struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	AuthorID      uuid.UUID
	Content       string
	AttachmentURL *string
	IsInternal    bool
	CreatedAt     time.Time

	Author *CommentAuthor
}

// NewComment обрезает пробелы и отклоняет пустой текст.
func NewComment(orderID, authorID uuid.UUID, content string, attachmentURL *string, internal bool) (*OrderComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ErrEmptyComment
	}
	if err := validation.ValidateCommentContent(content); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if attachmentURL != nil && strings.TrimSpace(*attachmentURL) == "" {
		attachmentURL = nil
	}
	if attachmentURL != nil {
		if err := validation.ValidateAttachmentURL(*attachmentURL); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}

	return &OrderComment{
		ID:            uuid.New(),
		OrderID:       orderID,
		AuthorID:      authorID,
		Content:       content,
		AttachmentURL: attachmentURL,
		IsInternal:    internal,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// IsOwnBy сообщает, что комментарий написан этим профилем.
func (c *OrderComment) IsOwnBy(profileID uuid.UUID) bool {
	return c.AuthorID == profileID
}

// CommentThread клиентская лента комментариев заказа:
// без внутренних заметок, по возрастанию created_at, без повторов id.
type CommentThread struct {
	items []*OrderComment
	seen  map[uuid.UUID]struct{}
}

func NewCommentThread(initial []*OrderComment) *CommentThread {
	t := &CommentThread{seen: make(map[uuid.UUID]struct{}, len(initial))}
	for _, c := range initial {
		t.Append(c)
	}
	return t
}

// Append добавляет комментарий и возвращает true, если он новый.
func (t *CommentThread) Append(c *OrderComment) bool {
	if c == nil || c.IsInternal {
		return false
	}
	if _, ok := t.seen[c.ID]; ok {
		return false
	}
	t.seen[c.ID] = struct{}{}

	// вставка после всех элементов с тем же или меньшим временем
	pos := sort.Search(len(t.items), func(i int) bool {
		return t.items[i].CreatedAt.After(c.CreatedAt)
	})
	t.items = append(t.items, nil)
	copy(t.items[pos+1:], t.items[pos:])
	t.items[pos] = c
	return true
}

func (t *CommentThread) Contains(id uuid.UUID) bool {
	_, ok := t.seen[id]
	return ok
}

func (t *CommentThread) Len() int {
	return len(t.items)
}

// Items копия ленты в порядке отображения.
func (t *CommentThread) Items() []*OrderComment {
	out := make([]*OrderComment, len(t.items))
	copy(out, t.items)
	return out
}
