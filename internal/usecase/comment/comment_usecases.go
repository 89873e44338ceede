package comment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/domain/repository"
	"github.com/ignatzorin/designer-studio/internal/goroutine"
	"github.com/ignatzorin/designer-studio/internal/logger"
	"github.com/ignatzorin/designer-studio/internal/pkg/apperror"
	"github.com/ignatzorin/designer-studio/internal/realtime"
	"github.com/ignatzorin/designer-studio/internal/usecase/notify"
)

const notifyTimeout = 15 * time.Second

// Notifier уведомление администратора о комментарии клиента.
type Notifier interface {
	CommentPosted(ctx context.Context, n notify.CommentNotification) notify.Outcome
}

// Runner запускает фоновую работу, не привязанную к отмене запроса.
type Runner func(ctx context.Context, fn func(context.Context))

func detachedRunner(ctx context.Context, fn func(context.Context)) {
	goroutine.Detached(ctx, notifyTimeout, fn)
}

// ownedOrder проверка, что заказ принадлежит профилю.
func ownedOrder(ctx context.Context, orders repository.OrderRepository, profileID, orderID uuid.UUID) (*entity.Order, error) {
	order, err := orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsOwnedBy(profileID) {
		return nil, apperror.ErrOrderNotFound
	}
	return order, nil
}

type ListCommentsUseCase struct {
	orders   repository.OrderRepository
	comments repository.CommentRepository
}

func NewListCommentsUseCase(orders repository.OrderRepository, comments repository.CommentRepository) *ListCommentsUseCase {
	return &ListCommentsUseCase{orders: orders, comments: comments}
}

// Execute лента заказа для клиента: без внутренних заметок, по возрастанию времени.
func (uc *ListCommentsUseCase) Execute(ctx context.Context, profileID, orderID uuid.UUID) ([]*entity.OrderComment, error) {
	if _, err := ownedOrder(ctx, uc.orders, profileID, orderID); err != nil {
		return nil, err
	}

	comments, err := uc.comments.ListPublic(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return entity.NewCommentThread(comments).Items(), nil
}

type PostCommentInput struct {
	Author        *entity.Profile
	OrderID       uuid.UUID
	Content       string
	AttachmentURL *string
}

// PostCommentResult при выключенном оптимистичном добавлении Comment пустой:
// отправитель увидит своё сообщение из подписки.
type PostCommentResult struct {
	ID      uuid.UUID
	Comment *entity.OrderComment
}

type PostCommentUseCase struct {
	orders     repository.OrderRepository
	comments   repository.CommentRepository
	notifier   Notifier
	optimistic bool
	run        Runner
}

func NewPostCommentUseCase(orders repository.OrderRepository, comments repository.CommentRepository, notifier Notifier, optimistic bool) *PostCommentUseCase {
	return &PostCommentUseCase{
		orders:     orders,
		comments:   comments,
		notifier:   notifier,
		optimistic: optimistic,
		run:        detachedRunner,
	}
}

// WithRunner заменяет способ запуска уведомления, в тестах синхронный.
func (uc *PostCommentUseCase) WithRunner(run Runner) *PostCommentUseCase {
	uc.run = run
	return uc
}

func (uc *PostCommentUseCase) Execute(ctx context.Context, in PostCommentInput) (*PostCommentResult, error) {
	if in.Author == nil {
		return nil, apperror.ErrUnauthorized
	}

	c, err := entity.NewComment(in.OrderID, in.Author.ID, in.Content, in.AttachmentURL, false)
	if err != nil {
		return nil, err
	}

	if _, err := ownedOrder(ctx, uc.orders, in.Author.ID, in.OrderID); err != nil {
		return nil, err
	}

	if err := uc.comments.Create(ctx, c); err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		n := notify.CommentNotification{
			OrderID:    in.OrderID.String(),
			Comment:    c.Content,
			ClientName: in.Author.DisplayName(),
		}
		uc.run(ctx, func(ctx context.Context) {
			uc.notifier.CommentPosted(ctx, n)
		})
	}

	result := &PostCommentResult{ID: c.ID}
	if uc.optimistic {
		c.Author = &entity.CommentAuthor{FirstName: in.Author.FirstName, Username: in.Author.Username}
		result.Comment = c
	}
	return result, nil
}

// PostInternalNoteUseCase заметка оператора, клиенту не показывается.
type PostInternalNoteUseCase struct {
	orders   repository.OrderRepository
	profiles repository.ProfileRepository
	comments repository.CommentRepository
}

func NewPostInternalNoteUseCase(orders repository.OrderRepository, profiles repository.ProfileRepository, comments repository.CommentRepository) *PostInternalNoteUseCase {
	return &PostInternalNoteUseCase{orders: orders, profiles: profiles, comments: comments}
}

func (uc *PostInternalNoteUseCase) Execute(ctx context.Context, orderID, authorID uuid.UUID, content string) (*entity.OrderComment, error) {
	c, err := entity.NewComment(orderID, authorID, content, nil, true)
	if err != nil {
		return nil, err
	}
	if _, err := uc.orders.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	if _, err := uc.profiles.FindByID(ctx, authorID); err != nil {
		return nil, err
	}
	if err := uc.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// WatchCommentsUseCase живая лента: на каждую вставку перечитывает
// комментарий с автором и добавляет его, если такого id ещё не было.
type WatchCommentsUseCase struct {
	comments repository.CommentRepository
}

func NewWatchCommentsUseCase(comments repository.CommentRepository) *WatchCommentsUseCase {
	return &WatchCommentsUseCase{comments: comments}
}

// Execute читает events до отмены ctx или закрытия канала. thread содержит
// уже показанные клиенту комментарии.
func (uc *WatchCommentsUseCase) Execute(ctx context.Context, orderID uuid.UUID, thread *entity.CommentThread, events <-chan realtime.Event, emit func(*entity.OrderComment) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Op != realtime.OpInsert {
				continue
			}
			id, err := uuid.Parse(ev.ID)
			if err != nil || thread.Contains(id) {
				continue
			}

			c, err := uc.comments.FindByID(ctx, id)
			if err != nil {
				logger.Log.WithFields(logrus.Fields{
					"order_id":   orderID,
					"comment_id": ev.ID,
				}).WithError(err).Warn("watch: не удалось загрузить комментарий")
				continue
			}
			if c.OrderID != orderID {
				continue
			}
			if !thread.Append(c) {
				continue
			}
			if err := emit(c); err != nil {
				return err
			}
		}
	}
}
