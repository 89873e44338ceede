package comment_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/domain/valueobject"
	"github.com/ignatzorin/designer-studio/internal/pkg/apperror"
	"github.com/ignatzorin/designer-studio/internal/realtime"
	"github.com/ignatzorin/designer-studio/internal/usecase/comment"
	"github.com/ignatzorin/designer-studio/internal/usecase/notify"
)

type mockOrderRepository struct {
	orders map[uuid.UUID]*entity.Order
}

func (m *mockOrderRepository) CreateWithStages(ctx context.Context, o *entity.Order, stages []entity.OrderStage) error {
	m.orders[o.ID] = o
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, apperror.ErrOrderNotFound
}

func (m *mockOrderRepository) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Order, error) {
	return nil, nil
}

func (m *mockOrderRepository) FindStages(ctx context.Context, orderID uuid.UUID) ([]entity.OrderStage, error) {
	return nil, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.OrderStatus) (*entity.Order, error) {
	return nil, nil
}

func (m *mockOrderRepository) UpdateStageStatus(ctx context.Context, stageID uuid.UUID, status valueobject.StageStatus) (*entity.OrderStage, error) {
	return nil, nil
}

type mockProfileRepository struct {
	profiles map[uuid.UUID]*entity.Profile
}

func (m *mockProfileRepository) Upsert(ctx context.Context, in entity.ProfileSync) (*entity.Profile, error) {
	return nil, nil
}

func (m *mockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return nil, apperror.ErrProfileNotFound
}

func (m *mockProfileRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*entity.Profile, error) {
	return nil, apperror.ErrProfileNotFound
}

// mockCommentRepository хранит комментарии в порядке вставки и
// проставляет created_at с шагом в секунду, как это сделала бы БД.
type mockCommentRepository struct {
	mu       sync.Mutex
	comments []*entity.OrderComment
	authors  map[uuid.UUID]*entity.Profile
	clock    time.Time
	lookups  int
}

func newMockCommentRepository(authors ...*entity.Profile) *mockCommentRepository {
	m := &mockCommentRepository{
		authors: make(map[uuid.UUID]*entity.Profile),
		clock:   time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, a := range authors {
		m.authors[a.ID] = a
	}
	return m
}

func (m *mockCommentRepository) Create(ctx context.Context, c *entity.OrderComment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Second)
	c.CreatedAt = m.clock
	stored := *c
	m.comments = append(m.comments, &stored)
	return nil
}

func (m *mockCommentRepository) withAuthor(c *entity.OrderComment) *entity.OrderComment {
	out := *c
	if a, ok := m.authors[c.AuthorID]; ok {
		out.Author = &entity.CommentAuthor{FirstName: a.FirstName, Username: a.Username}
	}
	return &out
}

func (m *mockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.OrderComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	for _, c := range m.comments {
		if c.ID == id {
			return m.withAuthor(c), nil
		}
	}
	return nil, apperror.ErrCommentNotFound
}

func (m *mockCommentRepository) ListPublic(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.OrderComment
	for _, c := range m.comments {
		if c.OrderID == orderID && !c.IsInternal {
			out = append(out, m.withAuthor(c))
		}
	}
	return out, nil
}

type recordingNotifier struct {
	calls []notify.CommentNotification
}

func (n *recordingNotifier) CommentPosted(ctx context.Context, in notify.CommentNotification) notify.Outcome {
	n.calls = append(n.calls, in)
	return notify.OutcomeDisabled
}

func syncRunner(ctx context.Context, fn func(context.Context)) { fn(ctx) }

type fixture struct {
	client   *entity.Profile
	operator *entity.Profile
	order    *entity.Order
	orders   *mockOrderRepository
	profiles *mockProfileRepository
	comments *mockCommentRepository
	notifier *recordingNotifier
}

func newFixture() *fixture {
	username := "anna"
	client := &entity.Profile{ID: uuid.New(), FirstName: "Anna", Username: &username}
	operator := &entity.Profile{ID: uuid.New(), FirstName: "Studio"}
	o := &entity.Order{ID: uuid.New(), ClientID: client.ID, Title: "Logo"}

	return &fixture{
		client:   client,
		operator: operator,
		order:    o,
		orders:   &mockOrderRepository{orders: map[uuid.UUID]*entity.Order{o.ID: o}},
		profiles: &mockProfileRepository{profiles: map[uuid.UUID]*entity.Profile{client.ID: client, operator.ID: operator}},
		comments: newMockCommentRepository(client, operator),
		notifier: &recordingNotifier{},
	}
}

func (f *fixture) post(optimistic bool) *comment.PostCommentUseCase {
	return comment.NewPostCommentUseCase(f.orders, f.comments, f.notifier, optimistic).WithRunner(syncRunner)
}

func contents(items []*entity.OrderComment) []string {
	out := make([]string, 0, len(items))
	for _, c := range items {
		out = append(out, c.Content)
	}
	return out
}

func TestPostAndList_OrderAndInternalFilter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	post := f.post(false)

	_, err := post.Execute(ctx, comment.PostCommentInput{Author: f.client, OrderID: f.order.ID, Content: "hello"})
	require.NoError(t, err)

	_, err = comment.NewPostInternalNoteUseCase(f.orders, f.profiles, f.comments).
		Execute(ctx, f.order.ID, f.operator.ID, "клиент капризный")
	require.NoError(t, err)

	_, err = post.Execute(ctx, comment.PostCommentInput{Author: f.client, OrderID: f.order.ID, Content: "  world  "})
	require.NoError(t, err)

	list, err := comment.NewListCommentsUseCase(f.orders, f.comments).Execute(ctx, f.client.ID, f.order.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"hello", "world"}, contents(list))
	for _, c := range list {
		assert.False(t, c.IsInternal)
		require.NotNil(t, c.Author)
		assert.Equal(t, "Anna", c.Author.FirstName)
	}

	require.Len(t, f.notifier.calls, 2)
	assert.Equal(t, "world", f.notifier.calls[1].Comment)
	assert.Equal(t, f.order.ID.String(), f.notifier.calls[0].OrderID)
}

func TestPostComment_RejectsBlankBeforeWriting(t *testing.T) {
	f := newFixture()

	_, err := f.post(false).Execute(context.Background(), comment.PostCommentInput{Author: f.client, OrderID: f.order.ID, Content: " \n\t"})
	assert.ErrorIs(t, err, apperror.ErrEmptyComment)
	assert.Empty(t, f.comments.comments)
	assert.Empty(t, f.notifier.calls)
}

func TestPostComment_ForeignOrder(t *testing.T) {
	f := newFixture()
	stranger := &entity.Profile{ID: uuid.New(), FirstName: "Eve"}

	_, err := f.post(false).Execute(context.Background(), comment.PostCommentInput{Author: stranger, OrderID: f.order.ID, Content: "hi"})
	assert.ErrorIs(t, err, apperror.ErrOrderNotFound)

	_, err = comment.NewListCommentsUseCase(f.orders, f.comments).Execute(context.Background(), stranger.ID, f.order.ID)
	assert.ErrorIs(t, err, apperror.ErrOrderNotFound)
}

func TestPostComment_EchoMode(t *testing.T) {
	f := newFixture()

	res, err := f.post(false).Execute(context.Background(), comment.PostCommentInput{Author: f.client, OrderID: f.order.ID, Content: "hello"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.ID)
	assert.Nil(t, res.Comment, "без оптимистичного режима комментарий приходит только из подписки")

	thread := entity.NewCommentThread(nil)
	events := make(chan realtime.Event, 2)
	events <- realtime.Event{Table: realtime.TableOrderComments, Op: realtime.OpInsert, ID: res.ID.String(), OrderID: f.order.ID.String()}
	events <- realtime.Event{Table: realtime.TableOrderComments, Op: realtime.OpInsert, ID: res.ID.String(), OrderID: f.order.ID.String()}
	close(events)

	var emitted []string
	err = comment.NewWatchCommentsUseCase(f.comments).Execute(context.Background(), f.order.ID, thread, events, func(c *entity.OrderComment) error {
		emitted = append(emitted, c.Content)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, emitted)
	assert.Equal(t, 1, thread.Len())
}

func TestPostComment_OptimisticMode(t *testing.T) {
	f := newFixture()

	res, err := f.post(true).Execute(context.Background(), comment.PostCommentInput{Author: f.client, OrderID: f.order.ID, Content: "hello"})
	require.NoError(t, err)
	require.NotNil(t, res.Comment)
	assert.Equal(t, res.ID, res.Comment.ID)
	require.NotNil(t, res.Comment.Author)
	assert.Equal(t, "Anna", res.Comment.Author.FirstName)

	// клиент добавил комментарий сразу, эхо подписки отбрасывается
	thread := entity.NewCommentThread(nil)
	require.True(t, thread.Append(res.Comment))

	events := make(chan realtime.Event, 1)
	events <- realtime.Event{Table: realtime.TableOrderComments, Op: realtime.OpInsert, ID: res.ID.String(), OrderID: f.order.ID.String()}
	close(events)

	emitted := 0
	err = comment.NewWatchCommentsUseCase(f.comments).Execute(context.Background(), f.order.ID, thread, events, func(c *entity.OrderComment) error {
		emitted++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, emitted)
	assert.Equal(t, 1, thread.Len())
	assert.Zero(t, f.comments.lookups, "известный id не перечитывается")
}

func TestWatchComments_SkipsInternalAndOtherOrders(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	note, err := comment.NewPostInternalNoteUseCase(f.orders, f.profiles, f.comments).Execute(ctx, f.order.ID, f.operator.ID, "заметка")
	require.NoError(t, err)

	otherOrder := &entity.Order{ID: uuid.New(), ClientID: f.client.ID}
	f.orders.orders[otherOrder.ID] = otherOrder
	other, err := f.post(false).Execute(ctx, comment.PostCommentInput{Author: f.client, OrderID: otherOrder.ID, Content: "другой заказ"})
	require.NoError(t, err)

	events := make(chan realtime.Event, 3)
	events <- realtime.Event{Table: realtime.TableOrderComments, Op: realtime.OpInsert, ID: note.ID.String()}
	events <- realtime.Event{Table: realtime.TableOrderComments, Op: realtime.OpInsert, ID: other.ID.String()}
	events <- realtime.Event{Table: realtime.TableOrderComments, Op: realtime.OpUpdate, ID: uuid.NewString()}
	close(events)

	emitted := 0
	err = comment.NewWatchCommentsUseCase(f.comments).Execute(ctx, f.order.ID, entity.NewCommentThread(nil), events, func(c *entity.OrderComment) error {
		emitted++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, emitted)
}

func TestPostInternalNote_Validation(t *testing.T) {
	f := newFixture()
	uc := comment.NewPostInternalNoteUseCase(f.orders, f.profiles, f.comments)

	_, err := uc.Execute(context.Background(), f.order.ID, f.operator.ID, "  ")
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Execute(context.Background(), f.order.ID, uuid.New(), "note")
	assert.True(t, apperror.IsNotFound(err))

	_, err = uc.Execute(context.Background(), uuid.New(), f.operator.ID, "note")
	assert.True(t, apperror.IsNotFound(err))
}
