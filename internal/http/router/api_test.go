package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/designer-studio/internal/config"
	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/domain/valueobject"
	"github.com/ignatzorin/designer-studio/internal/http/router"
	"github.com/ignatzorin/designer-studio/internal/identity"
	"github.com/ignatzorin/designer-studio/internal/infrastructure/telegram"
	"github.com/ignatzorin/designer-studio/internal/interface/http/handler"
	"github.com/ignatzorin/designer-studio/internal/realtime"
	"github.com/ignatzorin/designer-studio/internal/storage"
	"github.com/ignatzorin/designer-studio/internal/usecase/comment"
	"github.com/ignatzorin/designer-studio/internal/usecase/notify"
	"github.com/ignatzorin/designer-studio/internal/usecase/order"
	"github.com/ignatzorin/designer-studio/internal/usecase/portfolio"
	"github.com/ignatzorin/designer-studio/internal/usecase/profile"
)

const (
	testUserHeader = "X-Test-Telegram-ID"
	adminToken     = "admin-token"
)

// headerProvider пользователь Telegram из тестового заголовка.
type headerProvider struct{}

func (headerProvider) CurrentUser(r *http.Request) (identity.User, bool, error) {
	raw := r.Header.Get(testUserHeader)
	if raw == "" {
		return identity.User{}, false, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return identity.User{}, false, identity.ErrInvalidInitData
	}
	return identity.User{ID: id, FirstName: "Test"}, true, nil
}

type recordingSender struct {
	mu       sync.Mutex
	messages []telegram.Message
	err      error
}

func (s *recordingSender) SendMessage(ctx context.Context, msg telegram.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return s.err
}

func (s *recordingSender) sent() []telegram.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]telegram.Message(nil), s.messages...)
}

func syncRunner(ctx context.Context, fn func(context.Context)) { fn(ctx) }

type harness struct {
	t         *testing.T
	mediaRoot string
	store     *memStore
	broker    *realtime.Broker
	sender    *recordingSender
	engine    *gin.Engine
}

type options struct {
	adminToken string
	optimistic bool
	env        string
	provider   identity.Provider
}

func newHarness(t *testing.T, opts options) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newMemStore()
	profiles := memProfiles{store}
	orders := memOrders{store}
	comments := memComments{store}
	portfolioRepo := memPortfolio{store}

	sender := &recordingSender{}
	dispatcher := notify.NewDispatcher(sender, "-100", "https://admin.example.com/orders")
	tokens := identity.NewTokenManager("test-secret", time.Hour)
	broker := realtime.NewBroker()

	mediaRoot := t.TempDir()
	fs, err := storage.NewLocalStorage(mediaRoot, "/media", 1024*1024)
	require.NoError(t, err)

	env := opts.env
	if env == "" {
		env = "test"
	}
	cfg := &config.Config{
		Env:            env,
		AllowedOrigins: []string{"https://app.example.com"},
		AdminAPIToken:  opts.adminToken,
		RateLimit:      config.RateLimitConfig{Limit: 1000, Period: time.Minute},
		Media:          config.MediaConfig{PublicURL: "/media"},
	}

	getOrder := order.NewGetOrderUseCase(orders)
	listOrders := order.NewListOrdersUseCase(orders)
	listComments := comment.NewListCommentsUseCase(orders, comments)

	h := router.Handlers{
		Auth: handler.NewAuthHandler(profile.NewSyncProfileUseCase(profiles), tokens, cfg.RequireInitData()),
		Orders: handler.NewOrderHandler(
			order.NewCreateOrderUseCase(orders, dispatcher).WithRunner(syncRunner),
			getOrder,
			listOrders,
			order.NewUpdateOrderStatusUseCase(orders),
			order.NewUpdateStageStatusUseCase(orders),
		),
		Comments: handler.NewCommentHandler(
			listComments,
			comment.NewPostCommentUseCase(orders, comments, dispatcher, opts.optimistic).WithRunner(comment.Runner(syncRunner)),
			comment.NewPostInternalNoteUseCase(orders, profiles, comments),
		),
		Portfolio: handler.NewPortfolioHandler(
			portfolio.NewListPortfolioUseCase(portfolioRepo, nil, 0),
			portfolio.NewGetPortfolioItemUseCase(portfolioRepo),
		),
		Telegram: handler.NewTelegramHandler(dispatcher),
		Media:    handler.NewMediaHandler(fs, 1024*1024),
		Realtime: handler.NewRealtimeHandler(broker, tokens, getOrder, listOrders, listComments,
			comment.NewWatchCommentsUseCase(comments), cfg.AllowedOrigins),
	}

	var provider identity.Provider = headerProvider{}
	if opts.provider != nil {
		provider = opts.provider
	}
	engine := router.SetupRouter(cfg, h, provider, profile.NewResolveProfileUseCase(profiles), mediaRoot)

	return &harness{t: t, mediaRoot: mediaRoot, store: store, broker: broker, sender: sender, engine: engine}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (h *harness) do(method, path string, telegramID int64, body interface{}, headers ...string) (int, envelope) {
	h.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if telegramID != 0 {
		req.Header.Set(testUserHeader, strconv.FormatInt(telegramID, 10))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

type syncResult struct {
	ProfileID   uuid.UUID `json:"profile_id"`
	AccessToken string    `json:"access_token"`
}

func (h *harness) sync(telegramID int64, firstName string) syncResult {
	h.t.Helper()
	code, env := h.do("POST", "/api/auth/sync-user", telegramID, map[string]interface{}{
		"telegram_id": telegramID,
		"first_name":  firstName,
		"username":    "@" + strings.ToLower(firstName),
	})
	require.Equal(h.t, http.StatusOK, code)
	return decode[syncResult](h.t, env.Data)
}

type orderDetails struct {
	Order struct {
		ID          uuid.UUID `json:"id"`
		Title       string    `json:"title"`
		Status      string    `json:"status"`
		Budget      *float64  `json:"budget"`
		Deadline    *string   `json:"deadline"`
		StatusBadge struct {
			Label string `json:"label"`
			Color string `json:"color"`
		} `json:"status_badge"`
	} `json:"order"`
	Stages []struct {
		ID         uuid.UUID `json:"id"`
		Name       string    `json:"stage_name"`
		Status     string    `json:"status"`
		OrderIndex int       `json:"order_index"`
		IsNext     bool      `json:"is_next"`
	} `json:"stages"`
	Progress *int `json:"progress"`
}

func (h *harness) createOrder(telegramID int64, title string) orderDetails {
	h.t.Helper()
	code, env := h.do("POST", "/api/orders", telegramID, map[string]interface{}{
		"title":        title,
		"description":  "нужен лендинг",
		"service_type": "web_design",
		"budget":       "150 000",
		"deadline":     "2025-03-01",
	})
	require.Equal(h.t, http.StatusCreated, code)
	return decode[orderDetails](h.t, env.Data)
}

func TestSyncUser(t *testing.T) {
	h := newHarness(t, options{})

	first := h.sync(42, "Anna")
	assert.NotEqual(t, uuid.Nil, first.ProfileID)
	assert.NotEmpty(t, first.AccessToken)

	again := h.sync(42, "Anna")
	assert.Equal(t, first.ProfileID, again.ProfileID, "upsert по telegram_id")

	code, _ := h.do("POST", "/api/auth/sync-user", 7, map[string]interface{}{"telegram_id": 42, "first_name": "Anna"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env := h.do("POST", "/api/auth/sync-user", 0, map[string]interface{}{"telegram_id": 42})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)

	code, _ = h.do("POST", "/api/auth/sync-user", 0, map[string]interface{}{"telegram_id": 43, "first_name": "Bob"})
	assert.Equal(t, http.StatusOK, code, "без init data разрешено, если подпись не обязательна")
}

func TestSyncUser_ProductionWithoutBotToken(t *testing.T) {
	cfg := config.Config{Env: "production"}
	provider := identity.NewTelegramInitData(cfg.Telegram.BotToken, time.Hour, !cfg.RequireInitData())
	h := newHarness(t, options{env: "production", provider: provider})
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	victim := uuid.New()
	h.store.profiles[victim] = &entity.Profile{ID: victim, TelegramID: 42, FirstName: "Anna"}

	code, env := h.do("POST", "/api/auth/sync-user", 0, map[string]interface{}{"telegram_id": 42, "first_name": "Pwned"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)

	// неподписанные init data без токена бота не принимаются
	unsigned := "user=" + `%7B%22id%22%3A42%2C%22first_name%22%3A%22Pwned%22%7D` + "&auth_date=" + strconv.FormatInt(time.Now().Unix(), 10) + "&hash=00"
	code, _ = h.do("POST", "/api/auth/sync-user", 0, map[string]interface{}{"telegram_id": 42, "first_name": "Pwned"},
		identity.HeaderInitData, unsigned)
	assert.Equal(t, http.StatusUnauthorized, code)

	assert.Equal(t, "Anna", h.store.profiles[victim].FirstName)

	code, _ = h.do("GET", "/api/orders", 0, nil, identity.HeaderInitData, unsigned)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestOrders_RequireProfile(t *testing.T) {
	h := newHarness(t, options{})

	code, _ := h.do("GET", "/api/orders", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = h.do("GET", "/api/orders", 42, nil)
	assert.Equal(t, http.StatusNotFound, code)

	req := httptest.NewRequest("GET", "/api/orders", nil)
	req.Header.Set(testUserHeader, "not-a-number")
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrders_CreateAndRead(t *testing.T) {
	h := newHarness(t, options{})
	h.sync(42, "Anna")

	created := h.createOrder(42, "Лендинг для кофейни")
	assert.Equal(t, "brief_received", created.Order.Status)
	assert.Equal(t, "Бриф получен", created.Order.StatusBadge.Label)
	require.NotNil(t, created.Order.Budget)
	assert.Equal(t, 150000.0, *created.Order.Budget)
	require.NotNil(t, created.Order.Deadline)
	assert.Equal(t, "2025-03-01", *created.Order.Deadline)

	require.Len(t, created.Stages, 6)
	for i, s := range created.Stages {
		assert.Equal(t, entity.CanonicalStageNames[i], s.Name)
		assert.Equal(t, i, s.OrderIndex)
		assert.Equal(t, "pending", s.Status)
	}
	assert.True(t, created.Stages[0].IsNext)
	require.NotNil(t, created.Progress)
	assert.Equal(t, 0, *created.Progress)

	sent := h.sender.sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Text, "Лендинг для кофейни")
	assert.Contains(t, sent[0].Text, created.Order.ID.String())

	code, env := h.do("GET", "/api/orders", 42, nil)
	require.Equal(t, http.StatusOK, code)
	list := decode[[]map[string]interface{}](t, env.Data)
	assert.Len(t, list, 1)

	code, env = h.do("GET", "/api/orders/"+created.Order.ID.String(), 42, nil)
	require.Equal(t, http.StatusOK, code)
	got := decode[orderDetails](t, env.Data)
	assert.Equal(t, created.Order.ID, got.Order.ID)

	code, env = h.do("GET", "/api/profile/stats", 42, nil)
	require.Equal(t, http.StatusOK, code)
	stats := decode[map[string]interface{}](t, env.Data)
	assert.Equal(t, float64(1), stats["total"])
	assert.Equal(t, float64(1), stats["active"])
	assert.Equal(t, 150000.0, stats["total_budget"])
}

func TestOrders_Validation(t *testing.T) {
	h := newHarness(t, options{})
	h.sync(42, "Anna")

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"no title", map[string]interface{}{"description": "x"}},
		{"blank title", map[string]interface{}{"title": "   "}},
		{"bad budget", map[string]interface{}{"title": "A", "budget": "много"}},
		{"negative budget", map[string]interface{}{"title": "A", "budget": -1}},
		{"NaN budget", map[string]interface{}{"title": "A", "budget": "NaN"}},
		{"nan budget", map[string]interface{}{"title": "A", "budget": "nan"}},
		{"infinite budget", map[string]interface{}{"title": "A", "budget": "Inf"}},
		{"bad deadline", map[string]interface{}{"title": "A", "deadline": "завтра"}},
		{"bad service", map[string]interface{}{"title": "A", "service_type": "3d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := h.do("POST", "/api/orders", 42, tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, env.Success)
		})
	}
	assert.Empty(t, h.store.orders)
	assert.Empty(t, h.sender.sent())
}

func TestOrders_ForeignOrderIsNotFound(t *testing.T) {
	h := newHarness(t, options{})
	h.sync(42, "Anna")
	h.sync(43, "Bob")
	created := h.createOrder(42, "Logo")

	code, _ := h.do("GET", "/api/orders/"+created.Order.ID.String(), 43, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = h.do("GET", "/api/orders/"+created.Order.ID.String()+"/comments", 43, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = h.do("GET", "/api/orders/not-a-uuid", 42, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestOrders_NotificationFailureKeepsOrder(t *testing.T) {
	h := newHarness(t, options{})
	h.sender.err = errors.New("telegram down")
	h.sync(42, "Anna")

	created := h.createOrder(42, "Logo")
	assert.NotEqual(t, uuid.Nil, created.Order.ID)
	assert.Len(t, h.store.orders, 1)
}

type commentJSON struct {
	ID      uuid.UUID `json:"id"`
	Content string    `json:"content"`
	IsOwn   bool      `json:"is_own"`
	Author  *struct {
		FirstName string `json:"first_name"`
	} `json:"author"`
}

func TestComments_EchoMode(t *testing.T) {
	h := newHarness(t, options{})
	h.sync(42, "Anna")
	created := h.createOrder(42, "Logo")
	path := "/api/orders/" + created.Order.ID.String() + "/comments"

	code, _ := h.do("POST", path, 42, map[string]string{"content": "  \n "})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := h.do("POST", path, 42, map[string]string{"content": " первый "})
	require.Equal(t, http.StatusCreated, code)
	posted := decode[map[string]json.RawMessage](t, env.Data)
	assert.Contains(t, posted, "id")
	assert.NotContains(t, posted, "comment")

	h.do("POST", path, 42, map[string]string{"content": "второй"})

	code, env = h.do("GET", path, 42, nil)
	require.Equal(t, http.StatusOK, code)
	comments := decode[[]commentJSON](t, env.Data)
	require.Len(t, comments, 2)
	assert.Equal(t, "первый", comments[0].Content)
	assert.Equal(t, "второй", comments[1].Content)
	assert.True(t, comments[0].IsOwn)
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, "Anna", comments[0].Author.FirstName)

	// заказ + два комментария
	assert.Len(t, h.sender.sent(), 3)
}

func TestComments_OptimisticMode(t *testing.T) {
	h := newHarness(t, options{optimistic: true})
	h.sync(42, "Anna")
	created := h.createOrder(42, "Logo")

	code, env := h.do("POST", "/api/orders/"+created.Order.ID.String()+"/comments", 42, map[string]string{"content": "привет"})
	require.Equal(t, http.StatusCreated, code)

	posted := decode[struct {
		ID      uuid.UUID    `json:"id"`
		Comment *commentJSON `json:"comment"`
	}](t, env.Data)
	require.NotNil(t, posted.Comment)
	assert.Equal(t, posted.ID, posted.Comment.ID)
	assert.Equal(t, "привет", posted.Comment.Content)
	assert.True(t, posted.Comment.IsOwn)
}

func TestAdmin(t *testing.T) {
	h := newHarness(t, options{adminToken: adminToken})
	client := h.sync(42, "Anna")
	operator := h.sync(1, "Studio")
	created := h.createOrder(42, "Logo")
	orderPath := "/api/admin/orders/" + created.Order.ID.String()

	code, _ := h.do("PATCH", orderPath+"/status", 0, map[string]string{"status": "review"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = h.do("PATCH", orderPath+"/status", 0, map[string]string{"status": "review"}, "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusForbidden, code)

	// переходы не проверяются: из brief_received сразу в completed и обратно
	for _, status := range []string{"completed", "draft"} {
		code, env := h.do("PATCH", orderPath+"/status", 0, map[string]string{"status": status}, "Authorization", "Bearer "+adminToken)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, status, decode[map[string]interface{}](t, env.Data)["status"])
	}

	code, _ = h.do("PATCH", orderPath+"/status", 0, map[string]string{"status": "archived"}, "Authorization", "Bearer "+adminToken)
	assert.Equal(t, http.StatusBadRequest, code)

	stagePath := "/api/admin/stages/" + created.Stages[0].ID.String() + "/status"
	code, _ = h.do("PATCH", stagePath, 0, map[string]string{"status": "completed"}, "Authorization", "Bearer "+adminToken)
	require.Equal(t, http.StatusOK, code)

	code, env := h.do("GET", "/api/orders/"+created.Order.ID.String(), 42, nil)
	require.Equal(t, http.StatusOK, code)
	details := decode[orderDetails](t, env.Data)
	require.NotNil(t, details.Progress)
	assert.Equal(t, 16, *details.Progress)
	assert.True(t, details.Stages[1].IsNext)

	code, _ = h.do("POST", orderPath+"/comments", 0, map[string]string{"author_id": operator.ProfileID.String(), "content": "клиент просит скидку"}, "Authorization", "Bearer "+adminToken)
	require.Equal(t, http.StatusCreated, code)

	code, env = h.do("GET", "/api/orders/"+created.Order.ID.String()+"/comments", 42, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]commentJSON](t, env.Data), "внутренние заметки клиенту не видны")
	assert.NotEqual(t, client.ProfileID, operator.ProfileID)
}

func TestAdmin_DisabledWithoutToken(t *testing.T) {
	h := newHarness(t, options{})
	code, _ := h.do("PATCH", "/api/admin/orders/"+uuid.NewString()+"/status", 0, map[string]string{"status": "review"}, "Authorization", "Bearer ")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTelegramEndpoints(t *testing.T) {
	h := newHarness(t, options{})
	h.sender.err = errors.New("chat not found")

	code, env := h.do("POST", "/api/telegram/notify", 0, map[string]string{
		"order_id": uuid.NewString(), "title": "Logo", "client_name": "Anna", "client_username": "anna",
	})
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success, "ошибка доставки не влияет на ответ")

	code, env = h.do("POST", "/api/telegram/comment", 0, map[string]string{
		"order_id": uuid.NewString(), "comment": "привет", "client_name": "Anna",
	})
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Len(t, h.sender.sent(), 2)

	code, env = h.do("POST", "/api/telegram/notify", 0, map[string]string{"title": "Logo"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
}

func TestPortfolio(t *testing.T) {
	h := newHarness(t, options{})
	h.store.portfolio = []*entity.PortfolioItem{
		{ID: uuid.New(), Title: "Кофейня", Category: valueobject.CategoryBranding, OrderIndex: 2},
		{ID: uuid.New(), Title: "Банк", Category: valueobject.CategoryWebDesign, OrderIndex: 1, ClientName: "Кофе-банк"},
	}

	code, env := h.do("GET", "/api/portfolio", 0, nil)
	require.Equal(t, http.StatusOK, code)
	all := decode[[]map[string]interface{}](t, env.Data)
	require.Len(t, all, 2)
	assert.Equal(t, "Банк", all[0]["title"])

	code, env = h.do("GET", "/api/portfolio?category=branding", 0, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]map[string]interface{}](t, env.Data), 1)

	code, env = h.do("GET", "/api/portfolio?q=%D0%BA%D0%BE%D1%84%D0%B5", 0, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]map[string]interface{}](t, env.Data), 2)

	code, _ = h.do("GET", "/api/portfolio?category=sculpture", 0, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = h.do("GET", "/api/portfolio/"+uuid.NewString(), 0, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMediaUpload(t *testing.T) {
	h := newHarness(t, options{})
	h.sync(42, "Anna")

	upload := func(name string, content []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest("POST", "/api/media", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set(testUserHeader, "42")
		w := httptest.NewRecorder()
		h.engine.ServeHTTP(w, req)
		return w
	}

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	w := upload("brief.png", png)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	url := decode[map[string]string](t, env.Data)["url"]
	assert.True(t, strings.HasPrefix(url, "/media/"), url)

	get := httptest.NewRecorder()
	h.engine.ServeHTTP(get, httptest.NewRequest("GET", url, nil))
	assert.Equal(t, http.StatusOK, get.Code)

	w = upload("notes.txt", []byte("просто текст"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaUpload_BodyOverLimit(t *testing.T) {
	h := newHarness(t, options{})
	h.sync(42, "Anna")

	before, err := os.ReadDir(h.mediaRoot)
	require.NoError(t, err)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "huge.png")
	require.NoError(t, err)
	_, err = part.Write(append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 2*1024*1024)...))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	send := func(body io.Reader, contentLength int64) int {
		req := httptest.NewRequest("POST", "/api/media", body)
		req.ContentLength = contentLength
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set(testUserHeader, "42")
		w := httptest.NewRecorder()
		h.engine.ServeHTTP(w, req)
		return w.Code
	}

	raw := buf.Bytes()
	assert.Equal(t, http.StatusRequestEntityTooLarge, send(bytes.NewReader(raw), int64(len(raw))))
	// длина неизвестна, как при chunked: обрывает MaxBytesReader
	assert.Equal(t, http.StatusRequestEntityTooLarge, send(io.MultiReader(bytes.NewReader(raw)), -1))

	after, err := os.ReadDir(h.mediaRoot)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
}

func TestRealtime_Comments(t *testing.T) {
	h := newHarness(t, options{})
	client := h.sync(42, "Anna")
	created := h.createOrder(42, "Logo")
	orderID := created.Order.ID.String()

	srv := httptest.NewServer(h.engine)
	t.Cleanup(srv.Close)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?channel=comments&order_id="+orderID+"&token=bad", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?channel=comments&order_id="+orderID+"&token="+client.AccessToken, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	type frame struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	read := func() frame {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var f frame
		require.NoError(t, conn.ReadJSON(&f))
		return f
	}

	snapshot := read()
	assert.Equal(t, "snapshot", snapshot.Type)

	code, env := h.do("POST", "/api/orders/"+orderID+"/comments", 42, map[string]string{"content": "эхо"})
	require.Equal(t, http.StatusCreated, code)
	commentID := decode[map[string]string](t, env.Data)["id"]

	// лента изменений присылает вставку дважды: второй раз отбрасывается
	ev := realtime.Event{Table: realtime.TableOrderComments, Op: realtime.OpInsert, ID: commentID, OrderID: orderID}
	h.broker.Publish(ev)
	h.broker.Publish(ev)
	h.broker.Publish(realtime.Event{Table: realtime.TableOrders, Op: realtime.OpUpdate, ID: orderID, ClientID: client.ProfileID.String()})

	got := read()
	assert.Equal(t, "comment", got.Type)
	c := decode[commentJSON](t, got.Data)
	assert.Equal(t, "эхо", c.Content)
	assert.True(t, c.IsOwn)

	_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "повторное событие не порождает кадр")
}

func TestRealtime_ForeignOrderRejected(t *testing.T) {
	h := newHarness(t, options{})
	h.sync(42, "Anna")
	stranger := h.sync(43, "Eve")
	created := h.createOrder(42, "Logo")

	srv := httptest.NewServer(h.engine)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?channel=order&order_id=" + created.Order.ID.String() + "&token=" + stranger.AccessToken
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
