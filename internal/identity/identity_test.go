package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "123456:TEST-TOKEN"

// signInitData подписывает init data так же, как это делает Telegram.
func signInitData(t *testing.T, token string, values url.Values) string {
	t.Helper()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(token))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))

	signed := url.Values{}
	for k := range values {
		signed.Set(k, values.Get(k))
	}
	signed.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return signed.Encode()
}

func initDataValues() url.Values {
	v := url.Values{}
	v.Set("auth_date", strconv.FormatInt(time.Now().Unix(), 10))
	v.Set("query_id", "AAH")
	v.Set("user", `{"id":42,"first_name":"Anna","last_name":"Petrova","username":"anna","language_code":"ru","is_premium":true}`)
	return v
}

func TestTelegramInitData_Anonymous(t *testing.T) {
	p := NewTelegramInitData(testBotToken, time.Hour, false)

	_, ok, err := p.CurrentUser(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTelegramInitData_ValidHeader(t *testing.T) {
	p := NewTelegramInitData(testBotToken, time.Hour, false)
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderInitData, signInitData(t, testBotToken, initDataValues()))

	user, ok, err := p.CurrentUser(req)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "Anna", user.FirstName)
	assert.Equal(t, "Petrova", user.LastName)
	assert.Equal(t, "anna", user.Username)
	assert.True(t, user.IsPremium)
}

func TestTelegramInitData_QueryParam(t *testing.T) {
	p := NewTelegramInitData(testBotToken, time.Hour, false)
	raw := signInitData(t, testBotToken, initDataValues())
	req := httptest.NewRequest("GET", "/?"+QueryInitData+"="+url.QueryEscape(raw), nil)

	user, ok, err := p.CurrentUser(req)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(42), user.ID)
}

func TestTelegramInitData_WrongSignature(t *testing.T) {
	p := NewTelegramInitData(testBotToken, time.Hour, false)
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderInitData, signInitData(t, "999:OTHER", initDataValues()))

	_, ok, err := p.CurrentUser(req)
	assert.ErrorIs(t, err, ErrInvalidInitData)
	assert.False(t, ok)
}

func TestTelegramInitData_UnsignedDevelopment(t *testing.T) {
	raw := initDataValues().Encode()

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderInitData, raw)

	user, ok, err := NewTelegramInitData("", 0, true).CurrentUser(req)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(42), user.ID)

	_, ok, err = NewTelegramInitData("", 0, false).CurrentUser(req)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatic(t *testing.T) {
	_, ok, _ := Static{}.CurrentUser(nil)
	assert.False(t, ok)

	user, ok, _ := Static{User: &User{ID: 7}}.CurrentUser(nil)
	assert.True(t, ok)
	assert.Equal(t, int64(7), user.ID)
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	id := uuid.New()

	token, err := m.Issue(id)
	require.NoError(t, err)

	got, err := m.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	token, err := m.Issue(uuid.New())
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Minute).ParseAccess(token)
	assert.Error(t, err)

	expired, err := NewTokenManager("secret", -time.Minute).Issue(uuid.New())
	require.NoError(t, err)
	_, err = m.ParseAccess(expired)
	assert.Error(t, err)

	_, err = m.ParseAccess("garbage")
	assert.Error(t, err)
}
