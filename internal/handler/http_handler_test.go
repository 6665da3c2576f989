package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ABIRENIS/Jero-CRM/internal/domain"
	"github.com/ABIRENIS/Jero-CRM/internal/repository"
	"github.com/ABIRENIS/Jero-CRM/internal/service"
)

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastToRoom(uint, interface{}) error         { return nil }
func (nopBroadcaster) BroadcastToConversation(uint, interface{}) error { return nil }
func (nopBroadcaster) BroadcastAll(interface{}) error                  { return nil }

type apiFixture struct {
	router *gin.Engine
	db     *gorm.DB
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.EngineerModel{}, &domain.ChatMessageModel{}))

	engineerRepo := repository.NewGormEngineerRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)
	b := nopBroadcaster{}

	router := gin.New()
	NewHTTPHandler(
		service.NewEngineerService(engineerRepo, b),
		service.NewChatService(messageRepo, b),
	).RegisterRoutes(router)

	return &apiFixture{router: router, db: db}
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func (f *apiFixture) addEngineer(t *testing.T, name, group string) map[string]interface{} {
	t.Helper()

	w := f.do(t, http.MethodPost, "/api/engineers/add", gin.H{
		"name":       name,
		"group_type": group,
		"email":      name + "@jerobyte.test",
		"password":   "secret",
		"phone":      "0400000000",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Success  bool                   `json:"success"`
		Engineer map[string]interface{} `json:"engineer"`
	}
	decode(t, w, &body)
	require.True(t, body.Success)
	return body.Engineer
}

func TestAddEngineerAssignsSeriesID(t *testing.T) {
	f := newAPIFixture(t)

	eng := f.addEngineer(t, "priya", "ups")
	assert.Equal(t, "ENG-UPS-001", eng["engineer_id"])
	assert.Equal(t, "Offline", eng["status"])
	assert.NotContains(t, eng, "password")

	second := f.addEngineer(t, "kumar", "ups")
	assert.Equal(t, "ENG-UPS-002", second["engineer_id"])
}

func TestAddEngineerRejectsUnknownGroup(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/engineers/add", gin.H{
		"name":       "x",
		"group_type": "hvac",
		"email":      "x@jerobyte.test",
		"password":   "secret",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	decode(t, w, &body)
	assert.False(t, body.Success)
	assert.Equal(t, "unknown group_type", body.Error)
}

func TestAddEngineerRejectsMissingFields(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/engineers/add", gin.H{"name": "only-name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginSuccess(t *testing.T) {
	f := newAPIFixture(t)
	f.addEngineer(t, "dev", "lan")

	w := f.do(t, http.MethodPost, "/api/engineer/login", gin.H{
		"email":    "dev@jerobyte.test",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body domain.LoginResponse
	decode(t, w, &body)
	assert.True(t, body.Success)
	assert.Equal(t, "dev", body.Name)
	assert.Equal(t, "ENG-LAN-001", body.EngineerID)

	// Login flips the department's online counter.
	w = f.do(t, http.MethodGet, "/api/engineers/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats domain.Stats
	decode(t, w, &stats)
	assert.Equal(t, domain.GroupStats{Total: 1, Online: 1}, stats[domain.GroupLAN])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newAPIFixture(t)
	f.addEngineer(t, "dev", "lan")

	w := f.do(t, http.MethodPost, "/api/engineer/login", gin.H{
		"email":    "dev@jerobyte.test",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decode(t, w, &body)
	assert.False(t, body.Success)
	assert.Equal(t, "Invalid Credentials!", body.Message)
}

func TestLogout(t *testing.T) {
	f := newAPIFixture(t)
	eng := f.addEngineer(t, "dev", "ups")
	f.do(t, http.MethodPost, "/api/engineer/login", gin.H{
		"email":    "dev@jerobyte.test",
		"password": "secret",
	})

	w := f.do(t, http.MethodPost, "/api/engineer/logout", gin.H{"engineer_id": eng["id"]})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/engineers/stats", nil)
	var stats domain.Stats
	decode(t, w, &stats)
	assert.Equal(t, domain.GroupStats{Total: 1, Online: 0}, stats[domain.GroupUPS])

	w = f.do(t, http.MethodPost, "/api/engineer/logout", gin.H{"engineer_id": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsIncludesEmptyDepartments(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/engineers/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]domain.GroupStats
	decode(t, w, &stats)
	for _, g := range []string{"ups", "lan", "cctv"} {
		assert.Contains(t, stats, g)
		assert.Equal(t, domain.GroupStats{}, stats[g])
	}
}

func TestListGroup(t *testing.T) {
	f := newAPIFixture(t)
	f.addEngineer(t, "a", "cctv")
	f.addEngineer(t, "b", "cctv")
	f.addEngineer(t, "c", "ups")

	w := f.do(t, http.MethodGet, "/api/engineers/cctv", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var engineers []domain.Engineer
	decode(t, w, &engineers)
	require.Len(t, engineers, 2)
	assert.Equal(t, "ENG-CCTV-001", engineers[0].EngineerID)
	assert.Equal(t, "ENG-CCTV-002", engineers[1].EngineerID)

	w = f.do(t, http.MethodGet, "/api/engineers/unknown-dept", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (f *apiFixture) seedMessage(t *testing.T, engineerDBID uint, text string) uint {
	t.Helper()

	model := &domain.ChatMessageModel{
		EngineerDBID: engineerDBID,
		Sender:       "Admin",
		SenderType:   string(domain.SenderAdmin),
		MessageText:  text,
	}
	require.NoError(t, f.db.Create(model).Error)
	return model.ID
}

func (f *apiFixture) backdateMessage(t *testing.T, id uint, age time.Duration) {
	t.Helper()

	require.NoError(t, f.db.Model(&domain.ChatMessageModel{}).
		Where("id = ?", id).
		Update("created_at", time.Now().Add(-age)).Error)
}

func TestChatHistoryRoundTrip(t *testing.T) {
	f := newAPIFixture(t)
	f.seedMessage(t, 4, "first")
	f.seedMessage(t, 4, "second")
	f.seedMessage(t, 5, "elsewhere")

	w := f.do(t, http.MethodGet, "/api/chat/4", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var msgs []domain.ChatMessage
	decode(t, w, &msgs)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].MessageText)
	assert.Equal(t, "second", msgs[1].MessageText)

	w = f.do(t, http.MethodGet, "/api/chat/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditMessage(t *testing.T) {
	f := newAPIFixture(t)
	id := f.seedMessage(t, 4, "typo")

	w := f.do(t, http.MethodPut, "/api/chat/edit", gin.H{
		"message_id":     id,
		"new_text":       "fixed",
		"engineer_db_id": 4,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var history []domain.ChatMessage
	decode(t, f.do(t, http.MethodGet, "/api/chat/4", nil), &history)
	require.Len(t, history, 1)
	assert.Equal(t, "fixed", history[0].MessageText)
	assert.True(t, history[0].IsEdited)
}

func TestEditMessageExpiredWindow(t *testing.T) {
	f := newAPIFixture(t)
	id := f.seedMessage(t, 4, "too old")
	f.backdateMessage(t, id, 6*time.Minute)

	w := f.do(t, http.MethodPut, "/api/chat/edit", gin.H{
		"message_id":     id,
		"new_text":       "nope",
		"engineer_db_id": 4,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body struct {
		Message string `json:"message"`
	}
	decode(t, w, &body)
	assert.Equal(t, "Edit time expired. Messages can only be edited within 5 minutes.", body.Message)
}

func TestEditMessageNotFound(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPut, "/api/chat/edit", gin.H{
		"message_id":     999,
		"new_text":       "ghost",
		"engineer_db_id": 1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteMessage(t *testing.T) {
	f := newAPIFixture(t)
	id := f.seedMessage(t, 4, "remove me")

	w := f.do(t, http.MethodDelete, "/api/chat/delete/"+uintToString(id), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var history []domain.ChatMessage
	decode(t, f.do(t, http.MethodGet, "/api/chat/4", nil), &history)
	assert.Empty(t, history)
}

func TestDeleteMessageExpiredWindow(t *testing.T) {
	f := newAPIFixture(t)
	id := f.seedMessage(t, 4, "sticky")
	f.backdateMessage(t, id, 6*time.Minute)

	w := f.do(t, http.MethodDelete, "/api/chat/delete/"+uintToString(id), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body struct {
		Message string `json:"message"`
	}
	decode(t, w, &body)
	assert.Equal(t, "Delete time expired. Messages can only be deleted within 5 minutes.", body.Message)
}

func TestDeleteMessageNotFound(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodDelete, "/api/chat/delete/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func uintToString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
