package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/TanishqPratap/content-oasis-app/internal/mocks"
	"github.com/TanishqPratap/content-oasis-app/internal/models"
	"github.com/TanishqPratap/content-oasis-app/internal/repositories"
	"github.com/TanishqPratap/content-oasis-app/internal/ws"
)

func setupSessionRouter(handler *SessionHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	r.POST("/sessions", handler.StartSession)
	r.POST("/sessions/:session_id/close", handler.CloseSession)
	r.GET("/sessions", handler.ListSessions)
	r.GET("/sessions/:session_id/meter", handler.MeterSnapshot)
	return r
}

func creatorProfile(id string, rate float64) models.Profile {
	return models.Profile{ID: id, Username: "creator", Role: models.RoleCreator, ChatRate: &rate}
}

func TestStartSessionCreatesNew(t *testing.T) {
	sessionRepo := new(mocks.SessionRepositoryMock)
	profileRepo := new(mocks.ProfileRepositoryMock)
	handler := NewSessionHandler(sessionRepo, profileRepo, ws.NewHub(), nil, nil)
	router := setupSessionRouter(handler, "sub-1")

	profileRepo.On("GetProfile", mock.Anything, "cre-1").Return(creatorProfile("cre-1", 25.0), nil).Once()
	sessionRepo.On("FindOpenSession", mock.Anything, "sub-1", "cre-1").
		Return(models.ChatSession{}, repositories.ErrSessionNotFound).Once()
	sessionRepo.On("CreateSession", mock.Anything, "sub-1", "cre-1", 25.0).
		Return(models.ChatSession{ID: "ses-1", SubscriberID: "sub-1", CreatorID: "cre-1", HourlyRate: 25.0, SessionStart: time.Now()}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewBufferString(`{"creator_id":"cre-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, false, resp["resumed"])
	sessionRepo.AssertExpectations(t)
	profileRepo.AssertExpectations(t)
}

func TestStartSessionResumesOpenPair(t *testing.T) {
	sessionRepo := new(mocks.SessionRepositoryMock)
	profileRepo := new(mocks.ProfileRepositoryMock)
	handler := NewSessionHandler(sessionRepo, profileRepo, ws.NewHub(), nil, nil)
	router := setupSessionRouter(handler, "sub-1")

	profileRepo.On("GetProfile", mock.Anything, "cre-1").Return(creatorProfile("cre-1", 25.0), nil).Once()
	sessionRepo.On("FindOpenSession", mock.Anything, "sub-1", "cre-1").
		Return(models.ChatSession{ID: "ses-1", SubscriberID: "sub-1", CreatorID: "cre-1", HourlyRate: 25.0, SessionStart: time.Now().Add(-time.Minute)}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewBufferString(`{"creator_id":"cre-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, true, resp["resumed"])
	sessionRepo.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	sessionRepo.AssertExpectations(t)
}

func TestStartSessionLostRaceResumesWinner(t *testing.T) {
	sessionRepo := new(mocks.SessionRepositoryMock)
	profileRepo := new(mocks.ProfileRepositoryMock)
	handler := NewSessionHandler(sessionRepo, profileRepo, ws.NewHub(), nil, nil)
	router := setupSessionRouter(handler, "sub-1")

	winner := models.ChatSession{ID: "ses-won", SubscriberID: "sub-1", CreatorID: "cre-1", HourlyRate: 25.0, SessionStart: time.Now().Add(-time.Second)}

	profileRepo.On("GetProfile", mock.Anything, "cre-1").Return(creatorProfile("cre-1", 25.0), nil).Once()
	sessionRepo.On("FindOpenSession", mock.Anything, "sub-1", "cre-1").
		Return(models.ChatSession{}, repositories.ErrSessionNotFound).Once()
	sessionRepo.On("CreateSession", mock.Anything, "sub-1", "cre-1", 25.0).
		Return(models.ChatSession{}, repositories.ErrSessionExists).Once()
	sessionRepo.On("FindOpenSession", mock.Anything, "sub-1", "cre-1").
		Return(winner, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewBufferString(`{"creator_id":"cre-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, true, resp["resumed"])
	session := resp["session"].(map[string]any)
	assert.Equal(t, "ses-won", session["id"])
	sessionRepo.AssertExpectations(t)
}

func TestStartSessionRejectsNonPositiveRate(t *testing.T) {
	sessionRepo := new(mocks.SessionRepositoryMock)
	profileRepo := new(mocks.ProfileRepositoryMock)
	handler := NewSessionHandler(sessionRepo, profileRepo, ws.NewHub(), nil, nil)
	router := setupSessionRouter(handler, "sub-1")

	profileRepo.On("GetProfile", mock.Anything, "cre-1").
		Return(models.Profile{ID: "cre-1", Role: models.RoleCreator}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewBufferString(`{"creator_id":"cre-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	sessionRepo.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStartSessionRejectsSelf(t *testing.T) {
	handler := NewSessionHandler(new(mocks.SessionRepositoryMock), new(mocks.ProfileRepositoryMock), ws.NewHub(), nil, nil)
	router := setupSessionRouter(handler, "sub-1")

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewBufferString(`{"creator_id":"sub-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCloseSessionSettles(t *testing.T) {
	sessionRepo := new(mocks.SessionRepositoryMock)
	handler := NewSessionHandler(sessionRepo, new(mocks.ProfileRepositoryMock), ws.NewHub(), nil, nil)
	router := setupSessionRouter(handler, "sub-1")

	start := time.Now().Add(-90 * time.Second)
	end := start.Add(90 * time.Second)
	total := 0.63
	open := models.ChatSession{ID: "ses-1", SubscriberID: "sub-1", CreatorID: "cre-1", HourlyRate: 25.0, SessionStart: start}
	closed := open
	closed.SessionEnd = &end
	closed.TotalAmount = &total

	sessionRepo.On("GetSession", mock.Anything, "ses-1").Return(open, nil).Once()
	sessionRepo.On("CloseSession", mock.Anything, "ses-1").Return(closed, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/sessions/ses-1/close", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Session models.ChatSession `json:"session"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Session.TotalAmount)
	assert.Equal(t, 0.63, *resp.Session.TotalAmount)
	sessionRepo.AssertExpectations(t)
}

func TestCloseSessionTwiceConflicts(t *testing.T) {
	sessionRepo := new(mocks.SessionRepositoryMock)
	handler := NewSessionHandler(sessionRepo, new(mocks.ProfileRepositoryMock), ws.NewHub(), nil, nil)
	router := setupSessionRouter(handler, "sub-1")

	end := time.Now()
	total := 0.63
	closed := models.ChatSession{ID: "ses-1", SubscriberID: "sub-1", CreatorID: "cre-1", HourlyRate: 25.0, SessionEnd: &end, TotalAmount: &total}

	sessionRepo.On("GetSession", mock.Anything, "ses-1").Return(closed, nil).Once()
	sessionRepo.On("CloseSession", mock.Anything, "ses-1").
		Return(models.ChatSession{}, repositories.ErrSessionClosed).Once()

	req := httptest.NewRequest(http.MethodPost, "/sessions/ses-1/close", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	sessionRepo.AssertExpectations(t)
}

func TestCloseSessionRequiresParticipant(t *testing.T) {
	sessionRepo := new(mocks.SessionRepositoryMock)
	handler := NewSessionHandler(sessionRepo, new(mocks.ProfileRepositoryMock), ws.NewHub(), nil, nil)
	router := setupSessionRouter(handler, "stranger")

	open := models.ChatSession{ID: "ses-1", SubscriberID: "sub-1", CreatorID: "cre-1", HourlyRate: 25.0, SessionStart: time.Now()}
	sessionRepo.On("GetSession", mock.Anything, "ses-1").Return(open, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/sessions/ses-1/close", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	sessionRepo.AssertNotCalled(t, "CloseSession", mock.Anything, mock.Anything)
}

func TestMeterSnapshotOpenSession(t *testing.T) {
	sessionRepo := new(mocks.SessionRepositoryMock)
	handler := NewSessionHandler(sessionRepo, new(mocks.ProfileRepositoryMock), ws.NewHub(), nil, nil)
	router := setupSessionRouter(handler, "sub-1")

	open := models.ChatSession{ID: "ses-1", SubscriberID: "sub-1", CreatorID: "cre-1", HourlyRate: 25.0, SessionStart: time.Now().Add(-90 * time.Second)}
	sessionRepo.On("GetSession", mock.Anything, "ses-1").Return(open, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/sessions/ses-1/meter", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Meter struct {
			ElapsedSeconds int64   `json:"elapsed_seconds"`
			Cost           float64 `json:"cost"`
		} `json:"meter"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.GreaterOrEqual(t, resp.Meter.ElapsedSeconds, int64(90))
	assert.InDelta(t, 0.63, resp.Meter.Cost, 0.02)
	sessionRepo.AssertExpectations(t)
}

func TestMeterSnapshotClosedSessionConflicts(t *testing.T) {
	sessionRepo := new(mocks.SessionRepositoryMock)
	handler := NewSessionHandler(sessionRepo, new(mocks.ProfileRepositoryMock), ws.NewHub(), nil, nil)
	router := setupSessionRouter(handler, "sub-1")

	end := time.Now()
	closed := models.ChatSession{ID: "ses-1", SubscriberID: "sub-1", CreatorID: "cre-1", SessionEnd: &end}
	sessionRepo.On("GetSession", mock.Anything, "ses-1").Return(closed, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/sessions/ses-1/meter", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	sessionRepo.AssertExpectations(t)
}
