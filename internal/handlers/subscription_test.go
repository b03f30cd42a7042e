package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/TanishqPratap/content-oasis-app/internal/mocks"
	"github.com/TanishqPratap/content-oasis-app/internal/models"
	"github.com/TanishqPratap/content-oasis-app/internal/repositories"
)

func setupSubscriptionRouter(handler *SubscriptionHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	r.POST("/subscriptions", handler.Subscribe)
	r.DELETE("/subscriptions/:creator_id", handler.Cancel)
	r.GET("/subscriptions", handler.ListSubscriptions)
	r.POST("/tips", handler.CreateTip)
	r.GET("/tips", handler.ListTips)
	return r
}

func TestSubscribeCreatesNew(t *testing.T) {
	subRepo := new(mocks.SubscriptionRepositoryMock)
	profileRepo := new(mocks.ProfileRepositoryMock)
	handler := NewSubscriptionHandler(subRepo, profileRepo, nil)
	router := setupSubscriptionRouter(handler, "sub-1")

	profileRepo.On("GetProfile", mock.Anything, "cre-1").
		Return(models.Profile{ID: "cre-1", Username: "creator", Role: models.RoleCreator}, nil).Once()
	subRepo.On("FindActiveSubscription", mock.Anything, "sub-1", "cre-1").
		Return(models.Subscription{}, repositories.ErrSubscriptionNotFound).Once()
	subRepo.On("Subscribe", mock.Anything, "sub-1", "cre-1").
		Return(models.Subscription{ID: "s-1", SubscriberID: "sub-1", CreatorID: "cre-1", Status: models.SubscriptionActive}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/subscriptions", bytes.NewBufferString(`{"creator_id":"cre-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	subRepo.AssertExpectations(t)
	profileRepo.AssertExpectations(t)
}

func TestSubscribeResumesActive(t *testing.T) {
	subRepo := new(mocks.SubscriptionRepositoryMock)
	profileRepo := new(mocks.ProfileRepositoryMock)
	handler := NewSubscriptionHandler(subRepo, profileRepo, nil)
	router := setupSubscriptionRouter(handler, "sub-1")

	profileRepo.On("GetProfile", mock.Anything, "cre-1").
		Return(models.Profile{ID: "cre-1", Role: models.RoleCreator}, nil).Once()
	subRepo.On("FindActiveSubscription", mock.Anything, "sub-1", "cre-1").
		Return(models.Subscription{ID: "s-1", Status: models.SubscriptionActive}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/subscriptions", bytes.NewBufferString(`{"creator_id":"cre-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, true, resp["resumed"])
	subRepo.AssertNotCalled(t, "Subscribe", mock.Anything, mock.Anything, mock.Anything)
	subRepo.AssertExpectations(t)
}

func TestCancelSubscriptionNotFound(t *testing.T) {
	subRepo := new(mocks.SubscriptionRepositoryMock)
	handler := NewSubscriptionHandler(subRepo, new(mocks.ProfileRepositoryMock), nil)
	router := setupSubscriptionRouter(handler, "sub-1")

	subRepo.On("Cancel", mock.Anything, "sub-1", "cre-1").
		Return(models.Subscription{}, repositories.ErrSubscriptionNotFound).Once()

	req := httptest.NewRequest(http.MethodDelete, "/subscriptions/cre-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	subRepo.AssertExpectations(t)
}

func TestCreateTipRejectsNonPositiveAmount(t *testing.T) {
	subRepo := new(mocks.SubscriptionRepositoryMock)
	handler := NewSubscriptionHandler(subRepo, new(mocks.ProfileRepositoryMock), nil)
	router := setupSubscriptionRouter(handler, "sub-1")

	req := httptest.NewRequest(http.MethodPost, "/tips", bytes.NewBufferString(`{"creator_id":"cre-1","amount":-5}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	subRepo.AssertNotCalled(t, "CreateTip", mock.Anything, mock.Anything)
}

func TestCreateTipSuccess(t *testing.T) {
	subRepo := new(mocks.SubscriptionRepositoryMock)
	handler := NewSubscriptionHandler(subRepo, new(mocks.ProfileRepositoryMock), nil)
	router := setupSubscriptionRouter(handler, "sub-1")

	subRepo.On("CreateTip", mock.Anything, mock.MatchedBy(func(tip models.Tip) bool {
		return tip.TipperID == "sub-1" && tip.CreatorID == "cre-1" && tip.Amount == 5.00
	})).Return(models.Tip{ID: "tip-1", TipperID: "sub-1", CreatorID: "cre-1", Amount: 5.00}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/tips", bytes.NewBufferString(`{"creator_id":"cre-1","amount":5}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	subRepo.AssertExpectations(t)
}
