package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/TanishqPratap/content-oasis-app/internal/mocks"
	"github.com/TanishqPratap/content-oasis-app/internal/models"
	"github.com/TanishqPratap/content-oasis-app/internal/repositories"
)

func setupContentRouter(handler *ContentHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	r.POST("/content", handler.CreateContent)
	r.GET("/creators/:creator_id/content", handler.ListCreatorContent)
	return r
}

func TestCreateContentRejectsUnknownType(t *testing.T) {
	contentRepo := new(mocks.ContentRepositoryMock)
	handler := NewContentHandler(contentRepo, new(mocks.ProfileRepositoryMock), new(mocks.SubscriptionRepositoryMock))
	router := setupContentRouter(handler, "cre-1")

	req := httptest.NewRequest(http.MethodPost, "/content", bytes.NewBufferString(`{"title":"post","content_type":"audio"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	contentRepo.AssertNotCalled(t, "CreateContent", mock.Anything, mock.Anything)
}

func TestCreateContentCreatorOnly(t *testing.T) {
	contentRepo := new(mocks.ContentRepositoryMock)
	profileRepo := new(mocks.ProfileRepositoryMock)
	handler := NewContentHandler(contentRepo, profileRepo, new(mocks.SubscriptionRepositoryMock))
	router := setupContentRouter(handler, "cre-1")

	profileRepo.On("GetProfile", mock.Anything, "cre-1").
		Return(models.Profile{ID: "cre-1", Role: models.RoleCreator}, nil).Once()
	contentRepo.On("CreateContent", mock.Anything, mock.MatchedBy(func(content models.Content) bool {
		return content.CreatorID == "cre-1" && content.ContentType == models.ContentText && content.IsPremium
	})).Return(models.Content{ID: "cnt-1", CreatorID: "cre-1", ContentType: models.ContentText, IsPremium: true}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/content", bytes.NewBufferString(`{"title":"post","content_type":"text","is_premium":true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	contentRepo.AssertExpectations(t)
	profileRepo.AssertExpectations(t)
}

func TestListCreatorContentPublicOnlyWithoutSubscription(t *testing.T) {
	contentRepo := new(mocks.ContentRepositoryMock)
	subRepo := new(mocks.SubscriptionRepositoryMock)
	handler := NewContentHandler(contentRepo, new(mocks.ProfileRepositoryMock), subRepo)
	router := setupContentRouter(handler, "sub-1")

	subRepo.On("FindActiveSubscription", mock.Anything, "sub-1", "cre-1").
		Return(models.Subscription{}, repositories.ErrSubscriptionNotFound).Once()
	contentRepo.On("ListContentForCreator", mock.Anything, "cre-1", false).
		Return([]models.Content{{ID: "cnt-1", IsPremium: false}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/creators/cre-1/content", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	contentRepo.AssertExpectations(t)
	subRepo.AssertExpectations(t)
}

func TestListCreatorContentPremiumForSubscriber(t *testing.T) {
	contentRepo := new(mocks.ContentRepositoryMock)
	subRepo := new(mocks.SubscriptionRepositoryMock)
	handler := NewContentHandler(contentRepo, new(mocks.ProfileRepositoryMock), subRepo)
	router := setupContentRouter(handler, "sub-1")

	subRepo.On("FindActiveSubscription", mock.Anything, "sub-1", "cre-1").
		Return(models.Subscription{ID: "s-1", Status: models.SubscriptionActive}, nil).Once()
	contentRepo.On("ListContentForCreator", mock.Anything, "cre-1", true).
		Return([]models.Content{{ID: "cnt-1", IsPremium: true}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/creators/cre-1/content", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	contentRepo.AssertExpectations(t)
	subRepo.AssertExpectations(t)
}

func TestListCreatorContentOwnerSeesPremium(t *testing.T) {
	contentRepo := new(mocks.ContentRepositoryMock)
	subRepo := new(mocks.SubscriptionRepositoryMock)
	handler := NewContentHandler(contentRepo, new(mocks.ProfileRepositoryMock), subRepo)
	router := setupContentRouter(handler, "cre-1")

	contentRepo.On("ListContentForCreator", mock.Anything, "cre-1", true).
		Return([]models.Content{{ID: "cnt-1", IsPremium: true}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/creators/cre-1/content", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	subRepo.AssertNotCalled(t, "FindActiveSubscription", mock.Anything, mock.Anything, mock.Anything)
	contentRepo.AssertExpectations(t)
}
