package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/TanishqPratap/content-oasis-app/internal/models"
)

type SessionRepositoryMock struct {
	mock.Mock
}

func (m *SessionRepositoryMock) FindOpenSession(ctx context.Context, subscriberID, creatorID string) (models.ChatSession, error) {
	args := m.Called(ctx, subscriberID, creatorID)
	var session models.ChatSession
	if val := args.Get(0); val != nil {
		session = val.(models.ChatSession)
	}
	return session, args.Error(1)
}

func (m *SessionRepositoryMock) CreateSession(ctx context.Context, subscriberID, creatorID string, hourlyRate float64) (models.ChatSession, error) {
	args := m.Called(ctx, subscriberID, creatorID, hourlyRate)
	var session models.ChatSession
	if val := args.Get(0); val != nil {
		session = val.(models.ChatSession)
	}
	return session, args.Error(1)
}

func (m *SessionRepositoryMock) GetSession(ctx context.Context, sessionID string) (models.ChatSession, error) {
	args := m.Called(ctx, sessionID)
	var session models.ChatSession
	if val := args.Get(0); val != nil {
		session = val.(models.ChatSession)
	}
	return session, args.Error(1)
}

func (m *SessionRepositoryMock) CloseSession(ctx context.Context, sessionID string) (models.ChatSession, error) {
	args := m.Called(ctx, sessionID)
	var session models.ChatSession
	if val := args.Get(0); val != nil {
		session = val.(models.ChatSession)
	}
	return session, args.Error(1)
}

func (m *SessionRepositoryMock) ListSessionsForUser(ctx context.Context, userID string) ([]models.ChatSession, error) {
	args := m.Called(ctx, userID)
	var list []models.ChatSession
	if val := args.Get(0); val != nil {
		list = val.([]models.ChatSession)
	}
	return list, args.Error(1)
}

type ProfileRepositoryMock struct {
	mock.Mock
}

func (m *ProfileRepositoryMock) CreateProfile(ctx context.Context, email, username, passwordHash string, role models.Role) (models.Profile, error) {
	args := m.Called(ctx, email, username, passwordHash, role)
	var profile models.Profile
	if val := args.Get(0); val != nil {
		profile = val.(models.Profile)
	}
	return profile, args.Error(1)
}

func (m *ProfileRepositoryMock) GetProfile(ctx context.Context, id string) (models.Profile, error) {
	args := m.Called(ctx, id)
	var profile models.Profile
	if val := args.Get(0); val != nil {
		profile = val.(models.Profile)
	}
	return profile, args.Error(1)
}

func (m *ProfileRepositoryMock) GetProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	args := m.Called(ctx, email)
	var profile models.Profile
	if val := args.Get(0); val != nil {
		profile = val.(models.Profile)
	}
	return profile, args.Error(1)
}

func (m *ProfileRepositoryMock) UpdateProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	args := m.Called(ctx, profile)
	var updated models.Profile
	if val := args.Get(0); val != nil {
		updated = val.(models.Profile)
	}
	return updated, args.Error(1)
}

func (m *ProfileRepositoryMock) ListCreators(ctx context.Context) ([]models.Profile, error) {
	args := m.Called(ctx)
	var list []models.Profile
	if val := args.Get(0); val != nil {
		list = val.([]models.Profile)
	}
	return list, args.Error(1)
}

type StreamRepositoryMock struct {
	mock.Mock
}

func (m *StreamRepositoryMock) CreateStream(ctx context.Context, creatorID, title string, description *string) (models.LiveStream, error) {
	args := m.Called(ctx, creatorID, title, description)
	var stream models.LiveStream
	if val := args.Get(0); val != nil {
		stream = val.(models.LiveStream)
	}
	return stream, args.Error(1)
}

func (m *StreamRepositoryMock) GetStream(ctx context.Context, streamID string) (models.LiveStream, error) {
	args := m.Called(ctx, streamID)
	var stream models.LiveStream
	if val := args.Get(0); val != nil {
		stream = val.(models.LiveStream)
	}
	return stream, args.Error(1)
}

func (m *StreamRepositoryMock) ListStreamsForCreator(ctx context.Context, creatorID string) ([]models.LiveStream, error) {
	args := m.Called(ctx, creatorID)
	var list []models.LiveStream
	if val := args.Get(0); val != nil {
		list = val.([]models.LiveStream)
	}
	return list, args.Error(1)
}

func (m *StreamRepositoryMock) ListLiveStreams(ctx context.Context) ([]models.LiveStream, error) {
	args := m.Called(ctx)
	var list []models.LiveStream
	if val := args.Get(0); val != nil {
		list = val.([]models.LiveStream)
	}
	return list, args.Error(1)
}

func (m *StreamRepositoryMock) StartStream(ctx context.Context, streamID, creatorID string) (models.LiveStream, error) {
	args := m.Called(ctx, streamID, creatorID)
	var stream models.LiveStream
	if val := args.Get(0); val != nil {
		stream = val.(models.LiveStream)
	}
	return stream, args.Error(1)
}

func (m *StreamRepositoryMock) EndStream(ctx context.Context, streamID, creatorID string) (models.LiveStream, error) {
	args := m.Called(ctx, streamID, creatorID)
	var stream models.LiveStream
	if val := args.Get(0); val != nil {
		stream = val.(models.LiveStream)
	}
	return stream, args.Error(1)
}

func (m *StreamRepositoryMock) JoinStream(ctx context.Context, streamID, viewerID string) (models.LiveStream, error) {
	args := m.Called(ctx, streamID, viewerID)
	var stream models.LiveStream
	if val := args.Get(0); val != nil {
		stream = val.(models.LiveStream)
	}
	return stream, args.Error(1)
}

func (m *StreamRepositoryMock) LeaveStream(ctx context.Context, streamID, viewerID string) (models.LiveStream, error) {
	args := m.Called(ctx, streamID, viewerID)
	var stream models.LiveStream
	if val := args.Get(0); val != nil {
		stream = val.(models.LiveStream)
	}
	return stream, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, senderID, recipientID, content string) (models.Message, error) {
	args := m.Called(ctx, senderID, recipientID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) GetConversation(ctx context.Context, userID, peerID string) ([]models.Message, error) {
	args := m.Called(ctx, userID, peerID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

type ContentRepositoryMock struct {
	mock.Mock
}

func (m *ContentRepositoryMock) CreateContent(ctx context.Context, content models.Content) (models.Content, error) {
	args := m.Called(ctx, content)
	var created models.Content
	if val := args.Get(0); val != nil {
		created = val.(models.Content)
	}
	return created, args.Error(1)
}

func (m *ContentRepositoryMock) GetContent(ctx context.Context, contentID string) (models.Content, error) {
	args := m.Called(ctx, contentID)
	var content models.Content
	if val := args.Get(0); val != nil {
		content = val.(models.Content)
	}
	return content, args.Error(1)
}

func (m *ContentRepositoryMock) ListContentForCreator(ctx context.Context, creatorID string, includePremium bool) ([]models.Content, error) {
	args := m.Called(ctx, creatorID, includePremium)
	var list []models.Content
	if val := args.Get(0); val != nil {
		list = val.([]models.Content)
	}
	return list, args.Error(1)
}

type SubscriptionRepositoryMock struct {
	mock.Mock
}

func (m *SubscriptionRepositoryMock) FindActiveSubscription(ctx context.Context, subscriberID, creatorID string) (models.Subscription, error) {
	args := m.Called(ctx, subscriberID, creatorID)
	var sub models.Subscription
	if val := args.Get(0); val != nil {
		sub = val.(models.Subscription)
	}
	return sub, args.Error(1)
}

func (m *SubscriptionRepositoryMock) Subscribe(ctx context.Context, subscriberID, creatorID string) (models.Subscription, error) {
	args := m.Called(ctx, subscriberID, creatorID)
	var sub models.Subscription
	if val := args.Get(0); val != nil {
		sub = val.(models.Subscription)
	}
	return sub, args.Error(1)
}

func (m *SubscriptionRepositoryMock) Cancel(ctx context.Context, subscriberID, creatorID string) (models.Subscription, error) {
	args := m.Called(ctx, subscriberID, creatorID)
	var sub models.Subscription
	if val := args.Get(0); val != nil {
		sub = val.(models.Subscription)
	}
	return sub, args.Error(1)
}

func (m *SubscriptionRepositoryMock) ListForSubscriber(ctx context.Context, subscriberID string) ([]models.Subscription, error) {
	args := m.Called(ctx, subscriberID)
	var list []models.Subscription
	if val := args.Get(0); val != nil {
		list = val.([]models.Subscription)
	}
	return list, args.Error(1)
}

func (m *SubscriptionRepositoryMock) CreateTip(ctx context.Context, tip models.Tip) (models.Tip, error) {
	args := m.Called(ctx, tip)
	var created models.Tip
	if val := args.Get(0); val != nil {
		created = val.(models.Tip)
	}
	return created, args.Error(1)
}

func (m *SubscriptionRepositoryMock) ListTipsForCreator(ctx context.Context, creatorID string) ([]models.Tip, error) {
	args := m.Called(ctx, creatorID)
	var list []models.Tip
	if val := args.Get(0); val != nil {
		list = val.([]models.Tip)
	}
	return list, args.Error(1)
}
