package services

import (
	"context"
	"errors"
	"testing"

	"clinicalfresh/internal/models"
	"clinicalfresh/testhelpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type NotificationServiceTestSuite struct {
	suite.Suite
	repo    *testhelpers.MockNotificationRepository
	cache   *testhelpers.MockCacheService
	service NotificationService
	ctx     context.Context
	userID  uuid.UUID
}

func (suite *NotificationServiceTestSuite) SetupTest() {
	suite.repo = &testhelpers.MockNotificationRepository{}
	suite.cache = &testhelpers.MockCacheService{}
	suite.service = NewNotificationService(suite.repo, suite.cache)
	suite.ctx = context.Background()
	suite.userID = uuid.New()
}

func (suite *NotificationServiceTestSuite) TestUnread_UsesLimit() {
	suite.repo.On("ListUnread", suite.ctx, suite.userID, UnreadNotificationsLimit).Return([]*models.Notification{}, nil)

	_, err := suite.service.Unread(suite.ctx, suite.userID)

	suite.NoError(err)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestUnreadCount_CacheHit() {
	suite.cache.On("GetUnreadCount", suite.ctx, suite.userID).Return(7, true, nil)

	count, err := suite.service.UnreadCount(suite.ctx, suite.userID)

	suite.NoError(err)
	suite.Equal(7, count)
	suite.repo.AssertNotCalled(suite.T(), "CountUnread", mock.Anything, mock.Anything)
}

func (suite *NotificationServiceTestSuite) TestUnreadCount_CacheMissFillsCache() {
	suite.cache.On("GetUnreadCount", suite.ctx, suite.userID).Return(0, false, nil)
	suite.repo.On("CountUnread", suite.ctx, suite.userID).Return(3, nil)
	suite.cache.On("SetUnreadCount", suite.ctx, suite.userID, 3, unreadCountTTL).Return(nil)

	count, err := suite.service.UnreadCount(suite.ctx, suite.userID)

	suite.NoError(err)
	suite.Equal(3, count)
	suite.cache.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestUnreadCount_CacheDown() {
	suite.cache.On("GetUnreadCount", suite.ctx, suite.userID).Return(0, false, errors.New("redis down"))
	suite.repo.On("CountUnread", suite.ctx, suite.userID).Return(1, nil)
	suite.cache.On("SetUnreadCount", suite.ctx, suite.userID, 1, unreadCountTTL).Return(errors.New("redis down"))

	count, err := suite.service.UnreadCount(suite.ctx, suite.userID)

	suite.NoError(err)
	suite.Equal(1, count)
}

func (suite *NotificationServiceTestSuite) TestMarkRead_InvalidatesOwner() {
	id := uuid.New()
	suite.repo.On("MarkRead", suite.ctx, id).Return(suite.userID, nil)
	suite.cache.On("DeleteUnreadCount", suite.ctx, suite.userID).Return(nil)

	suite.NoError(suite.service.MarkRead(suite.ctx, id))
	suite.cache.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestMarkRead_NotFound() {
	id := uuid.New()
	suite.repo.On("MarkRead", suite.ctx, id).Return(uuid.Nil, ErrNotFound)

	suite.ErrorIs(suite.service.MarkRead(suite.ctx, id), ErrNotFound)
	suite.cache.AssertNotCalled(suite.T(), "DeleteUnreadCount", mock.Anything, mock.Anything)
}

func (suite *NotificationServiceTestSuite) TestNotifyRoles_ContinuesOnFailure() {
	a, b := uuid.New(), uuid.New()
	roles := []string{"administrador", "jefe de compras"}
	suite.repo.On("ListRecipientsByRoles", suite.ctx, roles).Return([]uuid.UUID{a, b}, nil)
	suite.repo.On("Create", suite.ctx, mock.MatchedBy(func(n *models.Notification) bool { return n.UsuarioID == a })).
		Return(errors.New("insert failed"))
	suite.repo.On("Create", suite.ctx, mock.MatchedBy(func(n *models.Notification) bool { return n.UsuarioID == b })).
		Return(nil)
	suite.cache.On("DeleteUnreadCount", suite.ctx, b).Return(nil)

	sent, err := suite.service.NotifyRoles(suite.ctx, roles, models.NotificationTypeLowStock, "Stock bajo", "Harina", nil)

	suite.NoError(err)
	suite.Equal(1, sent)
}

func (suite *NotificationServiceTestSuite) TestCreate_RequiresTitle() {
	err := suite.service.Create(suite.ctx, &models.Notification{UsuarioID: suite.userID, Titulo: "  "})
	suite.Error(err)
	suite.repo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
