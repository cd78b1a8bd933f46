package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"triple/points-service/internal/app/points/entity"
	"triple/points-service/internal/app/points/repository"
	"triple/points-service/internal/app/points/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type reviewMocks struct {
	users     *mocks.MockUserRepository
	places    *mocks.MockPlaceRepository
	reviews   *mocks.MockReviewRepository
	images    *mocks.MockReviewImageRepository
	tx        *mocks.MockTxManager
	publisher *mocks.MockMessagePublisher
}

func newTestReviewService() (*ReviewService, *reviewMocks) {
	m := &reviewMocks{
		users:     new(mocks.MockUserRepository),
		places:    new(mocks.MockPlaceRepository),
		reviews:   new(mocks.MockReviewRepository),
		images:    new(mocks.MockReviewImageRepository),
		publisher: &mocks.MockMessagePublisher{Messages: make([][]byte, 0)},
	}
	m.tx = &mocks.MockTxManager{Repos: repository.Repositories{
		Users:   m.users,
		Places:  m.places,
		Reviews: m.reviews,
		Images:  m.images,
	}}

	return NewReviewService(m.reviews, m.tx, m.publisher), m
}

// ===================== Create Tests =====================

func TestReviewCreate_Success(t *testing.T) {
	// Arrange
	s, m := newTestReviewService()
	ctx := context.Background()
	userID, placeID := uuid.New(), uuid.New()
	req := &entity.CreateReviewRequest{
		Content:         "Great view",
		UserID:          userID,
		PlaceID:         placeID,
		ReviewImageURLs: []string{"https://img.example.com/1.jpg", "https://img.example.com/1.jpg"},
	}

	m.tx.On("WithinTransaction", ctx).Return(nil)
	m.users.On("GetByID", ctx, userID).Return(&entity.User{ID: userID}, nil)
	m.places.On("GetByID", ctx, placeID).Return(&entity.Place{ID: placeID}, nil)
	m.reviews.On("FindByUserAndPlace", ctx, userID, placeID).Return(nil, repository.ErrReviewNotFound)
	m.reviews.On("Create", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	m.images.On("FindReusable", ctx, "https://img.example.com/1.jpg", mock.AnythingOfType("uuid.UUID")).Return(nil, repository.ErrImageNotFound).Once()
	m.images.On("Create", ctx, mock.AnythingOfType("*entity.ReviewImage")).Return(nil).Once()
	m.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	// Act
	event, err := s.Create(ctx, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.ActionAdd, event.Action)
	assert.Equal(t, entity.PointTypeReview, event.Type)
	assert.Equal(t, userID, event.UserID)
	assert.Equal(t, placeID, event.PlaceID)
	assert.Len(t, event.AttachedPhotoIDs, 1)

	require.Len(t, m.publisher.Messages, 1)
	var published entity.ReviewEvent
	require.NoError(t, json.Unmarshal(m.publisher.Messages[0], &published))
	assert.Equal(t, event.ReviewID, published.ReviewID)
	m.publisher.AssertCalled(t, "PublishMessage", ctx, event.ReviewID.String(), mock.Anything)
	m.tx.AssertExpectations(t)
	m.images.AssertExpectations(t)
}

func TestReviewCreate_RestoresDeletedImage(t *testing.T) {
	// Arrange
	s, m := newTestReviewService()
	ctx := context.Background()
	userID, placeID := uuid.New(), uuid.New()
	existing := &entity.ReviewImage{
		ID:        uuid.New(),
		URL:       "https://img.example.com/a.png",
		ReviewID:  uuid.New(),
		DeletedAt: gorm.DeletedAt{Time: time.Now(), Valid: true},
	}
	req := &entity.CreateReviewRequest{
		Content:         "Nice",
		UserID:          userID,
		PlaceID:         placeID,
		ReviewImageURLs: []string{existing.URL},
	}

	m.tx.On("WithinTransaction", ctx).Return(nil)
	m.users.On("GetByID", ctx, userID).Return(&entity.User{ID: userID}, nil)
	m.places.On("GetByID", ctx, placeID).Return(&entity.Place{ID: placeID}, nil)
	m.reviews.On("FindByUserAndPlace", ctx, userID, placeID).Return(nil, repository.ErrReviewNotFound)
	m.reviews.On("Create", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	m.images.On("FindReusable", ctx, existing.URL, mock.AnythingOfType("uuid.UUID")).Return(existing, nil)
	m.images.On("AttachToReview", ctx, existing.ID, mock.AnythingOfType("uuid.UUID")).Return(nil)
	m.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	// Act
	event, err := s.Create(ctx, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{existing.ID}, event.AttachedPhotoIDs)
	assert.False(t, existing.DeletedAt.Valid)
	m.images.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReviewCreate_ImageOfAnotherReviewIsNotMoved(t *testing.T) {
	// Arrange
	s, m := newTestReviewService()
	ctx := context.Background()
	userID, placeID := uuid.New(), uuid.New()
	url := "https://img.example.com/shared.png"
	req := &entity.CreateReviewRequest{
		Content:         "Same photo",
		UserID:          userID,
		PlaceID:         placeID,
		ReviewImageURLs: []string{url},
	}

	m.tx.On("WithinTransaction", ctx).Return(nil)
	m.users.On("GetByID", ctx, userID).Return(&entity.User{ID: userID}, nil)
	m.places.On("GetByID", ctx, placeID).Return(&entity.Place{ID: placeID}, nil)
	m.reviews.On("FindByUserAndPlace", ctx, userID, placeID).Return(nil, repository.ErrReviewNotFound)
	m.reviews.On("Create", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	// Живое фото чужого отзыва не считается переиспользуемым
	m.images.On("FindReusable", ctx, url, mock.AnythingOfType("uuid.UUID")).Return(nil, repository.ErrImageNotFound)
	m.images.On("Create", ctx, mock.AnythingOfType("*entity.ReviewImage")).Return(nil)
	m.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	// Act
	event, err := s.Create(ctx, req)

	// Assert
	require.NoError(t, err)
	require.Len(t, event.AttachedPhotoIDs, 1)
	m.images.AssertNotCalled(t, "AttachToReview", mock.Anything, mock.Anything, mock.Anything)
	m.images.AssertExpectations(t)
}

func TestReviewCreate_AlreadyExists(t *testing.T) {
	// Arrange
	s, m := newTestReviewService()
	ctx := context.Background()
	userID, placeID := uuid.New(), uuid.New()
	req := &entity.CreateReviewRequest{Content: "Again", UserID: userID, PlaceID: placeID}

	m.tx.On("WithinTransaction", ctx).Return(nil)
	m.users.On("GetByID", ctx, userID).Return(&entity.User{ID: userID}, nil)
	m.places.On("GetByID", ctx, placeID).Return(&entity.Place{ID: placeID}, nil)
	m.reviews.On("FindByUserAndPlace", ctx, userID, placeID).Return(&entity.Review{ID: uuid.New()}, nil)

	// Act
	event, err := s.Create(ctx, req)

	// Assert
	assert.ErrorIs(t, err, ErrReviewAlreadyExists)
	assert.Nil(t, event)
	m.reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.publisher.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewCreate_PlaceNotFound(t *testing.T) {
	// Arrange
	s, m := newTestReviewService()
	ctx := context.Background()
	userID, placeID := uuid.New(), uuid.New()
	req := &entity.CreateReviewRequest{Content: "Hmm", UserID: userID, PlaceID: placeID}

	m.tx.On("WithinTransaction", ctx).Return(nil)
	m.users.On("GetByID", ctx, userID).Return(&entity.User{ID: userID}, nil)
	m.places.On("GetByID", ctx, placeID).Return(nil, repository.ErrPlaceNotFound)

	// Act
	_, err := s.Create(ctx, req)

	// Assert
	assert.ErrorIs(t, err, ErrPlaceNotFound)
}

func TestReviewCreate_PublishErrorIgnored(t *testing.T) {
	// Arrange
	s, m := newTestReviewService()
	ctx := context.Background()
	userID, placeID := uuid.New(), uuid.New()
	req := &entity.CreateReviewRequest{Content: "Fine", UserID: userID, PlaceID: placeID}

	m.tx.On("WithinTransaction", ctx).Return(nil)
	m.users.On("GetByID", ctx, userID).Return(&entity.User{ID: userID}, nil)
	m.places.On("GetByID", ctx, placeID).Return(&entity.Place{ID: placeID}, nil)
	m.reviews.On("FindByUserAndPlace", ctx, userID, placeID).Return(nil, repository.ErrReviewNotFound)
	m.reviews.On("Create", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	m.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(errors.New("kafka error"))

	// Act
	event, err := s.Create(ctx, req)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, event.AttachedPhotoIDs)
}

func TestReviewCreate_WithoutPublisher(t *testing.T) {
	// Arrange
	reviews := new(mocks.MockReviewRepository)
	users := new(mocks.MockUserRepository)
	places := new(mocks.MockPlaceRepository)
	tx := &mocks.MockTxManager{Repos: repository.Repositories{Users: users, Places: places, Reviews: reviews}}
	s := NewReviewService(reviews, tx, nil)

	ctx := context.Background()
	userID, placeID := uuid.New(), uuid.New()

	tx.On("WithinTransaction", ctx).Return(nil)
	users.On("GetByID", ctx, userID).Return(&entity.User{ID: userID}, nil)
	places.On("GetByID", ctx, placeID).Return(&entity.Place{ID: placeID}, nil)
	reviews.On("FindByUserAndPlace", ctx, userID, placeID).Return(nil, repository.ErrReviewNotFound)
	reviews.On("Create", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)

	// Act
	event, err := s.Create(ctx, &entity.CreateReviewRequest{Content: "Quiet", UserID: userID, PlaceID: placeID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.ActionAdd, event.Action)
}

// ===================== Update Tests =====================

func TestReviewUpdate_ReplacesImages(t *testing.T) {
	// Arrange
	s, m := newTestReviewService()
	ctx := context.Background()
	keep := entity.ReviewImage{ID: uuid.New(), URL: "https://img.example.com/keep.jpg"}
	drop := entity.ReviewImage{ID: uuid.New(), URL: "https://img.example.com/drop.jpg"}
	review := &entity.Review{
		ID:      uuid.New(),
		Content: "Old",
		UserID:  uuid.New(),
		PlaceID: uuid.New(),
		Images:  []entity.ReviewImage{keep, drop},
	}
	newURL := "https://img.example.com/new.jpg"
	req := &entity.UpdateReviewRequest{Content: "New", ReviewImageURLs: []string{keep.URL, newURL}}

	m.tx.On("WithinTransaction", ctx).Return(nil)
	m.reviews.On("GetByID", ctx, review.ID).Return(review, nil)
	m.reviews.On("UpdateContent", ctx, review.ID, "New").Return(nil)
	m.images.On("SoftDeleteByIDs", ctx, []uuid.UUID{drop.ID}).Return(nil)
	m.images.On("FindReusable", ctx, newURL, review.ID).Return(nil, repository.ErrImageNotFound)
	m.images.On("Create", ctx, mock.AnythingOfType("*entity.ReviewImage")).Return(nil)
	m.publisher.On("PublishMessage", ctx, review.ID.String(), mock.Anything).Return(nil)

	// Act
	event, err := s.Update(ctx, review.ID, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.ActionMod, event.Action)
	assert.Equal(t, "New", event.Content)
	require.Len(t, event.AttachedPhotoIDs, 2)
	assert.Equal(t, keep.ID, event.AttachedPhotoIDs[0])
	m.images.AssertExpectations(t)
	m.reviews.AssertExpectations(t)
}

func TestReviewUpdate_NilImagesKeepPhotos(t *testing.T) {
	// Arrange
	s, m := newTestReviewService()
	ctx := context.Background()
	img := entity.ReviewImage{ID: uuid.New(), URL: "https://img.example.com/1.jpg"}
	review := &entity.Review{ID: uuid.New(), Content: "Same", Images: []entity.ReviewImage{img}}

	m.tx.On("WithinTransaction", ctx).Return(nil)
	m.reviews.On("GetByID", ctx, review.ID).Return(review, nil)
	m.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	// Act
	event, err := s.Update(ctx, review.ID, &entity.UpdateReviewRequest{Content: "Same"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{img.ID}, event.AttachedPhotoIDs)
	m.reviews.AssertNotCalled(t, "UpdateContent", mock.Anything, mock.Anything, mock.Anything)
	m.images.AssertNotCalled(t, "SoftDeleteByIDs", mock.Anything, mock.Anything)
}

func TestReviewUpdate_EmptyImagesRemoveAll(t *testing.T) {
	// Arrange
	s, m := newTestReviewService()
	ctx := context.Background()
	img := entity.ReviewImage{ID: uuid.New(), URL: "https://img.example.com/1.jpg"}
	review := &entity.Review{ID: uuid.New(), Content: "Text", Images: []entity.ReviewImage{img}}

	m.tx.On("WithinTransaction", ctx).Return(nil)
	m.reviews.On("GetByID", ctx, review.ID).Return(review, nil)
	m.images.On("SoftDeleteByIDs", ctx, []uuid.UUID{img.ID}).Return(nil)
	m.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	// Act
	event, err := s.Update(ctx, review.ID, &entity.UpdateReviewRequest{ReviewImageURLs: []string{}})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, event.AttachedPhotoIDs)
}

func TestReviewUpdate_NotFound(t *testing.T) {
	// Arrange
	s, m := newTestReviewService()
	ctx := context.Background()
	reviewID := uuid.New()

	m.tx.On("WithinTransaction", ctx).Return(nil)
	m.reviews.On("GetByID", ctx, reviewID).Return(nil, repository.ErrReviewNotFound)

	// Act
	event, err := s.Update(ctx, reviewID, &entity.UpdateReviewRequest{Content: "x"})

	// Assert
	assert.ErrorIs(t, err, ErrReviewNotFound)
	assert.Nil(t, event)
}

// ===================== Delete Tests =====================

func TestReviewDelete_Success(t *testing.T) {
	// Arrange
	s, m := newTestReviewService()
	ctx := context.Background()
	img := entity.ReviewImage{ID: uuid.New()}
	review := &entity.Review{ID: uuid.New(), UserID: uuid.New(), PlaceID: uuid.New(), Images: []entity.ReviewImage{img}}

	m.reviews.On("GetByID", ctx, review.ID).Return(review, nil)
	m.reviews.On("SoftDelete", ctx, review.ID).Return(nil)
	m.publisher.On("PublishMessage", ctx, review.ID.String(), mock.Anything).Return(nil)

	// Act
	event, err := s.Delete(ctx, review.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.ActionDelete, event.Action)
	assert.Equal(t, []uuid.UUID{img.ID}, event.AttachedPhotoIDs)
	m.tx.AssertNotCalled(t, "WithinTransaction", mock.Anything)
}

func TestReviewDelete_NotFound(t *testing.T) {
	// Arrange
	s, m := newTestReviewService()
	ctx := context.Background()
	reviewID := uuid.New()

	m.reviews.On("GetByID", ctx, reviewID).Return(nil, repository.ErrReviewNotFound)

	// Act
	_, err := s.Delete(ctx, reviewID)

	// Assert
	assert.ErrorIs(t, err, ErrReviewNotFound)
	m.reviews.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

// ===================== Read Tests =====================

func TestReviewListByUser(t *testing.T) {
	// Arrange
	s, m := newTestReviewService()
	ctx := context.Background()
	userID := uuid.New()
	m.reviews.On("ListByUser", ctx, userID).Return([]entity.Review{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	// Act
	result, err := s.ListByUser(ctx, userID)

	// Assert
	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestUniqueURLs(t *testing.T) {
	got := uniqueURLs([]string{" https://a ", "https://b", "https://a", ""})
	assert.Equal(t, []string{"https://a", "https://b"}, got)
}
