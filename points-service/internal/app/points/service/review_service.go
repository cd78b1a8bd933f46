package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"triple/pkg/logger"
	"triple/pkg/metrics"
	"triple/points-service/internal/app/points/entity"
	"triple/points-service/internal/app/points/infrastructure"
	"triple/points-service/internal/app/points/repository"

	"github.com/google/uuid"
)

// ReviewService управляет отзывами и после каждого изменения
// публикует событие ADD/MOD/DELETE для начисления баллов
type ReviewService struct {
	reviews   repository.ReviewRepository
	txManager repository.TxManager
	publisher infrastructure.MessagePublisher
}

// NewReviewService создает сервис отзывов. publisher может быть nil,
// тогда события только возвращаются вызывающему.
func NewReviewService(
	reviews repository.ReviewRepository,
	txManager repository.TxManager,
	publisher infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviews:   reviews,
		txManager: txManager,
		publisher: publisher,
	}
}

// Create создает отзыв с фото. Один пользователь пишет не больше
// одного отзыва на место.
func (s *ReviewService) Create(ctx context.Context, req *entity.CreateReviewRequest) (*entity.ReviewEvent, error) {
	var review *entity.Review

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Users.GetByID(ctx, req.UserID); err != nil {
			return err
		}
		if _, err := repos.Places.GetByID(ctx, req.PlaceID); err != nil {
			return err
		}

		_, err := repos.Reviews.FindByUserAndPlace(ctx, req.UserID, req.PlaceID)
		if err == nil {
			return ErrReviewAlreadyExists
		}
		if !errors.Is(err, repository.ErrReviewNotFound) {
			return err
		}

		review = &entity.Review{
			ID:      uuid.New(),
			Content: req.Content,
			UserID:  req.UserID,
			PlaceID: req.PlaceID,
		}
		if err := repos.Reviews.Create(ctx, review); err != nil {
			return err
		}

		images, err := attachImages(ctx, repos.Images, review.ID, uniqueURLs(req.ReviewImageURLs))
		if err != nil {
			return err
		}
		review.Images = images
		return nil
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return s.emit(ctx, entity.ActionAdd, review), nil
}

// Update заменяет текст и, если передан список URL, набор фото
func (s *ReviewService) Update(ctx context.Context, reviewID uuid.UUID, req *entity.UpdateReviewRequest) (*entity.ReviewEvent, error) {
	var review *entity.Review

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		review, err = repos.Reviews.GetByID(ctx, reviewID)
		if err != nil {
			return err
		}

		if req.Content != "" && req.Content != review.Content {
			if err := repos.Reviews.UpdateContent(ctx, review.ID, req.Content); err != nil {
				return err
			}
			review.Content = req.Content
		}

		if req.ReviewImageURLs == nil {
			return nil
		}

		images, err := replaceImages(ctx, repos.Images, review, uniqueURLs(req.ReviewImageURLs))
		if err != nil {
			return err
		}
		review.Images = images
		return nil
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return s.emit(ctx, entity.ActionMod, review), nil
}

// Delete мягко удаляет отзыв. Событие несет фото на момент удаления.
func (s *ReviewService) Delete(ctx context.Context, reviewID uuid.UUID) (*entity.ReviewEvent, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if err := s.reviews.SoftDelete(ctx, review.ID); err != nil {
		return nil, mapRepositoryError(err)
	}

	return s.emit(ctx, entity.ActionDelete, review), nil
}

func (s *ReviewService) Get(ctx context.Context, reviewID uuid.UUID) (*entity.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return review, nil
}

func (s *ReviewService) List(ctx context.Context) ([]entity.Review, error) {
	return s.reviews.List(ctx)
}

func (s *ReviewService) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Review, error) {
	return s.reviews.ListByUser(ctx, userID)
}

// emit строит событие и публикует его. Ошибка публикации не отменяет изменение отзыва.
func (s *ReviewService) emit(ctx context.Context, action entity.EventAction, review *entity.Review) *entity.ReviewEvent {
	event := &entity.ReviewEvent{
		Type:             entity.PointTypeReview,
		Action:           action,
		ReviewID:         review.ID,
		Content:          review.Content,
		AttachedPhotoIDs: review.PhotoIDs(),
		UserID:           review.UserID,
		PlaceID:          review.PlaceID,
	}

	metrics.ReviewsWritten.WithLabelValues(string(action)).Inc()

	if s.publisher == nil {
		return event
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.FromContext(ctx).Error().Err(err).Msg("Failed to marshal review event")
		return event
	}

	if err := s.publisher.PublishMessage(ctx, review.ID.String(), data); err != nil {
		logger.FromContext(ctx).Warn().
			Err(err).
			Str("review_id", review.ID.String()).
			Str("action", string(action)).
			Msg("Failed to publish review event")
	}

	return event
}

// attachImages переиспользует свои или удаленные фото с тем же URL.
// Фото другого живого отзыва не переносится, для него создается новая запись.
func attachImages(ctx context.Context, images repository.ReviewImageRepository, reviewID uuid.UUID, urls []string) ([]entity.ReviewImage, error) {
	result := make([]entity.ReviewImage, 0, len(urls))

	for _, url := range urls {
		existing, err := images.FindReusable(ctx, url, reviewID)
		switch {
		case err == nil:
			if existing.ReviewID != reviewID || existing.DeletedAt.Valid {
				if err := images.AttachToReview(ctx, existing.ID, reviewID); err != nil {
					return nil, err
				}
				existing.ReviewID = reviewID
				existing.DeletedAt.Valid = false
			}
			result = append(result, *existing)
		case errors.Is(err, repository.ErrImageNotFound):
			image := entity.ReviewImage{ID: uuid.New(), URL: url, ReviewID: reviewID}
			if err := images.Create(ctx, &image); err != nil {
				return nil, err
			}
			result = append(result, image)
		default:
			return nil, fmt.Errorf("failed to look up review image: %w", err)
		}
	}

	return result, nil
}

// replaceImages оставляет фото из urls, остальные мягко удаляет
func replaceImages(ctx context.Context, images repository.ReviewImageRepository, review *entity.Review, urls []string) ([]entity.ReviewImage, error) {
	wanted := make(map[string]bool, len(urls))
	for _, url := range urls {
		wanted[url] = true
	}

	kept := make(map[string]entity.ReviewImage, len(review.Images))
	var removed []uuid.UUID
	for _, img := range review.Images {
		if wanted[img.URL] {
			kept[img.URL] = img
		} else {
			removed = append(removed, img.ID)
		}
	}

	if len(removed) > 0 {
		if err := images.SoftDeleteByIDs(ctx, removed); err != nil {
			return nil, err
		}
	}

	var missing []string
	for _, url := range urls {
		if _, ok := kept[url]; !ok {
			missing = append(missing, url)
		}
	}

	added, err := attachImages(ctx, images, review.ID, missing)
	if err != nil {
		return nil, err
	}
	for _, img := range added {
		kept[img.URL] = img
	}

	result := make([]entity.ReviewImage, 0, len(urls))
	for _, url := range urls {
		result = append(result, kept[url])
	}
	return result, nil
}

func uniqueURLs(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		out = append(out, url)
	}
	return out
}
