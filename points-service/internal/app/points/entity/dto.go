package entity

import (
	"github.com/google/uuid"
)

// ReviewEvent - событие жизненного цикла отзыва. Приходит через POST /events
// или из топика review_events, публикуется сервисом отзывов.
type ReviewEvent struct {
	Type             PointType   `json:"type" validate:"required,oneof=REVIEW"`
	Action           EventAction `json:"action" validate:"required,oneof=ADD MOD DELETE"`
	ReviewID         uuid.UUID   `json:"reviewId" validate:"required"`
	Content          string      `json:"content"`
	AttachedPhotoIDs []uuid.UUID `json:"attachedPhotoIds"`
	UserID           uuid.UUID   `json:"userId" validate:"required"`
	PlaceID          uuid.UUID   `json:"placeId" validate:"required"`
}

// HasPhotos - положительный балл за фото дается при хотя бы одном вложении
func (e *ReviewEvent) HasPhotos() bool {
	return len(e.AttachedPhotoIDs) > 0
}

// EventResponse - формат ответа POST /events
type EventResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    EventResultData `json:"data"`
}

// EventResultData.Result - список баллов для ADD/DELETE и один балл или null для MOD
type EventResultData struct {
	Result interface{} `json:"result"`
}

// UserTotalPoint - суммарные баллы пользователя
type UserTotalPoint struct {
	User       *User `json:"user"`
	TotalPoint int64 `json:"totalPoint"`
}

// CreateReviewRequest - запрос на создание отзыва
type CreateReviewRequest struct {
	Content         string    `json:"content" validate:"required,min=1"`
	UserID          uuid.UUID `json:"userId" validate:"required"`
	PlaceID         uuid.UUID `json:"placeId" validate:"required"`
	ReviewImageURLs []string  `json:"reviewImageUrls" validate:"omitempty,dive,required,url"`
}

// UpdateReviewRequest - nil ReviewImageURLs оставляет фото без изменений,
// пустой список удаляет все фото
type UpdateReviewRequest struct {
	Content         string   `json:"content" validate:"omitempty,min=1"`
	ReviewImageURLs []string `json:"reviewImageUrls" validate:"omitempty,dive,required,url"`
}

// CreateUserRequest - регистрация пользователя
type CreateUserRequest struct {
	NickName string `json:"nickName" validate:"required,min=1,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=30,password_charset"`
}

type UpdateUserRequest struct {
	NickName string `json:"nickName" validate:"required,min=1,max=50"`
}

type CreatePlaceRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
