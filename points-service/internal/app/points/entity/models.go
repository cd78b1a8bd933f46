package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PointType - источник начисления. Пока баллы дают только за отзывы.
type PointType string

const PointTypeReview PointType = "REVIEW"

// EventAction - действие над отзывом, которое порождает событие
type EventAction string

const (
	ActionAdd    EventAction = "ADD"
	ActionMod    EventAction = "MOD"
	ActionDelete EventAction = "DELETE"
)

// PointReason - причина начисления или списания
type PointReason string

const (
	ReasonReviewAdd              PointReason = "REVIEW_ADD"
	ReasonReviewAddWithPhoto     PointReason = "REVIEW_ADD_with_PHOTO"
	ReasonReviewAddFirstPlace    PointReason = "REVIEW_ADD_FIRST_PLACE"
	ReasonReviewModAddPhoto      PointReason = "REVIEW_MOD_ADD_PHOTO"
	ReasonReviewModDeletePhoto   PointReason = "REVIEW_MOD_DELETE_PHOTO"
	ReasonReviewDelete           PointReason = "REVIEW_DELETE"
	ReasonReviewDeleteWithPhoto  PointReason = "REVIEW_DELETE_with_PHOTO"
	ReasonReviewDeleteFirstPlace PointReason = "REVIEW_DELETE_FIRST_PLACE"
)

// DefaultUserLevel - уровень нового пользователя
const DefaultUserLevel = 1

// User - автор отзывов. Level всегда выводится из суммы баллов.
type User struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Email     string         `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	NickName  string         `json:"nickName" gorm:"column:nick_name;type:varchar(50);not null"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"` // bcrypt хэш
	Level     int            `json:"level" gorm:"not null;default:1"`
	CreatedAt time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// Place - место, на которое пишут отзывы
type Place struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	Reviews   []Review  `json:"reviews,omitempty" gorm:"foreignKey:PlaceID"`
}

func (Place) TableName() string {
	return "places"
}

// Review удаляется мягко: баллы продолжают ссылаться на удаленный отзыв
type Review struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	UserID    uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	PlaceID   uuid.UUID      `json:"placeId" gorm:"type:uuid;not null;index:idx_reviews_place_created,priority:1"`
	CreatedAt time.Time      `json:"createdAt" gorm:"autoCreateTime;index:idx_reviews_place_created,priority:2"`
	UpdatedAt time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
	User      *User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Place     *Place         `json:"place,omitempty" gorm:"foreignKey:PlaceID"`
	Images    []ReviewImage  `json:"reviewImages,omitempty" gorm:"foreignKey:ReviewID"`
	Points    []Point        `json:"points,omitempty" gorm:"foreignKey:ReviewID"`
}

func (Review) TableName() string {
	return "reviews"
}

// PhotoIDs возвращает идентификаторы прикрепленных фото
func (r *Review) PhotoIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Images))
	for _, img := range r.Images {
		ids = append(ids, img.ID)
	}
	return ids
}

type ReviewImage struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	URL       string         `json:"url" gorm:"type:varchar(2048);not null;index"`
	ReviewID  uuid.UUID      `json:"reviewId" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (ReviewImage) TableName() string {
	return "review_images"
}

// Point - неизменяемая запись леджера. Не обновляется и не удаляется.
// Seq упорядочивает записи одной транзакции с одинаковым created_at.
type Point struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	Seq       int64       `json:"-" gorm:"autoIncrement;not null;uniqueIndex"`
	Type      PointType   `json:"type" gorm:"type:varchar(20);not null;default:'REVIEW'"`
	Action    EventAction `json:"action" gorm:"type:varchar(10);not null"`
	Reason    PointReason `json:"reason" gorm:"type:varchar(40);not null"`
	Score     int         `json:"score" gorm:"not null"`
	UserID    uuid.UUID   `json:"userId" gorm:"type:uuid;not null;index"`
	ReviewID  uuid.UUID   `json:"reviewId" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time   `json:"createdAt" gorm:"autoCreateTime"`
}

func (Point) TableName() string {
	return "points"
}
