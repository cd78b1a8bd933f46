package service

import (
	"fmt"

	"triple/points-service/internal/app/points/entity"
)

// reviewState - состояние отзыва, восстановленное по последней записи леджера
type reviewState int

const (
	stateUnknown reviewState = iota
	stateNoPhoto
	stateHasPhoto
	stateFirstPlaceBonus
	stateDeleted
)

func (s reviewState) String() string {
	switch s {
	case stateNoPhoto:
		return "no_photo"
	case stateHasPhoto:
		return "has_photo"
	case stateFirstPlaceBonus:
		return "first_place_bonus"
	case stateDeleted:
		return "deleted"
	}
	return "unknown"
}

var reasonStates = map[entity.PointReason]reviewState{
	entity.ReasonReviewAdd:              stateNoPhoto,
	entity.ReasonReviewModDeletePhoto:   stateNoPhoto,
	entity.ReasonReviewAddWithPhoto:     stateHasPhoto,
	entity.ReasonReviewModAddPhoto:      stateHasPhoto,
	entity.ReasonReviewAddFirstPlace:    stateFirstPlaceBonus,
	entity.ReasonReviewDelete:           stateDeleted,
	entity.ReasonReviewDeleteWithPhoto:  stateDeleted,
	entity.ReasonReviewDeleteFirstPlace: stateDeleted,
}

func stateOf(reason entity.PointReason) reviewState {
	if state, ok := reasonStates[reason]; ok {
		return state
	}
	return stateUnknown
}

// pointDelta - одно начисление или списание, которое нужно записать
type pointDelta struct {
	Score  int
	Reason entity.PointReason
}

// scoreAdd: 1 балл за текст, 2 за текст с фото и +1 за первый отзыв места
func scoreAdd(hasPhotos, firstForPlace bool) []pointDelta {
	primary := pointDelta{Score: 1, Reason: entity.ReasonReviewAdd}
	if hasPhotos {
		primary = pointDelta{Score: 2, Reason: entity.ReasonReviewAddWithPhoto}
	}

	deltas := []pointDelta{primary}
	if firstForPlace {
		deltas = append(deltas, pointDelta{Score: 1, Reason: entity.ReasonReviewAddFirstPlace})
	}
	return deltas
}

// scoreModify учитывает только смену наличия фото. history - новые записи первыми.
// nil без ошибки означает, что начислять нечего: фото не менялись,
// отзыв уже удален или последняя запись не относится к фото.
func scoreModify(history []entity.Point, hasPhotos bool) (*pointDelta, error) {
	head, err := photoStateHead(history)
	if err != nil {
		return nil, err
	}

	switch stateOf(head.Reason) {
	case stateHasPhoto:
		if !hasPhotos {
			return &pointDelta{Score: -1, Reason: entity.ReasonReviewModDeletePhoto}, nil
		}
	case stateNoPhoto:
		if hasPhotos {
			return &pointDelta{Score: 1, Reason: entity.ReasonReviewModAddPhoto}, nil
		}
	}

	return nil, nil
}

// scoreDelete возвращает основное списание и, если был бонус за первый отзыв, его отмену.
// all - все баллы отзыва, по ним ищется бонус, который уже не на вершине истории.
func scoreDelete(history []entity.Point, all []entity.Point) ([]pointDelta, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: review has no points to revoke", ErrInvalidState)
	}

	head := history[0]

	if stateOf(head.Reason) == stateFirstPlaceBonus {
		if len(history) < 2 {
			return nil, fmt.Errorf("%w: first place bonus without primary point", ErrInvalidState)
		}
		reason, err := deleteReasonFor(stateOf(history[1].Reason))
		if err != nil {
			return nil, err
		}
		return []pointDelta{
			{Score: -history[1].Score, Reason: reason},
			{Score: -1, Reason: entity.ReasonReviewDeleteFirstPlace},
		}, nil
	}

	var primary pointDelta
	switch stateOf(head.Reason) {
	case stateHasPhoto:
		primary = pointDelta{Score: -2, Reason: entity.ReasonReviewDeleteWithPhoto}
	case stateNoPhoto:
		primary = pointDelta{Score: -1, Reason: entity.ReasonReviewDelete}
	default:
		return nil, fmt.Errorf("%w: cannot delete review in state %s", ErrInvalidState, stateOf(head.Reason))
	}

	deltas := []pointDelta{primary}
	if hasFirstPlaceBonus(all) {
		deltas = append(deltas, pointDelta{Score: -1, Reason: entity.ReasonReviewDeleteFirstPlace})
	}
	return deltas, nil
}

// photoStateHead пропускает бонус за первый отзыв на вершине истории
func photoStateHead(history []entity.Point) (entity.Point, error) {
	if len(history) == 0 {
		return entity.Point{}, fmt.Errorf("%w: review has no points", ErrInvalidState)
	}

	if stateOf(history[0].Reason) == stateFirstPlaceBonus {
		if len(history) < 2 {
			return entity.Point{}, fmt.Errorf("%w: first place bonus without primary point", ErrInvalidState)
		}
		return history[1], nil
	}
	return history[0], nil
}

func deleteReasonFor(state reviewState) (entity.PointReason, error) {
	switch state {
	case stateHasPhoto:
		return entity.ReasonReviewDeleteWithPhoto, nil
	case stateNoPhoto:
		return entity.ReasonReviewDelete, nil
	}
	return "", fmt.Errorf("%w: cannot delete review in state %s", ErrInvalidState, state)
}

func hasFirstPlaceBonus(points []entity.Point) bool {
	for _, p := range points {
		if p.Reason == entity.ReasonReviewAddFirstPlace {
			return true
		}
	}
	return false
}
