package service

import (
	"testing"

	"triple/points-service/internal/app/points/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func history(reasons ...entity.PointReason) []entity.Point {
	points := make([]entity.Point, 0, len(reasons))
	for _, r := range reasons {
		points = append(points, entity.Point{Reason: r, Score: scoreOf(r)})
	}
	return points
}

func scoreOf(reason entity.PointReason) int {
	switch reason {
	case entity.ReasonReviewAddWithPhoto:
		return 2
	case entity.ReasonReviewAdd, entity.ReasonReviewAddFirstPlace, entity.ReasonReviewModAddPhoto:
		return 1
	case entity.ReasonReviewDeleteWithPhoto:
		return -2
	}
	return -1
}

func TestScoreAdd(t *testing.T) {
	tests := []struct {
		name      string
		hasPhotos bool
		first     bool
		want      []pointDelta
	}{
		{
			name: "text only",
			want: []pointDelta{{Score: 1, Reason: entity.ReasonReviewAdd}},
		},
		{
			name:      "with photo",
			hasPhotos: true,
			want:      []pointDelta{{Score: 2, Reason: entity.ReasonReviewAddWithPhoto}},
		},
		{
			name:  "first for place",
			first: true,
			want: []pointDelta{
				{Score: 1, Reason: entity.ReasonReviewAdd},
				{Score: 1, Reason: entity.ReasonReviewAddFirstPlace},
			},
		},
		{
			name:      "with photo and first for place",
			hasPhotos: true,
			first:     true,
			want: []pointDelta{
				{Score: 2, Reason: entity.ReasonReviewAddWithPhoto},
				{Score: 1, Reason: entity.ReasonReviewAddFirstPlace},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreAdd(tt.hasPhotos, tt.first))
		})
	}
}

func TestScoreModify(t *testing.T) {
	tests := []struct {
		name      string
		history   []entity.Point
		hasPhotos bool
		want      *pointDelta
		wantErr   bool
	}{
		{
			name:      "photo added to text review",
			history:   history(entity.ReasonReviewAdd),
			hasPhotos: true,
			want:      &pointDelta{Score: 1, Reason: entity.ReasonReviewModAddPhoto},
		},
		{
			name:    "photo removed",
			history: history(entity.ReasonReviewAddWithPhoto),
			want:    &pointDelta{Score: -1, Reason: entity.ReasonReviewModDeletePhoto},
		},
		{
			name:      "photos kept",
			history:   history(entity.ReasonReviewModAddPhoto, entity.ReasonReviewAdd),
			hasPhotos: true,
		},
		{
			name:    "still no photos",
			history: history(entity.ReasonReviewModDeletePhoto, entity.ReasonReviewAddWithPhoto),
		},
		{
			name:      "first place bonus on top is skipped",
			history:   history(entity.ReasonReviewAddFirstPlace, entity.ReasonReviewAdd),
			hasPhotos: true,
			want:      &pointDelta{Score: 1, Reason: entity.ReasonReviewModAddPhoto},
		},
		{
			name:      "deleted review",
			history:   history(entity.ReasonReviewDelete, entity.ReasonReviewAdd),
			hasPhotos: true,
		},
		{
			name:    "deleted review with first place bonus",
			history: history(entity.ReasonReviewDeleteFirstPlace, entity.ReasonReviewDeleteWithPhoto, entity.ReasonReviewAddFirstPlace, entity.ReasonReviewAddWithPhoto),
		},
		{
			name:    "empty history",
			wantErr: true,
		},
		{
			name:      "unknown reason",
			history:   []entity.Point{{Reason: "SOMETHING_ELSE"}},
			hasPhotos: true,
		},
		{
			name:    "lonely first place bonus",
			history: history(entity.ReasonReviewAddFirstPlace),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scoreModify(tt.history, tt.hasPhotos)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidState)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreDelete(t *testing.T) {
	tests := []struct {
		name    string
		history []entity.Point
		want    []pointDelta
		wantErr bool
	}{
		{
			name:    "text review",
			history: history(entity.ReasonReviewAdd),
			want:    []pointDelta{{Score: -1, Reason: entity.ReasonReviewDelete}},
		},
		{
			name:    "review with photo",
			history: history(entity.ReasonReviewAddWithPhoto),
			want:    []pointDelta{{Score: -2, Reason: entity.ReasonReviewDeleteWithPhoto}},
		},
		{
			name:    "photo added later",
			history: history(entity.ReasonReviewModAddPhoto, entity.ReasonReviewAdd),
			want:    []pointDelta{{Score: -2, Reason: entity.ReasonReviewDeleteWithPhoto}},
		},
		{
			name:    "first place bonus on top",
			history: history(entity.ReasonReviewAddFirstPlace, entity.ReasonReviewAddWithPhoto),
			want: []pointDelta{
				{Score: -2, Reason: entity.ReasonReviewDeleteWithPhoto},
				{Score: -1, Reason: entity.ReasonReviewDeleteFirstPlace},
			},
		},
		{
			name: "first place bonus deeper in history",
			history: history(
				entity.ReasonReviewModDeletePhoto,
				entity.ReasonReviewAddFirstPlace,
				entity.ReasonReviewAddWithPhoto,
			),
			want: []pointDelta{
				{Score: -1, Reason: entity.ReasonReviewDelete},
				{Score: -1, Reason: entity.ReasonReviewDeleteFirstPlace},
			},
		},
		{
			name:    "already deleted",
			history: history(entity.ReasonReviewDeleteWithPhoto, entity.ReasonReviewAddWithPhoto),
			wantErr: true,
		},
		{
			name:    "no points",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scoreDelete(tt.history, tt.history)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidState)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Сумма баллов отзыва после удаления всегда нулевая
func TestScoreDelete_RevokesEverything(t *testing.T) {
	histories := [][]entity.Point{
		history(entity.ReasonReviewAdd),
		history(entity.ReasonReviewAddFirstPlace, entity.ReasonReviewAddWithPhoto),
		history(entity.ReasonReviewModAddPhoto, entity.ReasonReviewAddFirstPlace, entity.ReasonReviewAdd),
		history(
			entity.ReasonReviewModDeletePhoto,
			entity.ReasonReviewModAddPhoto,
			entity.ReasonReviewModDeletePhoto,
			entity.ReasonReviewAddWithPhoto,
		),
	}

	for _, h := range histories {
		total := 0
		for _, p := range h {
			total += p.Score
		}

		deltas, err := scoreDelete(h, h)
		require.NoError(t, err)
		for _, d := range deltas {
			total += d.Score
		}

		assert.Zero(t, total, "history head %s", h[0].Reason)
	}
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, stateNoPhoto, stateOf(entity.ReasonReviewModDeletePhoto))
	assert.Equal(t, stateHasPhoto, stateOf(entity.ReasonReviewModAddPhoto))
	assert.Equal(t, stateFirstPlaceBonus, stateOf(entity.ReasonReviewAddFirstPlace))
	assert.Equal(t, stateDeleted, stateOf(entity.ReasonReviewDeleteFirstPlace))
	assert.Equal(t, stateUnknown, stateOf(""))
	assert.Equal(t, "unknown", stateUnknown.String())
}
