package service

import (
	"strconv"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/ds"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/idcodec"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/pagination"
)

// FavoriteService - per-user saved jobs with a single toggle operation
type FavoriteService struct {
	favorites FavoriteStore
	views     FavoriteViewStore
	codec     *idcodec.Codec
	projector *Projector
}

func NewFavoriteService(favorites FavoriteStore, views FavoriteViewStore, codec *idcodec.Codec) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		views:     views,
		codec:     codec,
		projector: NewProjector(codec),
	}
}

// Toggle flips the favorite state of a job for the caller: no record means
// one is created active, an existing record has its deleted flag inverted.
func (s *FavoriteService) Toggle(jobID, userID string) error {
	id, err := s.codec.Decode(jobID)
	if err != nil {
		return err
	}
	uid, err := s.codec.Decode(userID)
	if err != nil {
		return err
	}

	existing, err := s.favorites.Find(uid, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return s.favorites.Insert(&ds.Favorite{
			UserID:      uid,
			JobID:       id,
			CreatedUser: strconv.FormatInt(uid, 10),
			UpdatedUser: strconv.FormatInt(uid, 10),
		})
	}
	return s.favorites.Update(existing.ID, map[string]interface{}{
		"is_deleted":   !existing.IsDeleted,
		"updated_user": strconv.FormatInt(uid, 10),
	})
}

// List returns the caller's active favorites as a job page.
func (s *FavoriteService) List(userID string, descending bool, page, rowsPerPage int) ([]JobView, int64, error) {
	uid, err := s.codec.Decode(userID)
	if err != nil {
		return nil, 0, err
	}

	limit := pagination.Normalize(rowsPerPage)
	offset := pagination.Offset(page, limit)

	rows, total, err := s.views.FindAndCountByUser(uid, descending, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	views := make([]JobView, 0, len(rows))
	for _, row := range rows {
		views = append(views, s.projector.JobRow(row.VwJobList, false))
	}
	return views, total, nil
}
