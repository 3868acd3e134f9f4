package db

import (
	"errors"

	"github.com/blacktop/ipa-archive/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// store implements the queries shared by every gorm dialect
type store struct {
	db *gorm.DB
}

func (s *store) migrate() error {
	return s.db.AutoMigrate(
		&model.BaseURL{},
		&model.Ipa{},
	)
}

// InsertBaseURL returns the key of url, inserting it if needed.
func (s *store) InsertBaseURL(url string) (uint, error) {
	b := model.BaseURL{URL: url}
	if result := s.db.Where(model.BaseURL{URL: url}).FirstOrCreate(&b); result.Error != nil {
		return 0, result.Error
	}
	return b.ID, nil
}

// InsertIpas adds ipas that are not yet known and returns how many were added.
func (s *store) InsertIpas(ipas []model.Ipa) (int64, error) {
	if len(ipas) == 0 {
		return 0, nil
	}
	result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ipas)
	return result.RowsAffected, result.Error
}

func (s *store) joined() *gorm.DB {
	return s.db.Table("ipas").
		Select("ipas.id, base_urls.url, ipas.path_name").
		Joins("JOIN base_urls ON base_urls.id = ipas.base_url_id")
}

// Get returns the ipa for the given key joined with its base url.
// It returns model.ErrNotFound if the key does not exist.
func (s *store) Get(id uint) (*model.PendingIpa, error) {
	var p model.PendingIpa
	if err := s.joined().Where("ipas.id = ?", id).Take(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Pending returns up to limit ipas in the given state.
func (s *store) Pending(state model.DoneState, limit int) ([]model.PendingIpa, error) {
	var rows []model.PendingIpa
	if err := s.joined().Where("ipas.done = ?", state).Order("ipas.id").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of ipas in the given state.
func (s *store) Count(state model.DoneState) (int64, error) {
	var n int64
	err := s.db.Model(&model.Ipa{}).Where("done = ?", state).Count(&n).Error
	return n, err
}

func (s *store) update(id uint, columns map[string]any) error {
	result := s.db.Model(&model.Ipa{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// SetDone stores the extracted metadata and marks the ipa done.
func (s *store) SetDone(id uint, meta model.Metadata) error {
	return s.update(id, meta.Columns())
}

// SetState sets the done state of a single ipa.
func (s *store) SetState(id uint, state model.DoneState) error {
	return s.update(id, map[string]any{"done": state})
}

// ResetState moves every ipa in state back to pending.
func (s *store) ResetState(state model.DoneState) (int64, error) {
	result := s.db.Model(&model.Ipa{}).Where("done = ?", state).Update("done", model.Pending)
	return result.RowsAffected, result.Error
}

// SetPermanentError marks an ipa as permanently broken and clears its metadata.
func (s *store) SetPermanentError(id uint) error {
	cols := model.Metadata{}.Columns()
	cols["done"] = model.PermanentError
	return s.update(id, cols)
}

// SetFileSize updates the stored size when size is positive.
func (s *store) SetFileSize(id uint, size int64) error {
	if size <= 0 {
		return nil
	}
	return s.update(id, map[string]any{"file_size": size})
}

// BaseURLs returns every base url.
func (s *store) BaseURLs() ([]model.BaseURL, error) {
	var urls []model.BaseURL
	if err := s.db.Order("id").Find(&urls).Error; err != nil {
		return nil, err
	}
	return urls, nil
}

// Done returns every successfully processed ipa.
func (s *store) Done() ([]model.Ipa, error) {
	var ipas []model.Ipa
	if err := s.db.Where("done = ?", model.Done).Order("id").Find(&ipas).Error; err != nil {
		return nil, err
	}
	return ipas, nil
}

// Close closes the database.
func (s *store) Close() error {
	if s.db == nil {
		return nil
	}
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
