package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sui-direct/node/core"
	"github.com/sui-direct/node/ports"
)

// CatalogStore implements ports.CatalogStore on sqlite.
type CatalogStore struct {
	db *gorm.DB
}

// NewCatalogStore opens (or creates) the repository catalog at path and
// migrates its schema.
func NewCatalogStore(path string) (*CatalogStore, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&repositoryModel{}); err != nil {
		return nil, fmt.Errorf("migrating catalog schema: %w", err)
	}
	return &CatalogStore{db: db}, nil
}

var _ ports.CatalogStore = (*CatalogStore)(nil)

// Insert adds a catalog row. A duplicate blob identifier is a no-op: the
// same content maps to the same record.
func (s *CatalogStore) Insert(ctx context.Context, rec core.RepositoryRecord) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&repositoryModel{
			BlobID:      rec.BlobID,
			Owner:       rec.Owner,
			Name:        rec.Name,
			Description: rec.Description,
			Timestamp:   rec.CreatedAt,
		}).Error
}

// Lookup matches by display name or blob identifier.
func (s *CatalogStore) Lookup(ctx context.Context, key string) (*core.RepositoryRecord, error) {
	var m repositoryModel
	err := s.db.WithContext(ctx).
		Where("name = ? OR blobID = ?", key, key).
		First(&m).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return recordFromModel(m), nil
}

func (s *CatalogStore) ListByOwner(ctx context.Context, owner string) ([]core.RepositoryRecord, error) {
	var models []repositoryModel
	err := s.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("timestamp DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	recs := make([]core.RepositoryRecord, 0, len(models))
	for _, m := range models {
		recs = append(recs, *recordFromModel(m))
	}
	return recs, nil
}

func (s *CatalogStore) Rename(ctx context.Context, blobID, name string) error {
	res := s.db.WithContext(ctx).Model(&repositoryModel{}).
		Where("blobID = ?", blobID).
		Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return core.ErrNotFound
	}
	return nil
}

func recordFromModel(m repositoryModel) *core.RepositoryRecord {
	return &core.RepositoryRecord{
		BlobID:      m.BlobID,
		Owner:       m.Owner,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.Timestamp,
	}
}
