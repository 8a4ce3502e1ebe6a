package repo

import (
	"EteKeeper/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// CollectionRepository — доступ к коллекциям, членству и ctag.
type CollectionRepository interface {
	// Create создаёт коллекцию целиком: строку коллекции, main-элемент,
	// его первую текущую ревизию и административное членство владельца —
	// всё или ничего.
	Create(ctx context.Context, ownerID int64, col *model.Collection, in RevisionInput, ownerKey []byte) error

	// GetByUID ищет коллекцию по uid (gorm.ErrRecordNotFound, если нет).
	GetByUID(ctx context.Context, uid string) (*model.Collection, error)

	// ListForUser возвращает коллекции, где пользователь состоит участником.
	ListForUser(ctx context.Context, userID int64) ([]model.Collection, error)

	// GetMember возвращает запись членства пользователя в коллекции
	// (gorm.ErrRecordNotFound, если он не участник).
	GetMember(ctx context.Context, collectionID, userID int64) (*model.CollectionMember, error)

	// CTag — uid последней созданной ревизии по всем элементам коллекции;
	// пустая строка, если ревизий ещё нет. Непрозрачный маркер изменений,
	// порядок сильнее «изменилось/нет» не гарантируется.
	CTag(ctx context.Context, collectionID int64) (string, error)
}

type collectionRepo struct {
	db     *gorm.DB
	chunks *ChunkStore
}

// NewCollectionRepository создаёт реализацию репозитория для Collection.
func NewCollectionRepository(db *gorm.DB, chunks *ChunkStore) CollectionRepository {
	return &collectionRepo{db: db, chunks: chunks}
}

func (r *collectionRepo) Create(ctx context.Context, ownerID int64, col *model.Collection, in RevisionInput, ownerKey []byte) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(col).Error; err != nil {
			return err
		}

		// Main-элемент: uid и ключ NULL, версия — как у коллекции.
		main := &model.Item{CollectionID: col.ID, Version: col.Version}
		if err := tx.Create(main).Error; err != nil {
			return err
		}
		if err := tx.Model(col).Update("main_item_id", main.ID).Error; err != nil {
			return err
		}
		col.MainItemID = &main.ID
		col.MainItem = main

		if _, err := buildRevision(tx, r.chunks, main, in, true); err != nil {
			return err
		}

		owner := &model.CollectionMember{
			CollectionID:  col.ID,
			UserID:        ownerID,
			AccessLevel:   model.AccessLevelAdmin,
			EncryptionKey: ownerKey,
		}
		return tx.Create(owner).Error
	})
}

func (r *collectionRepo) GetByUID(ctx context.Context, uid string) (*model.Collection, error) {
	var col model.Collection
	err := r.db.WithContext(ctx).
		Preload("MainItem").
		Where("uid = ?", uid).
		First(&col).Error
	if err != nil {
		return nil, err
	}
	return &col, nil
}

func (r *collectionRepo) ListForUser(ctx context.Context, userID int64) ([]model.Collection, error) {
	var cols []model.Collection
	err := r.db.WithContext(ctx).
		Preload("MainItem").
		Joins("JOIN collection_members ON collection_members.collection_id = collections.id").
		Where("collection_members.user_id = ?", userID).
		Order("collections.id").
		Find(&cols).Error
	if err != nil {
		return nil, err
	}
	return cols, nil
}

func (r *collectionRepo) GetMember(ctx context.Context, collectionID, userID int64) (*model.CollectionMember, error) {
	var m model.CollectionMember
	err := r.db.WithContext(ctx).
		Where("collection_id = ? AND user_id = ?", collectionID, userID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *collectionRepo) CTag(ctx context.Context, collectionID int64) (string, error) {
	var rev model.Revision
	err := r.db.WithContext(ctx).
		Joins("JOIN items ON items.id = revisions.item_id").
		Where("items.collection_id = ?", collectionID).
		Order("revisions.id DESC").
		First(&rev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return rev.UID, nil
}
