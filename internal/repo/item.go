package repo

import (
	"EteKeeper/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRepository — доступ к элементам коллекций и цепочкам их ревизий.
// Все мутации выполняются в одной транзакции: наружу не видно ни
// частично собранных ревизий, ни моментов с нулём/двумя текущими.
type ItemRepository interface {
	// GetByUID ищет элемент коллекции по uid (gorm.ErrRecordNotFound, если нет).
	GetByUID(ctx context.Context, collectionID int64, uid string) (*model.Item, error)

	// ListByCollection возвращает все элементы коллекции, кроме main-элемента.
	ListByCollection(ctx context.Context, collectionID int64) ([]model.Item, error)

	// CreateWithRevision создаёт элемент и его первую (текущую) ревизию
	// одной транзакцией.
	CreateWithRevision(ctx context.Context, item *model.Item, in RevisionInput) (*model.Revision, error)

	// CreateInitial создаёт первую ревизию существующего элемента и делает
	// её текущей. ErrItemHasRevisions, если ревизии уже есть.
	CreateInitial(ctx context.Context, itemID int64, in RevisionInput) (*model.Revision, error)

	// Supersede снимает флаг current с текущей ревизии и делает текущей
	// новую. ErrNoCurrentRevision, если текущей ревизии нет.
	Supersede(ctx context.Context, itemID int64, in RevisionInput) (*model.Revision, error)

	// CurrentRevision возвращает текущую ревизию элемента с чанками
	// в порядке сборки.
	CurrentRevision(ctx context.Context, itemID int64) (*model.Revision, error)
}

type itemRepo struct {
	db     *gorm.DB
	chunks *ChunkStore
}

// forUpdate навешивает SELECT ... FOR UPDATE там, где диалект его умеет.
// sqlite синтаксис не знает, но там пишущая транзакция и так одна на базу.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// NewItemRepository создаёт реализацию репозитория для Item.
func NewItemRepository(db *gorm.DB, chunks *ChunkStore) ItemRepository {
	return &itemRepo{db: db, chunks: chunks}
}

func (r *itemRepo) GetByUID(ctx context.Context, collectionID int64, uid string) (*model.Item, error) {
	var it model.Item
	err := r.db.WithContext(ctx).
		Where("collection_id = ? AND uid = ?", collectionID, uid).
		First(&it).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itemRepo) ListByCollection(ctx context.Context, collectionID int64) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Where("collection_id = ? AND uid IS NOT NULL", collectionID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepo) CreateWithRevision(ctx context.Context, item *model.Item, in RevisionInput) (*model.Revision, error) {
	var rev *model.Revision
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		var err error
		rev, err = buildRevision(tx, r.chunks, item, in, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rev, nil
}

func (r *itemRepo) CreateInitial(ctx context.Context, itemID int64, in RevisionInput) (*model.Revision, error) {
	var rev *model.Revision
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.Item
		if err := tx.First(&item, itemID).Error; err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&model.Revision{}).Where("item_id = ?", itemID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrItemHasRevisions
		}
		var err error
		rev, err = buildRevision(tx, r.chunks, &item, in, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rev, nil
}

func (r *itemRepo) Supersede(ctx context.Context, itemID int64, in RevisionInput) (*model.Revision, error) {
	var rev *model.Revision
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Блокируем строку элемента, а не текущей ревизии: конкурентные
		// supersede встают в очередь здесь и после разблокировки читают
		// уже новую текущую ревизию. Лок на строке ревизии этого не даёт:
		// после коммита соседа перечитанное условие current=true на ней
		// не выполняется, и второй вызов упал бы с ErrNoCurrentRevision.
		// Уникальный индекс (item_id, current) остаётся страховкой.
		var item model.Item
		if err := forUpdate(tx).First(&item, itemID).Error; err != nil {
			return err
		}

		var cur model.Revision
		err := tx.
			Where("item_id = ? AND current = ?", itemID, true).
			First(&cur).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoCurrentRevision
		}
		if err != nil {
			return err
		}

		// Снимаем флаг в NULL, не в false: см. индекс idx_revisions_item_current.
		if err := tx.Model(&cur).Update("current", nil).Error; err != nil {
			return err
		}

		rev, err = buildRevision(tx, r.chunks, &item, in, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rev, nil
}

func (r *itemRepo) CurrentRevision(ctx context.Context, itemID int64) (*model.Revision, error) {
	var rev model.Revision
	err := r.db.WithContext(ctx).
		Preload("Chunks", func(db *gorm.DB) *gorm.DB { return db.Order("ord") }).
		Preload("Chunks.Chunk").
		Where("item_id = ? AND current = ?", itemID, true).
		First(&rev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoCurrentRevision
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}
