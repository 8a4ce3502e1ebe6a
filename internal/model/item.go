package model

import "time"

// Item — версионируемый элемент коллекции. У main-элемента коллекции
// UID и EncryptionKey равны NULL.
type Item struct {
	ID int64 `gorm:"primaryKey"`

	// Уникальность uid в пределах коллекции; NULL-uid (main-элементы)
	// под индекс не попадают.
	UID          *string     `gorm:"size:44;uniqueIndex:idx_items_collection_uid"`
	CollectionID int64       `gorm:"not null;index;uniqueIndex:idx_items_collection_uid"`
	Collection   *Collection `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	EncryptionKey []byte
	Version       int `gorm:"not null"`

	Revisions []Revision `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Revision — неизменяемый срез содержимого элемента. Current хранится как
// true или NULL (не false): составной уникальный индекс (item_id, current)
// тогда допускает сколько угодно неактуальных ревизий, но не более одной
// текущей.
type Revision struct {
	ID  int64  `gorm:"primaryKey"`
	UID string `gorm:"size:44;not null;uniqueIndex"`

	ItemID int64 `gorm:"not null;index;uniqueIndex:idx_revisions_item_current"`
	Item   *Item `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	// Meta — зашифрованный блоб метаданных; сервер его не разбирает.
	Meta    []byte `gorm:"not null"`
	Deleted bool   `gorm:"not null;default:false"`
	Current *bool  `gorm:"uniqueIndex:idx_revisions_item_current"`

	Chunks []RevisionChunk `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// IsCurrent сообщает, является ли ревизия текущей для своего элемента.
func (r *Revision) IsCurrent() bool {
	return r.Current != nil && *r.Current
}

// RevisionChunk — связь ревизии с чанком. Ord задаёт порядок сборки
// содержимого на клиенте и семантически значим.
type RevisionChunk struct {
	ID int64 `gorm:"primaryKey"`

	RevisionID int64 `gorm:"not null;index;uniqueIndex:idx_revision_chunks_rev_ord"`
	ChunkID    int64 `gorm:"not null;index"`
	Chunk      *Chunk

	Ord int `gorm:"not null;uniqueIndex:idx_revision_chunks_rev_ord"`
}
