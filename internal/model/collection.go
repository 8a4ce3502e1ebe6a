package model

import "time"

// AccessLevel — уровень доступа участника коллекции.
type AccessLevel string

const (
	AccessLevelAdmin     AccessLevel = "ADMIN"
	AccessLevelReadWrite AccessLevel = "READ_WRITE"
	AccessLevelReadOnly  AccessLevel = "READ_ONLY"
)

// Collection — контейнер элементов. Собственное содержимое коллекции живёт
// в выделенном main-элементе (Item с uid=NULL); текущая ревизия этого
// элемента и есть «контент» коллекции.
type Collection struct {
	ID      int64  `gorm:"primaryKey"`
	UID     string `gorm:"size:44;not null;uniqueIndex"`
	Version int    `gorm:"not null"`

	// Ссылка циклическая (items.collection_id <-> collections.main_item_id),
	// поэтому FK-констрейнт на уровне БД не создаётся (см. repo.InitDB).
	MainItemID *int64 `gorm:"index"`
	MainItem   *Item  `gorm:"foreignKey:MainItemID"`

	Members []CollectionMember `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// CollectionMember — членство пользователя в коллекции. EncryptionKey —
// обёрнутая для этого участника копия ключа коллекции; сервер её не
// интерпретирует и никогда не сравнивает копии между собой.
type CollectionMember struct {
	ID int64 `gorm:"primaryKey"`

	CollectionID int64       `gorm:"not null;uniqueIndex:idx_members_collection_user"`
	Collection   *Collection `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UserID       int64       `gorm:"not null;uniqueIndex:idx_members_collection_user"`
	User         *User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	AccessLevel   AccessLevel `gorm:"not null"`
	EncryptionKey []byte      `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
