package repo

import (
	"EteKeeper/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB открывает Postgres и прогоняет миграции всех серверных моделей.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// collections.main_item_id и items.collection_id ссылаются друг на
		// друга; FK-констрейнты при автомиграции отключены, целостность
		// держат уникальные индексы и транзакции.
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate прогоняет автомиграции. Вынесено отдельно, чтобы тесты могли
// использовать его на sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Collection{},
		&model.CollectionMember{},
		&model.Item{},
		&model.Chunk{},
		&model.Revision{},
		&model.RevisionChunk{},
	)
}
