package model

import "time"

// Chunk — контент-адресуемый блок данных. Строка хранит только адрес;
// сами байты лежат в blobstore под ключом UID. Запись создаётся один раз
// и дальше только переиспользуется другими ревизиями (дедупликация).
type Chunk struct {
	ID  int64  `gorm:"primaryKey"`
	UID string `gorm:"size:44;not null;uniqueIndex"`

	// Элемент, под которым чанк был впервые создан. Владение не
	// эксклюзивное: ссылаться на чанк могут ревизии любых элементов.
	ItemID int64 `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
