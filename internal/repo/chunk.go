package repo

import (
	"EteKeeper/internal/blobstore"
	"EteKeeper/internal/model"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChunkRef — элемент списка чанков ревизии: либо ссылка на существующий
// чанк, либо новый чанк с содержимым. Варианты различаются явным флагом,
// а не наличием байтов: пустое содержимое — валидный новый чанк.
type ChunkRef struct {
	UID     string
	Content []byte
	Inline  bool
}

// ExistingChunk — ссылка на уже загруженный чанк.
func ExistingChunk(uid string) ChunkRef {
	return ChunkRef{UID: uid}
}

// NewChunk — новый чанк с содержимым.
func NewChunk(uid string, content []byte) ChunkRef {
	return ChunkRef{UID: uid, Content: content, Inline: true}
}

// ChunkStore — контент-адресуемое хранилище чанков: строки в БД плюс
// байты в blobstore. Чанк пишется один раз и никогда не изменяется.
type ChunkStore struct {
	blobs blobstore.Store
}

// NewChunkStore создаёт хранилище чанков поверх blobstore.
func NewChunkStore(blobs blobstore.Store) *ChunkStore {
	return &ChunkStore{blobs: blobs}
}

// ResolveOrCreate разрешает ссылку на чанк внутри транзакции tx.
// Для ссылки — ищет существующую запись (ErrChunkNotFound, если её нет).
// Для нового чанка — создаёт запись и кладёт байты в blobstore; занятый
// uid даёт ErrDuplicateChunk до записи байтов, так что содержимое
// закоммиченного чанка не меняется. Байты пишутся внутри транзакции:
// если она откатится, останки в blobstore перезапишет следующая загрузка
// того же uid (Save у blobstore атомарно заменяет содержимое).
func (s *ChunkStore) ResolveOrCreate(tx *gorm.DB, item *model.Item, ref ChunkRef) (*model.Chunk, error) {
	if !ref.Inline {
		var ch model.Chunk
		err := tx.Where("uid = ?", ref.UID).First(&ch).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("chunk %q: %w", ref.UID, ErrChunkNotFound)
		}
		if err != nil {
			return nil, err
		}
		return &ch, nil
	}

	ch := &model.Chunk{UID: ref.UID, ItemID: item.ID}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoNothing: true,
	}).Create(ch)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("chunk %q: %w", ref.UID, ErrDuplicateChunk)
	}
	if err := s.blobs.Save(ref.UID, ref.Content); err != nil {
		return nil, fmt.Errorf("save chunk %q: %w", ref.UID, err)
	}
	return ch, nil
}

// ReadContent читает байты чанка из blobstore (для inline-отдачи).
func (s *ChunkStore) ReadContent(_ context.Context, uid string) ([]byte, error) {
	data, err := blobstore.ReadAll(s.blobs, uid)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("chunk %q: %w", uid, ErrChunkNotFound)
		}
		return nil, err
	}
	return data, nil
}
