package repo

import (
	"EteKeeper/internal/model"

	"gorm.io/gorm"
)

// RevisionInput — входные данные новой ревизии: метаданные плюс
// упорядоченный список чанков.
type RevisionInput struct {
	UID     string
	Meta    []byte
	Deleted bool
	Chunks  []ChunkRef
}

// buildRevision собирает неизменяемую ревизию внутри транзакции tx:
// разрешает чанки по порядку, создаёт запись ревизии и связки с чанками.
// Флаг current ревизия получает только по указанию вызывающего —
// «собрать содержимое» и «сделать текущим» разведены намеренно.
func buildRevision(tx *gorm.DB, chunks *ChunkStore, item *model.Item, in RevisionInput, markCurrent bool) (*model.Revision, error) {
	resolved := make([]*model.Chunk, 0, len(in.Chunks))
	for _, ref := range in.Chunks {
		ch, err := chunks.ResolveOrCreate(tx, item, ref)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, ch)
	}

	rev := &model.Revision{
		UID:     in.UID,
		ItemID:  item.ID,
		Meta:    in.Meta,
		Deleted: in.Deleted,
	}
	if markCurrent {
		cur := true
		rev.Current = &cur
	}
	if err := tx.Create(rev).Error; err != nil {
		return nil, err
	}

	for i, ch := range resolved {
		link := &model.RevisionChunk{RevisionID: rev.ID, ChunkID: ch.ID, Ord: i}
		if err := tx.Create(link).Error; err != nil {
			return nil, err
		}
	}
	return rev, nil
}
