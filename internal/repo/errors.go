package repo

import "errors"

// Ошибки уровня хранилища. Любая из них внутри транзакции откатывает
// транзакцию целиком — частичных состояний наружу не выходит.
var (
	// ErrChunkNotFound — ссылка на чанк, который ни разу не загружали.
	ErrChunkNotFound = errors.New("chunk not found")
	// ErrDuplicateChunk — попытка создать чанк с уже занятым uid.
	ErrDuplicateChunk = errors.New("chunk uid already exists")
	// ErrNoCurrentRevision — supersede на элементе без текущей ревизии.
	ErrNoCurrentRevision = errors.New("item has no current revision")
	// ErrItemHasRevisions — create initial на элементе, у которого уже есть ревизии.
	ErrItemHasRevisions = errors.New("item already has revisions")
)
