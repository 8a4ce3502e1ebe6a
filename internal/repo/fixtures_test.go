package repo

import (
	"EteKeeper/internal/blobstore"
	"EteKeeper/internal/model"
	"context"
	"testing"

	"gorm.io/gorm"
)

// testEnv — общий набор зависимостей для интеграционных тестов репозиториев.
type testEnv struct {
	db          *gorm.DB
	blobs       *blobstore.Memory
	chunks      *ChunkStore
	items       ItemRepository
	collections CollectionRepository
	users       UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	blobs := blobstore.NewMemory()
	chunks := NewChunkStore(blobs)
	return &testEnv{
		db:          db,
		blobs:       blobs,
		chunks:      chunks,
		items:       NewItemRepository(db, chunks),
		collections: NewCollectionRepository(db, chunks),
		users:       NewUserRepository(db),
	}
}

func (e *testEnv) createUser(t *testing.T, login string) *model.User {
	t.Helper()
	u, err := e.users.CreateUser(context.Background(), &model.User{Login: login, Password: "hash"})
	if err != nil {
		t.Fatalf("createUser(%s): %v", login, err)
	}
	return u
}

func (e *testEnv) createCollection(t *testing.T, ownerID int64, uid string) *model.Collection {
	t.Helper()
	col := &model.Collection{UID: uid, Version: 1}
	in := RevisionInput{
		UID:    uid + "-rev0",
		Meta:   []byte("meta"),
		Chunks: []ChunkRef{NewChunk(uid+"-chunk0", []byte("root"))},
	}
	if err := e.collections.Create(context.Background(), ownerID, col, in, []byte("wrapped-key")); err != nil {
		t.Fatalf("createCollection(%s): %v", uid, err)
	}
	return col
}

func (e *testEnv) createItem(t *testing.T, collectionID int64, uid string, in RevisionInput) *model.Item {
	t.Helper()
	item := &model.Item{UID: &uid, CollectionID: collectionID, EncryptionKey: []byte("item-key"), Version: 1}
	if _, err := e.items.CreateWithRevision(context.Background(), item, in); err != nil {
		t.Fatalf("createItem(%s): %v", uid, err)
	}
	return item
}

// currentRevisions возвращает число ревизий с current=true у элемента.
func (e *testEnv) currentRevisions(t *testing.T, itemID int64) int64 {
	t.Helper()
	var n int64
	err := e.db.Model(&model.Revision{}).
		Where("item_id = ? AND current = ?", itemID, true).
		Count(&n).Error
	if err != nil {
		t.Fatalf("count current revisions: %v", err)
	}
	return n
}
