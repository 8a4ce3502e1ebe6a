package service

import (
	"EteKeeper/internal/model"
	"EteKeeper/internal/repo"
	"context"
	"strings"

	"github.com/stretchr/testify/mock"
)

// testUID дополняет seed нулями до валидной 44-символьной формы uid.
func testUID(seed string) string {
	return seed + strings.Repeat("0", 44-len(seed))
}

// моки репозиториев для сервисных тестов

type mockCollectionRepo struct{ mock.Mock }

func (m *mockCollectionRepo) Create(ctx context.Context, ownerID int64, col *model.Collection, in repo.RevisionInput, ownerKey []byte) error {
	return m.Called(ctx, ownerID, col, in, ownerKey).Error(0)
}

func (m *mockCollectionRepo) GetByUID(ctx context.Context, uid string) (*model.Collection, error) {
	args := m.Called(ctx, uid)
	if c, ok := args.Get(0).(*model.Collection); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCollectionRepo) ListForUser(ctx context.Context, userID int64) ([]model.Collection, error) {
	args := m.Called(ctx, userID)
	if c, ok := args.Get(0).([]model.Collection); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCollectionRepo) GetMember(ctx context.Context, collectionID, userID int64) (*model.CollectionMember, error) {
	args := m.Called(ctx, collectionID, userID)
	if v, ok := args.Get(0).(*model.CollectionMember); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCollectionRepo) CTag(ctx context.Context, collectionID int64) (string, error) {
	args := m.Called(ctx, collectionID)
	return args.String(0), args.Error(1)
}

var _ repo.CollectionRepository = (*mockCollectionRepo)(nil)

type mockItemRepo struct{ mock.Mock }

func (m *mockItemRepo) GetByUID(ctx context.Context, collectionID int64, uid string) (*model.Item, error) {
	args := m.Called(ctx, collectionID, uid)
	if v, ok := args.Get(0).(*model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) ListByCollection(ctx context.Context, collectionID int64) ([]model.Item, error) {
	args := m.Called(ctx, collectionID)
	if v, ok := args.Get(0).([]model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) CreateWithRevision(ctx context.Context, item *model.Item, in repo.RevisionInput) (*model.Revision, error) {
	args := m.Called(ctx, item, in)
	if v, ok := args.Get(0).(*model.Revision); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) CreateInitial(ctx context.Context, itemID int64, in repo.RevisionInput) (*model.Revision, error) {
	args := m.Called(ctx, itemID, in)
	if v, ok := args.Get(0).(*model.Revision); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) Supersede(ctx context.Context, itemID int64, in repo.RevisionInput) (*model.Revision, error) {
	args := m.Called(ctx, itemID, in)
	if v, ok := args.Get(0).(*model.Revision); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) CurrentRevision(ctx context.Context, itemID int64) (*model.Revision, error) {
	args := m.Called(ctx, itemID)
	if v, ok := args.Get(0).(*model.Revision); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.ItemRepository = (*mockItemRepo)(nil)
