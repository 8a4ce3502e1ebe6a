package service

import (
	"EteKeeper/internal/codec"
	"EteKeeper/internal/model"
	"EteKeeper/internal/repo"
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ItemPayload — входной payload создания элемента коллекции.
type ItemPayload struct {
	UID           string          `json:"uid"`
	Version       int             `json:"version"`
	EncryptionKey string          `json:"encryptionKey"`
	Content       RevisionPayload `json:"content"`
}

// ItemService — операции над элементами коллекции от имени пользователя.
type ItemService struct {
	collections repo.CollectionRepository
	items       repo.ItemRepository
	chunks      *repo.ChunkStore
	logger      *zap.SugaredLogger
}

func NewItemService(collections repo.CollectionRepository, items repo.ItemRepository, chunks *repo.ChunkStore, logger *zap.SugaredLogger) *ItemService {
	return &ItemService{collections: collections, items: items, chunks: chunks, logger: logger}
}

// Create добавляет элемент с его первой ревизией одной атомарной операцией.
func (s *ItemService) Create(ctx context.Context, userID int64, colUID string, in ItemPayload) (*ItemView, error) {
	col, err := s.requireWriter(ctx, userID, colUID)
	if err != nil {
		return nil, err
	}

	if err := validateUID(in.UID); err != nil {
		return nil, err
	}
	key, err := codec.Decode(in.EncryptionKey)
	if err != nil {
		return nil, err
	}
	revIn, err := in.Content.toInput()
	if err != nil {
		return nil, err
	}

	existing, err := s.items.GetByUID(ctx, col.ID, in.UID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUIDTaken
	}

	uid := in.UID
	item := &model.Item{UID: &uid, CollectionID: col.ID, EncryptionKey: key, Version: in.Version}
	if _, err := s.items.CreateWithRevision(ctx, item, revIn); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUIDTaken
		}
		return nil, err
	}
	s.logger.Infow("item created", "collection", colUID, "item", in.UID, "user", userID)
	return s.view(ctx, item, false)
}

// Get возвращает элемент с его текущей ревизией.
func (s *ItemService) Get(ctx context.Context, userID int64, colUID, itemUID string, inline bool) (*ItemView, error) {
	col, err := s.requireMember(ctx, userID, colUID)
	if err != nil {
		return nil, err
	}
	item, err := s.items.GetByUID(ctx, col.ID, itemUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.view(ctx, item, inline)
}

// List возвращает все элементы коллекции (без main-элемента).
func (s *ItemService) List(ctx context.Context, userID int64, colUID string, inline bool) ([]ItemView, error) {
	col, err := s.requireMember(ctx, userID, colUID)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListByCollection(ctx, col.ID)
	if err != nil {
		return nil, err
	}
	views := make([]ItemView, 0, len(items))
	for i := range items {
		v, err := s.view(ctx, &items[i], inline)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

// Update заменяет содержимое элемента новой текущей ревизией.
func (s *ItemService) Update(ctx context.Context, userID int64, colUID, itemUID string, content RevisionPayload) (*ItemView, error) {
	col, err := s.requireWriter(ctx, userID, colUID)
	if err != nil {
		return nil, err
	}
	item, err := s.items.GetByUID(ctx, col.ID, itemUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	revIn, err := content.toInput()
	if err != nil {
		return nil, err
	}
	if _, err := s.items.Supersede(ctx, item.ID, revIn); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUIDTaken
		}
		return nil, err
	}
	return s.view(ctx, item, false)
}

func (s *ItemService) requireMember(ctx context.Context, userID int64, colUID string) (*model.Collection, error) {
	col, err := s.collections.GetByUID(ctx, colUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.collections.GetMember(ctx, col.ID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return col, nil
}

func (s *ItemService) requireWriter(ctx context.Context, userID int64, colUID string) (*model.Collection, error) {
	col, err := s.collections.GetByUID(ctx, colUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	member, err := s.collections.GetMember(ctx, col.ID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if member.AccessLevel == model.AccessLevelReadOnly {
		return nil, ErrReadOnlyMember
	}
	return col, nil
}

func (s *ItemService) view(ctx context.Context, item *model.Item, inline bool) (*ItemView, error) {
	cur, err := s.items.CurrentRevision(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	content, err := revisionView(ctx, s.chunks, cur, inline)
	if err != nil {
		return nil, err
	}
	v := &ItemView{Version: item.Version, Content: content}
	if item.UID != nil {
		v.UID = *item.UID
	}
	if item.EncryptionKey != nil {
		v.EncryptionKey = codec.Encode(item.EncryptionKey)
	}
	return v, nil
}
