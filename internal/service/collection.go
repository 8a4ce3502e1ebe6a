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

var (
	// ErrNotFound — коллекция/элемент не существует либо пользователь не
	// участник коллекции (существование чужих коллекций не раскрываем).
	ErrNotFound = errors.New("not found")
	// ErrUIDTaken — uid коллекции или элемента уже занят.
	ErrUIDTaken = errors.New("uid already in use")
	// ErrReadOnlyMember — запись от участника с уровнем READ_ONLY.
	ErrReadOnlyMember = errors.New("member has read-only access")
)

// CollectionPayload — входной payload создания коллекции.
type CollectionPayload struct {
	UID           string          `json:"uid"`
	Version       int             `json:"version"`
	EncryptionKey string          `json:"encryptionKey"`
	Content       RevisionPayload `json:"content"`
}

// CollectionService — операции над коллекциями от имени пользователя.
type CollectionService struct {
	collections repo.CollectionRepository
	items       repo.ItemRepository
	chunks      *repo.ChunkStore
	logger      *zap.SugaredLogger
}

func NewCollectionService(collections repo.CollectionRepository, items repo.ItemRepository, chunks *repo.ChunkStore, logger *zap.SugaredLogger) *CollectionService {
	return &CollectionService{collections: collections, items: items, chunks: chunks, logger: logger}
}

// Create создаёт коллекцию: метаданные, main-элемент с первой ревизией и
// административное членство владельца с его обёрткой ключа — атомарно.
func (s *CollectionService) Create(ctx context.Context, userID int64, in CollectionPayload) (*CollectionView, error) {
	if err := validateUID(in.UID); err != nil {
		return nil, err
	}
	ownerKey, err := codec.Decode(in.EncryptionKey)
	if err != nil {
		return nil, err
	}
	revIn, err := in.Content.toInput()
	if err != nil {
		return nil, err
	}

	existing, err := s.collections.GetByUID(ctx, in.UID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUIDTaken
	}

	col := &model.Collection{UID: in.UID, Version: in.Version}
	if err := s.collections.Create(ctx, userID, col, revIn, ownerKey); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUIDTaken
		}
		return nil, err
	}
	s.logger.Infow("collection created", "uid", col.UID, "owner", userID)
	return s.view(ctx, col, userID, false)
}

// Get возвращает представление коллекции для участника userID.
func (s *CollectionService) Get(ctx context.Context, userID int64, uid string, inline bool) (*CollectionView, error) {
	col, err := s.lookup(ctx, userID, uid)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, col, userID, inline)
}

// List возвращает коллекции, в которых userID состоит участником.
func (s *CollectionService) List(ctx context.Context, userID int64, inline bool) ([]CollectionView, error) {
	cols, err := s.collections.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]CollectionView, 0, len(cols))
	for i := range cols {
		v, err := s.view(ctx, &cols[i], userID, inline)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

// Update заменяет контент коллекции: новая ревизия main-элемента
// становится текущей, прежняя демотируется.
func (s *CollectionService) Update(ctx context.Context, userID int64, uid string, content RevisionPayload) (*CollectionView, error) {
	col, err := s.lookup(ctx, userID, uid)
	if err != nil {
		return nil, err
	}
	member, err := s.collections.GetMember(ctx, col.ID, userID)
	if err != nil {
		return nil, err
	}
	if member.AccessLevel == model.AccessLevelReadOnly {
		return nil, ErrReadOnlyMember
	}

	revIn, err := content.toInput()
	if err != nil {
		return nil, err
	}
	if _, err := s.items.Supersede(ctx, *col.MainItemID, revIn); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUIDTaken
		}
		return nil, err
	}
	return s.view(ctx, col, userID, false)
}

// IsAdmin сообщает, является ли пользователь администратором коллекции.
func (s *CollectionService) IsAdmin(ctx context.Context, userID int64, uid string) (bool, error) {
	col, err := s.lookup(ctx, userID, uid)
	if err != nil {
		return false, err
	}
	member, err := s.collections.GetMember(ctx, col.ID, userID)
	if err != nil {
		return false, err
	}
	return member.AccessLevel == model.AccessLevelAdmin, nil
}

// lookup находит коллекцию и проверяет членство. Чужая и несуществующая
// коллекция снаружи неразличимы.
func (s *CollectionService) lookup(ctx context.Context, userID int64, uid string) (*model.Collection, error) {
	col, err := s.collections.GetByUID(ctx, uid)
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

func (s *CollectionService) view(ctx context.Context, col *model.Collection, userID int64, inline bool) (*CollectionView, error) {
	member, err := s.collections.GetMember(ctx, col.ID, userID)
	if err != nil {
		return nil, err
	}
	if col.MainItem == nil {
		return nil, errors.New("collection has no main item")
	}
	cur, err := s.items.CurrentRevision(ctx, col.MainItem.ID)
	if err != nil {
		return nil, err
	}
	content, err := revisionView(ctx, s.chunks, cur, inline)
	if err != nil {
		return nil, err
	}
	ctag, err := s.collections.CTag(ctx, col.ID)
	if err != nil {
		return nil, err
	}
	return &CollectionView{
		UID:           col.UID,
		Version:       col.Version,
		AccessLevel:   member.AccessLevel,
		EncryptionKey: codec.Encode(member.EncryptionKey),
		CTag:          ctag,
		Content:       content,
	}, nil
}
