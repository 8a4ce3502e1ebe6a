package service

import (
	"EteKeeper/internal/codec"
	"EteKeeper/internal/model"
	"EteKeeper/internal/repo"
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrMalformedChunks — элемент списка чанков не [uid] и не [uid, content].
	ErrMalformedChunks = errors.New("malformed chunk list")
	// ErrInvalidUID — клиентский uid не проходит валидацию формы.
	ErrInvalidUID = errors.New("invalid uid")
)

// uidRe — допустимая форма всех клиентских uid (коллекций, элементов,
// ревизий, чанков): 44 символа URL-safe base64. Проверяется на границе,
// до того как uid попадёт в БД или станет именем файла в blobstore.
var uidRe = regexp.MustCompile(`^[a-zA-Z0-9\-_=]{44}$`)

func validateUID(uid string) error {
	if !uidRe.MatchString(uid) {
		return fmt.Errorf("%w: %q", ErrInvalidUID, uid)
	}
	return nil
}

// RevisionPayload — содержимое ревизии в транспортном виде: бинарные поля
// закодированы URL-safe base64, чанки — кортежи [uid] (ссылка) или
// [uid, content] (новый чанк).
type RevisionPayload struct {
	UID     string     `json:"uid"`
	Meta    string     `json:"meta"`
	Deleted bool       `json:"deleted"`
	Chunks  [][]string `json:"chunks"`
}

// toInput переводит транспортный вид во внутренний: base64 → байты,
// кортежи → помеченные варианты ссылки/нового чанка.
func (p RevisionPayload) toInput() (repo.RevisionInput, error) {
	if err := validateUID(p.UID); err != nil {
		return repo.RevisionInput{}, err
	}
	meta, err := codec.Decode(p.Meta)
	if err != nil {
		return repo.RevisionInput{}, fmt.Errorf("meta: %w", err)
	}
	refs := make([]repo.ChunkRef, 0, len(p.Chunks))
	for i, c := range p.Chunks {
		switch len(c) {
		case 1, 2:
			if err := validateUID(c[0]); err != nil {
				return repo.RevisionInput{}, fmt.Errorf("chunk %d: %w", i, err)
			}
		default:
			return repo.RevisionInput{}, fmt.Errorf("chunk %d: %w", i, ErrMalformedChunks)
		}
		if len(c) == 1 {
			refs = append(refs, repo.ExistingChunk(c[0]))
			continue
		}
		content, err := codec.Decode(c[1])
		if err != nil {
			return repo.RevisionInput{}, fmt.Errorf("chunk %d: %w", i, err)
		}
		refs = append(refs, repo.NewChunk(c[0], content))
	}
	return repo.RevisionInput{UID: p.UID, Meta: meta, Deleted: p.Deleted, Chunks: refs}, nil
}

// RevisionView — исходящее представление ревизии.
type RevisionView struct {
	UID     string     `json:"uid"`
	Meta    string     `json:"meta"`
	Deleted bool       `json:"deleted"`
	Chunks  [][]string `json:"chunks"`
}

// CollectionView — исходящее представление коллекции для конкретного
// участника: его уровень доступа, его обёртка ключа, ctag и контент
// main-элемента.
type CollectionView struct {
	UID           string            `json:"uid"`
	Version       int               `json:"version"`
	AccessLevel   model.AccessLevel `json:"accessLevel"`
	EncryptionKey string            `json:"encryptionKey"`
	CTag          string            `json:"ctag"`
	Content       RevisionView      `json:"content"`
}

// ItemView — исходящее представление элемента коллекции.
type ItemView struct {
	UID           string       `json:"uid"`
	Version       int          `json:"version"`
	EncryptionKey string       `json:"encryptionKey,omitempty"`
	Content       RevisionView `json:"content"`
}

// revisionView собирает представление ревизии. При inline=true чанки
// отдаются вместе с содержимым из blobstore, иначе — только uid.
func revisionView(ctx context.Context, chunks *repo.ChunkStore, rev *model.Revision, inline bool) (RevisionView, error) {
	out := RevisionView{
		UID:     rev.UID,
		Meta:    codec.Encode(rev.Meta),
		Deleted: rev.Deleted,
		Chunks:  make([][]string, 0, len(rev.Chunks)),
	}
	for _, rc := range rev.Chunks {
		if rc.Chunk == nil {
			return RevisionView{}, fmt.Errorf("revision %q: chunk relation not loaded", rev.UID)
		}
		if inline {
			content, err := chunks.ReadContent(ctx, rc.Chunk.UID)
			if err != nil {
				return RevisionView{}, err
			}
			out.Chunks = append(out.Chunks, []string{rc.Chunk.UID, codec.Encode(content)})
		} else {
			out.Chunks = append(out.Chunks, []string{rc.Chunk.UID})
		}
	}
	return out, nil
}
