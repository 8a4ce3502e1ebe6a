// Package blobstore — простое key-value хранилище неизменяемых бинарных
// блобов (содержимого чанков). Ключ — uid чанка; записанное значение
// никогда не перезаписывается.
package blobstore

import (
	"errors"
	"io"
)

var (
	// ErrNotFound возвращается Open для неизвестного ключа.
	ErrNotFound = errors.New("blobstore: blob not found")
	// ErrInvalidKey — ключ не является простым именем (пустой или с
	// разделителями пути).
	ErrInvalidKey = errors.New("blobstore: invalid key")
)

// Store — контракт хранилища блобов. Save атомарно записывает блоб:
// читатель видит либо прежнее содержимое ключа целиком, либо новое;
// Open отдаёт поток на чтение.
type Store interface {
	Save(id string, data []byte) error
	Open(id string) (io.ReadCloser, error)
}

// ReadAll — удобный помощник: открыть блоб и вычитать целиком.
func ReadAll(s Store, id string) ([]byte, error) {
	r, err := s.Open(id)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
