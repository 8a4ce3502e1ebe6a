package blobstore

import (
	"bytes"
	"io"
	"sync"
)

// Memory — потокобезопасная in-memory реализация Store, в основном для тестов.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory возвращает пустое in-memory хранилище.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

// Save сохраняет копию data под ключом id. Повторная запись ключа
// заменяет содержимое, как и в файловой реализации.
func (m *Memory) Save(id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[id] = append([]byte(nil), data...)
	return nil
}

// Open отдаёт содержимое блоба как поток.
func (m *Memory) Open(id string) (io.ReadCloser, error) {
	m.mu.RLock()
	data, ok := m.blobs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

var _ Store = (*Memory)(nil)
