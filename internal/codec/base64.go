// Package codec — бинарные кодеки для переноса байтовых полей через текстовый транспорт.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEncoding возвращается при некорректном base64 на входе.
var ErrInvalidEncoding = errors.New("invalid base64 encoding")

// Encode кодирует байты в URL-safe base64 без символов выравнивания.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode декодирует URL-safe base64. Выравнивание ('=') на входе допускается,
// но не требуется — клиенты присылают строки без него.
func Decode(s string) ([]byte, error) {
	s = strings.TrimRight(s, "=")
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return b, nil
}
