package validation

import (
	"fmt"
	"regexp"
)

// QueryIDPattern определяет допустимый формат query id для инкрементального pull
// Первый символ: латинская буква или цифра; далее буквы, цифры, '_' и '-'
// Длина: 1-128 символов
var QueryIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{0,127}$`)

// MaxQueryIDLen максимальная длина query id
const MaxQueryIDLen = 128

// ValidateQueryID проверяет, что query id можно использовать как ключ delta token
func ValidateQueryID(queryID string) error {
	if queryID == "" {
		return fmt.Errorf("query id cannot be empty")
	}

	if len(queryID) > MaxQueryIDLen {
		return fmt.Errorf("query id must not exceed %d characters", MaxQueryIDLen)
	}

	if !QueryIDPattern.MatchString(queryID) {
		return fmt.Errorf("query id %q must start with a letter or digit and contain only letters, digits, '_' and '-'", queryID)
	}

	return nil
}
