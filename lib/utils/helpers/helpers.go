package helpers

import (
	"context"
	"strings"
)

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

// WordCount — количество слов в тексте, пустые строки дают 0
func WordCount(text string) int {
	return len(strings.Fields(text))
}
