package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	t.Run(`чистый json`, func(t *testing.T) {
		obj, err := ExtractJSONObject(`{"a": 1, "b": "x"}`)
		require.Nil(t, err)
		require.Equal(t, float64(1), obj["a"])
		require.Equal(t, "x", obj["b"])
	})

	t.Run(`markdown ограждение`, func(t *testing.T) {
		obj, err := ExtractJSONObject("```json\n{\"a\": 1}\n```")
		require.Nil(t, err)
		require.Equal(t, float64(1), obj["a"])
	})

	t.Run(`ограждение без указания языка`, func(t *testing.T) {
		obj, err := ExtractJSONObject("```\n{\"ok\": true}\n```")
		require.Nil(t, err)
		require.Equal(t, true, obj["ok"])
	})

	t.Run(`json внутри текста`, func(t *testing.T) {
		obj, err := ExtractJSONObject(`Here is the result: {"score": 85} hope it helps`)
		require.Nil(t, err)
		require.Equal(t, float64(85), obj["score"])
	})

	t.Run(`вложенный объект через поиск скобок`, func(t *testing.T) {
		obj, err := ExtractJSONObject(`prefix {"outer": {"inner": 2}} suffix`)
		require.Nil(t, err)
		inner, ok := obj["outer"].(map[string]interface{})
		require.True(t, ok)
		require.Equal(t, float64(2), inner["inner"])
	})

	t.Run(`пустой ответ`, func(t *testing.T) {
		_, err := ExtractJSONObject("   ")
		require.NotNil(t, err)
	})

	t.Run(`ответ без json`, func(t *testing.T) {
		_, err := ExtractJSONObject("I cannot answer that")
		require.NotNil(t, err)
	})
}
