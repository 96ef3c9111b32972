package resumeparser

import (
	"testing"

	"ai-interview-backend/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run(`текстовое резюме`, func(t *testing.T) {
		text, err := Parse("resume.txt", []byte("  Senior Go developer\nOpen source contributor  \n"))
		require.Nil(t, err)
		require.Equal(t, "Senior Go developer\nOpen source contributor", text)
	})

	t.Run(`бинарный файл отклоняется`, func(t *testing.T) {
		_, err := Parse("resume.pdf", []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0x01})
		require.NotNil(t, err)
		require.True(t, errors.Is(err, models.ErrValidation))
	})

	t.Run(`невалидный utf-8 отклоняется`, func(t *testing.T) {
		_, err := Parse("resume.txt", []byte{0xff, 0xfe, 0x41})
		require.NotNil(t, err)
		require.True(t, errors.Is(err, models.ErrValidation))
	})

	t.Run(`пустой файл отклоняется`, func(t *testing.T) {
		_, err := Parse("resume.txt", nil)
		require.NotNil(t, err)
	})

	t.Run(`файл из пробелов отклоняется`, func(t *testing.T) {
		_, err := Parse("resume.txt", []byte("   \n\t  "))
		require.NotNil(t, err)
	})
}
