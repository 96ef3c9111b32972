package apiv1

import (
	"bytes"
	"io"
	"mime/multipart"

	"github.com/pkg/errors"
)

func readMultipartFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.Wrap(err, "ошибка открытия файла")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка чтения файла")
	}
	return data, nil
}

func bytesReader(data []byte) io.Reader {
	return bytes.NewReader(data)
}
