package extract

import "io"

type plainTextExtractor struct{}

func init() {
	Register("txt", plainTextExtractor{})
	Register("text", plainTextExtractor{})
}

func (plainTextExtractor) Extract(r io.ReaderAt, size int64) (string, error) {
	data, err := readAll(r, size)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
