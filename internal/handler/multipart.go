package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
)

const (
	maxMultipartMemory = 32 << 20
	maxImageBytes      = 10 << 20
	imagesField        = "images"
)

var errImageTooLarge = errors.New("image exceeds 10 MB")

func parseMultipart(r *http.Request) error {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// readImages loads every file under the images field, in form order.
func readImages(r *http.Request) ([]domain.ImageFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[imagesField]
	files := make([]domain.ImageFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readImage(fh)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fh.Filename, err)
		}
		files = append(files, f)
	}
	return files, nil
}

func readImage(fh *multipart.FileHeader) (domain.ImageFile, error) {
	if fh.Size > maxImageBytes {
		return domain.ImageFile{}, errImageTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return domain.ImageFile{}, err
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, maxImageBytes+1))
	if err != nil {
		return domain.ImageFile{}, err
	}
	if len(data) > maxImageBytes {
		return domain.ImageFile{}, errImageTooLarge
	}
	return domain.ImageFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
