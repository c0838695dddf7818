package handler

import (
	"context"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/salespost"
)

type PostGenerator interface {
	Generate(ctx context.Context, images []domain.ImageFile) (*salespost.Post, error)
}

type SalesPostHandler struct {
	generator PostGenerator
	logger    *logger.Logger
}

func NewSalesPostHandler(g PostGenerator, log *logger.Logger) *SalesPostHandler {
	return &SalesPostHandler{generator: g, logger: log.Named("SalesPostHandler")}
}

// HandleGenerate reads photos from the images field and returns the generated post.
func (h *SalesPostHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		writeBadRequest(w, h.logger, "invalid multipart form", nil)
		return
	}
	images, err := readImages(r)
	if err != nil {
		writeBadRequest(w, h.logger, err.Error(), nil)
		return
	}
	post, err := h.generator.Generate(r.Context(), images)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, post)
}
