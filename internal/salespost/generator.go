package salespost

import (
	"context"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("estate-service/salespost")

// PlaceholderImageURL stands in for a merged preview of the uploaded photos.
const PlaceholderImageURL = "https://via.placeholder.com/800x600?text=Merged+Property+Images"

const extractionPrompt = "Extract the following information from this real estate image: address, price, size, features, and contact number. " +
	"Provide the information in Vietnamese. If any information is not present, omit that field."

// Models is the hosted AI backend.
type Models interface {
	// ExtractText asks the vision model about one image.
	ExtractText(ctx context.Context, prompt string, image domain.ImageFile) (string, error)
	// Complete asks the text model to write from prompt.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Post is the generated sales material.
type Post struct {
	Fields   Fields `json:"fields"`
	Body     string `json:"body"`
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption"`
}

type Generator struct {
	models  Models
	logger  *logger.Logger
	metrics *metrics.MetricsManager
}

func NewGenerator(models Models, log *logger.Logger, m *metrics.MetricsManager) *Generator {
	return &Generator{models: models, logger: log.Named("SalesPostGenerator"), metrics: m}
}

// Generate runs extraction on the first image, then writes the post. Nothing is retried and
// a generation failure discards the extracted fields.
func (g *Generator) Generate(ctx context.Context, images []domain.ImageFile) (*Post, error) {
	ctx, span := tracer.Start(ctx, "SalesPostGenerator.Generate")
	defer span.End()
	span.SetAttributes(attribute.Int("image_count", len(images)))

	if len(images) == 0 {
		g.metrics.SalesPost("extraction_failed")
		return nil, ErrExtraction
	}

	fields, err := g.Extract(ctx, images[0])
	if err != nil {
		span.SetStatus(codes.Error, "extraction failed")
		g.metrics.SalesPost("extraction_failed")
		return nil, err
	}

	body, err := g.models.Complete(ctx, GenerationPrompt(fields))
	body = strings.TrimSpace(body)
	if err != nil || body == "" {
		g.logger.Error("Sales post generation failed", zap.Error(err))
		span.SetStatus(codes.Error, "generation failed")
		g.metrics.SalesPost("generation_failed")
		return nil, ErrGeneration
	}

	g.logger.Info("Sales post generated", zap.Int("images", len(images)), zap.Int("body_length", len(body)))
	g.metrics.SalesPost("ok")
	return &Post{
		Fields:   fields,
		Body:     body,
		ImageURL: mergeImages(images),
		Caption:  Caption(fields),
	}, nil
}

// Extract reads the listing facts from one photo.
func (g *Generator) Extract(ctx context.Context, image domain.ImageFile) (Fields, error) {
	text, err := g.models.ExtractText(ctx, extractionPrompt, image)
	if err != nil {
		g.logger.Error("Image extraction failed", zap.String("image", image.Name), zap.Error(err))
		return Fields{}, ErrExtraction
	}
	if strings.TrimSpace(text) == "" {
		g.logger.Warn("Image extraction returned nothing", zap.String("image", image.Name))
		return Fields{}, ErrExtraction
	}
	fields := ParseFields(text)
	if fields.IsEmpty() {
		g.logger.Warn("Image extraction found no listing facts", zap.String("image", image.Name))
		return Fields{}, ErrExtraction
	}
	return fields, nil
}

// GenerationPrompt asks for an appealing Vietnamese sales post built from f.
func GenerationPrompt(f Fields) string {
	var b strings.Builder
	b.WriteString("Tạo một bài đăng bán bất động sản dựa trên thông tin sau:\n")
	fmt.Fprintf(&b, "Địa chỉ: %s\n", f.Address)
	fmt.Fprintf(&b, "Giá: %s\n", f.Price)
	fmt.Fprintf(&b, "Diện tích: %s\n", f.Size)
	fmt.Fprintf(&b, "Đặc điểm: %s\n", f.Features)
	fmt.Fprintf(&b, "Liên hệ: %s\n", f.Contact)
	if f.Legal != "" {
		fmt.Fprintf(&b, "Pháp lý: %s\n", f.Legal)
	}
	if f.ViewingTime != "" {
		fmt.Fprintf(&b, "Thời gian xem nhà: %s\n", f.ViewingTime)
	}
	b.WriteString("\nBài đăng nên hấp dẫn, nổi bật các tính năng chính, và bằng tiếng Việt.")
	return b.String()
}

// Caption is the short line shown under the preview image.
func Caption(f Fields) string {
	return fmt.Sprintf("%s, %s. Contact: %s", f.Address, f.Price, f.Contact)
}

// mergeImages does not compose anything yet; every post shares the same placeholder.
func mergeImages(_ []domain.ImageFile) string {
	return PlaceholderImageURL
}
