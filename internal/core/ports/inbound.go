package ports

import (
	"context"

	"github.com/kirillkom/paperless-date-normalizer/internal/core/domain"
)

// DocumentNormalizer is the inbound contract for a single normalization run.
type DocumentNormalizer interface {
	NormalizeByID(ctx context.Context, documentID int) (domain.NormalizeResult, error)
}
