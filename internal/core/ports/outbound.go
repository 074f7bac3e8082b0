package ports

import (
	"context"

	"github.com/kirillkom/paperless-date-normalizer/internal/core/domain"
)

// DocumentAPI reads and partially updates documents on the remote API.
type DocumentAPI interface {
	GetDocument(ctx context.Context, id int) (domain.DocumentProperties, error)
	UpdateDocument(ctx context.Context, id int, props domain.DocumentProperties) error
}

// EventPublisher announces documents that were rewritten.
type EventPublisher interface {
	PublishDocumentNormalized(ctx context.Context, event domain.DocumentNormalized) error
}
