package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/paperless-date-normalizer/internal/core/datepattern"
	"github.com/kirillkom/paperless-date-normalizer/internal/core/domain"
	"github.com/kirillkom/paperless-date-normalizer/internal/core/ports"
)

type NormalizeDocumentUseCase struct {
	api       ports.DocumentAPI
	publisher ports.EventPublisher
	dryRun    bool
}

func NewNormalizeDocumentUseCase(api ports.DocumentAPI, publisher ports.EventPublisher, dryRun bool) *NormalizeDocumentUseCase {
	return &NormalizeDocumentUseCase{
		api:       api,
		publisher: publisher,
		dryRun:    dryRun,
	}
}

func (uc *NormalizeDocumentUseCase) NormalizeByID(ctx context.Context, documentID int) (domain.NormalizeResult, error) {
	result := domain.NormalizeResult{DocumentID: documentID}

	current, err := uc.fetch(ctx, documentID)
	if err != nil {
		return result, err
	}
	result.Before = current

	updated, match, ok := datepattern.NormalizeMatch(current.Title)
	if !ok {
		slog.Info("no_date_match", "document_id", documentID, "message", "no date match found - nothing to do")
		result.Outcome = domain.OutcomeNoMatch
		return result, nil
	}
	result.After = updated
	slog.Info("document_properties_new",
		"document_id", documentID,
		"pattern", match.Pattern,
		"title", updated.Title,
		"created_date", updated.CreatedDate,
	)

	if uc.dryRun {
		slog.Info("dry_run_skip_update", "document_id", documentID)
		result.Outcome = domain.OutcomeDryRun
		return result, nil
	}

	if err := uc.api.UpdateDocument(ctx, documentID, updated); err != nil {
		return result, fmt.Errorf("set new document properties: %w", err)
	}
	result.Outcome = domain.OutcomeUpdated
	slog.Info("document_updated", "document_id", documentID, "message", "successfully renamed document and updated created date")

	uc.publish(ctx, result)
	return result, nil
}

func (uc *NormalizeDocumentUseCase) fetch(ctx context.Context, documentID int) (domain.DocumentProperties, error) {
	props, err := uc.api.GetDocument(ctx, documentID)
	if err != nil {
		return domain.DocumentProperties{}, fmt.Errorf("fetch document data: %w", err)
	}
	slog.Info("document_properties",
		"document_id", documentID,
		"title", props.Title,
		"created_date", props.CreatedDate,
	)
	return props, nil
}

// publish is best effort: the remote update already succeeded.
func (uc *NormalizeDocumentUseCase) publish(ctx context.Context, result domain.NormalizeResult) {
	if uc.publisher == nil {
		return
	}
	event := domain.DocumentNormalized{
		DocumentID:    result.DocumentID,
		PreviousTitle: result.Before.Title,
		Title:         result.After.Title,
		CreatedDate:   result.After.CreatedDate,
	}
	if err := uc.publisher.PublishDocumentNormalized(ctx, event); err != nil {
		slog.Warn("publish_document_normalized", "document_id", result.DocumentID, "error", err)
	}
}
