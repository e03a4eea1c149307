// Package catalog provides read access to the disease knowledge base and the
// admin maintenance operations over it.
package catalog

import (
	"context"
	"log/slog"

	"github.com/mediguide/mediguide-client/internal/models"
)

// BrowseClient defines the read-only catalog operations of the remote API.
type BrowseClient interface {
	ListDiseases(ctx context.Context) ([]models.Disease, error)
	DiseaseDetail(ctx context.Context, diseaseID int64) (models.DiseaseDetail, error)
	ListSymptoms(ctx context.Context) ([]models.Symptom, error)
	ListPrecautions(ctx context.Context) ([]models.Precaution, error)
}

// Browse serves catalog reads for the search and symptom screens.
type Browse struct {
	logger *slog.Logger
	client BrowseClient
}

func NewBrowse(logger *slog.Logger, client BrowseClient) *Browse {
	if logger == nil {
		logger = slog.Default()
	}
	return &Browse{logger: logger, client: client}
}

// Diseases lists the catalog's diseases.
func (b *Browse) Diseases(ctx context.Context) ([]models.Disease, error) {
	diseases, err := b.client.ListDiseases(ctx)
	if err != nil {
		b.logger.Error("list diseases failed", slog.Any("error", err))
		return nil, err
	}
	b.logger.Debug("listed diseases", slog.Int("count", len(diseases)))
	return diseases, nil
}

// Disease returns the extended record for one disease: description plus its
// associated symptoms and precautions.
func (b *Browse) Disease(ctx context.Context, diseaseID int64) (models.DiseaseDetail, error) {
	detail, err := b.client.DiseaseDetail(ctx, diseaseID)
	if err != nil {
		b.logger.Error("disease detail failed", slog.Int64("disease_id", diseaseID), slog.Any("error", err))
		return models.DiseaseDetail{}, err
	}
	return detail, nil
}

// Symptoms lists the catalog's symptoms.
func (b *Browse) Symptoms(ctx context.Context) ([]models.Symptom, error) {
	symptoms, err := b.client.ListSymptoms(ctx)
	if err != nil {
		b.logger.Error("list symptoms failed", slog.Any("error", err))
		return nil, err
	}
	return symptoms, nil
}

// Precautions lists the catalog's precautions.
func (b *Browse) Precautions(ctx context.Context) ([]models.Precaution, error) {
	precautions, err := b.client.ListPrecautions(ctx)
	if err != nil {
		b.logger.Error("list precautions failed", slog.Any("error", err))
		return nil, err
	}
	return precautions, nil
}
