package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"hotel_saas/internal/domain"
)

// ImportResult summarises one property import.
type ImportResult struct {
	PropertyID int64 `json:"property_id"`
	Created    int   `json:"created"`
	Skipped    int   `json:"skipped"`
	Missing    bool  `json:"missing"`
}

// ImportService seeds a tenant's facility catalogue from the hotel content API.
type ImportService struct {
	content    domain.ContentClient
	facilities domain.TenantScopedRepository[domain.Facility]
	actor      string
}

func NewImportService(c domain.ContentClient, r domain.TenantScopedRepository[domain.Facility], actor string) *ImportService {
	if actor == "" {
		actor = "importer"
	}
	return &ImportService{content: c, facilities: r, actor: actor}
}

func (s *ImportService) ImportProperty(ctx context.Context, tenantID, propertyID int64) (ImportResult, error) {
	res := ImportResult{PropertyID: propertyID}

	p, err := s.content.GetProperty(ctx, propertyID)
	if err != nil {
		// Unknown or inaccessible properties are reported, not fatal.
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrAccessDenied) {
			log.Warn().Err(err).Int64("property", propertyID).Msg("property unavailable")
			res.Missing = true
			return res, nil
		}
		return res, err
	}

	for _, f := range mapFacilities(p) {
		_, err := s.facilities.Create(ctx, f, tenantID, s.actor)
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, domain.ErrConstraint), errors.Is(err, domain.ErrValidation):
			res.Skipped++
		default:
			return res, err
		}
	}
	return res, nil
}
