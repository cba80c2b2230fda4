package service

import (
	"context"
	"fmt"

	"padron/internal/port"
)

// SelectableGroup is an obra social an operator can assign a roster to.
type SelectableGroup struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// ObraSocialService defines the obra social catalogue contract.
type ObraSocialService interface {
	ListSelectable(ctx context.Context) ([]SelectableGroup, error)
}

type obraSocialService struct {
	repo port.ObraSocialRepository
}

// NewObraSocialService creates a new ObraSocialService implementation.
func NewObraSocialService(repo port.ObraSocialRepository) ObraSocialService {
	return &obraSocialService{repo: repo}
}

func (s *obraSocialService) ListSelectable(ctx context.Context) ([]SelectableGroup, error) {
	obras, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing obras sociales: %w", err)
	}
	groups := make([]SelectableGroup, 0, len(obras))
	for _, o := range obras {
		label := o.Nombre
		if o.Codigo != "" && o.Codigo != o.Nombre {
			label = fmt.Sprintf("%s (%s)", o.Nombre, o.Codigo)
		}
		groups = append(groups, SelectableGroup{ID: o.ID, Label: label})
	}
	return groups, nil
}
