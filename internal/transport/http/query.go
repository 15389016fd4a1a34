package http

import (
	"net/http"
	"strings"

	apperrors "github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

// parseViewQuery reads search, diplomatura, aprobado, sort and direction.
// diplomatura may repeat or hold a comma separated list.
func parseViewQuery(r *http.Request) (domain.Filters, domain.SortConfig, error) {
	q := r.URL.Query()

	filters := domain.Filters{Search: q.Get("search")}
	for _, raw := range q["diplomatura"] {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				filters.Diplomatura = append(filters.Diplomatura, name)
			}
		}
	}

	switch a := domain.ApprovalFilter(q.Get("aprobado")); a {
	case "", domain.ApprovalAll, domain.ApprovalAprobado, domain.ApprovalNoAprobado:
		filters.Aprobado = a
	default:
		return filters, domain.SortConfig{}, apperrors.NewValidationFailure("Filtro inválido", apperrors.ValidationError{
			Field:   "aprobado",
			Message: "El filtro debe ser all, aprobado o no-aprobado",
		})
	}

	sortCfg := domain.SortConfig{Key: domain.SortKey(q.Get("sort")), Direction: domain.SortAsc}
	switch d := domain.SortDirection(q.Get("direction")); d {
	case "", domain.SortAsc:
	case domain.SortDesc:
		sortCfg.Direction = d
	default:
		return filters, sortCfg, apperrors.NewValidationFailure("Orden inválido", apperrors.ValidationError{
			Field:   "direction",
			Message: "La dirección debe ser asc o desc",
		})
	}
	return filters, sortCfg, nil
}
