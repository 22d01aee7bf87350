package store

import (
	"fmt"
	"strings"

	"careline/internal/complaint/models"
)

// composeWhere turns a caller scope and the listing filter into a WHERE
// clause with positional arguments. The scope is part of the query itself,
// never applied after fetch, so a restricted caller cannot observe row counts
// through pagination side channels.
func composeWhere(scope models.Scope, filter models.Filter) (string, []any) {
	var conds []string
	var args []any

	switch scope.Kind {
	case models.ScopeAll:
		// unrestricted
	case models.ScopeOwn:
		args = append(args, scope.EmployeeID)
		conds = append(conds, fmt.Sprintf("c.submitted_by = $%d", len(args)))
	case models.ScopeNone:
		conds = append(conds, "FALSE")
	}

	if filter.Days > 0 {
		args = append(args, filter.Days)
		conds = append(conds, fmt.Sprintf("c.complaint_date >= now() - make_interval(days => $%d)", len(args)))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(CAST(c.complaint_id AS TEXT) LIKE $%d OR p.full_name LIKE $%d OR p.national_id LIKE $%d)",
			n-2, n-1, n,
		))
	}

	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		conds = append(conds, fmt.Sprintf("c.current_status = $%d", len(args)))
	}

	if dept := strings.TrimSpace(filter.Department); dept != "" {
		args = append(args, "%"+dept+"%")
		conds = append(conds, fmt.Sprintf("d.department_name LIKE $%d", len(args)))
	}

	if typ := strings.TrimSpace(filter.ComplaintType); typ != "" {
		args = append(args, "%"+typ+"%")
		conds = append(conds, fmt.Sprintf("ct.type_name LIKE $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}
