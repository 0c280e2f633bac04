package dataprocessing

import (
	"strings"

	"logisticsmart/internal/config"
	"logisticsmart/pkg/contracts/domain"
)

type roleKeywords struct {
	role     domain.ColumnRole
	keywords []string
}

// keywordRoles is evaluated in this order for every column
var keywordRoles = []roleKeywords{
	{domain.RoleStatus, lowerAll(config.ColumnKeywords["status"])},
	{domain.RoleDeliverer, lowerAll(config.ColumnKeywords["deliverer"])},
	{domain.RoleCity, lowerAll(config.ColumnKeywords["city"])},
	{domain.RoleProduct, lowerAll(config.ColumnKeywords["product"])},
	{domain.RoleClient, lowerAll(config.ColumnKeywords["client"])},
}

// DetectColumns assigns semantic roles to column names by case-insensitive
// substring matching. The date_due role is matched against the required
// labels, then status, deliverer, city, product and client in that order.
// A column takes the first role it matches that is still free, and a role
// keeps the first column that claimed it.
func DetectColumns(columns []string, requiredLabels []string) domain.ColumnMap {
	required := lowerAll(requiredLabels)
	result := make(domain.ColumnMap)

	for _, col := range columns {
		name := strings.ToLower(col)

		if !result.Has(domain.RoleDateDue) && containsAny(name, required) {
			result[domain.RoleDateDue] = col
			continue
		}

		for _, rk := range keywordRoles {
			if result.Has(rk.role) {
				continue
			}
			if containsAny(name, rk.keywords) {
				result[rk.role] = col
				break
			}
		}
	}

	return result
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if f != "" && strings.Contains(s, f) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
