package domain

// ColumnRole is the semantic meaning of a column, independent of its header text
type ColumnRole string

const (
	RoleDateDue   ColumnRole = "date_due"
	RoleDeliverer ColumnRole = "deliverer"
	RoleCity      ColumnRole = "city"
	RoleStatus    ColumnRole = "status"
	RoleProduct   ColumnRole = "product"
	RoleClient    ColumnRole = "client"
)

// AllRoles lists the roles in detection order
var AllRoles = []ColumnRole{RoleDateDue, RoleStatus, RoleDeliverer, RoleCity, RoleProduct, RoleClient}

// roleAliases maps the Portuguese names used by the UI and CLI to roles
var roleAliases = map[string]ColumnRole{
	"data_entrega": RoleDateDue,
	"entregador":   RoleDeliverer,
	"cidade":       RoleCity,
	"status":       RoleStatus,
	"produto":      RoleProduct,
	"cliente":      RoleClient,
}

// ParseRole resolves a role name or alias
func ParseRole(key string) (ColumnRole, bool) {
	for _, r := range AllRoles {
		if string(r) == key {
			return r, true
		}
	}
	r, ok := roleAliases[key]
	return r, ok
}

// ColumnMap assigns each role at most one column name
type ColumnMap map[ColumnRole]string

// Column returns the column mapped to role
func (m ColumnMap) Column(role ColumnRole) (string, bool) {
	name, ok := m[role]
	return name, ok && name != ""
}

// Has reports whether role is mapped
func (m ColumnMap) Has(role ColumnRole) bool {
	_, ok := m.Column(role)
	return ok
}

// Clone copies the map
func (m ColumnMap) Clone() ColumnMap {
	out := make(ColumnMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
