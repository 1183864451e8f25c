package entity

// ClassTable classifies server-class names as weapon or projectile classes
// by walking the data-table inheritance graph declared in the demo's signon
// block. Built once per demo from
// ParseTable entries, then consulted read-only during entity construction.
type ClassTable struct {
	weaponClasses     map[string]bool
	projectileClasses map[string]bool
}

// ParseTable mirrors the demuxer's data-table declaration: a table name and
// the name of the single base class it inherits from, if any ("" = none).
// This is the minimal shape the analyzer needs out of the signon's send-table
// declarations; the demuxer may expose richer
// information, but only "baseclass" edges matter for kind dispatch.
type ParseTable struct {
	Name      string
	BaseClass string
}

const (
	baseWeaponTable     = "DT_BaseCombatWeapon"
	baseProjectileTable = "DT_BaseProjectile"
)

// BuildClassTable walks the inheritance edges in tables and marks every
// transitive descendant of DT_BaseCombatWeapon as a weapon class and of
// DT_BaseProjectile as a projectile class.
func BuildClassTable(tables []ParseTable) *ClassTable {
	children := make(map[string][]string, len(tables))
	for _, t := range tables {
		if t.BaseClass == "" {
			continue
		}
		children[t.BaseClass] = append(children[t.BaseClass], t.Name)
	}

	ct := &ClassTable{
		weaponClasses:     make(map[string]bool),
		projectileClasses: make(map[string]bool),
	}
	markDescendants(children, baseWeaponTable, ct.weaponClasses)
	markDescendants(children, baseProjectileTable, ct.projectileClasses)
	return ct
}

func markDescendants(children map[string][]string, root string, into map[string]bool) {
	var walk func(name string)
	walk = func(name string) {
		for _, child := range children[name] {
			if into[child] {
				continue // already visited; guards against a malformed cycle
			}
			into[child] = true
			walk(child)
		}
	}
	walk(root)
}

// IsWeaponClass reports whether class is DT_BaseCombatWeapon or a transitive
// subclass of it.
func (ct *ClassTable) IsWeaponClass(class string) bool {
	if ct == nil {
		return false
	}
	return class == baseWeaponTable || ct.weaponClasses[class]
}

// IsProjectileClass reports whether class is DT_BaseProjectile or a
// transitive subclass of it.
func (ct *ClassTable) IsProjectileClass(class string) bool {
	if ct == nil {
		return false
	}
	return class == baseProjectileTable || ct.projectileClasses[class]
}
