package dataset

import (
	"fmt"
	"strings"
)

// MappingRule describes one table entry from a mapping file
type MappingRule struct {
	Table string
	Role  Role
	Keys  []string
}

// ParseMapping interprets the relational mapping syntax
//
//	customers:parent|customer_id#sales:child|customer_id
//
// Table entries are separated by '#'; each entry is name:role|key[;key...].
func ParseMapping(line string) ([]MappingRule, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, fmt.Errorf("mapping is empty")
	}

	var rules []MappingRule
	for _, entry := range strings.Split(line, "#") {
		info, keysRaw, ok := strings.Cut(entry, "|")
		if !ok {
			return nil, fmt.Errorf("mapping entry %q is missing '|key' section", entry)
		}
		name, roleRaw, ok := strings.Cut(info, ":")
		if !ok {
			return nil, fmt.Errorf("mapping entry %q is missing ':role' section", entry)
		}

		role, err := parseRole(roleRaw)
		if err != nil {
			return nil, fmt.Errorf("mapping entry %q: %w", entry, err)
		}

		keys := strings.Split(keysRaw, ";")
		for i := range keys {
			keys[i] = strings.TrimSpace(keys[i])
			if keys[i] == "" {
				return nil, fmt.Errorf("mapping entry %q has an empty key", entry)
			}
		}

		rules = append(rules, MappingRule{
			Table: strings.TrimSpace(name),
			Role:  role,
			Keys:  keys,
		})
	}
	return rules, nil
}

func parseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "parent", "pai":
		return RoleParent, nil
	case "child", "filho":
		return RoleChild, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}
