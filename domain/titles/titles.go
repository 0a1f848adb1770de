package titles

import (
	"encoding/json"

	"mnuda-backend/domain/core/entities"
)

// Derive returns the display title for a node. Precedence is fixed: a
// user-supplied custom title always wins, then a title derived from the
// node's own payload, then a generic per-kind fallback. Derivation never
// fails; every node gets some title.
func Derive(n *entities.Node) string {
	if t := n.CustomTitle(); t != "" {
		return t
	}
	if t := payloadTitle(n); t != "" {
		return t
	}
	return fallbackTitle(n)
}

func payloadTitle(n *entities.Node) string {
	switch n.Kind() {
	case entities.NodeKindUserFound:
		if addr := n.Address(); !addr.IsZero() {
			return addr.String()
		}
	case entities.NodeKindStart, entities.NodeKindAPIResult:
		if addr := n.Address(); !addr.IsZero() {
			return addr.String()
		}
	case entities.NodeKindPeopleResult:
		return personName(n.PersonData())
	}
	return ""
}

// personName pulls the display name out of the captured person snapshot
func personName(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}
	var rec map[string]interface{}
	if err := json.Unmarshal(data, &rec); err != nil {
		return ""
	}
	for _, key := range []string{"name", "full_name", "fullName"} {
		if s, ok := rec[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func fallbackTitle(n *entities.Node) string {
	switch n.Kind() {
	case entities.NodeKindStart:
		if n.APIName() != "" {
			return n.APIName()
		}
		return "New Search"
	case entities.NodeKindAPIResult:
		if n.APIName() != "" {
			return n.APIName() + " Results"
		}
		return "Search Results"
	case entities.NodeKindPeopleResult:
		return "Person Details"
	case entities.NodeKindUserFound:
		return entities.HistoryAPIName
	}
	return "Node"
}
