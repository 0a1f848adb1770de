package extraction

import (
	"mnuda-backend/domain/core/entities"
	"mnuda-backend/domain/core/valueobjects"
)

// API names carried on nodes. Start nodes carry the search modality; result
// nodes carry the upstream service that produced the response.
const (
	APINameNameSearch    = "Name Search"
	APINameEmailSearch   = "Email Search"
	APINamePhoneSearch   = "Phone Search"
	APINameAddressSearch = "Address Search"
	APINamePropertySearch = "Property Search"
	APINamePersonDetail  = "Person Detail"
)

// Source tags stamped on extracted entities
const (
	SourcePeopleSearch = "people-search"
	SourcePersonDetail = "person-detail"
	SourceProperty     = "property"
)

// ExtractForNode derives the entities for a node from its raw response. The
// extractor is selected by node kind and API name; nodes without a response
// (input nodes, bootstrap nodes) yield nothing. Extraction is re-run on every
// read and is never persisted, so results cannot drift from the response.
func ExtractForNode(n *entities.Node) ([]entities.Entity, entities.EntityCounts) {
	if n == nil || len(n.Response()) == 0 {
		return nil, entities.EntityCounts{}
	}
	switch n.Kind() {
	case entities.NodeKindPeopleResult:
		return ExtractPersonDetail(n.Response(), n.ID())
	case entities.NodeKindAPIResult:
		if n.APIName() == APINamePropertySearch {
			return ExtractProperty(n.Response(), n.ID())
		}
		return ExtractPeopleListing(n.Response(), n.ID())
	}
	return nil, entities.EntityCounts{}
}

// HasPrimaryRecords reports whether a result node's primary collection is
// non-empty. This is the predicate behind derived completion of the preceding
// input node.
func HasPrimaryRecords(n *entities.Node) bool {
	_, counts := ExtractForNode(n)
	return counts.Total() > 0
}

// parseAddress reads address fields from a loose record, tolerating the field
// spellings the upstreams alternate between
func parseAddress(m payload) valueobjects.Address {
	return valueobjects.NewAddress(
		firstString(m, "street", "streetAddress", "street_address", "line1"),
		firstString(m, "city"),
		firstString(m, "state", "region"),
		firstString(m, "postal", "zip", "zipcode", "postal_code"),
	)
}
