package extraction

import (
	"encoding/json"

	"mnuda-backend/domain/core/entities"
	"mnuda-backend/domain/core/valueobjects"
)

// ExtractPeopleListing walks a people-search response and yields one person
// entity per usable record. The "people" array is the primary collection;
// malformed records are skipped item-by-item so one bad record never sinks
// the listing. Records are never deduplicated: two identical-looking people
// may be distinct individuals.
func ExtractPeopleListing(raw json.RawMessage, parentNodeID valueobjects.Identifier) ([]entities.Entity, entities.EntityCounts) {
	body, ok := decodeObject(raw)
	if !ok {
		return nil, entities.EntityCounts{}
	}

	records := asSlice(body["people"])
	if records == nil {
		records = asSlice(body["persons"])
	}

	var out []entities.Entity
	for _, item := range records {
		rec, ok := asMap(item)
		if !ok {
			continue
		}
		p := parsePersonRecord(rec)
		if p.Name == "" && p.APIPersonID == "" {
			continue
		}
		out = append(out, entities.NewPersonEntity(p, parentNodeID, SourcePeopleSearch))
	}
	return out, entities.CountEntities(out)
}

// parsePersonRecord normalizes one listing record into a person payload.
// The upstream person id is opaque; it is carried verbatim and only its
// presence matters for traceability.
func parsePersonRecord(rec payload) entities.PersonPayload {
	return entities.PersonPayload{
		Name:         firstString(rec, "name", "full_name", "fullName"),
		Age:          firstString(rec, "age"),
		LivesIn:      firstString(rec, "lives_in", "livesIn", "location"),
		UsedToLiveIn: asStringSlice(coalesce(rec, "used_to_live_in", "usedToLiveIn", "past_addresses")),
		RelatedTo:    asStringSlice(coalesce(rec, "related_to", "relatedTo", "relatives")),
		APIPersonID:  firstString(rec, "apiPersonId", "api_person_id", "person_id", "personId", "id"),
		ProfileLink:  firstString(rec, "profile_link", "profileLink", "link", "url"),
	}
}

// coalesce returns the first present value among the named keys
func coalesce(m payload, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}
