package extraction

import (
	"encoding/json"

	"mnuda-backend/domain/core/entities"
	"mnuda-backend/domain/core/valueobjects"
)

// ExtractPersonDetail walks a person-detail response and yields entities for
// every recognized group: related persons, addresses, phones, emails,
// properties, and images. Each group may arrive as an array, a single value,
// or not at all; unusable items are skipped without failing the group.
//
// Only related persons with a resolvable upstream id and addresses complete
// enough to search become traceable; everything else is a read-only leaf.
func ExtractPersonDetail(raw json.RawMessage, parentNodeID valueobjects.Identifier) ([]entities.Entity, entities.EntityCounts) {
	body, ok := decodeObject(raw)
	if !ok {
		return nil, entities.EntityCounts{}
	}
	// Some upstreams nest the detail record one level down
	if inner, ok := asMap(coalesce(body, "person", "data", "result")); ok {
		body = inner
	}

	var out []entities.Entity

	for _, item := range asSlice(coalesce(body, "persons", "related_persons", "relatives")) {
		rec, ok := asMap(item)
		if !ok {
			continue
		}
		p := entities.PersonPayload{
			Name:         firstString(rec, "name", "full_name", "fullName"),
			Age:          firstString(rec, "age"),
			APIPersonID:  firstString(rec, "apiPersonId", "api_person_id", "person_id", "personId", "id"),
			ProfileLink:  firstString(rec, "profile_link", "profileLink", "link"),
			Relationship: firstString(rec, "relationship", "relation"),
		}
		if p.Name == "" && p.APIPersonID == "" {
			continue
		}
		out = append(out, entities.NewPersonEntity(p, parentNodeID, SourcePersonDetail))
	}

	for _, item := range asSlice(coalesce(body, "addresses", "address")) {
		rec, ok := asMap(item)
		if !ok {
			continue
		}
		addr := parseAddress(rec)
		if addr.IsZero() {
			continue
		}
		out = append(out, entities.NewAddressEntity(addr, parentNodeID, SourcePersonDetail))
	}

	for _, item := range asSlice(coalesce(body, "phones", "phone_numbers", "phone")) {
		p := parsePhone(item)
		if p.Number == "" {
			continue
		}
		out = append(out, entities.NewPhoneEntity(p, parentNodeID, SourcePersonDetail))
	}

	for _, item := range asSlice(coalesce(body, "emails", "email_addresses", "email")) {
		e := parseEmail(item)
		if e.Address == "" {
			continue
		}
		out = append(out, entities.NewEmailEntity(e, parentNodeID, SourcePersonDetail))
	}

	for _, item := range asSlice(coalesce(body, "properties", "property")) {
		rec, ok := asMap(item)
		if !ok {
			continue
		}
		p := parsePropertyRecord(rec)
		if p.Address.IsZero() && p.Price == 0 {
			continue
		}
		out = append(out, entities.NewPropertyEntity(p, parentNodeID, SourcePersonDetail))
	}

	for _, item := range asSlice(coalesce(body, "images", "photos")) {
		img := parseImage(item)
		if img.URL == "" {
			continue
		}
		out = append(out, entities.NewImageEntity(img, parentNodeID, SourcePersonDetail))
	}

	return out, entities.CountEntities(out)
}

// parsePhone accepts either a bare number string or a record
func parsePhone(v interface{}) entities.PhonePayload {
	if rec, ok := asMap(v); ok {
		return entities.PhonePayload{
			Number: firstString(rec, "number", "phone", "phone_number", "phoneNumber"),
			Type:   firstString(rec, "type", "phone_type", "phoneType"),
		}
	}
	return entities.PhonePayload{Number: asString(v)}
}

// parseEmail accepts either a bare address string or a record
func parseEmail(v interface{}) entities.EmailPayload {
	if rec, ok := asMap(v); ok {
		return entities.EmailPayload{
			Address: firstString(rec, "email", "address", "email_address", "emailAddress"),
		}
	}
	return entities.EmailPayload{Address: asString(v)}
}

// parseImage accepts either a bare URL string or a record
func parseImage(v interface{}) entities.ImagePayload {
	if rec, ok := asMap(v); ok {
		return entities.ImagePayload{
			URL:     firstString(rec, "url", "src", "href"),
			Caption: firstString(rec, "caption", "title"),
		}
	}
	return entities.ImagePayload{URL: asString(v)}
}
