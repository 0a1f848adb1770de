package extraction

import (
	"encoding/json"

	"mnuda-backend/domain/core/entities"
	"mnuda-backend/domain/core/valueobjects"
)

// ExtractProperty walks a property-lookup response, which carries a single
// record rather than a listing. It yields one property entity, a traceable
// address entity when the record's address is complete, and an image entity
// per usable photo.
func ExtractProperty(raw json.RawMessage, parentNodeID valueobjects.Identifier) ([]entities.Entity, entities.EntityCounts) {
	body, ok := decodeObject(raw)
	if !ok {
		return nil, entities.EntityCounts{}
	}
	if inner, ok := asMap(coalesce(body, "property", "data", "result")); ok {
		body = inner
	}

	prop := parsePropertyRecord(body)
	if prop.Address.IsZero() && prop.Price == 0 && prop.Latitude == 0 {
		return nil, entities.EntityCounts{}
	}

	out := []entities.Entity{
		entities.NewPropertyEntity(prop, parentNodeID, SourceProperty),
	}
	if !prop.Address.IsZero() {
		out = append(out, entities.NewAddressEntity(prop.Address, parentNodeID, SourceProperty))
	}
	for _, item := range asSlice(coalesce(body, "images", "photos")) {
		img := parseImage(item)
		if img.URL == "" {
			continue
		}
		out = append(out, entities.NewImageEntity(img, parentNodeID, SourceProperty))
	}

	return out, entities.CountEntities(out)
}

// parsePropertyRecord normalizes one property record. The address may be
// nested under "address" or spread flat across the record; numeric fields may
// arrive as numbers or numeric strings.
func parsePropertyRecord(rec payload) entities.PropertyPayload {
	addr := parseAddress(rec)
	if nested, ok := asMap(rec["address"]); ok {
		if a := parseAddress(nested); !a.IsZero() {
			addr = a
		}
	}
	return entities.PropertyPayload{
		Address:   addr,
		Latitude:  asFloat(coalesce(rec, "latitude", "lat")),
		Longitude: asFloat(coalesce(rec, "longitude", "lng", "lon")),
		Beds:      asInt(coalesce(rec, "bedrooms", "beds")),
		Baths:     asFloat(coalesce(rec, "bathrooms", "baths")),
		SquareFt:  asInt(coalesce(rec, "livingArea", "living_area", "sqft", "squareFt")),
		YearBuilt: asInt(coalesce(rec, "yearBuilt", "year_built")),
		Price:     asFloat(coalesce(rec, "price", "zestimate", "value")),
		Status:    firstString(rec, "homeStatus", "home_status", "status"),
	}
}
