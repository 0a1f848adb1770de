package entities

import (
	"encoding/json"

	"mnuda-backend/domain/core/valueobjects"
)

// EntityKind discriminates the extracted-entity union
type EntityKind string

const (
	EntityKindPerson   EntityKind = "person"
	EntityKindAddress  EntityKind = "address"
	EntityKindProperty EntityKind = "property"
	EntityKindPhone    EntityKind = "phone"
	EntityKindEmail    EntityKind = "email"
	EntityKindImage    EntityKind = "image"
)

// Entity is a normalized fact extracted from a node's raw response. It is a
// tagged union: Kind selects which payload pointer is set; all other payload
// pointers are nil. Entities are derived on every read, never stored, so
// they cannot drift from the response that produced them.
//
// MnEntityID is present iff the entity is traceable: a person with a
// resolvable upstream person id, or an address complete enough for an
// address-intelligence lookup. Everything else is a read-only leaf.
type Entity struct {
	MnEntityID   valueobjects.Identifier `json:"mnEntityId,omitempty"`
	Kind         EntityKind              `json:"type"`
	ParentNodeID valueobjects.Identifier `json:"parentNodeId"`
	Source       string                  `json:"source"`
	IsTraceable  bool                    `json:"isTraceable"`

	Person   *PersonPayload        `json:"person,omitempty"`
	Address  *valueobjects.Address `json:"address,omitempty"`
	Property *PropertyPayload      `json:"property,omitempty"`
	Phone    *PhonePayload         `json:"phone,omitempty"`
	Email    *EmailPayload         `json:"email,omitempty"`
	Image    *ImagePayload         `json:"image,omitempty"`
}

// MarshalJSON drops mnEntityId entirely for non-traceable entities. The field
// must be absent on the wire, not an empty string: absence is what tells a
// client the entity cannot be drilled into.
func (e Entity) MarshalJSON() ([]byte, error) {
	type entityAlias Entity
	if e.MnEntityID.IsZero() {
		return json.Marshal(struct {
			entityAlias
			MnEntityID *valueobjects.Identifier `json:"mnEntityId,omitempty"`
		}{entityAlias: entityAlias(e)})
	}
	return json.Marshal(entityAlias(e))
}

// PersonPayload carries person facts from either a people-search listing
// (the PersonRecord shape) or a person-detail response
type PersonPayload struct {
	Name          string   `json:"name,omitempty"`
	Age           string   `json:"age,omitempty"`
	LivesIn       string   `json:"livesIn,omitempty"`
	UsedToLiveIn  []string `json:"usedToLiveIn,omitempty"`
	RelatedTo     []string `json:"relatedTo,omitempty"`
	APIPersonID   string   `json:"apiPersonId,omitempty"`
	ProfileLink   string   `json:"profileLink,omitempty"`
	Relationship  string   `json:"relationship,omitempty"`
}

// PropertyPayload carries a property record's descriptive fields
type PropertyPayload struct {
	Address   valueobjects.Address `json:"address"`
	Latitude  float64              `json:"latitude,omitempty"`
	Longitude float64              `json:"longitude,omitempty"`
	Beds      int                  `json:"beds,omitempty"`
	Baths     float64              `json:"baths,omitempty"`
	SquareFt  int                  `json:"squareFt,omitempty"`
	YearBuilt int                  `json:"yearBuilt,omitempty"`
	Price     float64              `json:"price,omitempty"`
	Status    string               `json:"status,omitempty"`
}

// PhonePayload carries a phone number fact
type PhonePayload struct {
	Number string `json:"number"`
	Type   string `json:"phoneType,omitempty"`
}

// EmailPayload carries an email address fact
type EmailPayload struct {
	Address string `json:"email"`
}

// ImagePayload carries an image reference
type ImagePayload struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// NewPersonEntity builds a person entity. It is traceable, and receives an
// identifier, iff the upstream person id is resolvable.
func NewPersonEntity(payload PersonPayload, parentNodeID valueobjects.Identifier, source string) Entity {
	e := Entity{
		Kind:         EntityKindPerson,
		ParentNodeID: parentNodeID,
		Source:       source,
		Person:       &payload,
	}
	if payload.APIPersonID != "" {
		e.IsTraceable = true
		e.MnEntityID = valueobjects.NewEntityIdentifier()
	}
	return e
}

// NewAddressEntity builds an address entity. It is traceable iff the address
// is complete enough to seed an address-intelligence lookup.
func NewAddressEntity(addr valueobjects.Address, parentNodeID valueobjects.Identifier, source string) Entity {
	e := Entity{
		Kind:         EntityKindAddress,
		ParentNodeID: parentNodeID,
		Source:       source,
		Address:      &addr,
	}
	if addr.IsSearchable() {
		e.IsTraceable = true
		e.MnEntityID = valueobjects.NewEntityIdentifier()
	}
	return e
}

// NewPropertyEntity builds a property entity; properties are read-only leaves
func NewPropertyEntity(payload PropertyPayload, parentNodeID valueobjects.Identifier, source string) Entity {
	return Entity{
		Kind:         EntityKindProperty,
		ParentNodeID: parentNodeID,
		Source:       source,
		Property:     &payload,
	}
}

// NewPhoneEntity builds a phone entity; phones are read-only leaves
func NewPhoneEntity(payload PhonePayload, parentNodeID valueobjects.Identifier, source string) Entity {
	return Entity{
		Kind:         EntityKindPhone,
		ParentNodeID: parentNodeID,
		Source:       source,
		Phone:        &payload,
	}
}

// NewEmailEntity builds an email entity; emails are read-only leaves
func NewEmailEntity(payload EmailPayload, parentNodeID valueobjects.Identifier, source string) Entity {
	return Entity{
		Kind:         EntityKindEmail,
		ParentNodeID: parentNodeID,
		Source:       source,
		Email:        &payload,
	}
}

// NewImageEntity builds an image entity; images are read-only leaves
func NewImageEntity(payload ImagePayload, parentNodeID valueobjects.Identifier, source string) Entity {
	return Entity{
		Kind:         EntityKindImage,
		ParentNodeID: parentNodeID,
		Source:       source,
		Image:        &payload,
	}
}

// DisplayLabel returns a short human-readable label for the entity
func (e Entity) DisplayLabel() string {
	switch e.Kind {
	case EntityKindPerson:
		if e.Person != nil && e.Person.Name != "" {
			return e.Person.Name
		}
		return "Unknown Person"
	case EntityKindAddress:
		if e.Address != nil && !e.Address.IsZero() {
			return e.Address.String()
		}
		return "Unknown Address"
	case EntityKindProperty:
		if e.Property != nil && !e.Property.Address.IsZero() {
			return e.Property.Address.String()
		}
		return "Property"
	case EntityKindPhone:
		if e.Phone != nil && e.Phone.Number != "" {
			return e.Phone.Number
		}
		return "Phone"
	case EntityKindEmail:
		if e.Email != nil && e.Email.Address != "" {
			return e.Email.Address
		}
		return "Email"
	case EntityKindImage:
		return "Image"
	}
	return string(e.Kind)
}

// EntityCounts aggregates extracted entities per kind. Both the flat list and
// the counts are consumed downstream: the list for rendering order, the
// counts for summaries.
type EntityCounts struct {
	Persons    int `json:"persons"`
	Addresses  int `json:"addresses"`
	Properties int `json:"properties"`
	Phones     int `json:"phones"`
	Emails     int `json:"emails"`
	Images     int `json:"images"`
}

// Total sums the per-kind counts
func (c EntityCounts) Total() int {
	return c.Persons + c.Addresses + c.Properties + c.Phones + c.Emails + c.Images
}

// CountEntities tallies a flat entity list per kind
func CountEntities(list []Entity) EntityCounts {
	var counts EntityCounts
	for _, e := range list {
		switch e.Kind {
		case EntityKindPerson:
			counts.Persons++
		case EntityKindAddress:
			counts.Addresses++
		case EntityKindProperty:
			counts.Properties++
		case EntityKindPhone:
			counts.Phones++
		case EntityKindEmail:
			counts.Emails++
		case EntityKindImage:
			counts.Images++
		}
	}
	return counts
}
