package models

import (
	"encoding/json"
	"time"
)

// Status is the fulfillment stage of an order
type Status string

const (
	StatusPending          Status = "pending"
	StatusConfirmed        Status = "confirmed"
	StatusInProduction     Status = "in_production"
	StatusReadyForDelivery Status = "ready_for_delivery"
	StatusDelivered        Status = "delivered"
	StatusCancelled        Status = "cancelled"
)

// Gender selects which style attributes apply to an order
type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderUnisex Gender = "unisex"
)

// ParseGender returns the gender for a raw value, or GenderUnset when unknown
func ParseGender(raw string) Gender {
	switch g := Gender(raw); g {
	case GenderMale, GenderFemale, GenderUnisex:
		return g
	default:
		return GenderUnset
	}
}

// Customer holds the contact details attached to an order
type Customer struct {
	Name    string
	Email   string
	Contact string
}

// Coordinates is the geocoded delivery point; the client never edits it
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Order represents one custom garment order as returned by the order service
type Order struct {
	ID               string
	Status           Status
	Gender           Gender
	OrderDate        time.Time
	Customer         Customer
	Location         *Coordinates
	DeliveryLocation string // free-text address, distinct from Location
	Description      string
	Garment          Garment
	Style            StyleProfile
}

// Editable reports whether the customer may still update or delete the order
func (o Order) Editable() bool {
	return o.Status == StatusPending
}

// OrderUpdate is the full replace body sent when an order is edited
type OrderUpdate struct {
	ID               string
	Gender           Gender
	Customer         Customer
	Location         *Coordinates // copied from the order being edited
	DeliveryLocation string
	Description      string
	Garment          Garment
	Style            StyleProfile
}

// orderWire mirrors the flat JSON shape used by the order service
type orderWire struct {
	ID                 string        `json:"_id,omitempty"`
	Status             Status        `json:"status,omitempty"`
	Gender             Gender        `json:"gender"`
	OrderDate          *time.Time    `json:"orderDate,omitempty"`
	CustomerName       string        `json:"customerName"`
	CustomerEmail      string        `json:"customerEmail"`
	CustomerContact    string        `json:"customerContact"`
	Location           *Coordinates  `json:"location,omitempty"`
	DeliveryLocation   string        `json:"deliveryLocation"`
	Description        string        `json:"description"`
	FabricType         string        `json:"fabricType"`
	Color              Color         `json:"color"`
	Fit                string        `json:"fit"`
	SizingType         SizingType    `json:"sizingType"`
	StandardSize       *StandardSize `json:"standardSize,omitempty"`
	CustomMeasurements *Measurements `json:"customMeasurements,omitempty"`

	CollarStyle *string `json:"collarStyle,omitempty"`
	CuffType    *string `json:"cuffType,omitempty"`
	PocketStyle *string `json:"pocketStyle,omitempty"`
	TrouserFit  *string `json:"trouserFit,omitempty"`
	JacketStyle *string `json:"jacketStyle,omitempty"`
	ButtonCount *int    `json:"buttonCount,omitempty"`

	SleeveStyle *string `json:"sleeveStyle,omitempty"`
	Neckline    *string `json:"neckline,omitempty"`
	Hemline     *string `json:"hemline,omitempty"`
	DressLength *string `json:"dressLength,omitempty"`
	Closure     *string `json:"closure,omitempty"`
}

// UnmarshalJSON decodes the flat wire shape, keeping only the style fields
// that match the order's gender and only the active half of the sizing.
func (o *Order) UnmarshalJSON(data []byte) error {
	var w orderWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*o = Order{
		ID:     w.ID,
		Status: w.Status,
		Gender: ParseGender(string(w.Gender)),
		Customer: Customer{
			Name:    w.CustomerName,
			Email:   w.CustomerEmail,
			Contact: w.CustomerContact,
		},
		Location:         w.Location,
		DeliveryLocation: w.DeliveryLocation,
		Description:      w.Description,
		Garment:          w.garment(),
	}
	if w.OrderDate != nil {
		o.OrderDate = *w.OrderDate
	}
	o.Style = w.style(o.Gender)
	return nil
}

// MarshalJSON encodes the order in the wire shape used by the order service
func (o Order) MarshalJSON() ([]byte, error) {
	w := newWire(o.ID, o.Gender, o.Customer, o.Location, o.DeliveryLocation, o.Description, o.Garment, o.Style)
	w.Status = o.Status
	if !o.OrderDate.IsZero() {
		date := o.OrderDate
		w.OrderDate = &date
	}
	return json.Marshal(w)
}

// MarshalJSON encodes the update; style fields of other genders are never sent
func (u OrderUpdate) MarshalJSON() ([]byte, error) {
	return json.Marshal(newWire(u.ID, u.Gender, u.Customer, u.Location, u.DeliveryLocation, u.Description, u.Garment, u.Style))
}

func newWire(id string, gender Gender, c Customer, loc *Coordinates, address, description string, g Garment, style StyleProfile) orderWire {
	w := orderWire{
		ID:               id,
		Gender:           gender,
		CustomerName:     c.Name,
		CustomerEmail:    c.Email,
		CustomerContact:  c.Contact,
		Location:         loc,
		DeliveryLocation: address,
		Description:      description,
		FabricType:       g.FabricType,
		Color:            g.Color,
		Fit:              g.Fit,
		SizingType:       g.Sizing.Type,
	}

	switch g.Sizing.Type {
	case SizingStandard:
		size := g.Sizing.Size
		w.StandardSize = &size
	case SizingCustom:
		m := g.Sizing.Measurements
		w.CustomMeasurements = &m
	}

	// only the variant matching the gender is written
	switch s := style.(type) {
	case MaleStyle:
		if gender == GenderMale {
			w.CollarStyle = &s.CollarStyle
			w.CuffType = &s.CuffType
			w.PocketStyle = &s.PocketStyle
			w.TrouserFit = &s.TrouserFit
			w.JacketStyle = &s.JacketStyle
			w.ButtonCount = &s.ButtonCount
		}
	case FemaleStyle:
		if gender == GenderFemale {
			w.SleeveStyle = &s.SleeveStyle
			w.Neckline = &s.Neckline
			w.Hemline = &s.Hemline
			w.DressLength = &s.DressLength
			w.Closure = &s.Closure
		}
	}
	return w
}

func (w orderWire) garment() Garment {
	g := Garment{
		FabricType: w.FabricType,
		Color:      w.Color,
		Fit:        w.Fit,
	}
	switch w.SizingType {
	case SizingStandard:
		g.Sizing = Sizing{Type: SizingStandard}
		if w.StandardSize != nil {
			g.Sizing.Size = *w.StandardSize
		}
	case SizingCustom:
		g.Sizing = Sizing{Type: SizingCustom}
		if w.CustomMeasurements != nil {
			g.Sizing.Measurements = *w.CustomMeasurements
		}
	}
	return g
}

func (w orderWire) style(gender Gender) StyleProfile {
	switch gender {
	case GenderMale:
		s := MaleStyle{
			CollarStyle: deref(w.CollarStyle),
			CuffType:    deref(w.CuffType),
			PocketStyle: deref(w.PocketStyle),
			TrouserFit:  deref(w.TrouserFit),
			JacketStyle: deref(w.JacketStyle),
		}
		if w.ButtonCount != nil {
			s.ButtonCount = *w.ButtonCount
		}
		return s
	case GenderFemale:
		return FemaleStyle{
			SleeveStyle: deref(w.SleeveStyle),
			Neckline:    deref(w.Neckline),
			Hemline:     deref(w.Hemline),
			DressLength: deref(w.DressLength),
			Closure:     deref(w.Closure),
		}
	case GenderUnisex:
		return UnisexStyle{}
	default:
		return nil
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
