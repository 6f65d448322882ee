package domain

import (
	"errors"
	"time"
)

// Currency codes used by the cargo exchange.
const (
	CurrencyRUB = 2
	CurrencyUSD = 4
	CurrencyKZT = 6
	CurrencyEUR = 8
)

// Rate types for a transport offer.
const (
	RateNegotiable = 1
	RateFixed      = 2
	RateInquiry    = 3
)

// Point types. Order inside Load.Points is significant: pickup first.
const (
	PointPickup   = 1
	PointDelivery = 2
)

// Cargo weight units.
const (
	WeightTons   = 1
	WeightLitres = 2
)

// TypeCargoGeneral is the only cargo type this domain handles.
const TypeCargoGeneral = 1

// Working-hours sentinels applied to every point. Message content never
// overrides these.
const (
	TimeStart = "09:00:00"
	TimeEnd   = "18:00:00"
)

// Vehicle body codes accepted by the exchange (тент, реф, контейнер, ...).
// The extraction step occasionally invents codes outside this range; those
// candidates are rejected outright rather than defaulted.
const (
	BodyTypeMin = 2
	BodyTypeMax = 60
)

// ValidBodyType reports whether code is inside the exchange's enumerated
// vehicle-body set.
func ValidBodyType(code int) bool {
	return code >= BodyTypeMin && code <= BodyTypeMax
}

var (
	// ErrNoExtractionResult means the extraction capability returned an
	// empty reply for a message.
	ErrNoExtractionResult = errors.New("no extraction result")
	// ErrMalformedExtractionResponse means the extraction reply could not
	// be parsed as a JSON load or array of loads.
	ErrMalformedExtractionResponse = errors.New("malformed extraction response")
	// ErrNoValidRecords means every extracted candidate was rejected by
	// validation. Reportable, not exceptional.
	ErrNoValidRecords = errors.New("no valid records")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("access forbidden")
)

// RejectReason is a structured, machine-comparable reason a candidate failed
// validation. Free text is deliberately avoided so callers can count and
// branch on reasons.
type RejectReason string

const (
	RejectPointCount        RejectReason = "point_count"
	RejectEmptyLocationName RejectReason = "empty_location_name"
	RejectNoPickupCargo     RejectReason = "no_pickup_cargo"
	RejectUnknownBodyType   RejectReason = "unknown_body_type"
)

// Cargo is one cargo line within a pickup point.
type Cargo struct {
	CargoVolume     *float64 `json:"cargo_volume" bson:"cargo_volume"`
	CargoWeight     *float64 `json:"cargo_weight" bson:"cargo_weight"`
	CargoWeightType int      `json:"cargo_weight_type" bson:"cargo_weight_type"`
	TypeCargoID     int      `json:"type_cargo_id" bson:"type_cargo_id"`
}

// Point is one stop on the route. Coordinates and LocationID stay nil until
// enrichment succeeds; an unresolved point is still persistable.
type Point struct {
	LocationName string   `json:"location_name" bson:"location_name"`
	Latitude     *float64 `json:"latitude" bson:"latitude"`
	Longitude    *float64 `json:"longitude" bson:"longitude"`
	LocationID   *string  `json:"location_id" bson:"location_id"`
	TimeStart    string   `json:"time_start" bson:"time_start"`
	TimeEnd      string   `json:"time_end" bson:"time_end"`
	Type         int      `json:"type" bson:"type"`
	Cargos       []Cargo  `json:"cargos" bson:"cargos"`
}

// PriceNotes carries the free-text remainder of an advert: the cargo
// description, every phone number found, and other conditions.
type PriceNotes struct {
	Cargo string `json:"cargo" bson:"cargo"`
	Phone string `json:"phone" bson:"phone"`
	Notes string `json:"notes" bson:"notes"`
}

// Load is one transport offer extracted from a chat message.
//
// Invariants after normalization: exactly two points, pickup first with at
// least one cargo line, delivery second with none.
type Load struct {
	ID              string     `json:"id,omitempty" bson:"_id,omitempty"`
	Price           *float64   `json:"price" bson:"price"`
	PriceCurrencyID int        `json:"price_currency_id" bson:"price_currency_id"`
	RateType        int        `json:"rate_type" bson:"rate_type"`
	WhenDate        string     `json:"when_date" bson:"when_date"`
	TypeDay         int        `json:"type_day" bson:"type_day"`
	WhenType        int        `json:"when_type" bson:"when_type"`
	TypeBodyID      *int       `json:"type_body_id" bson:"type_body_id"`
	PriceNotes      PriceNotes `json:"price_notes" bson:"price_notes"`
	Points          []Point    `json:"points" bson:"points"`
	SourceChatID    int64      `json:"source_chat_id,omitempty" bson:"source_chat_id,omitempty"`
	SourceMessageID int64      `json:"source_message_id,omitempty" bson:"source_message_id,omitempty"`
	ExchangeID      *int64     `json:"exchange_id,omitempty" bson:"exchange_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at" bson:"created_at"`
}

// Pickup returns the pickup point, or nil when the load has not been
// normalized yet.
func (l *Load) Pickup() *Point {
	if len(l.Points) != 2 {
		return nil
	}
	return &l.Points[0]
}

// Delivery returns the delivery point, or nil when the load has not been
// normalized yet.
func (l *Load) Delivery() *Point {
	if len(l.Points) != 2 {
		return nil
	}
	return &l.Points[1]
}
