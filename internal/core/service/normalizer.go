package service

import (
	"time"

	"github.com/shohjahon1code/telegram-parser/internal/core/domain"
)

// Normalizer repairs extraction candidates into schema shape. It is a total
// function: it fills and forces, never rejects. Admission decisions belong
// to the Validator.
type Normalizer struct {
	now func() time.Time
}

func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// Normalize mutates the candidate in place and returns it.
//
// Position is authoritative for point typing: whatever the extraction put in
// the type field, the first point becomes the pickup and the second the
// delivery. Working-hours sentinels and the delivery's empty cargo list are
// forced unconditionally. Scalar defaults apply only when the source field
// is absent.
func (n *Normalizer) Normalize(load *domain.Load) *domain.Load {
	if len(load.Points) != 2 {
		load.Points = []domain.Point{{}, {}}
	}

	load.Points[0].Type = domain.PointPickup
	load.Points[1].Type = domain.PointDelivery

	for i := range load.Points {
		load.Points[i].TimeStart = domain.TimeStart
		load.Points[i].TimeEnd = domain.TimeEnd
	}

	if len(load.Points[0].Cargos) == 0 {
		load.Points[0].Cargos = []domain.Cargo{{
			CargoWeightType: domain.WeightTons,
			TypeCargoID:     domain.TypeCargoGeneral,
		}}
	}
	load.Points[1].Cargos = []domain.Cargo{}

	for i := range load.Points[0].Cargos {
		c := &load.Points[0].Cargos[i]
		if c.CargoWeightType == 0 {
			c.CargoWeightType = domain.WeightTons
		}
		c.TypeCargoID = domain.TypeCargoGeneral
	}

	if load.PriceCurrencyID == 0 {
		load.PriceCurrencyID = domain.CurrencyUSD
	}
	if load.RateType == 0 {
		load.RateType = domain.RateNegotiable
	}
	if load.TypeDay == 0 {
		load.TypeDay = 1
	}
	if load.WhenType == 0 {
		load.WhenType = 1
	}
	if load.WhenDate == "" {
		load.WhenDate = n.now().UTC().Format("2006-01-02")
	}

	return load
}
