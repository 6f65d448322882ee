package service

import (
	"strings"

	"github.com/shohjahon1code/telegram-parser/internal/core/domain"
)

// Validator gates persistence. It runs after normalization, so structural
// repairs have already happened; anything still wrong here means the
// candidate carried no usable data or the extraction hallucinated a value.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate returns the empty reason on acceptance, or the structured reason
// the candidate must be dropped.
func (v *Validator) Validate(load *domain.Load) (domain.RejectReason, bool) {
	if len(load.Points) != 2 {
		return domain.RejectPointCount, false
	}
	for i := range load.Points {
		if strings.TrimSpace(load.Points[i].LocationName) == "" {
			return domain.RejectEmptyLocationName, false
		}
	}

	// Guaranteed by the Normalizer; re-checked because admission must not
	// depend on caller ordering.
	if len(load.Points[0].Cargos) == 0 {
		return domain.RejectNoPickupCargo, false
	}

	// Out-of-range body codes are a hard rejection, not a default: the code
	// set is the exchange's contract and an invented code means the rest of
	// the candidate is suspect too.
	if load.TypeBodyID != nil && !domain.ValidBodyType(*load.TypeBodyID) {
		return domain.RejectUnknownBodyType, false
	}

	return "", true
}
