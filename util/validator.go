package util

import (
	"math"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// report submissions carry raw device coordinates, so NaN and
	// out-of-range values must be rejected before they reach the poller
	validate.RegisterValidation("latitude", validateLatitude)
	validate.RegisterValidation("longitude", validateLongitude)
}

func validateLatitude(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return false
	}
	return lat >= -90 && lat <= 90
}

func validateLongitude(fl validator.FieldLevel) bool {
	lon := fl.Field().Float()
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lon >= -180 && lon <= 180
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
