package validation

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// Exactly ten digits, no separators
	phoneRegex = regexp.MustCompile(`^\d{10}$`)

	// Scheme optional, at least one dot in the host, optional path
	websiteRegex = regexp.MustCompile(`^(https?://)?([\w-]+\.)+[\w-]+(/.*)?$`)
)

// New returns a validator with the custom tags registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("phone10", ValidPhone)
	_ = v.RegisterValidation("website", ValidWebsite)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
}

func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(val)
}

func IsValidWebsite(s string) bool {
	return websiteRegex.MatchString(s)
}

func ValidWebsite(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return IsValidWebsite(val)
}

// NoEmoji rejects supplementary-plane characters and symbol categories.
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r > 0x1F000 || unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}
