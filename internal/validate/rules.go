package validate

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/agency-backoffice/internal/model"
)

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]{10,}$`)
	clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// MinGraduationYear is the earliest graduation year accepted on a profile.
const MinGraduationYear = 1950

// ruleMessages holds the error text for every custom rule.
var ruleMessages = map[string]string{
	"cents":              "must have at most two decimal places",
	"phone":              "must be a phone number with at least 10 digits, spaces, dashes or parentheses",
	"graduation_year":    "must be a four-digit year between 1950 and ten years from now",
	"experience":         "must be one of: " + strings.Join(model.ExperienceBuckets, ", "),
	"availability":       "must be one of: " + strings.Join(model.AvailabilityOptions, ", "),
	"job_type":           "must be one of: " + strings.Join(model.JobTypes, ", "),
	"experience_level":   "must be one of: " + strings.Join(model.ExperienceLevels, ", "),
	"platform":           "must be one of: " + strings.Join(model.Platforms, ", "),
	"application_status": "must be one of: " + strings.Join(model.ApplicationStatuses, ", "),
	"http_url":           "must start with http:// or https://",
	"clock":              "must be a time in the format HH:MM",
}

func registerRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"cents":              isCents,
		"phone":              matches(phonePattern),
		"graduation_year":    isGraduationYear,
		"experience":         oneOf(model.ExperienceBuckets),
		"availability":       oneOf(model.AvailabilityOptions),
		"job_type":           oneOf(model.JobTypes),
		"experience_level":   oneOf(model.ExperienceLevels),
		"platform":           oneOf(model.Platforms),
		"application_status": oneOf(model.ApplicationStatuses),
		"http_url":           isHTTPURL,
		"clock":              matches(clockPattern),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return model.Contains(allowed, fl.Field().String())
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// isCents accepts floats with no more than two decimal places.
func isCents(fl validator.FieldLevel) bool {
	v := fl.Field().Float()
	scaled := v * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

func isGraduationYear(fl validator.FieldLevel) bool {
	year := int(fl.Field().Int())
	return year >= MinGraduationYear && year <= time.Now().Year()+10
}

func isHTTPURL(fl validator.FieldLevel) bool {
	s := strings.ToLower(fl.Field().String())
	rest, ok := strings.CutPrefix(s, "https://")
	if !ok {
		rest, ok = strings.CutPrefix(s, "http://")
	}
	return ok && rest != ""
}
