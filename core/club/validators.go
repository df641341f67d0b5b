package club

import (
	"github.com/go-playground/validator/v10"

	"github.com/campushq/clubhub/core"
)

var (
	categoryTag  = "clubcategory"
	categoryText = "invalid club category"

	statusTag  = "clubstatus"
	statusText = "invalid club status"

	meetingFreqTag  = "meetingfreq"
	meetingFreqText = "invalid meeting frequency"
)

func init() {
	_ = core.Validate.RegisterValidation(categoryTag, categoryValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, categoryTag, categoryText)

	_ = core.Validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, statusTag, statusText)

	_ = core.Validate.RegisterValidation(meetingFreqTag, meetingFreqValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, meetingFreqTag, meetingFreqText)
}

func categoryValidation(fl validator.FieldLevel) bool {
	return Category(fl.Field().String()).Valid()
}

func statusValidation(fl validator.FieldLevel) bool {
	return Status(fl.Field().String()).Valid()
}

func meetingFreqValidation(fl validator.FieldLevel) bool {
	return MeetingFrequency(fl.Field().String()).Valid()
}
