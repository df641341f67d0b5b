package membership

import (
	"github.com/go-playground/validator/v10"

	"github.com/campushq/clubhub/core"
)

var (
	statusTag  = "membershipstatus"
	statusText = "invalid membership status"
)

func init() {
	_ = core.Validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, statusTag, statusText)
}

func statusValidation(fl validator.FieldLevel) bool {
	return Status(fl.Field().String()).Valid()
}
