package inkpot

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormValidator checks create/edit input before it reaches the store.
type FormValidator struct {
	validate *validator.Validate
	rules    map[string]string
}

// NewFormValidator returns a validator for the post form. With strictURL set,
// img_url must also be a well-formed absolute URL.
func NewFormValidator(strictURL bool) *FormValidator {
	imgRule := "required,max=250"
	if strictURL {
		imgRule += ",url"
	}
	return &FormValidator{
		validate: validator.New(),
		rules: map[string]string{
			FieldTitle:    "required,max=250",
			FieldSubtitle: "required,max=250",
			FieldAuthor:   "required,max=250",
			FieldImgURL:   imgRule,
			FieldBody:     "required",
		},
	}
}

// Validate trims the raw form values and checks them field by field. The
// returned input is always populated so the form can be re-displayed.
func (v *FormValidator) Validate(fields map[string]string) (PostInput, FieldErrors) {
	clean := make(map[string]string, len(FormFields))
	errs := FieldErrors{}
	for _, f := range FormFields {
		val := strings.TrimSpace(fields[f])
		clean[f] = val
		if err := v.validate.Var(val, v.rules[f]); err != nil {
			errs[f] = fieldMessage(err)
		}
	}
	in := PostInput{
		Title:    clean[FieldTitle],
		Subtitle: clean[FieldSubtitle],
		Author:   clean[FieldAuthor],
		ImgURL:   clean[FieldImgURL],
		Body:     clean[FieldBody],
	}
	if len(errs) == 0 {
		return in, nil
	}
	return in, errs
}

func fieldMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid value."
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return "Must be at most " + fe.Param() + " characters."
	case "url":
		return "Must be a valid URL."
	default:
		return "Invalid value."
	}
}
