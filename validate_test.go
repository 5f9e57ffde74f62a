package inkpot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() map[string]string {
	return map[string]string{
		FieldTitle:    "Hello",
		FieldSubtitle: "World",
		FieldAuthor:   "A",
		FieldImgURL:   "http://x/y.png",
		FieldBody:     "<p>hi</p>",
	}
}

func TestValidateAcceptsCompleteForm(t *testing.T) {
	v := NewFormValidator(false)

	in, errs := v.Validate(validForm())
	require.Nil(t, errs)
	assert.Equal(t, samplePost("Hello"), in)
}

func TestValidateTrimsValues(t *testing.T) {
	v := NewFormValidator(false)
	form := validForm()
	form[FieldTitle] = "  Hello \n"

	in, errs := v.Validate(form)
	require.Nil(t, errs)
	assert.Equal(t, "Hello", in.Title)
}

func TestValidateRequiredFields(t *testing.T) {
	v := NewFormValidator(false)

	for _, field := range FormFields {
		form := validForm()
		form[field] = "   "
		_, errs := v.Validate(form)
		require.Len(t, errs, 1, "field %s", field)
		assert.Equal(t, "This field is required.", errs[field])
	}

	_, errs := v.Validate(map[string]string{})
	assert.Len(t, errs, len(FormFields))
	assert.Len(t, errs.Messages(), len(FormFields))
}

func TestValidateMaxLength(t *testing.T) {
	v := NewFormValidator(false)
	form := validForm()
	form[FieldAuthor] = strings.Repeat("a", 251)
	form[FieldBody] = strings.Repeat("b", 10000)

	_, errs := v.Validate(form)
	require.Len(t, errs, 1)
	assert.Equal(t, "Must be at most 250 characters.", errs[FieldAuthor])
}

func TestValidateImageURL(t *testing.T) {
	form := validForm()
	form[FieldImgURL] = "not a url"

	_, errs := NewFormValidator(false).Validate(form)
	assert.Nil(t, errs, "free-form image URL accepted by default")

	_, errs = NewFormValidator(true).Validate(form)
	require.Len(t, errs, 1)
	assert.Equal(t, "Must be a valid URL.", errs[FieldImgURL])
}

func TestFieldErrorsMessagesOrder(t *testing.T) {
	errs := FieldErrors{FieldBody: "b", FieldTitle: "t"}
	assert.Equal(t, []string{"t", "b"}, errs.Messages())
}
