package inkpot

import "strconv"

// BlogPost is the core content type stored in SQLite and rendered by templates.
type BlogPost struct {
	ID       int64
	Title    string
	Subtitle string
	Date     string // YYYY-MM-DD, set once at creation
	Body     string // HTML
	Author   string
	ImgURL   string
}

// Link returns the site-relative URL of the post page.
func (p BlogPost) Link() string {
	return "/post/" + strconv.FormatInt(p.ID, 10)
}

// Input returns the operator-editable fields of p.
func (p BlogPost) Input() PostInput {
	return PostInput{
		Title:    p.Title,
		Subtitle: p.Subtitle,
		Author:   p.Author,
		ImgURL:   p.ImgURL,
		Body:     p.Body,
	}
}

// PostInput carries the fields an operator supplies when creating or editing
// a post. ID and Date are owned by the store.
type PostInput struct {
	Title    string
	Subtitle string
	Author   string
	ImgURL   string
	Body     string
}

// PostForm is the view model for the create/edit form.
type PostForm struct {
	Action  string // POST target
	Editing bool
	Input   PostInput
	Errors  FieldErrors
}

// Form field names, shared by the validator, handlers and templates.
const (
	FieldTitle    = "title"
	FieldSubtitle = "subtitle"
	FieldAuthor   = "author"
	FieldImgURL   = "img_url"
	FieldBody     = "body"
)

// FormFields lists the post form fields in display order.
var FormFields = []string{FieldTitle, FieldSubtitle, FieldAuthor, FieldImgURL, FieldBody}

// FieldErrors maps a form field name to its error message.
type FieldErrors map[string]string

// Messages returns the error messages in form field order.
func (fe FieldErrors) Messages() []string {
	var out []string
	for _, f := range FormFields {
		if msg, ok := fe[f]; ok {
			out = append(out, msg)
		}
	}
	return out
}
