package cmd

import (
	"net/url"

	"github.com/go-playground/form"

	"github.com/go-imsto/imwebp/batch"
)

var (
	formDecoder = form.NewDecoder()
)

// bindForm fills a batch.Form from answers keyed by its form tags,
// keys missing from values keep the value of base.
func bindForm(base batch.Form, values url.Values) (batch.Form, error) {
	f := base
	if err := formDecoder.Decode(&f, values); err != nil {
		return base, err
	}
	return f, nil
}
