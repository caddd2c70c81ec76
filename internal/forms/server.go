package forms

import "hrhub/internal/apiclient"

// FromAPI turns a backend validation rejection into form errors. Other errors are returned
// unchanged.
func FromAPI(err error, known []string, fallback string) error {
	if err == nil {
		return nil
	}
	fields, message, ok := apiclient.FieldErrors(err)
	if !ok {
		return err
	}
	return FromServer(fields, known, message, fallback)
}
