package shared

// Saved is a successful form submit: the stored record plus the reset form.
type Saved[R, F any] struct {
	Record R `json:"record"`
	Form   F `json:"form"`
}

// NewSaved pairs record with the zero value of its form.
func NewSaved[F, R any](record R) Saved[R, F] {
	return Saved[R, F]{Record: record}
}
