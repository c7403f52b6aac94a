package api

// Outcome is the result of a Pega operation: either success text or a Failure.
// Operations return an Outcome instead of a Go error so every result can be
// shown to the caller as-is.
type Outcome struct {
	text    string
	failure *Failure
}

// Success returns a successful Outcome carrying text.
func Success(text string) Outcome {
	return Outcome{text: text}
}

// Fail returns an unsuccessful Outcome.
func Fail(f *Failure) Outcome {
	if f == nil {
		f = NewFailure(KindUnknownAuthError, "unknown failure")
	}
	return Outcome{failure: f}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.failure == nil
}

// Failure returns the failure, or nil on success.
func (o Outcome) Failure() *Failure {
	return o.failure
}

// Text returns the success text, or the rendered failure.
func (o Outcome) Text() string {
	if o.failure != nil {
		return o.failure.Text()
	}
	return o.text
}
