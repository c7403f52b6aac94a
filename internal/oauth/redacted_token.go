package oauth

const redacted = "[REDACTED]"

// RedactedToken holds a credential (access token or client secret) so that
// formatting it with fmt, slog, or encoding/json never reveals the value.
//
//	secret := oauth.NewRedactedToken(cfg.ClientSecret)
//	logging.Debug("Auth", "client secret %s", secret) // client secret [REDACTED]
type RedactedToken struct {
	value string
}

// NewRedactedToken wraps value.
func NewRedactedToken(value string) RedactedToken {
	return RedactedToken{value: value}
}

// Value returns the raw credential. Only call this when building a request.
func (t RedactedToken) Value() string {
	return t.value
}

// IsEmpty reports whether no credential is held.
func (t RedactedToken) IsEmpty() bool {
	return t.value == ""
}

// Preview returns a short identifying suffix for debug logs, e.g. "...k9Qz".
// Credentials shorter than 12 characters are fully redacted.
func (t RedactedToken) Preview() string {
	if len(t.value) < 12 {
		return redacted
	}
	return "..." + t.value[len(t.value)-4:]
}

func (t RedactedToken) String() string {
	return redacted
}

func (t RedactedToken) GoString() string {
	return "oauth.RedactedToken{" + redacted + "}"
}

func (t RedactedToken) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

func (t RedactedToken) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}
