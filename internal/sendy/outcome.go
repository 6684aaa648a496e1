package sendy

import (
	"fmt"
	"unicode/utf8"
)

// Kind is the outcome tag of one subscription attempt.
type Kind int

const (
	Unexpected Kind = iota
	Subscribed
	AlreadySubscribed
	Bounced
	Invalid
	ConfigError
	TransportError
)

var kindNames = map[Kind]string{
	Unexpected:        "unexpected",
	Subscribed:        "subscribed",
	AlreadySubscribed: "already_subscribed",
	Bounced:           "bounced",
	Invalid:           "invalid",
	ConfigError:       "config_error",
	TransportError:    "transport_error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText renders the kind as its snake_case name in JSON and logs.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsError reports whether the kind is a local or unclassified failure rather
// than an answer from Sendy about the address itself.
func (k Kind) IsError() bool {
	return k == ConfigError || k == TransportError || k == Unexpected
}

// excerptLimit caps how much of an unmatched body is kept.
const excerptLimit = 200

// Outcome is the classified result of one subscription attempt.
type Outcome struct {
	Kind       Kind   `json:"kind"`
	Email      string `json:"email,omitempty"`
	Name       string `json:"name,omitempty"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"httpStatus,omitempty"`
	Excerpt    string `json:"excerpt,omitempty"`

	// detail carries the transport or configuration error text.
	detail string
}

// describe builds the human-readable message for the outcome.
func (o Outcome) describe() string {
	who := o.Email
	if who == "" {
		who = "subscriber"
	}

	switch o.Kind {
	case Subscribed:
		if o.Name != "" {
			return fmt.Sprintf("Successfully subscribed %s (%s)", who, o.Name)
		}
		return "Successfully subscribed " + who
	case AlreadySubscribed:
		return who + " is already subscribed."
	case Bounced:
		return fmt.Sprintf("Failed to subscribe %s - email address is bounced.", who)
	case Invalid:
		return fmt.Sprintf("Failed to subscribe %s - email address is invalid or Sendy rejected subscription.", who)
	case ConfigError:
		if o.detail != "" {
			return o.detail
		}
		return fmt.Sprintf("Failed to subscribe %s - Some fields are missing (likely API key or list ID issue on Sendy's side).", who)
	case TransportError:
		return fmt.Sprintf("API request error for %s: %s", who, o.detail)
	default:
		return fmt.Sprintf("Failed to subscribe %s. Unexpected response from Sendy (HTTP %d): %s", who, o.HTTPStatus, o.Excerpt)
	}
}

// excerpt returns at most excerptLimit runes of body.
func excerpt(body string) string {
	if utf8.RuneCountInString(body) <= excerptLimit {
		return body
	}
	runes := []rune(body)
	return string(runes[:excerptLimit])
}
