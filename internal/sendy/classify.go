package sendy

import "strings"

// rule maps response body markers to an outcome kind.
type rule struct {
	kind     Kind
	contains []string
	equals   string // compared against the trimmed body
}

// rules is evaluated in order and the first match wins. Sendy answers 200 with
// an HTML page (or "1"/"2" when boolean=true) even for rejections, so matching
// is done on the body text only.
var rules = []rule{
	{kind: Subscribed, contains: []string{"<title>You're subscribed!</title>"}, equals: "1"},
	{kind: AlreadySubscribed, contains: []string{"<title>You're already subscribed!</title>"}, equals: "2"},
	{kind: Bounced, contains: []string{"<title>Email address is bounced.</title>", "Email address is bounced."}},
	{kind: Invalid, contains: []string{"<title>Email address is invalid.</title>", "Email address is invalid."}},
	{kind: ConfigError, contains: []string{"Some fields are missing."}},
}

// Classify maps a raw subscribe response to an Outcome. It is pure: the same
// body always yields the same kind, and the status code is only recorded.
// Email and Name are left empty for the caller to fill.
func Classify(body string, httpStatus int) Outcome {
	o := Outcome{Kind: Unexpected, HTTPStatus: httpStatus}

	trimmed := strings.TrimSpace(body)
	for _, r := range rules {
		if r.matches(body, trimmed) {
			o.Kind = r.kind
			o.Message = o.describe()
			return o
		}
	}

	o.Excerpt = excerpt(body)
	o.Message = o.describe()
	return o
}

func (r rule) matches(body, trimmed string) bool {
	if r.equals != "" && trimmed == r.equals {
		return true
	}
	for _, marker := range r.contains {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}
