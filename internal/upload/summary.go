// Package upload runs one CSV upload against Sendy and tallies the results.
package upload

import (
	"fmt"
	"unicode/utf8"

	"github.com/JonMunkholm/SendyUpload/internal/csvimport"
	"github.com/JonMunkholm/SendyUpload/internal/sendy"
)

// FailedEmails groups addresses that were not subscribed, by reason.
type FailedEmails struct {
	Bounced     []string `json:"bounced"`
	Invalid     []string `json:"invalid"`
	OtherErrors []string `json:"other_errors"`
}

// Summary is the response for one upload. It is built fresh per request and
// never stored.
type Summary struct {
	UploadID string `json:"uploadId,omitempty"`
	ListID   string `json:"listId,omitempty"`
	ListName string `json:"listName,omitempty"`

	Subscribed        int `json:"subscribed"`
	AlreadySubscribed int `json:"alreadySubscribed"`
	Bounced           int `json:"bounced"`
	Invalid           int `json:"invalid"`
	OtherErrors       int `json:"otherErrors"`

	FailedEmails FailedEmails `json:"failedEmails"`
	Errors       []string     `json:"errors"`
}

// NewSummary returns an empty summary whose lists encode as [] rather than null.
func NewSummary() Summary {
	return Summary{
		FailedEmails: FailedEmails{
			Bounced:     []string{},
			Invalid:     []string{},
			OtherErrors: []string{},
		},
		Errors: []string{},
	}
}

// Total is the number of data rows accounted for.
func (s *Summary) Total() int {
	return s.Subscribed + s.AlreadySubscribed + s.Bounced + s.Invalid + s.OtherErrors
}

// AddOutcome records the result of one subscription attempt.
func (s *Summary) AddOutcome(o sendy.Outcome) {
	switch o.Kind {
	case sendy.Subscribed:
		s.Subscribed++
	case sendy.AlreadySubscribed:
		s.AlreadySubscribed++
	case sendy.Bounced:
		s.Bounced++
		s.FailedEmails.Bounced = append(s.FailedEmails.Bounced, o.Email)
	case sendy.Invalid:
		s.Invalid++
		s.FailedEmails.Invalid = append(s.FailedEmails.Invalid, o.Email)
	default:
		s.OtherErrors++
		s.Errors = append(s.Errors, o.Message)
		s.FailedEmails.OtherErrors = append(s.FailedEmails.OtherErrors, o.Email)
	}
}

// AddParseFailure records a row that was never submitted. It counts as
// invalid but its address is not listed, since it is not a usable email.
func (s *Summary) AddParseFailure(f *csvimport.ParseFailure) {
	s.Invalid++
	s.Errors = append(s.Errors, parseFailureMessage(f))
}

// previewLimit is how much of a rejected line is quoted back.
const previewLimit = 50

func parseFailureMessage(f *csvimport.ParseFailure) string {
	preview := f.Raw
	if utf8.RuneCountInString(preview) > previewLimit {
		preview = string([]rune(preview)[:previewLimit])
	}

	email := f.Email
	if email == "" {
		email = "N/A"
	}
	return fmt.Sprintf("Invalid or unparsable email (expected in first column) from line: \"%s...\" (Email: %s)", preview, email)
}
