package upload

import (
	"context"
	"errors"
	"log/slog"

	"github.com/JonMunkholm/SendyUpload/internal/csvimport"
	"github.com/JonMunkholm/SendyUpload/internal/logging"
	"github.com/JonMunkholm/SendyUpload/internal/sendy"
)

// ErrCancelled is recorded for candidates skipped after the request went away.
var ErrCancelled = errors.New("upload cancelled")

// Subscriber submits one candidate. *sendy.Client implements it.
type Subscriber interface {
	Subscribe(ctx context.Context, cand csvimport.Candidate) sendy.Outcome
}

// Rows is a lazy sequence of parsed CSV rows. *csvimport.Extractor implements it.
type Rows interface {
	Next() bool
	Row() csvimport.Row
	Err() error
}

// Aggregate submits every valid row in file order, one at a time, and tallies
// the outcomes. Per-row failures never stop the batch.
//
// Once ctx is done the remaining candidates are not sent; each is recorded as
// a transport error so every row still has exactly one outcome.
func Aggregate(ctx context.Context, rows Rows, sub Subscriber) Summary {
	logger := logging.FromContext(ctx)
	summary := NewSummary()

	for rows.Next() {
		row := rows.Row()

		if !row.Valid() {
			summary.AddParseFailure(row.Failure)
			logger.DebugContext(ctx, "row rejected",
				"line", row.Line,
				"email", row.Failure.Email,
				"reason", row.Failure.Reason,
			)
			continue
		}

		var outcome sendy.Outcome
		if ctx.Err() != nil {
			outcome = sendy.TransportFailure(row.Candidate, ErrCancelled)
		} else {
			outcome = sub.Subscribe(ctx, row.Candidate)
		}
		summary.AddOutcome(outcome)
		logOutcome(ctx, logger, row.Line, outcome)
	}

	if err := rows.Err(); err != nil {
		logger.ErrorContext(ctx, "csv read failed", "error", err)
		summary.Errors = append(summary.Errors, err.Error())
	}

	return summary
}

func logOutcome(ctx context.Context, logger *slog.Logger, line int, o sendy.Outcome) {
	level := slog.LevelInfo
	switch {
	case o.Kind == sendy.Unexpected:
		level = slog.LevelWarn
	case o.Kind.IsError():
		level = slog.LevelError
	}

	attrs := []any{"line", line, "email", o.Email, "outcome", o.Kind.String(), "detail", o.Message}
	if o.HTTPStatus != 0 {
		attrs = append(attrs, "http_status", o.HTTPStatus)
	}
	if o.Excerpt != "" {
		attrs = append(attrs, "response", o.Excerpt)
	}
	logger.Log(ctx, level, "subscription processed", attrs...)
}
