package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanLimbu/taskplanner-api/internal"
)

const otelName = "github.com/sanLimbu/taskplanner-api/internal/postgresql"

// PostgreSQL error code for unique constraint violations.
const codeUniqueViolation = "23505"

func newOTELSpan(ctx context.Context, name string) trace.Span {
	_, span := otel.Tracer(otelName).Start(ctx, name)

	span.SetAttributes(semconv.DBSystemPostgreSQL)

	return span
}

// wrapScanError converts low-level pgx errors into domain errors so callers
// never see the storage layer's own types.
func wrapScanError(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return internal.WrapErrorf(err, internal.ErrorCodeNotFound, "%s: no rows", op)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "%s: already exists", op)
	}

	return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "%s", op)
}
