package importer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yigit/egresados/internal/pkg/apperrors"
)

// UpsertResult classifies the persistence outcome of one row
type UpsertResult int

const (
	UpsertFailed UpsertResult = iota
	UpsertUpdated
	UpsertCreated
)

func (r UpsertResult) String() string {
	switch r {
	case UpsertCreated:
		return "created"
	case UpsertUpdated:
		return "updated"
	default:
		return "failed"
	}
}

// upsert tries a partial update of the student's graduate record and falls
// back to creating it. Both errors are logged when neither succeeds.
func upsert(ctx context.Context, store GraduateStore, log zerolog.Logger, line int, studentID int64, payload Payload) UpsertResult {
	_, updateErr := store.UpdateByStudent(ctx, studentID, payload)
	if updateErr == nil {
		return UpsertUpdated
	}

	_, createErr := store.CreateWithAttachments(ctx, studentID, payload, nil)
	if createErr == nil {
		return UpsertCreated
	}

	event := log.Error().
		Int("row", line).
		Int64("studentId", studentID)
	event = withCause(event, "update", updateErr)
	event = withCause(event, "create", createErr)
	event.Msg("Failed to upsert graduate record")
	return UpsertFailed
}

// withCause attaches err under prefix, expanding CustomError payloads
func withCause(event *zerolog.Event, prefix string, err error) *zerolog.Event {
	event = event.AnErr(prefix+"Error", err)
	if custom, ok := apperrors.As(err); ok {
		event = event.
			Int(prefix+"Status", custom.StatusCode).
			Str(prefix+"Code", custom.Code).
			Str(prefix+"Message", custom.Message)
		if custom.Details != nil {
			event = event.Interface(prefix+"Details", custom.Details)
		}
	}
	return event
}

func logFailure(event *zerolog.Event, err error) *zerolog.Event {
	return withCause(event, "cause", err)
}
