package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// stage is a step of the per request state machine.
type stage string

const (
	stageReceived      stage = "RECEIVED"
	stageAuthorized    stage = "AUTHORIZED"
	stageGateChecked   stage = "GATE_CHECKED"
	stageApplied       stage = "APPLIED"
	stageResponded     stage = "RESPONDED"
	stageTerminalError stage = "TERMINAL_ERROR"
)

// Operation names used in logs and metrics.
const (
	opListRoles          = "list_roles"
	opListUserNames      = "list_user_names"
	opListUsers          = "list_users"
	opUpdateActiveStatus = "update_active_status"
	opSignUpOrLogin      = "sign_up_or_login"
	opListBooks          = "list_books"
	opInsertBook         = "insert_book"
	opRemoveBook         = "remove_book"
	opUpdateBook         = "update_book"
	opBorrow             = "borrow_book"
	opReturn             = "return_book"
)

type requestIDKey struct{}

// WithRequestID stores an upstream request id in ctx. Service reuses it instead of
// generating a new one.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// request tracks one call through the state machine.
type request struct {
	op      string
	stage   stage
	started time.Time
	log     zerolog.Logger
}

// begin enters RECEIVED and returns a context carrying the request logger, so the
// store layer logs with the same request id.
func begin(ctx context.Context, op string) (*request, context.Context) {
	id, _ := ctx.Value(requestIDKey{}).(string)
	if id == "" {
		id = uuid.NewString()
	}

	r := &request{
		op:      op,
		stage:   stageReceived,
		started: time.Now(),
		log:     log.With().Str("request_id", id).Str("operation", op).Logger(),
	}

	r.log.Debug().Str("stage", string(stageReceived)).Msg("request received")

	return r, r.log.WithContext(ctx)
}

func (r *request) advance(s stage) {
	r.stage = s
	r.log.Debug().Str("stage", string(s)).Msg("request advanced")
}

// finish enters RESPONDED or TERMINAL_ERROR, records metrics and returns the
// classified error.
func (r *request) finish(err error) error {
	e := classify(err)

	requestsTotal.WithLabelValues(r.op, outcome(e)).Inc()
	requestDuration.WithLabelValues(r.op).Observe(time.Since(r.started).Seconds())

	if e == nil {
		r.advance(stageResponded)
		return nil
	}

	ev := r.log.Debug()
	if e.Internal() {
		ev = r.log.Error()
	}

	ev.Err(e.Cause).
		Str("stage", string(stageTerminalError)).
		Str("failed_after", string(r.stage)).
		Str("kind", e.Kind.Error()).
		Str("message", e.Message).
		Msg("request failed")

	r.stage = stageTerminalError

	return e
}
