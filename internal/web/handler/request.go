package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/orchestrator"
)

// ErrInvalidRoleID is returned when role_id is neither a number nor a numeric string.
var ErrInvalidRoleID = errors.New("role_id must be a number")

// RoleRef is a role id that clients may send as a JSON number or a numeric string.
type RoleRef uint

// UnmarshalJSON accepts 2, "2" and null.
func (r *RoleRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = 0
		return nil
	}

	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return errors.Wrap(ErrInvalidRoleID, err.Error())
		}

		if s == "" {
			*r = 0
			return nil
		}
	} else {
		s = string(b)
	}

	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return ErrInvalidRoleID
	}

	*r = RoleRef(v)

	return nil
}

// Tuple is the permission tuple a client sends with every gated request.
type Tuple struct {
	RoleID      RoleRef `json:"role_id"`
	TableName   string  `json:"table_name"`
	Action      string  `json:"action"`
	ColumnField string  `json:"column_field"`
}

// Caller converts the tuple for the orchestrator.
func (t *Tuple) Caller() orchestrator.Caller {
	return orchestrator.Caller{
		Role:     uint(t.RoleID),
		Resource: t.TableName,
		Action:   t.Action,
		Column:   t.ColumnField,
	}
}

// QueryTuple reads the permission tuple from the query string.
func QueryTuple(c *fiber.Ctx) Tuple {
	return Tuple{
		RoleID:      RoleRef(c.QueryInt("role_id")),
		TableName:   c.Query("table_name"),
		Action:      c.Query("action"),
		ColumnField: c.Query("column_field"),
	}
}

// Context returns the request context carrying the request id.
func Context(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()

	if id, ok := c.Locals(RequestIDKey).(string); ok && id != "" {
		ctx = orchestrator.WithRequestID(ctx, id)
	}

	return ctx
}
