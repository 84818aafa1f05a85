package domain

import "github.com/google/uuid"

// TerminalID identifies one mounted POS intake screen.
type TerminalID uuid.UUID

func (id TerminalID) String() string { return uuid.UUID(id).String() }

// OperatorID identifies the authenticated cashier driving a terminal.
// It is taken from the subject of the bearer token.
type OperatorID uuid.UUID

func (id OperatorID) String() string { return uuid.UUID(id).String() }
