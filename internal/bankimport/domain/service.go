package domain

import (
	"context"
	"errors"
	"io"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Import parses a bank statement in the named format, categorizes
	// each row by description keywords and posts one balanced journal
	// entry per row through the posting engine.
	Import(ctx context.Context, orgID snowflake.ID, format string, r io.Reader) (ImportResult, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrUnknownFormat       = errors.New("unknown_format")
)
