package service

import (
	"fmt"

	"github.com/okian/streamgem/internal/domain/model"
)

// Errors returned by the service. Transport-facing kinds live in model.
var (
	ErrUnknownCategory   = model.ErrUnknownCategory
	ErrStreamerNotFound  = model.ErrStreamerNotFound
	ErrInvalidLimit      = model.ErrInvalidLimit
	ErrInvalidVoter      = model.ErrInvalidVoter
	ErrNotStarted        = fmt.Errorf("%w: not started", model.ErrUnavailable)
	ErrDiscoveryDisabled = fmt.Errorf("%w: no discoverer configured", model.ErrUnavailable)
)
