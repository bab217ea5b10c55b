// Package resilience bounds and retries calls to the ticket source.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/Picoli-Igor/Dash2/internal/domain/sprint"
	"github.com/Picoli-Igor/Dash2/internal/shared/config"
	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
)

// RetryingTicketSource gives every attempt its own deadline and retries
// failed attempts with exponential backoff. Invalid connection params and
// refused logins are not retried.
type RetryingTicketSource struct {
	next         sprint.TicketSource
	retry        config.RetryConfig
	queryTimeout time.Duration
	logger       logger.Interface
}

func NewRetryingTicketSource(next sprint.TicketSource, retry config.RetryConfig, queryTimeout time.Duration, logger logger.Interface) *RetryingTicketSource {
	return &RetryingTicketSource{
		next:         next,
		retry:        retry,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

func (s *RetryingTicketSource) FetchSprintTickets(ctx context.Context, params sprint.ConnectionParams, sprintID int) (sprint.ResultSet, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	attempt := 0
	operation := func() (sprint.ResultSet, error) {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()

		rs, err := s.next.FetchSprintTickets(attemptCtx, params, sprintID)
		if err == nil {
			return rs, nil
		}
		if errors.Is(err, sprint.ErrInvalidConnectionParams) || errors.Is(err, sprint.ErrAccessDenied) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	notify := func(err error, next time.Duration) {
		s.logger.Warnw("ticket source attempt failed, retrying",
			"attempt", attempt,
			"retry_in", next,
			"params", params,
			"error", err,
		)
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(s.newBackOff()),
		backoff.WithMaxTries(s.maxTries()),
		backoff.WithMaxElapsedTime(s.retry.MaxElapsedTime),
		backoff.WithNotify(notify),
	)
}

func (s *RetryingTicketSource) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if s.retry.InitialInterval > 0 {
		b.InitialInterval = s.retry.InitialInterval
	}
	if s.retry.MaxInterval > 0 {
		b.MaxInterval = s.retry.MaxInterval
	}
	if s.retry.Multiplier > 0 {
		b.Multiplier = s.retry.Multiplier
	}
	b.Reset()
	return b
}

func (s *RetryingTicketSource) maxTries() uint {
	if s.retry.MaxAttempts == 0 {
		return 1
	}
	return s.retry.MaxAttempts
}
