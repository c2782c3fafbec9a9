package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// FallbackClient wraps a primary client with a fallback provider.
// If the primary fails, the same prompt is retried against the fallback.
type FallbackClient struct {
	primary  Client
	fallback Client
	logger   *slog.Logger
}

// NewFallbackClient creates a new fallback-enabled client.
// If fallback is nil, the client will only use the primary provider.
func NewFallbackClient(primary, fallback Client, logger *slog.Logger) *FallbackClient {
	if primary == nil {
		panic("llm: primary client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackClient{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *FallbackClient) Complete(ctx context.Context, prompt string) (Completion, error) {
	resp, err := c.primary.Complete(ctx, prompt)
	if err == nil {
		return resp, nil
	}

	c.logger.Warn("primary completion backend failed",
		"error", err.Error(),
		"fallback_available", c.fallback != nil,
	)
	if c.fallback == nil {
		return Completion{}, err
	}
	// A cancelled caller should not spill over into a second provider.
	if ctx.Err() != nil {
		return Completion{}, err
	}

	fallbackResp, fallbackErr := c.fallback.Complete(ctx, prompt)
	if fallbackErr != nil {
		c.logger.Error("fallback completion backend also failed",
			"primary_error", err.Error(),
			"fallback_error", fallbackErr.Error(),
		)
		return Completion{}, fallbackErr
	}

	c.logger.Info("fallback completion backend succeeded after primary failure")
	return fallbackResp, nil
}

// Close releases either wrapped client that holds resources.
func (c *FallbackClient) Close() error {
	var errs []error
	for _, client := range []Client{c.primary, c.fallback} {
		if closer, ok := client.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
