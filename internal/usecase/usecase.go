// Package usecase implements the link shortening workflow on top of the
// link repository: collision-retrying creation, lookups and redirects.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

const (
	DefaultMaxAttempts = 5
	DefaultHitTimeout  = 5 * time.Second
)

type linkRepository interface {
	Create(ctx context.Context, code, originalURL string) (*entity.Link, error)
	Lookup(ctx context.Context, code string) (*entity.Link, error)
	IncrementHits(ctx context.Context, code string) error
}

type linkCache interface {
	Get(ctx context.Context, code string) (string, error)
	Set(ctx context.Context, code, originalURL string) error
}

type codeGenerator interface {
	Generate() string
}

type Option func(*LinkUseCase)

// WithCache puts a read-through cache in front of the repository on the redirect path.
func WithCache(cache linkCache) Option {
	return func(uc *LinkUseCase) {
		uc.cache = cache
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(uc *LinkUseCase) {
		uc.logger = logger
	}
}

// WithMaxAttempts sets how many codes Shorten tries. Non-positive values are ignored.
func WithMaxAttempts(n int) Option {
	return func(uc *LinkUseCase) {
		if n > 0 {
			uc.maxAttempts = n
		}
	}
}

// WithHitTimeout bounds each background hit increment.
func WithHitTimeout(d time.Duration) Option {
	return func(uc *LinkUseCase) {
		uc.hitTimeout = d
	}
}

type LinkUseCase struct {
	repo        linkRepository
	cache       linkCache
	gen         codeGenerator
	validate    *validator.Validate
	logger      *slog.Logger
	maxAttempts int
	hitTimeout  time.Duration
	hits        sync.WaitGroup
}

func New(repo linkRepository, gen codeGenerator, opts ...Option) *LinkUseCase {
	uc := &LinkUseCase{
		repo:        repo,
		gen:         gen,
		validate:    validator.New(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxAttempts: DefaultMaxAttempts,
		hitTimeout:  DefaultHitTimeout,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Shorten stores originalURL under a freshly generated code. A colliding code is
// replaced by a new random draw, up to maxAttempts times; any other repository
// error aborts immediately.
func (uc *LinkUseCase) Shorten(ctx context.Context, originalURL string) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.Shorten"

	if err := uc.validate.Var(originalURL, "required,http_url"); err != nil {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidURL)
	}

	for range uc.maxAttempts {
		link, err := uc.repo.Create(ctx, uc.gen.Generate(), originalURL)
		if err != nil {
			if errors.Is(err, entity.ErrDuplicateCode) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return link, nil
	}

	return nil, fmt.Errorf("%s: %w", op, entity.ErrRetriesExhausted)
}

// Info returns the stored link, including its current hit count.
func (uc *LinkUseCase) Info(ctx context.Context, code string) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.Info"

	link, err := uc.repo.Lookup(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get link info: %w", op, err)
	}

	return link, nil
}

// Redirect resolves code to its original URL and records a hit in the background.
// The hit is never awaited and its failure does not affect the result.
func (uc *LinkUseCase) Redirect(ctx context.Context, code string) (string, error) {
	const op = "usecase.LinkUseCase.Redirect"

	originalURL, err := uc.resolve(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%s: failed to resolve code: %w", op, err)
	}

	uc.recordHit(ctx, code)

	return originalURL, nil
}

// Wait blocks until every background hit increment has finished.
func (uc *LinkUseCase) Wait() {
	uc.hits.Wait()
}

func (uc *LinkUseCase) resolve(ctx context.Context, code string) (string, error) {
	const op = "usecase.LinkUseCase.resolve"

	if uc.cache != nil {
		originalURL, err := uc.cache.Get(ctx, code)
		if err == nil {
			return originalURL, nil
		}

		if !errors.Is(err, entity.ErrLinkNotFound) {
			uc.logger.Warn("failed to read link cache",
				slog.String("op", op), slog.String("code", code), slog.Any("err", err))
		}
	}

	link, err := uc.repo.Lookup(ctx, code)
	if err != nil {
		return "", err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, code, link.OriginalURL); err != nil {
			uc.logger.Warn("failed to warm link cache",
				slog.String("op", op), slog.String("code", code), slog.Any("err", err))
		}
	}

	return link.OriginalURL, nil
}

func (uc *LinkUseCase) recordHit(ctx context.Context, code string) {
	const op = "usecase.LinkUseCase.recordHit"

	// Detached from the request so the increment survives the response being written.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.hitTimeout)

	uc.hits.Add(1)
	go func() {
		defer uc.hits.Done()
		defer cancel()

		if err := uc.repo.IncrementHits(ctx, code); err != nil {
			uc.logger.Warn("failed to record hit",
				slog.String("op", op), slog.String("code", code), slog.Any("err", err))
		}
	}()
}
