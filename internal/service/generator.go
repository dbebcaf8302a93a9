package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/rangmanch/internal/database/repository"
)

// ErrInvalidRequest marks caller input that failed validation.
var ErrInvalidRequest = errors.New("invalid request")

// Generator form limits.
const (
	MinLength     = 100
	MaxLength     = 2000
	LengthStep    = 100
	DefaultLength = 500
)

// Option is a value/label pair for a form select.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var contentTypes = []Option{
	{Value: "blog", Label: "Blog Post"},
	{Value: "email", Label: "Email"},
	{Value: "social", Label: "Social Media"},
	{Value: "script", Label: "Video Script"},
}

var tones = []Option{
	{Value: "professional", Label: "Professional"},
	{Value: "casual", Label: "Casual"},
	{Value: "friendly", Label: "Friendly"},
	{Value: "formal", Label: "Formal"},
}

func ContentTypes() []Option { return append([]Option(nil), contentTypes...) }
func Tones() []Option        { return append([]Option(nil), tones...) }

func labelOf(opts []Option, value string) (string, bool) {
	for _, o := range opts {
		if o.Value == value {
			return o.Label, true
		}
	}
	return "", false
}

// GenerateRequest is the content generator form.
type GenerateRequest struct {
	ContentType string `json:"contentType"`
	Tone        string `json:"tone"`
	Length      int    `json:"length"`
	Brief       string `json:"brief"`
}

// DefaultRequest is the form as it first opens.
func DefaultRequest() GenerateRequest {
	return GenerateRequest{ContentType: "blog", Tone: "professional", Length: DefaultLength}
}

// Validate checks the request against the form limits.
func (r GenerateRequest) Validate() error {
	if _, ok := labelOf(contentTypes, r.ContentType); !ok {
		return fmt.Errorf("%w: unknown content type %q", ErrInvalidRequest, r.ContentType)
	}
	if _, ok := labelOf(tones, r.Tone); !ok {
		return fmt.Errorf("%w: unknown tone %q", ErrInvalidRequest, r.Tone)
	}
	if r.Length < MinLength || r.Length > MaxLength || r.Length%LengthStep != 0 {
		return fmt.Errorf("%w: length must be %d..%d in steps of %d, got %d", ErrInvalidRequest, MinLength, MaxLength, LengthStep, r.Length)
	}
	if strings.TrimSpace(r.Brief) == "" {
		return fmt.Errorf("%w: brief is required", ErrInvalidRequest)
	}
	return nil
}

// GenerateResult is a generated draft body.
type GenerateResult struct {
	Request GenerateRequest `json:"request"`
	Body    string          `json:"body"`
}

// GeneratorService produces placeholder drafts. There is no model behind it:
// Generate waits a fixed delay and returns an outline built from the form.
type GeneratorService struct {
	Drafts *repository.DraftRepo
	Delay  time.Duration
	Now    func() time.Time
}

func (s *GeneratorService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Generate validates req, waits the configured delay and returns the outline.
// It returns ctx.Err() if cancelled while waiting.
func (s *GeneratorService) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	if err := req.Validate(); err != nil {
		return GenerateResult{}, err
	}
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return GenerateResult{}, ctx.Err()
		case <-t.C:
		}
	}
	return GenerateResult{Request: req, Body: outline(req)}, nil
}

func outline(req GenerateRequest) string {
	typeLabel, _ := labelOf(contentTypes, req.ContentType)
	toneLabel, _ := labelOf(tones, req.Tone)
	brief := strings.TrimSpace(req.Brief)
	var b strings.Builder
	fmt.Fprintf(&b, "%s draft (%s tone, ~%d words)\n\n", typeLabel, strings.ToLower(toneLabel), req.Length)
	fmt.Fprintf(&b, "Brief: %s\n\n", brief)
	sections := max(2, req.Length/400)
	for i := 1; i <= sections; i++ {
		fmt.Fprintf(&b, "%d. Section %d: expand on %q\n", i, i, brief)
	}
	return b.String()
}

// SaveDraft stores a draft and returns it with its new id.
func (s *GeneratorService) SaveDraft(ctx context.Context, req GenerateRequest, body string) (repository.Draft, error) {
	if err := req.Validate(); err != nil {
		return repository.Draft{}, err
	}
	d := repository.Draft{
		ID:          uuid.NewString(),
		ContentType: req.ContentType,
		Tone:        req.Tone,
		Length:      req.Length,
		Brief:       strings.TrimSpace(req.Brief),
		Body:        body,
		CreatedAt:   s.now().Truncate(time.Second),
	}
	if err := s.Drafts.Insert(ctx, d); err != nil {
		return repository.Draft{}, fmt.Errorf("save draft: %w", err)
	}
	return d, nil
}

// RecentDrafts returns the latest saved drafts.
func (s *GeneratorService) RecentDrafts(ctx context.Context, limit int) ([]repository.Draft, error) {
	return s.Drafts.List(ctx, limit)
}
