package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-console-api/internal/scheduling"
	"github.com/noah-isme/edu-console-api/pkg/middleware/requestid"
)

const maxErrorBody = 4 << 10

// Config locates the generator service.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// GenerateRequest is the constraint set sent to the generator.
type GenerateRequest struct {
	StartDate          string                    `json:"start_date"`
	EndDate            string                    `json:"end_date"`
	ClassIDs           []string                  `json:"class_ids"`
	MaxSlotsPerSession int                       `json:"max_slots_per_session"`
	PreferMorning      bool                      `json:"prefer_morning"`
	ClassConflict      scheduling.BlackoutMatrix `json:"class_conflict"`
	TeacherConflict    scheduling.BlackoutMatrix `json:"teacher_conflict"`
}

// Statistics summarises a generation run.
type Statistics struct {
	SuccessfulSessions int     `json:"successful_sessions"`
	ConflictCount      int     `json:"conflict_count"`
	SuccessRate        float64 `json:"success_rate"`
}

// GenerateResult is the generator's draft.
type GenerateResult struct {
	Sessions   []SessionPayload `json:"sessions"`
	Statistics Statistics       `json:"statistics"`
}

// WeeklyQuery filters the remote weekly read.
type WeeklyQuery struct {
	StartDate string
	EndDate   string
	ClassID   string
	TeacherID string
	RoomID    string
}

// RequestError reports a non-2xx answer from the generator.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("generator responded with status %d", e.Status)
	}
	return fmt.Sprintf("generator responded with status %d: %s", e.Status, e.Body)
}

// Client talks to the external schedule generator.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient constructs a generator client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Generate requests a draft schedule.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode generate request: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, "/schedule/generate", nil, body)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Statistics Statistics `json:"statistics"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode generate response: %w", err)
	}
	sessions, err := DecodeSessions(raw)
	if err != nil {
		return nil, err
	}

	c.logger.Info("schedule generated",
		zap.Int("sessions", len(sessions)),
		zap.Int("conflicts", envelope.Statistics.ConflictCount),
	)
	return &GenerateResult{Sessions: sessions, Statistics: envelope.Statistics}, nil
}

// FetchWeekly reads persisted sessions from the generator service.
func (c *Client) FetchWeekly(ctx context.Context, q WeeklyQuery) ([]SessionPayload, error) {
	params := url.Values{}
	setParam(params, "start_date", q.StartDate)
	setParam(params, "end_date", q.EndDate)
	setParam(params, "class_id", q.ClassID)
	setParam(params, "teacher_id", q.TeacherID)
	setParam(params, "room_id", q.RoomID)

	raw, err := c.do(ctx, http.MethodGet, "/schedule/weekly", params, nil)
	if err != nil {
		return nil, err
	}
	return DecodeSessions(raw)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body []byte) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build generator request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqID := requestid.FromContext(ctx); reqID != "" {
		req.Header.Set(requestid.Header, reqID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("generator request failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("call generator %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read generator response: %w", err)
	}

	c.logger.Debug("generator request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := strings.TrimSpace(string(raw))
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return nil, &RequestError{Status: resp.StatusCode, Body: text}
	}
	return raw, nil
}

func setParam(params url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		params.Set(key, value)
	}
}
