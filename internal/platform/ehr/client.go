package ehr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned when no EHR base URL is configured; callers
// treat it like any other calendar failure and fail open.
var ErrNotConfigured = errors.New("ehr: client not configured")

// BookedInterval is one appointment already on a practitioner's external
// calendar. Start and End are in the practitioner's local wall-clock time.
type BookedInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CalendarSource exposes the external EHR system's booked time for a
// practitioner on a given date. The EHR is the source of truth for booked
// time; the conflict filter is its only consumer.
type CalendarSource interface {
	AppointmentsForDate(ctx context.Context, practitionerExtID string, date time.Time) ([]BookedInterval, error)
}

// Client is an HTTP CalendarSource.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	logger  zerolog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
	}
}

type appointmentsResponse struct {
	Appointments []struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"appointments"`
}

// AppointmentsForDate fetches the practitioner's booked intervals for one
// calendar date.
func (c *Client) AppointmentsForDate(ctx context.Context, practitionerExtID string, date time.Time) ([]BookedInterval, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	u := fmt.Sprintf("%s/v1/practitioners/%s/appointments?date=%s",
		c.baseURL, url.PathEscape(practitionerExtID), date.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build ehr request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).
			Str("practitioner", practitionerExtID).
			Str("date", date.Format("2006-01-02")).
			Msg("ehr appointments fetch failed")
		return nil, fmt.Errorf("ehr appointments fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).
			Str("practitioner", practitionerExtID).
			Msg("ehr appointments fetch returned non-200")
		return nil, fmt.Errorf("ehr appointments fetch: unexpected status %d", resp.StatusCode)
	}

	var body appointmentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode ehr appointments: %w", err)
	}

	intervals := make([]BookedInterval, 0, len(body.Appointments))
	for _, a := range body.Appointments {
		start, err := parseEHRTime(a.Start, date)
		if err != nil {
			c.logger.Warn().Str("start", a.Start).Msg("skipping appointment with unparseable start")
			continue
		}
		end, err := parseEHRTime(a.End, date)
		if err != nil {
			c.logger.Warn().Str("end", a.End).Msg("skipping appointment with unparseable end")
			continue
		}
		intervals = append(intervals, BookedInterval{Start: start, End: end})
	}
	return intervals, nil
}

// parseEHRTime accepts either a full RFC3339 timestamp or bare "HH:MM"
// wall-clock time on the requested date. Some integrated systems send one,
// some the other.
func parseEHRTime(s string, date time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
