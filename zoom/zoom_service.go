package zoom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	defaultAPIBaseURL = "https://api.zoom.us/v2"
	defaultAuthURL    = "https://zoom.us/oauth/token"

	// Tokens are refreshed this long before they actually expire.
	tokenExpirySlack = 300 * time.Second

	passwordAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"
	passwordLength   = 8
)

// APIError is returned whenever the vendor rejects a request or is
// unreachable. Status is the upstream HTTP status, 0 for transport errors.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("zoom api request failed: %s", e.Message)
	}
	return fmt.Sprintf("zoom api returned status %d: %s", e.Status, e.Message)
}

// Meeting is the subset of the vendor meeting object the system stores.
type Meeting struct {
	UUID      string `json:"uuid"`
	ID        int64  `json:"id"`
	Topic     string `json:"topic"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
	Timezone  string `json:"timezone"`
	StartURL  string `json:"start_url"`
	JoinURL   string `json:"join_url"`
	Password  string `json:"password"`
}

type MeetingSettings struct {
	HostVideo            bool   `json:"host_video"`
	ParticipantVideo     bool   `json:"participant_video"`
	JoinBeforeHost       bool   `json:"join_before_host"`
	MuteUponEntry        bool   `json:"mute_upon_entry"`
	WaitingRoom          bool   `json:"waiting_room"`
	AllowMultipleDevices bool   `json:"allow_multiple_devices"`
	AutoRecording        string `json:"auto_recording"`
	ApprovalType         int    `json:"approval_type"`
}

type meetingRequest struct {
	Topic     string          `json:"topic"`
	Type      int             `json:"type"`
	StartTime string          `json:"start_time"`
	Duration  int             `json:"duration"`
	Timezone  string          `json:"timezone"`
	Password  string          `json:"password"`
	Agenda    string          `json:"agenda"`
	Settings  MeetingSettings `json:"settings"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// MeetingProvisioner is the contract the booking workflows depend on.
type MeetingProvisioner interface {
	CreateSessionMeeting(ctx context.Context, title, category string, startTime time.Time, durationMinutes int) (*Meeting, error)
}

type Config struct {
	AccountID    string
	ClientID     string
	ClientSecret string
	APIBaseURL   string
	AuthURL      string
	Timeout      time.Duration
}

// Service talks to the Zoom API with a process-wide cached server-to-server
// OAuth token. Safe for concurrent use; at most one token refresh is ever
// in flight.
type Service struct {
	cfg    Config
	client *http.Client
	rng    *rand.Rand
	rngMu  sync.Mutex

	tokenMu     sync.RWMutex
	token       string
	tokenExpiry time.Time
}

func NewService(cfg Config) *Service {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = defaultAuthURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Service) getAccessToken(ctx context.Context) (string, error) {
	s.tokenMu.RLock()
	if s.token != "" && time.Now().Before(s.tokenExpiry) {
		token := s.token
		s.tokenMu.RUnlock()
		return token, nil
	}
	s.tokenMu.RUnlock()

	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()

	if s.token != "" && time.Now().Before(s.tokenExpiry) {
		return s.token, nil
	}

	if s.cfg.AccountID == "" || s.cfg.ClientID == "" || s.cfg.ClientSecret == "" {
		return "", errors.New("zoom credentials not configured: set ZOOM_ACCOUNT_ID, ZOOM_CLIENT_ID and ZOOM_CLIENT_SECRET")
	}

	log.Println("Fetching new Zoom access token...")

	authURL := fmt.Sprintf("%s?grant_type=account_credentials&account_id=%s",
		s.cfg.AuthURL, url.QueryEscape(s.cfg.AccountID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, authURL, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(s.cfg.ClientID, s.cfg.ClientSecret)
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &APIError{Status: resp.StatusCode, Message: "token request failed: " + truncate(string(body), 200)}
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", err
	}

	s.token = tok.AccessToken
	s.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenExpirySlack)
	log.Println("Successfully fetched and cached Zoom access token.")

	return s.token, nil
}

// CreateSessionMeeting provisions a scheduled meeting for a session window.
// The start time is sent in UTC regardless of the caller's zone.
func (s *Service) CreateSessionMeeting(ctx context.Context, title, category string, startTime time.Time, durationMinutes int) (*Meeting, error) {
	accessToken, err := s.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload := meetingRequest{
		Topic:     fmt.Sprintf("%s - %s", title, category),
		Type:      2, // scheduled meeting
		StartTime: startTime.UTC().Format(time.RFC3339),
		Duration:  durationMinutes,
		Timezone:  "UTC",
		Password:  s.generateMeetingPassword(),
		Agenda:    fmt.Sprintf("Educational session: %s", title),
		Settings: MeetingSettings{
			HostVideo:            true,
			ParticipantVideo:     true,
			JoinBeforeHost:       false,
			MuteUponEntry:        true,
			WaitingRoom:          true,
			AllowMultipleDevices: true,
			AutoRecording:        "none",
			ApprovalType:         0,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.cfg.APIBaseURL+"/users/me/meetings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &APIError{Status: resp.StatusCode, Message: truncate(string(respBody), 500)}
	}

	var meeting Meeting
	if err := json.NewDecoder(resp.Body).Decode(&meeting); err != nil {
		return nil, err
	}

	log.Printf("✅ Zoom meeting created successfully: Meeting ID %d", meeting.ID)
	return &meeting, nil
}

func (s *Service) generateMeetingPassword() string {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	b := make([]byte, passwordLength)
	for i := range b {
		b[i] = passwordAlphabet[s.rng.Intn(len(passwordAlphabet))]
	}
	return string(b)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
