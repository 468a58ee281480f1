package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"smsportal/internal/models"
)

const (
	defaultTwilioBaseURL = "https://api.twilio.com/2010-04-01"
	defaultLookupURL     = "https://lookups.twilio.com/v1"
)

// TwilioClient talks to the Twilio REST API with basic auth (account SID + auth token).
// In dry-run mode nothing leaves the process and fake SIDs are returned.
type TwilioClient struct {
	AccountSID string
	AuthToken  string
	BaseURL    string
	LookupURL  string
	DryRun     bool
	HTTP       *http.Client
}

type twilioResource struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type twilioLookup struct {
	PhoneNumber string `json:"phone_number"`
	CountryCode string `json:"country_code"`
	Carrier     struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"carrier"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// TwilioError is a non-2xx answer from the API.
type TwilioError struct {
	Status  int
	Code    int
	Message string
}

func (e *TwilioError) Error() string {
	return fmt.Sprintf("twilio: status=%d code=%d: %s", e.Status, e.Code, e.Message)
}

func NewTwilioClient(accountSID, authToken string, timeout time.Duration, dryRun bool) *TwilioClient {
	return &TwilioClient{
		AccountSID: accountSID,
		AuthToken:  authToken,
		BaseURL:    defaultTwilioBaseURL,
		LookupURL:  defaultLookupURL,
		DryRun:     dryRun || accountSID == "" || authToken == "",
		HTTP:       &http.Client{Timeout: timeout},
	}
}

func (c *TwilioClient) SendSMS(ctx context.Context, to, from, body string) (string, error) {
	if c.DryRun {
		sid := fakeSID("SM")
		log.Info().Str("to", to).Str("from", from).Str("sid", sid).Msg("[twilio][dry-run] sms")
		return sid, nil
	}
	form := url.Values{"To": {to}, "From": {from}, "Body": {body}}
	var res twilioResource
	if err := c.postForm(ctx, "/Messages.json", form, &res); err != nil {
		return "", fmt.Errorf("send sms: %w", err)
	}
	return res.SID, nil
}

func (c *TwilioClient) MakeCall(ctx context.Context, to, from, twimlURL string) (string, error) {
	if c.DryRun {
		sid := fakeSID("CA")
		log.Info().Str("to", to).Str("from", from).Str("sid", sid).Msg("[twilio][dry-run] call")
		return sid, nil
	}
	form := url.Values{"To": {to}, "From": {from}, "Url": {twimlURL}}
	var res twilioResource
	if err := c.postForm(ctx, "/Calls.json", form, &res); err != nil {
		return "", fmt.Errorf("make call: %w", err)
	}
	return res.SID, nil
}

func (c *TwilioClient) LookupNumber(ctx context.Context, number string) (*models.CarrierInfo, error) {
	if c.DryRun {
		log.Info().Str("number", number).Msg("[twilio][dry-run] lookup")
		return &models.CarrierInfo{PhoneNumber: number, CarrierName: "dry-run", LineType: "mobile"}, nil
	}
	endpoint := strings.TrimRight(c.LookupURL, "/") + "/PhoneNumbers/" + url.PathEscape(number) + "?Type=carrier"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.AccountSID, c.AuthToken)

	var res twilioLookup
	if err := c.do(req, &res); err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}
	return &models.CarrierInfo{
		PhoneNumber: res.PhoneNumber,
		CountryCode: res.CountryCode,
		CarrierName: res.Carrier.Name,
		LineType:    res.Carrier.Type,
	}, nil
}

func (c *TwilioClient) postForm(ctx context.Context, path string, form url.Values, out any) error {
	endpoint := strings.TrimRight(c.BaseURL, "/") + "/Accounts/" + c.AccountSID + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.AccountSID, c.AuthToken)
	return c.do(req, out)
}

// Twilio replies are a few KB; anything larger is not a Twilio reply.
const maxResponseBytes = 1 << 20

func (c *TwilioClient) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(body) > maxResponseBytes {
		return fmt.Errorf("read response: body exceeds %d bytes", maxResponseBytes)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr twilioResource
		_ = json.Unmarshal(body, &apiErr)
		return &TwilioError{Status: resp.StatusCode, Code: apiErr.Code, Message: apiErr.Message}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// fakeSID mimics the 34-char Twilio SID shape: 2-letter prefix + 32 hex.
func fakeSID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}
