package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"smsportal/internal/authz"
	"smsportal/internal/metrics"
	"smsportal/internal/models"
	"smsportal/internal/utils"
)

// TelephonyClient is the outbound voice/SMS provider.
type TelephonyClient interface {
	SendSMS(ctx context.Context, to, from, body string) (string, error)
	MakeCall(ctx context.Context, to, from, twimlURL string) (string, error)
	LookupNumber(ctx context.Context, number string) (*models.CarrierInfo, error)
}

type MessagingService interface {
	SendSMS(ctx context.Context, from *models.Account, to, body string) (*models.MessageRecord, error)
	SendCampaign(ctx context.Context, from *models.Account, recipients []string, body string) ([]CampaignResult, error)
	MakeCall(ctx context.Context, from *models.Account, to, twimlURL string) (*models.MessageRecord, error)
	LookupNumber(ctx context.Context, by *models.Account, number string) (*models.CarrierInfo, error)
}

// CampaignResult is the outcome for one recipient. Exactly one of Record and Err is set.
type CampaignResult struct {
	To     string
	Record *models.MessageRecord
	Err    error
}

type messagingService struct {
	client  TelephonyClient
	history HistoryService
	region  string
}

func NewMessagingService(client TelephonyClient, history HistoryService, defaultRegion string) MessagingService {
	return &messagingService{client: client, history: history, region: defaultRegion}
}

func (s *messagingService) SendSMS(ctx context.Context, from *models.Account, to, body string) (*models.MessageRecord, error) {
	if err := checkSender(from); err != nil {
		return nil, err
	}
	return s.sendOne(ctx, from, to, body)
}

// SendCampaign sends body to every recipient independently. The sender is
// checked once up front; per-recipient failures do not stop the rest.
func (s *messagingService) SendCampaign(ctx context.Context, from *models.Account, recipients []string, body string) ([]CampaignResult, error) {
	if err := checkSender(from); err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	results := make([]CampaignResult, 0, len(recipients))
	for _, to := range recipients {
		rec, err := s.sendOne(ctx, from, to, body)
		results = append(results, CampaignResult{To: to, Record: rec, Err: err})
	}
	return results, nil
}

func (s *messagingService) sendOne(ctx context.Context, from *models.Account, to, body string) (*models.MessageRecord, error) {
	dest, err := utils.NormalizePhone(to, s.region)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhoneNumber, to)
	}

	started := time.Now()
	sid, err := s.client.SendSMS(ctx, dest, *from.Phone, body)
	metrics.Dispatch("sms", started, err)
	if err != nil {
		log.Error().Err(err).Int("account_id", from.ID).Str("to", dest).Msg("[sms][send] provider error")
		return nil, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	log.Info().Int("account_id", from.ID).Str("from", *from.Phone).Str("to", dest).Str("sid", sid).Msg("[sms][send] ok")

	return s.record(ctx, from, models.KindSMS, dest, body, sid), nil
}

func (s *messagingService) MakeCall(ctx context.Context, from *models.Account, to, twimlURL string) (*models.MessageRecord, error) {
	if err := checkSender(from); err != nil {
		return nil, err
	}
	dest, err := utils.NormalizePhone(to, s.region)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhoneNumber, to)
	}

	started := time.Now()
	sid, err := s.client.MakeCall(ctx, dest, *from.Phone, twimlURL)
	metrics.Dispatch("call", started, err)
	if err != nil {
		log.Error().Err(err).Int("account_id", from.ID).Str("to", dest).Msg("[call][create] provider error")
		return nil, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	log.Info().Int("account_id", from.ID).Str("to", dest).Str("sid", sid).Msg("[call][create] ok")

	return s.record(ctx, from, models.KindCall, dest, twimlURL, sid), nil
}

func (s *messagingService) LookupNumber(ctx context.Context, by *models.Account, number string) (*models.CarrierInfo, error) {
	if !authz.CanDispatch(by) {
		return nil, ErrUnauthorized
	}
	dest, err := utils.NormalizePhone(number, s.region)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhoneNumber, number)
	}

	started := time.Now()
	info, err := s.client.LookupNumber(ctx, dest)
	metrics.Dispatch("lookup", started, err)
	if err != nil {
		log.Error().Err(err).Int("account_id", by.ID).Str("number", dest).Msg("[lookup] provider error")
		return nil, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	summary := fmt.Sprintf("carrier=%s type=%s country=%s", info.CarrierName, info.LineType, info.CountryCode)
	s.record(ctx, by, models.KindLookup, dest, summary, "")
	return info, nil
}

// checkSender runs before any parsing or provider call. The phone number is
// checked first so an account without one always gets ErrMissingPhoneNumber.
func checkSender(from *models.Account) error {
	if !from.HasPhone() {
		return ErrMissingPhoneNumber
	}
	if !authz.CanDispatch(from) {
		return ErrUnauthorized
	}
	return nil
}

// record appends the audit row. The dispatch already happened, so a storage
// failure is logged rather than reported as a failed send.
func (s *messagingService) record(ctx context.Context, acc *models.Account, kind models.MessageKind, dest, body, providerID string) *models.MessageRecord {
	accountID := acc.ID
	rec := &models.MessageRecord{
		Kind:        kind,
		AccountID:   &accountID,
		Destination: dest,
		Body:        body,
		ProviderID:  providerID,
	}
	if err := s.history.Record(ctx, rec); err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Str("provider_id", providerID).Msg("[history][record] failed")
	}
	return rec
}

// CountFailures returns how many campaign results carry an error.
func CountFailures(results []CampaignResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// IsUserInputError reports errors caused by the submitted form rather than the provider.
func IsUserInputError(err error) bool {
	return errors.Is(err, ErrInvalidPhoneNumber) || errors.Is(err, ErrNoRecipients) || errors.Is(err, ErrMissingPhoneNumber)
}
