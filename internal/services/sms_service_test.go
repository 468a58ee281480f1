package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smsportal/internal/models"
)

func phone(s string) *string { return &s }

func newMessaging() (*fakeTelephony, *memHistory, MessagingService) {
	tel := &fakeTelephony{failFor: map[string]bool{}}
	hist := &memHistory{}
	return tel, hist, NewMessagingService(tel, NewHistoryService(hist, 10), "US")
}

func TestMessagingService_SendSMS_RecordsHistory(t *testing.T) {
	tel, hist, svc := newMessaging()
	from := &models.Account{ID: 1, IsActive: true, Phone: phone("+16502530001")}

	rec, err := svc.SendSMS(context.Background(), from, "(650) 253-0000", "hello")
	require.NoError(t, err)

	require.Len(t, tel.sms, 1)
	assert.Equal(t, sentSMS{"+16502530000", "+16502530001", "hello"}, tel.sms[0])

	require.Len(t, hist.rows, 1)
	assert.Same(t, rec, hist.rows[0])
	assert.Equal(t, models.KindSMS, rec.Kind)
	assert.Equal(t, "SM+16502530000", rec.ProviderID)
	require.NotNil(t, rec.AccountID)
	assert.Equal(t, 1, *rec.AccountID)
}

func TestMessagingService_MissingPhoneNumber(t *testing.T) {
	tel, hist, svc := newMessaging()
	noPhone := &models.Account{ID: 2}

	_, err := svc.SendSMS(context.Background(), noPhone, "+16502530000", "x")
	assert.ErrorIs(t, err, ErrMissingPhoneNumber)

	_, err = svc.SendCampaign(context.Background(), noPhone, []string{"+16502530000"}, "x")
	assert.ErrorIs(t, err, ErrMissingPhoneNumber)

	_, err = svc.MakeCall(context.Background(), &models.Account{ID: 2, Phone: phone("")}, "+16502530000", "http://x")
	assert.ErrorIs(t, err, ErrMissingPhoneNumber)

	assert.Empty(t, tel.sms, "nothing dispatched")
	assert.Zero(t, tel.calls)
	assert.Empty(t, hist.rows, "no history written")
}

func TestMessagingService_DispatchFailed(t *testing.T) {
	tel, hist, svc := newMessaging()
	tel.failFor["+16502530000"] = true
	from := &models.Account{ID: 1, IsActive: true, Phone: phone("+16502530001")}

	_, err := svc.SendSMS(context.Background(), from, "+16502530000", "x")
	assert.ErrorIs(t, err, ErrDispatchFailed)
	assert.Empty(t, hist.rows)
}

func TestMessagingService_InvalidDestination(t *testing.T) {
	tel, _, svc := newMessaging()
	from := &models.Account{ID: 1, IsActive: true, Phone: phone("+16502530001")}

	_, err := svc.SendSMS(context.Background(), from, "12", "x")
	assert.ErrorIs(t, err, ErrInvalidPhoneNumber)
	assert.True(t, IsUserInputError(err))
	assert.Empty(t, tel.sms)
}

func TestMessagingService_Campaign(t *testing.T) {
	tel, hist, svc := newMessaging()
	tel.failFor["+16502530002"] = true
	from := &models.Account{ID: 1, IsActive: true, Phone: phone("+16502530001")}

	results, err := svc.SendCampaign(context.Background(), from,
		[]string{"+16502530000", "+16502530002", "nope"}, "promo")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.NotNil(t, results[0].Record)
	assert.ErrorIs(t, results[1].Err, ErrDispatchFailed)
	assert.ErrorIs(t, results[2].Err, ErrInvalidPhoneNumber)
	assert.Equal(t, 2, CountFailures(results))
	assert.Len(t, hist.rows, 1)

	_, err = svc.SendCampaign(context.Background(), from, nil, "promo")
	assert.ErrorIs(t, err, ErrNoRecipients)
}

func TestMessagingService_HistoryFailureDoesNotFailSend(t *testing.T) {
	tel, hist, svc := newMessaging()
	hist.err = errors.New("db down")
	from := &models.Account{ID: 1, IsActive: true, Phone: phone("+16502530001")}

	rec, err := svc.SendSMS(context.Background(), from, "+16502530000", "x")
	require.NoError(t, err)
	assert.NotNil(t, rec)
	assert.Len(t, tel.sms, 1)
}

func TestMessagingService_CallAndLookup(t *testing.T) {
	tel, hist, svc := newMessaging()
	from := &models.Account{ID: 4, IsActive: true, Phone: phone("+16502530001")}

	rec, err := svc.MakeCall(context.Background(), from, "+16502530000", "http://demo.twilio.com/docs/voice.xml")
	require.NoError(t, err)
	assert.Equal(t, models.KindCall, rec.Kind)
	assert.Equal(t, 1, tel.calls)

	// lookups need no sender number
	info, err := svc.LookupNumber(context.Background(), &models.Account{ID: 5, IsActive: true}, "650 253 0000")
	require.NoError(t, err)
	assert.Equal(t, "Acme", info.CarrierName)

	require.Len(t, hist.rows, 2)
	assert.Equal(t, models.KindLookup, hist.rows[1].Kind)
	assert.Equal(t, "+16502530000", hist.rows[1].Destination)
	assert.Contains(t, hist.rows[1].Body, "carrier=Acme")
}

func TestMessagingService_InactiveAccountCannotDispatch(t *testing.T) {
	tel, hist, svc := newMessaging()
	ctx := context.Background()
	inactive := &models.Account{ID: 6, Phone: phone("+16502530001")}

	_, err := svc.SendSMS(ctx, inactive, "+16502530000", "x")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.SendCampaign(ctx, inactive, []string{"+16502530000"}, "x")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.MakeCall(ctx, inactive, "+16502530000", "http://x")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.LookupNumber(ctx, inactive, "+16502530000")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.LookupNumber(ctx, nil, "+16502530000")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// a missing phone number still wins over the account check
	_, err = svc.SendSMS(ctx, &models.Account{ID: 7}, "+16502530000", "x")
	assert.ErrorIs(t, err, ErrMissingPhoneNumber)

	assert.Empty(t, tel.sms)
	assert.Zero(t, tel.calls)
	assert.Zero(t, tel.lookups)
	assert.Empty(t, hist.rows)
}
