package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gopkg.in/gomail.v2"

	"smsportal/internal/models"
	"smsportal/internal/repositories"
)

// memAccounts is an in-memory AccountRepository with the same unique-email rule as the table.
type memAccounts struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]*models.Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{nextID: 1, rows: map[int]*models.Account{}}
}

func (m *memAccounts) Create(_ context.Context, acc *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == acc.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	acc.ID = m.nextID
	acc.CreatedAt = time.Now()
	m.nextID++
	cp := *acc
	m.rows[acc.ID] = &cp
	return nil
}

func (m *memAccounts) GetByID(_ context.Context, id int) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == email {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memAccounts) Activate(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return repositories.ErrNotFound
	}
	r.IsActive = true
	return nil
}

func (m *memAccounts) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memAccounts) List(_ context.Context) ([]*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Account, 0, len(m.rows))
	for _, r := range m.rows {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memAccounts) UpdatePhone(_ context.Context, id int, phone *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return repositories.ErrNotFound
	}
	r.Phone = phone
	return nil
}

type memHistory struct {
	mu         sync.Mutex
	rows       []*models.MessageRecord
	err        error
	lastOffset int
}

func (m *memHistory) Create(_ context.Context, rec *models.MessageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	rec.ID = int64(len(m.rows) + 1)
	rec.CreatedAt = time.Now()
	m.rows = append(m.rows, rec)
	return nil
}

func (m *memHistory) List(_ context.Context, kind models.MessageKind, limit, offset int) ([]*models.MessageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOffset = offset
	var filtered []*models.MessageRecord
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].Kind == kind {
			filtered = append(filtered, m.rows[i])
		}
	}
	if offset >= len(filtered) {
		return nil, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], nil
}

func (m *memHistory) Count(_ context.Context, kind models.MessageKind) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.rows {
		if r.Kind == kind {
			n++
		}
	}
	return n, nil
}

type fakeMailer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeMailer) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

// recordingEmails captures confirmation links instead of sending them.
type recordingEmails struct {
	urls []string
	err  error
}

func (r *recordingEmails) SendConfirmationEmail(_ string, confirmURL string) error {
	if r.err != nil {
		return r.err
	}
	r.urls = append(r.urls, confirmURL)
	return nil
}

type sentSMS struct{ to, from, body string }

type fakeTelephony struct {
	sms       []sentSMS
	calls     int
	lookups   int
	failFor   map[string]bool
	lookupRes *models.CarrierInfo
}

var errProvider = errors.New("provider unavailable")

func (f *fakeTelephony) SendSMS(_ context.Context, to, from, body string) (string, error) {
	if f.failFor[to] {
		return "", errProvider
	}
	f.sms = append(f.sms, sentSMS{to, from, body})
	return "SM" + to, nil
}

func (f *fakeTelephony) MakeCall(_ context.Context, to, _, _ string) (string, error) {
	if f.failFor[to] {
		return "", errProvider
	}
	f.calls++
	return "CA" + to, nil
}

func (f *fakeTelephony) LookupNumber(_ context.Context, number string) (*models.CarrierInfo, error) {
	if f.failFor[number] {
		return nil, errProvider
	}
	f.lookups++
	if f.lookupRes != nil {
		return f.lookupRes, nil
	}
	return &models.CarrierInfo{PhoneNumber: number, CarrierName: "Acme", LineType: "mobile", CountryCode: "US"}, nil
}

type fakeNotifier struct {
	notified []string
	err      error
}

func (f *fakeNotifier) NotifyNewSignup(acc *models.Account) error {
	f.notified = append(f.notified, acc.Email)
	return f.err
}

type fakeTelegram struct {
	sent []tgbotapi.Chattable
}

func (f *fakeTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}
