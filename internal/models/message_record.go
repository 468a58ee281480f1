package models

import "time"

type MessageKind string

const (
	KindSMS    MessageKind = "sms"
	KindCall   MessageKind = "call"
	KindLookup MessageKind = "lookup"
)

func (k MessageKind) Valid() bool {
	switch k {
	case KindSMS, KindCall, KindLookup:
		return true
	}
	return false
}

// MessageRecord is an audit row written after a successful dispatch.
// AccountID is nil once the originating account has been deleted.
type MessageRecord struct {
	ID          int64       `json:"id"`
	Kind        MessageKind `json:"kind"`
	AccountID   *int        `json:"account_id,omitempty"`
	Destination string      `json:"destination"`
	Body        string      `json:"body"`
	ProviderID  string      `json:"provider_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

type CampaignRequest struct {
	To      string `form:"to" binding:"required"`
	Message string `form:"message" binding:"required,max=1600"`
}

type CallRequest struct {
	To       string `form:"to" binding:"required"`
	TwimlURL string `form:"url" binding:"required,url"`
}

type LookupRequest struct {
	Number string `form:"number" binding:"required"`
}

// CarrierInfo is the subset of a carrier lookup shown to users.
type CarrierInfo struct {
	PhoneNumber string `json:"phone_number"`
	CountryCode string `json:"country_code"`
	CarrierName string `json:"carrier_name"`
	LineType    string `json:"line_type"`
}

// Page is one page of history plus the numbers needed for pager links.
type Page struct {
	Records    []*MessageRecord
	Number     int
	Size       int
	Total      int
	TotalPages int
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.TotalPages }
