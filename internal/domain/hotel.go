package domain

import "encoding/json"

type Currency string

const (
	CurrencyXOF Currency = "XOF"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// Currencies lists the accepted values in display order.
var Currencies = []Currency{CurrencyXOF, CurrencyEUR, CurrencyUSD}

func (c Currency) Valid() bool {
	switch c {
	case CurrencyXOF, CurrencyEUR, CurrencyUSD:
		return true
	}
	return false
}

type Hotel struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Address       string      `json:"address"`
	Email         string      `json:"email"`
	PhoneNumber   string      `json:"phone_number"`
	PricePerNight json.Number `json:"price_per_night"`
	Currency      Currency    `json:"currency"`
	IsActive      bool        `json:"is_active"`
	Photo         string      `json:"photo,omitempty"` // server-relative storage path
}

// PhotoUpload is a file selected for upload; nil means "keep whatever the
// server has" and the field is then omitted from the payload entirely.
type PhotoUpload struct {
	Filename string
	Content  []byte
}

// HotelDraft holds the form values for a create or an edit. Edits carry the
// full record (overwrite semantics), never a partial patch.
type HotelDraft struct {
	Name          string
	Address       string
	Email         string
	PhoneNumber   string
	PricePerNight string
	Currency      Currency
	Photo         *PhotoUpload
}

// SeedDraft pre-fills a draft from an existing hotel for editing.
// The photo always starts empty: a new one is only sent if re-selected.
func SeedDraft(h Hotel) HotelDraft {
	return HotelDraft{
		Name:          h.Name,
		Address:       h.Address,
		Email:         h.Email,
		PhoneNumber:   h.PhoneNumber,
		PricePerNight: h.PricePerNight.String(),
		Currency:      h.Currency,
	}
}
