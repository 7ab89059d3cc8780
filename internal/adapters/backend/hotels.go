package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"hotel_manager/internal/domain"
)

func (c *Client) MyHotels(ctx context.Context, token string) ([]domain.Hotel, error) {
	var out []domain.Hotel
	err := c.get(ctx, "/my-hotels", "/my-hotels", token, &out)
	return out, err
}

func (c *Client) PublicHotels(ctx context.Context) ([]domain.Hotel, error) {
	var out []domain.Hotel
	err := c.get(ctx, "/hotels-public", "/hotels-public", "", &out)
	return out, err
}

func (c *Client) Hotel(ctx context.Context, token string, id int64) (domain.Hotel, error) {
	var out domain.Hotel
	err := c.get(ctx, "/hotels/{id}", fmt.Sprintf("/hotels/%d", id), token, &out)
	return out, err
}

func (c *Client) CreateHotel(ctx context.Context, token string, d domain.HotelDraft) (domain.Hotel, error) {
	body, ct, err := hotelForm(d, false)
	if err != nil {
		return domain.Hotel{}, err
	}
	var out domain.Hotel
	err = c.do(ctx, http.MethodPost, "/hotels", "/hotels", token, ct, body, &out)
	return out, err
}

// UpdateHotel tunnels PUT through POST: the backend cannot parse a multipart
// body on a native PUT, so the semantic verb rides in a _method field.
func (c *Client) UpdateHotel(ctx context.Context, token string, id int64, d domain.HotelDraft) (domain.Hotel, error) {
	body, ct, err := hotelForm(d, true)
	if err != nil {
		return domain.Hotel{}, err
	}
	var out domain.Hotel
	err = c.do(ctx, http.MethodPost, "/hotels/{id}", fmt.Sprintf("/hotels/%d", id), token, ct, body, &out)
	return out, err
}

func (c *Client) DeleteHotel(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, "/hotels/{id}", fmt.Sprintf("/hotels/%d", id), token, "", nil, nil)
}

// hotelForm builds the multipart payload from a statically declared field
// list; unexpected draft keys cannot leak into the request. The photo part is
// written only when a file was actually selected.
func hotelForm(d domain.HotelDraft, methodOverride bool) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := []struct{ name, value string }{
		{"name", d.Name},
		{"address", d.Address},
		{"email", d.Email},
		{"phone_number", d.PhoneNumber},
		{"price_per_night", d.PricePerNight},
		{"currency", string(d.Currency)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	if d.Photo != nil {
		part, err := w.CreateFormFile("photo", d.Photo.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(d.Photo.Content); err != nil {
			return nil, "", err
		}
	}

	if methodOverride {
		if err := w.WriteField("_method", "PUT"); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
