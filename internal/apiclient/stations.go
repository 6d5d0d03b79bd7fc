package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/evbook/evbook/internal/domain"
)

type stationsResponse struct {
	Stations []domain.Station `json:"stations"`
}

type slotsResponse struct {
	Slots []domain.Slot `json:"slots"`
}

// ListStations returns every charging station.
func (c *Client) ListStations(ctx context.Context) ([]domain.Station, error) {
	var resp stationsResponse
	if err := c.do(ctx, http.MethodGet, "/stations", bearer, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Stations, nil
}

// CreateStation adds a station.
func (c *Client) CreateStation(ctx context.Context, in domain.StationInput) (string, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodPost, "/stations", bearer, in, &resp)
	return resp.Message, err
}

// UpdateStation replaces a station's details.
func (c *Client) UpdateStation(ctx context.Context, id domain.ID, in domain.StationInput) (string, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodPut, "/stations/"+url.PathEscape(id.String()), bearer, in, &resp)
	return resp.Message, err
}

// DeleteStation removes a station.
func (c *Client) DeleteStation(ctx context.Context, id domain.ID) (string, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodDelete, "/stations/"+url.PathEscape(id.String()), bearer, nil, &resp)
	return resp.Message, err
}

// ListSlots returns every slot of every station.
func (c *Client) ListSlots(ctx context.Context) ([]domain.Slot, error) {
	var resp slotsResponse
	if err := c.do(ctx, http.MethodGet, "/slots/", bearer, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Slots, nil
}

// ListStationSlots returns the slots of one station.
func (c *Client) ListStationSlots(ctx context.Context, stationID domain.ID) ([]domain.Slot, error) {
	var resp slotsResponse
	if err := c.do(ctx, http.MethodGet, "/slots/station/"+url.PathEscape(stationID.String()), bearer, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Slots, nil
}

// CreateSlot adds a slot to a station.
func (c *Client) CreateSlot(ctx context.Context, in domain.SlotInput) (string, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodPost, "/slots/", bearer, in, &resp)
	return resp.Message, err
}

// UpdateSlot replaces a slot's details.
func (c *Client) UpdateSlot(ctx context.Context, id domain.ID, in domain.SlotInput) (string, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodPut, "/slots/"+url.PathEscape(id.String()), bearer, in, &resp)
	return resp.Message, err
}

// DeleteSlot removes a slot.
func (c *Client) DeleteSlot(ctx context.Context, id domain.ID) (string, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodDelete, "/slots/"+url.PathEscape(id.String()), bearer, nil, &resp)
	return resp.Message, err
}
