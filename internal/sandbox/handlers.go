package sandbox

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/evbook/evbook/internal/domain"
)

func pathID(c echo.Context) (int64, error) {
	return parseID(c.Param("id"))
}

func reply(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// Stations

type stationsResponse struct {
	Stations []domain.Station `json:"stations"`
}

func (s *Server) listStations(c echo.Context) error {
	return c.JSON(http.StatusOK, stationsResponse{Stations: s.store.listStations()})
}

func bindStation(c echo.Context) (domain.StationInput, error) {
	var in domain.StationInput
	if err := c.Bind(&in); err != nil {
		return in, echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Location) == "" {
		return in, badInput("Station name and location are required")
	}
	if in.TotalSlots < 0 {
		return in, badInput("Total slots cannot be negative")
	}
	return in, nil
}

func (s *Server) createStation(c echo.Context) error {
	in, err := bindStation(c)
	if err != nil {
		return err
	}
	if _, err := s.store.putStation(0, in); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "Station created successfully"})
}

func (s *Server) updateStation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	in, err := bindStation(c)
	if err != nil {
		return err
	}
	if _, err := s.store.putStation(id, in); err != nil {
		return err
	}
	return reply(c, "Station updated successfully")
}

func (s *Server) deleteStation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.store.deleteStation(id); err != nil {
		return err
	}
	return reply(c, "Station deleted successfully")
}

// Slots

type slotsResponse struct {
	Slots []domain.Slot `json:"slots"`
}

func (s *Server) listSlots(c echo.Context) error {
	slots, err := s.store.listSlots(0)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slotsResponse{Slots: slots})
}

func (s *Server) listStationSlots(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	slots, err := s.store.listSlots(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slotsResponse{Slots: slots})
}

func bindSlot(c echo.Context) (domain.SlotInput, error) {
	var in domain.SlotInput
	if err := c.Bind(&in); err != nil {
		return in, echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if in.StationID.IsZero() || in.Number <= 0 {
		return in, badInput("Station and a positive slot number are required")
	}
	return in, nil
}

func (s *Server) createSlot(c echo.Context) error {
	in, err := bindSlot(c)
	if err != nil {
		return err
	}
	if _, err := s.store.putSlot(0, in); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "Slot created successfully"})
}

func (s *Server) updateSlot(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	in, err := bindSlot(c)
	if err != nil {
		return err
	}
	if _, err := s.store.putSlot(id, in); err != nil {
		return err
	}
	return reply(c, "Slot updated successfully")
}

func (s *Server) deleteSlot(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.store.deleteSlot(id); err != nil {
		return err
	}
	return reply(c, "Slot deleted successfully")
}

// Bookings

type bookingsResponse struct {
	Bookings []domain.Booking `json:"bookings"`
}

func bindBooking(c echo.Context) (domain.BookingRequest, error) {
	var req domain.BookingRequest
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return req, nil
}

func (s *Server) createBooking(c echo.Context) error {
	req, err := bindBooking(c)
	if err != nil {
		return err
	}
	if _, err := s.store.createBooking(caller(c).id, req); err != nil {
		return err
	}
	s.metrics.booking(domain.BookingPending)
	return c.JSON(http.StatusCreated, messageResponse{Message: "Booking created successfully. Awaiting approval."})
}

func (s *Server) listMyBookings(c echo.Context) error {
	return c.JSON(http.StatusOK, bookingsResponse{Bookings: s.store.userBookings(caller(c).id)})
}

func (s *Server) updateBooking(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	req, err := bindBooking(c)
	if err != nil {
		return err
	}
	if err := s.store.updateBooking(caller(c).id, id, req); err != nil {
		return err
	}
	return reply(c, "Booking updated successfully")
}

func (s *Server) cancelBooking(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.store.cancelBooking(caller(c).id, id); err != nil {
		return err
	}
	s.metrics.booking(domain.BookingCancelled)
	return reply(c, "Booking cancelled successfully")
}

func (s *Server) listPending(c echo.Context) error {
	return c.JSON(http.StatusOK, bookingsResponse{Bookings: s.store.pendingBookings()})
}

func (s *Server) approveBooking(c echo.Context) error {
	return s.decide(c, domain.BookingApproved, "Booking approved successfully")
}

func (s *Server) rejectBooking(c echo.Context) error {
	return s.decide(c, domain.BookingRejected, "Booking rejected successfully")
}

func (s *Server) decide(c echo.Context, status domain.BookingStatus, msg string) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.store.decide(id, status); err != nil {
		return err
	}
	s.metrics.booking(status)
	return reply(c, msg)
}

// Accounts

type accountsResponse struct {
	Users []domain.Account `json:"users"`
}

func (s *Server) listAccounts(c echo.Context) error {
	return c.JSON(http.StatusOK, accountsResponse{Users: s.store.accounts()})
}

func (s *Server) blockAccount(c echo.Context) error {
	return s.setBlocked(c, true, "User blocked successfully")
}

func (s *Server) unblockAccount(c echo.Context) error {
	return s.setBlocked(c, false, "User unblocked successfully")
}

func (s *Server) setBlocked(c echo.Context, blocked bool, msg string) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.store.setBlocked(id, blocked); err != nil {
		return err
	}
	return reply(c, msg)
}

func (s *Server) deleteAccount(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.store.deleteAccount(id); err != nil {
		return err
	}
	return reply(c, "User deleted successfully")
}
