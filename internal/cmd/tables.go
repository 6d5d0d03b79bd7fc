package cmd

import (
	"strconv"

	"github.com/evbook/evbook/internal/domain"
)

// message is a server or store message. It prints as plain text and as
// {"message": ...} in json and yaml.
type message struct {
	Message string `json:"message" yaml:"message"`
}

func (m message) String() string { return m.Message }

type stationTable []domain.Station

// Table implements ux.Tabular
func (t stationTable) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(t))
	for _, s := range t {
		rows = append(rows, []string{
			s.ID.String(),
			s.Name,
			s.Location,
			s.ChargingType,
			strconv.Itoa(s.AvailableSlots) + "/" + strconv.Itoa(s.TotalSlots),
			s.Status,
		})
	}
	return []string{"ID", "Name", "Location", "Charging", "Available", "Status"}, rows
}

type slotTable []domain.Slot

// Table implements ux.Tabular
func (t slotTable) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(t))
	for _, s := range t {
		rows = append(rows, []string{
			s.ID.String(),
			orDash(s.StationName),
			strconv.Itoa(s.Number),
			s.Status,
		})
	}
	return []string{"ID", "Station", "Slot", "Status"}, rows
}

type bookingTable []domain.Booking

// Table implements ux.Tabular
func (t bookingTable) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(t))
	for _, b := range t {
		rows = append(rows, []string{
			b.ID.String(),
			orDash(b.StationName),
			strconv.Itoa(b.SlotNumber),
			b.Date,
			b.StartTime + "-" + b.EndTime,
			b.Status.String(),
			orDash(b.UserName),
		})
	}
	return []string{"ID", "Station", "Slot", "Date", "Time", "Status", "User"}, rows
}

type accountTable []domain.Account

// Table implements ux.Tabular
func (t accountTable) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(t))
	for _, a := range t {
		state := "active"
		if a.Blocked {
			state = "blocked"
		}
		verified := "no"
		if a.Verified {
			verified = "yes"
		}
		rows = append(rows, []string{
			a.ID.String(),
			a.Name,
			a.Email,
			orDash(a.VehicleNumber),
			verified,
			state,
		})
	}
	return []string{"ID", "Name", "Email", "Vehicle", "Verified", "State"}, rows
}

type statsView domain.UserStats

// Table implements ux.Tabular
func (s statsView) Table() ([]string, [][]string) {
	return []string{"Bookings", "Count"}, [][]string{
		{"Total", strconv.Itoa(s.TotalBookings)},
		{"Approved", strconv.Itoa(s.Approved)},
		{"Pending", strconv.Itoa(s.Pending)},
		{"Rejected", strconv.Itoa(s.Rejected)},
		{"Cancelled", strconv.Itoa(s.Cancelled)},
	}
}
