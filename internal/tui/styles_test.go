package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evbook/evbook/internal/domain"
)

func TestBookingCount(t *testing.T) {
	s := DefaultStyles()
	assert.Contains(t, s.BookingCount(domain.BookingApproved, 3), "approved 3")
	assert.Contains(t, s.BookingCount(domain.BookingStatus("paused"), 1), "paused 1")
}
