package sandbox

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/evbook/evbook/internal/domain"
)

// Errors returned by the store. The error handler maps them to statuses.
var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrBlocked            = errors.New("Account blocked")
	ErrUnverified         = errors.New("Your email has not been verified. Please verify your email before logging in.")
	ErrUserExists         = errors.New("User already exists")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("Access denied")
	ErrInvalidOTP         = errors.New("Invalid or expired OTP")
	ErrInvalidVerify      = errors.New("Invalid or expired verification token")
	ErrNotPending         = errors.New("Only pending bookings can be changed")
)

// inputError is a 400 carrying its own message.
type inputError struct{ msg string }

func (e *inputError) Error() string { return e.msg }

func badInput(format string, args ...any) error {
	return &inputError{msg: fmt.Sprintf(format, args...)}
}

type account struct {
	id            int64
	admin         bool
	role          domain.Role
	name          string
	email         string
	passwordHash  []byte
	phoneNumber   string
	vehicleNumber string
	vehicleType   string
	verified      bool
	blocked       bool
}

func (a *account) principal() domain.Principal {
	return domain.Principal{
		ID:            idOf(a.id),
		Name:          a.name,
		Email:         a.email,
		Role:          a.role,
		PhoneNumber:   a.phoneNumber,
		VehicleNumber: a.vehicleNumber,
		VehicleType:   a.vehicleType,
		Verified:      a.verified,
	}
}

func (a *account) listing() domain.Account {
	return domain.Account{
		ID:            idOf(a.id),
		Name:          a.name,
		Email:         a.email,
		PhoneNumber:   a.phoneNumber,
		VehicleNumber: a.vehicleNumber,
		VehicleType:   a.vehicleType,
		Blocked:       domain.Flag(a.blocked),
		Verified:      domain.Flag(a.verified),
	}
}

type station struct {
	id           int64
	name         string
	location     string
	totalSlots   int
	chargingType string
	status       string
}

type slot struct {
	id        int64
	stationID int64
	number    int
	status    string
}

type booking struct {
	id        int64
	userID    int64
	slotID    int64
	stationID int64
	date      string
	startTime string
	endTime   string
	status    domain.BookingStatus
}

type otp struct {
	code    string
	expires time.Time
}

// store is the sandbox's in-memory database.
type store struct {
	mu sync.Mutex

	nextID   int64
	users    map[int64]*account
	admins   map[int64]*account
	stations map[int64]*station
	slots    map[int64]*slot
	bookings map[int64]*booking

	otps          map[string]otp
	verifyTokens  map[string]int64
	now           func() time.Time
	otpValidity   time.Duration
	paymentStatus string
}

func newStore(now func() time.Time) *store {
	return &store{
		users:         make(map[int64]*account),
		admins:        make(map[int64]*account),
		stations:      make(map[int64]*station),
		slots:         make(map[int64]*slot),
		bookings:      make(map[int64]*booking),
		otps:          make(map[string]otp),
		verifyTokens:  make(map[string]int64),
		now:           now,
		otpValidity:   10 * time.Minute,
		paymentStatus: "unpaid",
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func idOf(n int64) domain.ID {
	return domain.ID(strconv.FormatInt(n, 10))
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrNotFound
	}
	return n, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func findByEmail(table map[int64]*account, email string) *account {
	email = normalizeEmail(email)
	for _, a := range table {
		if a.email == email {
			return a
		}
	}
	return nil
}

func (s *store) vehicleTaken(vehicle string, except int64) bool {
	if vehicle == "" {
		return false
	}
	for _, u := range s.users {
		if u.id != except && strings.EqualFold(u.vehicleNumber, vehicle) {
			return true
		}
	}
	return false
}

func duplicateVehicle(vehicle string) error {
	return badInput("Duplicate entry '%s' for key 'users.vehicle_number'", vehicle)
}

// addAccount inserts a user or administrator. passwordHash is already bcrypt.
func (s *store) addAccount(a *account) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.users
	if a.admin {
		table = s.admins
	}
	a.email = normalizeEmail(a.email)
	if findByEmail(table, a.email) != nil {
		return nil, ErrUserExists
	}
	if !a.admin && s.vehicleTaken(a.vehicleNumber, 0) {
		return nil, duplicateVehicle(a.vehicleNumber)
	}
	a.id = s.id()
	table[a.id] = a
	c := *a
	return &c, nil
}

func (s *store) lookup(email string, admin bool) *account {
	s.mu.Lock()
	defer s.mu.Unlock()
	table := s.users
	if admin {
		table = s.admins
	}
	if a := findByEmail(table, email); a != nil {
		c := *a
		return &c
	}
	return nil
}

func (s *store) account(id int64, admin bool) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table := s.users
	if admin {
		table = s.admins
	}
	a, ok := table[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *a
	return &c, nil
}

func (s *store) issueVerifyToken(userID int64, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifyTokens[token] = userID
}

func (s *store) verify(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.verifyTokens[token]
	if !ok {
		return ErrInvalidVerify
	}
	delete(s.verifyTokens, token)
	u, ok := s.users[id]
	if !ok {
		return ErrInvalidVerify
	}
	u.verified = true
	return nil
}

// issueOTP replaces any outstanding code for email.
func (s *store) issueOTP(email, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otps[normalizeEmail(email)] = otp{code: code, expires: s.now().Add(s.otpValidity)}
}

// resetPassword consumes the OTP and stores the new hash.
func (s *store) resetPassword(email, code string, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = normalizeEmail(email)
	o, ok := s.otps[email]
	if !ok {
		return ErrInvalidOTP
	}
	if s.now().After(o.expires) {
		delete(s.otps, email)
		return ErrInvalidOTP
	}
	if o.code != code {
		return ErrInvalidOTP
	}
	u := findByEmail(s.users, email)
	if u == nil {
		return ErrInvalidOTP
	}
	delete(s.otps, email)
	u.passwordHash = hash
	return nil
}

func (s *store) updateProfile(id int64, u domain.ProfileUpdate) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if u.Email != nil {
		email := normalizeEmail(*u.Email)
		if other := findByEmail(s.users, email); other != nil && other.id != id {
			return nil, ErrUserExists
		}
	}
	if u.VehicleNumber != nil {
		vehicle := strings.ToUpper(strings.TrimSpace(*u.VehicleNumber))
		if s.vehicleTaken(vehicle, id) {
			return nil, duplicateVehicle(vehicle)
		}
		u.VehicleNumber = &vehicle
	}

	p := u.Apply(&domain.Principal{
		Name:          a.name,
		Email:         a.email,
		PhoneNumber:   a.phoneNumber,
		VehicleNumber: a.vehicleNumber,
		VehicleType:   a.vehicleType,
	})
	a.name = p.Name
	a.email = normalizeEmail(p.Email)
	a.phoneNumber = p.PhoneNumber
	a.vehicleNumber = p.VehicleNumber
	a.vehicleType = p.VehicleType
	c := *a
	return &c, nil
}

func (s *store) accounts() []domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Account, 0, len(s.users))
	for _, id := range sortedKeys(s.users) {
		out = append(out, s.users[id].listing())
	}
	return out
}

func (s *store) setBlocked(id int64, blocked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.blocked = blocked
	return nil
}

func (s *store) deleteAccount(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	for bid, b := range s.bookings {
		if b.userID == id {
			delete(s.bookings, bid)
		}
	}
	return nil
}

func (s *store) stationView(st *station) domain.Station {
	available := 0
	for _, sl := range s.slots {
		if sl.stationID == st.id && sl.status == "available" {
			available++
		}
	}
	return domain.Station{
		ID:             idOf(st.id),
		Name:           st.name,
		Location:       st.location,
		TotalSlots:     st.totalSlots,
		AvailableSlots: available,
		ChargingType:   st.chargingType,
		Status:         st.status,
	}
}

func (s *store) listStations() []domain.Station {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Station, 0, len(s.stations))
	for _, id := range sortedKeys(s.stations) {
		out = append(out, s.stationView(s.stations[id]))
	}
	return out
}

func (s *store) putStation(id int64, in domain.StationInput) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == 0 {
		id = s.id()
	} else if _, ok := s.stations[id]; !ok {
		return 0, ErrNotFound
	}
	status := in.Status
	if status == "" {
		status = "active"
	}
	s.stations[id] = &station{
		id:           id,
		name:         in.Name,
		location:     in.Location,
		totalSlots:   in.TotalSlots,
		chargingType: in.ChargingType,
		status:       status,
	}
	return id, nil
}

func (s *store) deleteStation(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stations[id]; !ok {
		return ErrNotFound
	}
	delete(s.stations, id)
	for sid, sl := range s.slots {
		if sl.stationID == id {
			delete(s.slots, sid)
		}
	}
	return nil
}

func (s *store) slotView(sl *slot) domain.Slot {
	v := domain.Slot{
		ID:        idOf(sl.id),
		StationID: idOf(sl.stationID),
		Number:    sl.number,
		Status:    sl.status,
	}
	if st, ok := s.stations[sl.stationID]; ok {
		v.StationName = st.name
	}
	return v
}

// listSlots returns every slot, or those of one station when stationID > 0.
func (s *store) listSlots(stationID int64) ([]domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stationID > 0 {
		if _, ok := s.stations[stationID]; !ok {
			return nil, ErrNotFound
		}
	}
	out := make([]domain.Slot, 0, len(s.slots))
	for _, id := range sortedKeys(s.slots) {
		sl := s.slots[id]
		if stationID > 0 && sl.stationID != stationID {
			continue
		}
		out = append(out, s.slotView(sl))
	}
	return out, nil
}

func (s *store) putSlot(id int64, in domain.SlotInput) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stationID, err := parseID(in.StationID.String())
	if err != nil {
		return 0, badInput("Station not found")
	}
	if _, ok := s.stations[stationID]; !ok {
		return 0, badInput("Station not found")
	}
	if id == 0 {
		id = s.id()
	} else if _, ok := s.slots[id]; !ok {
		return 0, ErrNotFound
	}
	status := in.Status
	if status == "" {
		status = "available"
	}
	s.slots[id] = &slot{id: id, stationID: stationID, number: in.Number, status: status}
	return id, nil
}

func (s *store) deleteSlot(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[id]; !ok {
		return ErrNotFound
	}
	delete(s.slots, id)
	return nil
}

func (s *store) bookingView(b *booking) domain.Booking {
	v := domain.Booking{
		ID:            idOf(b.id),
		SlotID:        idOf(b.slotID),
		StationID:     idOf(b.stationID),
		Date:          b.date,
		StartTime:     b.startTime,
		EndTime:       b.endTime,
		Status:        b.status,
		PaymentStatus: s.paymentStatus,
	}
	if sl, ok := s.slots[b.slotID]; ok {
		v.SlotNumber = sl.number
	}
	if st, ok := s.stations[b.stationID]; ok {
		v.StationName = st.name
	}
	if u, ok := s.users[b.userID]; ok {
		v.UserName = u.name
	}
	return v
}

// resolveBooking checks the request and returns the slot and station ids.
func (s *store) resolveBooking(req domain.BookingRequest) (int64, int64, error) {
	if req.Date == "" || req.StartTime == "" || req.EndTime == "" {
		return 0, 0, badInput("Booking date, start time and end time are required")
	}
	slotID, err := parseID(req.SlotID.String())
	if err != nil {
		return 0, 0, badInput("Slot not found")
	}
	sl, ok := s.slots[slotID]
	if !ok {
		return 0, 0, badInput("Slot not found")
	}
	return slotID, sl.stationID, nil
}

func (s *store) createBooking(userID int64, req domain.BookingRequest) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slotID, stationID, err := s.resolveBooking(req)
	if err != nil {
		return 0, err
	}
	id := s.id()
	s.bookings[id] = &booking{
		id:        id,
		userID:    userID,
		slotID:    slotID,
		stationID: stationID,
		date:      req.Date,
		startTime: req.StartTime,
		endTime:   req.EndTime,
		status:    domain.BookingPending,
	}
	return id, nil
}

func (s *store) userBookings(userID int64) []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Booking, 0)
	for _, id := range sortedKeys(s.bookings) {
		if b := s.bookings[id]; b.userID == userID {
			out = append(out, s.bookingView(b))
		}
	}
	return out
}

func (s *store) pendingBookings() []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Booking, 0)
	for _, id := range sortedKeys(s.bookings) {
		if b := s.bookings[id]; b.status == domain.BookingPending {
			out = append(out, s.bookingView(b))
		}
	}
	return out
}

// ownedPending returns the booking if it belongs to userID and is pending.
func (s *store) ownedPending(userID, id int64) (*booking, error) {
	b, ok := s.bookings[id]
	if !ok || b.userID != userID {
		return nil, ErrNotFound
	}
	if !b.status.IsCancellable() {
		return nil, ErrNotPending
	}
	return b, nil
}

func (s *store) updateBooking(userID, id int64, req domain.BookingRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.ownedPending(userID, id)
	if err != nil {
		return err
	}
	slotID, stationID, err := s.resolveBooking(req)
	if err != nil {
		return err
	}
	b.slotID, b.stationID = slotID, stationID
	b.date, b.startTime, b.endTime = req.Date, req.StartTime, req.EndTime
	return nil
}

func (s *store) cancelBooking(userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.ownedPending(userID, id)
	if err != nil {
		return err
	}
	b.status = domain.BookingCancelled
	return nil
}

// decide moves a pending booking to approved or rejected.
func (s *store) decide(id int64, status domain.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return ErrNotFound
	}
	if b.status != domain.BookingPending {
		return ErrNotPending
	}
	b.status = status
	return nil
}

func (s *store) stats(userID int64) domain.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st domain.UserStats
	for _, b := range s.bookings {
		if b.userID != userID {
			continue
		}
		st.TotalBookings++
		switch b.status {
		case domain.BookingApproved:
			st.Approved++
		case domain.BookingPending:
			st.Pending++
		case domain.BookingRejected:
			st.Rejected++
		case domain.BookingCancelled:
			st.Cancelled++
		}
	}
	return st
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
