package app

import (
	"sync"
	"time"

	"github.com/jmhodges/clock"

	"github.com/motivationapp/motivation-service/internal/domain"
)

// AuthEvent reports a device signing in or out.
type AuthEvent struct {
	DeviceID string
	State    domain.AuthState
	User     *domain.User
	At       time.Time
}

type authSubscriber struct {
	deviceID string
	events   chan AuthEvent
}

// AuthStateHolder owns the signed-in state of every device. Components
// subscribe to changes instead of listening for broadcasts.
//
// Delivery never blocks the writer: a subscriber whose buffer is full misses
// the event and can catch up with State.
type AuthStateHolder struct {
	clock clock.Clock

	mu     sync.RWMutex
	states map[string]AuthEvent
	subs   map[int]*authSubscriber
	nextID int
}

// NewAuthStateHolder creates a holder where every device starts signed out.
func NewAuthStateHolder(clk clock.Clock) *AuthStateHolder {
	if clk == nil {
		clk = clock.New()
	}

	return &AuthStateHolder{
		clock:  clk,
		states: make(map[string]AuthEvent),
		subs:   make(map[int]*authSubscriber),
	}
}

// State returns the device's current state.
func (h *AuthStateHolder) State(deviceID string) domain.AuthState {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if ev, ok := h.states[deviceID]; ok {
		return ev.State
	}

	return domain.AuthSignedOut
}

// SignedIn records a session for the device.
func (h *AuthStateHolder) SignedIn(deviceID string, user domain.User) {
	h.set(deviceID, domain.AuthSignedIn, &user)
}

// SignedOut records that the device holds no session.
func (h *AuthStateHolder) SignedOut(deviceID string) {
	h.set(deviceID, domain.AuthSignedOut, nil)
}

func (h *AuthStateHolder) set(deviceID string, state domain.AuthState, user *domain.User) {
	h.mu.Lock()
	defer h.mu.Unlock()

	prev, known := h.states[deviceID]
	if (known && prev.State == state && sameUser(prev.User, user)) ||
		(!known && state == domain.AuthSignedOut) {
		return
	}

	ev := AuthEvent{DeviceID: deviceID, State: state, User: user, At: h.clock.Now()}
	if state == domain.AuthSignedOut {
		delete(h.states, deviceID)
	} else {
		h.states[deviceID] = ev
	}

	for _, sub := range h.subs {
		if sub.deviceID != "" && sub.deviceID != deviceID {
			continue
		}

		select {
		case sub.events <- ev:
		default:
		}
	}
}

func sameUser(a, b *domain.User) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}

// Subscribe returns a channel of changes for deviceID, or for every device
// when deviceID is empty. cancel closes the channel.
func (h *AuthStateHolder) Subscribe(deviceID string, buffer int) (events <-chan AuthEvent, cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	sub := &authSubscriber{deviceID: deviceID, events: make(chan AuthEvent, max(buffer, 1))}
	h.subs[id] = sub

	var once sync.Once

	return sub.events, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()

			close(sub.events)
		})
	}
}
