package session

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// State is a recording session lifecycle state.
type State string

const (
	Idle      State = "IDLE"
	Preparing State = "PREPARING"
	Recording State = "RECORDING"
	Paused    State = "PAUSED"
	Stopping  State = "STOPPING"
	Stopped   State = "STOPPED"
	Errored   State = "ERROR"
)

// transitions is the only legal transition table. Error is reachable from
// anywhere via Error() and bypasses this table.
var transitions = map[State][]State{
	Idle:      {Preparing},
	Preparing: {Recording, Errored},
	Recording: {Paused, Stopping},
	Paused:    {Recording, Stopping},
	Stopping:  {Stopped, Errored},
	Stopped:   {Idle},
	Errored:   {Idle, Stopped},
}

// Platform is the slice of the platform provider the session needs during
// preparation. Declared here to avoid a dependency on pkg/platform.
type Platform interface {
	Name() string
	ScreenSize() (width, height int, err error)
}

// Observer is notified after every state change. A panicking observer is
// recovered and ignored; observer faults never destabilize the session.
type Observer func(s *Session, old, new State)

// StateChange records one entry of the session's state history.
type StateChange struct {
	State     State   `json:"state"`
	Timestamp float64 `json:"timestamp"`
}

// Metadata describes one recording run. It is replaced wholesale on Reset,
// never mutated field by field.
type Metadata struct {
	SessionID        string         `json:"session_id"`
	StartTime        *float64       `json:"start_time"`
	EndTime          *float64       `json:"end_time"`
	TaskName         string         `json:"task_name,omitempty"`
	TaskDescription  string         `json:"task_description,omitempty"`
	UserID           string         `json:"user_id,omitempty"`
	ScreenResolution *[2]int        `json:"screen_resolution"`
	Platform         string         `json:"platform,omitempty"`
	Version          string         `json:"version"`
	Tags             []string       `json:"tags"`
	CustomData       map[string]any `json:"custom_data"`
}

func newMetadata(sessionID string) *Metadata {
	return &Metadata{
		SessionID:  sessionID,
		Version:    "2.0",
		Tags:       []string{},
		CustomData: make(map[string]any),
	}
}

// Duration reports end_time - start_time when both are set.
func (m *Metadata) Duration() (float64, bool) {
	if m.StartTime == nil || m.EndTime == nil {
		return 0, false
	}
	return *m.EndTime - *m.StartTime, true
}

// Config holds the per-session recording switches.
type Config struct {
	NaturalScrolling    bool
	GenerateWindowA11y  bool
	GenerateElementA11y bool
}

// DefaultConfig mirrors the recorder's stock behavior.
func DefaultConfig() Config {
	return Config{
		NaturalScrolling:    true,
		GenerateWindowA11y:  false,
		GenerateElementA11y: true,
	}
}

// Options configures a new Session.
type Options struct {
	ID            string
	RecordingPath string
	Platform      Platform
	Config        Config
	Now           func() float64 // defaults to wall-clock unix seconds
}

// Session is the finite-state controller for one recording run. It is not
// internally locked: state and metadata must be mutated from a single
// controlling goroutine.
type Session struct {
	ID            string
	RecordingPath string
	Config        Config

	state      State
	metadata   *Metadata
	history    []StateChange
	eventCount int
	observers  []Observer
	platform   Platform
	now        func() float64
}

// New creates an idle session. A zero Options is valid: the id is generated
// and the recording path derived from it.
func New(opts Options) *Session {
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	path := opts.RecordingPath
	if path == "" {
		path = "recording_" + id
	}
	now := opts.Now
	if now == nil {
		now = func() float64 { return float64(time.Now().UnixNano()) / 1e9 }
	}
	cfg := opts.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}

	return &Session{
		ID:            id,
		RecordingPath: path,
		Config:        cfg,
		state:         Idle,
		metadata:      newMetadata(id),
		platform:      opts.Platform,
		now:           now,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Metadata returns the current metadata instance.
func (s *Session) Metadata() *Metadata { return s.metadata }

// AddObserver registers a state-change observer.
func (s *Session) AddObserver(obs Observer) {
	s.observers = append(s.observers, obs)
}

// CanTransitionTo reports whether the transition table allows moving to
// target from the current state.
func (s *Session) CanTransitionTo(target State) bool {
	for _, allowed := range transitions[s.state] {
		if allowed == target {
			return true
		}
	}
	return false
}

// setState performs the transition unconditionally, stamping metadata and
// notifying observers. Callers check the transition table first.
func (s *Session) setState(target State) {
	old := s.state
	s.state = target
	ts := s.now()

	s.history = append(s.history, StateChange{State: target, Timestamp: ts})

	if target == Recording && old != Paused && s.metadata.StartTime == nil {
		s.metadata.StartTime = &ts
	} else if target == Stopped && s.metadata.EndTime == nil {
		s.metadata.EndTime = &ts
	}

	for _, obs := range s.observers {
		s.notify(obs, old, target)
	}
}

func (s *Session) notify(obs Observer, old, new State) {
	defer func() {
		// Observer faults are deliberately ignored.
		_ = recover()
	}()
	obs(s, old, new)
}

// Prepare readies the session for recording: it creates the recording
// directory and stamps platform metadata. Any failure at the platform
// boundary transitions the session to ERROR instead of propagating.
func (s *Session) Prepare() bool {
	if !s.CanTransitionTo(Preparing) {
		return false
	}

	if err := os.MkdirAll(s.RecordingPath, 0o755); err != nil {
		s.Error(fmt.Sprintf("create recording path: %v", err))
		return false
	}
	if s.platform == nil {
		s.Error("no platform provider")
		return false
	}
	width, height, err := s.platform.ScreenSize()
	if err != nil {
		s.Error(fmt.Sprintf("query screen size: %v", err))
		return false
	}

	s.metadata.Platform = s.platform.Name()
	s.metadata.ScreenResolution = &[2]int{width, height}

	s.setState(Preparing)
	return true
}

// Start begins recording. Only legal from PREPARING.
func (s *Session) Start() bool {
	if !s.CanTransitionTo(Recording) {
		return false
	}
	s.setState(Recording)
	return true
}

// Pause suspends recording.
func (s *Session) Pause() bool {
	if !s.CanTransitionTo(Paused) {
		return false
	}
	s.setState(Paused)
	return true
}

// Resume continues a paused recording without re-stamping start_time.
func (s *Session) Resume() bool {
	if s.state != Paused || !s.CanTransitionTo(Recording) {
		return false
	}
	s.setState(Recording)
	return true
}

// Stop begins shutting the recording down.
func (s *Session) Stop() bool {
	if !s.CanTransitionTo(Stopping) {
		return false
	}
	s.setState(Stopping)
	return true
}

// Complete marks the session stopped, stamping end_time if unset.
func (s *Session) Complete() bool {
	if !s.CanTransitionTo(Stopped) {
		return false
	}
	s.setState(Stopped)
	return true
}

// Error transitions to ERROR from any state, bypassing the transition
// table, and records the message in custom data.
func (s *Session) Error(message string) {
	s.metadata.CustomData["error_message"] = message
	s.setState(Errored)
}

// Reset returns the session to IDLE with a fresh metadata instance,
// clearing state history and the event counter.
func (s *Session) Reset() bool {
	if !s.CanTransitionTo(Idle) {
		return false
	}

	s.metadata = newMetadata(s.ID)
	s.history = nil
	s.eventCount = 0

	s.setState(Idle)
	return true
}

// IncrementEventCount bumps the processed-event counter.
func (s *Session) IncrementEventCount() { s.eventCount++ }

// EventCount returns the processed-event counter.
func (s *Session) EventCount() int { return s.eventCount }

// Active reports whether the session is currently recording.
func (s *Session) Active() bool { return s.state == Recording }

// Finished reports whether the session reached a terminal state.
func (s *Session) Finished() bool { return s.state == Stopped || s.state == Errored }

// StateHistory returns a copy of the state-change log.
func (s *Session) StateHistory() []StateChange {
	out := make([]StateChange, len(s.history))
	copy(out, s.history)
	return out
}

// Snapshot returns the inspectable representation of the session. It stays
// available in every state, including ERROR.
func (s *Session) Snapshot() map[string]any {
	var duration any
	if d, ok := s.metadata.Duration(); ok {
		duration = d
	}
	var resolution any
	if s.metadata.ScreenResolution != nil {
		resolution = []int{s.metadata.ScreenResolution[0], s.metadata.ScreenResolution[1]}
	}

	return map[string]any{
		"session_id":     s.ID,
		"recording_path": s.RecordingPath,
		"state":          string(s.state),
		"event_count":    s.eventCount,
		"metadata": map[string]any{
			"session_id":        s.metadata.SessionID,
			"start_time":        floatOrNil(s.metadata.StartTime),
			"end_time":          floatOrNil(s.metadata.EndTime),
			"duration":          duration,
			"task_name":         s.metadata.TaskName,
			"task_description":  s.metadata.TaskDescription,
			"user_id":           s.metadata.UserID,
			"screen_resolution": resolution,
			"platform":          s.metadata.Platform,
			"version":           s.metadata.Version,
			"tags":              s.metadata.Tags,
			"custom_data":       s.metadata.CustomData,
		},
		"configuration": map[string]any{
			"natural_scrolling":     s.Config.NaturalScrolling,
			"generate_window_a11y":  s.Config.GenerateWindowA11y,
			"generate_element_a11y": s.Config.GenerateElementA11y,
		},
	}
}

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
