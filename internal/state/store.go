package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/vicrodh/qbz-control/internal/qbz"
)

// Phase is the connection lifecycle phase.
type Phase int

const (
	PhaseDisconnected Phase = iota
	PhaseProbing
	PhaseConnected
	// PhaseDegraded means the push channel is down while polling continues.
	PhaseDegraded
)

func (p Phase) String() string {
	switch p {
	case PhaseProbing:
		return "probing"
	case PhaseConnected:
		return "connected"
	case PhaseDegraded:
		return "degraded"
	default:
		return "disconnected"
	}
}

// Status is the connection status plus the text shown in the status line.
type Status struct {
	Phase         Phase
	Message       string
	DeviceName    string
	DeviceVersion string
	Address       string
}

// Online reports whether remote commands may be issued.
func (s Status) Online() bool {
	return s.Phase == PhaseConnected || s.Phase == PhaseDegraded
}

// Line renders the human-readable status line.
func (s Status) Line() string {
	switch s.Phase {
	case PhaseConnected:
		return fmt.Sprintf("Connected to %s (v%s)", s.DeviceName, s.DeviceVersion)
	case PhaseDegraded:
		line := fmt.Sprintf("Connected to %s (v%s)", s.DeviceName, s.DeviceVersion)
		if s.Message != "" {
			line += " · " + s.Message
		}
		return line
	case PhaseProbing:
		if s.Message != "" {
			return s.Message
		}
		return "Connecting..."
	default:
		if s.Message != "" {
			return s.Message
		}
		return "Not connected"
	}
}

// Queue is the normalized queue snapshot.
type Queue struct {
	CurrentTrack *qbz.Track
	CurrentIndex *int
	Upcoming     []qbz.Track
	History      []qbz.Track
	Shuffle      bool
	Repeat       qbz.RepeatMode
	TotalTracks  int
}

// NewQueue converts a wire response, coercing unknown repeat values to off.
func NewQueue(resp *qbz.QueueResponse) Queue {
	if resp == nil {
		return Queue{}
	}
	return Queue{
		CurrentTrack: cloneTrack(resp.CurrentTrack),
		CurrentIndex: cloneInt(resp.CurrentIndex),
		Upcoming:     cloneTracks(resp.Upcoming),
		History:      cloneTracks(resp.History),
		Shuffle:      resp.Shuffle,
		Repeat:       qbz.ParseRepeatMode(resp.Repeat),
		TotalTracks:  resp.TotalTracks,
	}
}

func (q *Queue) clone() *Queue {
	if q == nil {
		return nil
	}
	dup := *q
	dup.CurrentTrack = cloneTrack(q.CurrentTrack)
	dup.CurrentIndex = cloneInt(q.CurrentIndex)
	dup.Upcoming = cloneTracks(q.Upcoming)
	dup.History = cloneTracks(q.History)
	return &dup
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Status        Status
	Playback      *qbz.PlaybackState
	Track         *qbz.Track
	Queue         *Queue
	StagedVolume  *float64
	StagedSeek    *float64
	Notice        string
	NoticeAt      time.Time
	LastUpdated   time.Time
	QueueFailures int // consecutive queue refresh failures
	Epoch         uint64
}

// Position returns the staged seek position if any, else the reported one.
func (s Snapshot) Position() float64 {
	if s.StagedSeek != nil {
		return *s.StagedSeek
	}
	if s.Playback != nil {
		return s.Playback.Position
	}
	return 0
}

// Volume returns the staged volume if any, else the reported one.
func (s Snapshot) Volume() float64 {
	if s.StagedVolume != nil {
		return *s.StagedVolume
	}
	if s.Playback != nil {
		return s.Playback.Volume
	}
	return 0
}

// QueueStale reports whether the queue has failed to refresh repeatedly.
func (s Snapshot) QueueStale() bool {
	return s.QueueFailures >= 2
}

type staged struct {
	value   *float64
	seq     uint64
	settled bool
}

// Store coordinates concurrent updates to the snapshot.
//
// Every connection attempt advances the epoch. Writers that captured an older
// epoch are ignored, so results from a torn-down connection can never land.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	volume   staged
	seek     staged
	stageSeq uint64
}

// Epoch returns the current connection epoch.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Epoch
}

// Status returns the current connection status.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Status
}

// SetProbing marks a new connection attempt and drops all remote data.
func (s *Store) SetProbing(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.snapshot.Status = Status{Phase: PhaseProbing, Message: "Connecting...", Address: address}
}

// Connect records the device identity and returns the new epoch.
func (s *Store) Connect(address, name, version string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.snapshot.Status = Status{
		Phase:         PhaseConnected,
		DeviceName:    name,
		DeviceVersion: version,
		Address:       address,
	}
	return s.snapshot.Epoch
}

// Disconnect clears every remote snapshot and sets the status message in a
// single update.
func (s *Store) Disconnect(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	addr := s.snapshot.Status.Address
	s.resetLocked()
	s.snapshot.Status = Status{Phase: PhaseDisconnected, Message: message, Address: addr}
}

// Fail disconnects only if epoch is still current.
func (s *Store) Fail(epoch uint64, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.snapshot.Epoch || !s.snapshot.Status.Online() {
		return false
	}
	addr := s.snapshot.Status.Address
	s.resetLocked()
	s.snapshot.Status = Status{Phase: PhaseDisconnected, Message: message, Address: addr}
	return true
}

// SetDegraded moves a connected status to degraded.
func (s *Store) SetDegraded(epoch uint64, reason string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.snapshot.Epoch || !s.snapshot.Status.Online() {
		return false
	}
	s.snapshot.Status.Phase = PhaseDegraded
	s.snapshot.Status.Message = reason
	return true
}

// ClearDegraded restores a degraded status to connected.
func (s *Store) ClearDegraded(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.snapshot.Epoch || s.snapshot.Status.Phase != PhaseDegraded {
		return false
	}
	s.snapshot.Status.Phase = PhaseConnected
	s.snapshot.Status.Message = ""
	return true
}

// ApplyNowPlaying replaces playback and track together. Settled staged values
// are dropped so the authoritative value shows through.
func (s *Store) ApplyNowPlaying(epoch uint64, resp *qbz.NowPlayingResponse) bool {
	if resp == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.snapshot.Epoch || !s.snapshot.Status.Online() {
		return false
	}
	playback := resp.Playback
	s.snapshot.Playback = &playback
	s.snapshot.Track = cloneTrack(resp.Track)
	if s.volume.settled {
		s.volume = staged{}
	}
	if s.seek.settled {
		s.seek = staged{}
	}
	s.syncStagedLocked()
	s.snapshot.LastUpdated = time.Now()
	return true
}

// ApplyQueue replaces the queue snapshot.
func (s *Store) ApplyQueue(epoch uint64, q Queue) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.snapshot.Epoch || !s.snapshot.Status.Online() {
		return false
	}
	s.snapshot.Queue = q.clone()
	s.snapshot.QueueFailures = 0
	s.snapshot.LastUpdated = time.Now()
	return true
}

// NoteQueueFailure counts a failed queue refresh without touching data.
func (s *Store) NoteQueueFailure(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.snapshot.Epoch {
		return
	}
	s.snapshot.QueueFailures++
}

// ApplyModes adopts shuffle and repeat values echoed by the device.
func (s *Store) ApplyModes(epoch uint64, shuffle *bool, repeat *qbz.RepeatMode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.snapshot.Epoch || !s.snapshot.Status.Online() {
		return false
	}
	if s.snapshot.Queue == nil {
		s.snapshot.Queue = &Queue{}
	}
	if shuffle != nil {
		s.snapshot.Queue.Shuffle = *shuffle
	}
	if repeat != nil {
		s.snapshot.Queue.Repeat = *repeat
	}
	return true
}

// StageVolume records an optimistic volume until the device reports back.
// The returned token identifies this staged value for SettleVolume.
func (s *Store) StageVolume(v float64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stageSeq++
	s.volume = staged{value: &v, seq: s.stageSeq}
	s.syncStagedLocked()
	return s.stageSeq
}

// StageSeek records an optimistic playhead position.
func (s *Store) StageSeek(pos float64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stageSeq++
	s.seek = staged{value: &pos, seq: s.stageSeq}
	s.syncStagedLocked()
	return s.stageSeq
}

// SettleVolume marks the staged volume as sent, provided token still names
// the staged value. A value staged while the send was in flight stays
// pending. The next now-playing snapshot drops a settled value.
func (s *Store) SettleVolume(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume.settle(token)
}

// SettleSeek marks the staged seek as sent, provided token still names it.
func (s *Store) SettleSeek(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seek.settle(token)
}

func (st *staged) settle(token uint64) bool {
	if st.value == nil || st.seq != token {
		return false
	}
	st.settled = true
	return true
}

// SetNotice records a transient user-facing message.
func (s *Store) SetNotice(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Notice = msg
	s.snapshot.NoticeAt = time.Now()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.Playback != nil {
		playback := *s.snapshot.Playback
		snap.Playback = &playback
	}
	snap.Track = cloneTrack(s.snapshot.Track)
	snap.Queue = s.snapshot.Queue.clone()
	snap.StagedVolume = cloneFloat(s.snapshot.StagedVolume)
	snap.StagedSeek = cloneFloat(s.snapshot.StagedSeek)
	return snap
}

func (s *Store) resetLocked() {
	epoch := s.snapshot.Epoch + 1
	s.snapshot = Snapshot{Epoch: epoch, LastUpdated: time.Now()}
	s.volume = staged{}
	s.seek = staged{}
}

func (s *Store) syncStagedLocked() {
	s.snapshot.StagedVolume = cloneFloat(s.volume.value)
	s.snapshot.StagedSeek = cloneFloat(s.seek.value)
}

func cloneTrack(t *qbz.Track) *qbz.Track {
	if t == nil {
		return nil
	}
	dup := *t
	if t.Streamable != nil {
		v := *t.Streamable
		dup.Streamable = &v
	}
	return &dup
}

func cloneTracks(items []qbz.Track) []qbz.Track {
	if len(items) == 0 {
		return nil
	}
	dup := make([]qbz.Track, len(items))
	for i := range items {
		dup[i] = *cloneTrack(&items[i])
	}
	return dup
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
