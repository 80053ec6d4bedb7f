package studies

import "sync"

// progressCeiling is the highest value simulated progress may reach while
// a file is still processing. Completion forces 100, error forces 0.
const progressCeiling = 90

// Store owns the record list and the status list for the session. All
// mutations go through it; status updates are keyed by fileID and replace
// the matching entry so readers never observe a half-written one.
type Store struct {
	mu         sync.RWMutex
	records    []StudyRecord
	statuses   []FileStatus
	readOnly   bool
	processing bool
}

// NewStore constructs an empty read-write Store.
func NewStore() *Store {
	return &Store{}
}

// Records returns a copy of the record list in insertion order.
func (s *Store) Records() []StudyRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StudyRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Statuses returns a copy of the status list in creation order.
func (s *Store) Statuses() []FileStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]FileStatus, len(s.statuses))
	copy(out, s.statuses)
	return out
}

// Status returns the status entry for a fileID, if present.
func (s *Store) Status(fileID string) (FileStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.statuses {
		if st.FileID == fileID {
			return st, true
		}
	}
	return FileStatus{}, false
}

// ReadOnly reports whether the store holds a shared snapshot.
func (s *Store) ReadOnly() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readOnly
}

// Processing reports whether a batch is currently in flight.
func (s *Store) Processing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processing
}

// Append adds records to the end of the list. Rejected in read-only mode.
func (s *Store) Append(records []StudyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readOnly {
		return ErrReadOnly
	}
	s.records = append(s.records, records...)
	return nil
}

// Remove deletes the record with the given id and its matching status
// entry, preserving the relative order of the rest. Unknown ids are a
// no-op. Removal and in-flight processing operate on disjoint identifiers,
// so removing a completed record mid-batch is safe.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readOnly {
		return ErrReadOnly
	}
	records := make([]StudyRecord, 0, len(s.records))
	for _, r := range s.records {
		if r.ID != id {
			records = append(records, r)
		}
	}
	s.records = records

	statuses := make([]FileStatus, 0, len(s.statuses))
	for _, st := range s.statuses {
		if st.FileID != id {
			statuses = append(statuses, st)
		}
	}
	s.statuses = statuses
	return nil
}

// Clear empties both lists. Rejected in read-only mode; the destructive
// confirmation step is the caller's responsibility.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readOnly {
		return ErrReadOnly
	}
	s.records = nil
	s.statuses = nil
	return nil
}

// LoadSnapshot replaces the record list wholesale and switches the store
// into read-only mode. Statuses are dropped: no processing produced these
// records locally.
func (s *Store) LoadSnapshot(records []StudyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return ErrBatchActive
	}
	s.records = make([]StudyRecord, len(records))
	copy(s.records, records)
	s.statuses = nil
	s.readOnly = true
	return nil
}

// ExitReadOnly clears everything and returns the store to read-write mode.
func (s *Store) ExitReadOnly() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.statuses = nil
	s.readOnly = false
}

// BeginBatch appends the batch's pending status entries in one step and
// raises the processing flag.
func (s *Store) BeginBatch(statuses []FileStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readOnly {
		return ErrReadOnly
	}
	if s.processing {
		return ErrBatchActive
	}
	s.statuses = append(s.statuses, statuses...)
	s.processing = true
	return nil
}

// FinishBatch appends the batch's successful records in one step and
// lowers the processing flag. Called only after every file in the batch
// has reached a terminal state.
func (s *Store) FinishBatch(records []StudyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	s.processing = false
}

// MarkProcessing moves a pending file to processing with the given initial
// progress. Returns false if the file is not in the pending state.
func (s *Store) MarkProcessing(fileID string, progress float64) bool {
	return s.update(fileID, func(st *FileStatus) bool {
		if st.State != StatePending {
			return false
		}
		st.State = StateProcessing
		st.Progress = progress
		return true
	})
}

// AdvanceProgress adds a simulated progress increment to a processing
// file, never reaching the ceiling. Terminal and pending entries are left
// untouched, so a late heartbeat tick cannot mutate a finalized status.
func (s *Store) AdvanceProgress(fileID string, delta float64) {
	s.update(fileID, func(st *FileStatus) bool {
		if st.State != StateProcessing || delta <= 0 {
			return false
		}
		next := st.Progress + delta
		if next >= progressCeiling {
			next = progressCeiling - 0.1
		}
		if next < st.Progress {
			return false
		}
		st.Progress = next
		return true
	})
}

// MarkCompleted finalizes a processing file at progress 100.
func (s *Store) MarkCompleted(fileID string) bool {
	return s.update(fileID, func(st *FileStatus) bool {
		if st.State != StateProcessing {
			return false
		}
		st.State = StateCompleted
		st.Progress = 100
		st.ErrorDetail = ""
		return true
	})
}

// MarkError finalizes a processing file with the failure detail and
// progress reset to 0.
func (s *Store) MarkError(fileID, detail string) bool {
	return s.update(fileID, func(st *FileStatus) bool {
		if st.State != StateProcessing {
			return false
		}
		st.State = StateError
		st.Progress = 0
		st.ErrorDetail = detail
		return true
	})
}

// update applies fn to a copy of the matching entry and swaps it back in
// only when fn reports a change. Entries for other files are untouched.
func (s *Store) update(fileID string, fn func(*FileStatus) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.statuses {
		if s.statuses[i].FileID != fileID {
			continue
		}
		st := s.statuses[i]
		if !fn(&st) {
			return false
		}
		s.statuses[i] = st
		return true
	}
	return false
}
