package model

import "time"

// Session groups one run's worth of downloads under a single root folder
type Session struct {
	ID         string
	RootFolder string
	StartedAt  time.Time
	Records    []*AssetRecord
}

// AddRecord appends a record reference to the session
func (s *Session) AddRecord(r *AssetRecord) {
	s.Records = append(s.Records, r)
}

// RecordCount returns the number of records created in the session
func (s *Session) RecordCount() int {
	return len(s.Records)
}
