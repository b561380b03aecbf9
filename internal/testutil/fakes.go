// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package testutil

import (
	"context"
	"fmt"
	"sync"
)

// SentCode is a recovery code captured by FakeMailer.
type SentCode struct {
	To   string
	Code string
}

// FakeMailer records recovery codes instead of sending them. When Err is
// set every send fails with it.
type FakeMailer struct {
	mu   sync.Mutex
	sent []SentCode
	Err  error
}

// SendRecoveryCode records the code.
func (m *FakeMailer) SendRecoveryCode(_ context.Context, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, SentCode{To: to, Code: code})
	return nil
}

// Sent returns a copy of the recorded codes.
func (m *FakeMailer) Sent() []SentCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentCode(nil), m.sent...)
}

// Upload is a blob captured by FakeStore.
type Upload struct {
	Filename    string
	ContentType string
	Size        int
	URL         string
}

// FakeStore keeps uploads in memory and returns predictable URLs. When Err
// is set every upload fails with it.
type FakeStore struct {
	mu      sync.Mutex
	uploads []Upload
	Err     error
}

// Upload records the blob and returns https://blob.test/<n>/<filename>.
func (s *FakeStore) Upload(_ context.Context, data []byte, filename, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	url := fmt.Sprintf("https://blob.test/%d/%s", len(s.uploads)+1, filename)
	s.uploads = append(s.uploads, Upload{Filename: filename, ContentType: contentType, Size: len(data), URL: url})
	return url, nil
}

// Uploads returns a copy of the recorded uploads.
func (s *FakeStore) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}
