package sessiongate_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	sessiongate "github.com/goliatone/go-sessiongate"
	"github.com/stretchr/testify/assert"
)

func TestAuditEventLineFormat(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	cases := []struct {
		name     string
		event    sessiongate.AuditEvent
		expected string
	}{
		{
			name: "successful login",
			event: sessiongate.AuditEvent{
				OccurredAt: at,
				Username:   "bob",
				Outcome:    sessiongate.OutcomeSuccess,
				SourceAddr: "10.0.0.9",
			},
			expected: "2025-03-14T09:30:00Z - Successful login for user 'bob' from IP 10.0.0.9\n",
		},
		{
			name: "no such user",
			event: sessiongate.AuditEvent{
				OccurredAt: at,
				Username:   "ghost",
				Outcome:    sessiongate.OutcomeNoSuchUser,
				SourceAddr: "10.0.0.9",
			},
			expected: "2025-03-14T09:30:00Z - Failed login: no such user for user 'ghost' from IP 10.0.0.9\n",
		},
		{
			name: "invalid password",
			event: sessiongate.AuditEvent{
				OccurredAt: at,
				Username:   "bob",
				Outcome:    sessiongate.OutcomeInvalidPassword,
				SourceAddr: "192.168.1.4",
			},
			expected: "2025-03-14T09:30:00Z - Failed login: invalid password for user 'bob' from IP 192.168.1.4\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.event.Line())
		})
	}
}

func TestFileAuditLogAppendsAndMirrors(t *testing.T) {
	var dst, mirror bytes.Buffer
	log := sessiongate.NewAuditLog(&dst).WithMirror(&mirror)

	event := sessiongate.AuditEvent{
		OccurredAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Username:   "bob",
		Outcome:    sessiongate.OutcomeSuccess,
		SourceAddr: "10.0.0.9",
	}

	assert.NoError(t, log.Record(context.Background(), event))
	assert.Equal(t, event.Line(), dst.String())
	assert.Equal(t, dst.String(), mirror.String())
}

func TestFileAuditLogStampsMissingTimestamp(t *testing.T) {
	var dst bytes.Buffer
	log := sessiongate.NewAuditLog(&dst)

	err := log.Record(context.Background(), sessiongate.AuditEvent{
		Username:   "bob",
		Outcome:    sessiongate.OutcomeNoSuchUser,
		SourceAddr: "10.0.0.9",
	})
	assert.NoError(t, err)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z - Failed login`, dst.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestFileAuditLogSurfacesWriteFailures(t *testing.T) {
	log := sessiongate.NewAuditLog(failingWriter{})

	err := log.Record(context.Background(), sessiongate.AuditEvent{
		Username:   "bob",
		Outcome:    sessiongate.OutcomeSuccess,
		SourceAddr: "10.0.0.9",
	})
	assert.Error(t, err)
}

func TestFileAuditLogConcurrentRecordsNeverInterleave(t *testing.T) {
	var dst bytes.Buffer
	log := sessiongate.NewAuditLog(&dst)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			err := log.Record(context.Background(), sessiongate.AuditEvent{
				Username:   fmt.Sprintf("user-%02d", i),
				Outcome:    sessiongate.OutcomeInvalidPassword,
				SourceAddr: "10.0.0.9",
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimRight(dst.String(), "\n"), "\n")
	assert.Len(t, lines, n)

	lineRe := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z - Failed login: invalid password for user 'user-\d{2}' from IP 10\.0\.0\.9$`)
	seen := map[string]bool{}
	for _, line := range lines {
		assert.Regexp(t, lineRe, line)
		name := regexp.MustCompile(`user-\d{2}`).FindString(line)
		assert.False(t, seen[name], "duplicate record for %s", name)
		seen[name] = true
	}
	assert.Len(t, seen, n)
}

func TestAuditRecorderFuncAdapter(t *testing.T) {
	var got sessiongate.AuditEvent
	recorder := sessiongate.AuditRecorderFunc(func(_ context.Context, event sessiongate.AuditEvent) error {
		got = event
		return nil
	})

	err := recorder.Record(context.Background(), sessiongate.AuditEvent{Username: "bob"})
	assert.NoError(t, err)
	assert.Equal(t, "bob", got.Username)

	var nilRecorder sessiongate.AuditRecorderFunc
	assert.NoError(t, nilRecorder.Record(context.Background(), sessiongate.AuditEvent{}))
}
