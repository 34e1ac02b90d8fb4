package events

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuditLogger_CreatesFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "audit.jsonl")

	logger, err := NewAuditLogger(logPath, 0)
	require.NoError(t, err)
	defer logger.Close()

	_, err = os.Stat(logPath)
	assert.NoError(t, err)
}

func TestAuditLogger_HandleWritesJSONL(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	logger, err := NewAuditLogger(logPath, DefaultMaxLogSize)
	require.NoError(t, err)

	sim := time.Date(2045, 3, 1, 8, 0, 0, 0, time.UTC)
	logger.Handle(Event{
		Type:        EventStatusAdded,
		MissionID:   "msn_1",
		MissionName: "Survey",
		SimTime:     sim,
		Data:        map[string]interface{}{"status": "Not enough members"},
	})
	logger.Handle(Event{Type: EventMissionEnded, MissionID: "msn_1"})
	require.NoError(t, logger.Err())
	require.NoError(t, logger.Close())

	entries, err := ReadEntries(logPath)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, EventStatusAdded, entries[0].EventType)
	assert.Equal(t, "Survey", entries[0].MissionName)
	assert.True(t, sim.Equal(entries[0].SimTime))
	assert.Equal(t, "Not enough members", entries[0].Details["status"])
	assert.False(t, entries[1].Timestamp.IsZero())
}

func TestAuditLogger_Rotation(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "audit.jsonl")
	logger, err := NewAuditLogger(logPath, 200)
	require.NoError(t, err)
	defer logger.Close()

	for i := 0; i < 10; i++ {
		require.NoError(t, logger.WriteEntry(&LogEntry{EventType: EventPhaseStarted, MissionID: "msn_rotation"}))
	}

	archived, err := os.ReadDir(filepath.Join(dir, ArchiveDir))
	require.NoError(t, err)
	assert.NotEmpty(t, archived)
	assert.LessOrEqual(t, logger.CurrentSize(), int64(200))
}

func TestAuditLogger_WriteAfterClose(t *testing.T) {
	logger, err := NewAuditLogger(filepath.Join(t.TempDir(), "audit.jsonl"), 0)
	require.NoError(t, err)
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	logger.Handle(Event{Type: EventMissionEnded})
	assert.Error(t, logger.Err())
}
