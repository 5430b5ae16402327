package jobqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJobJSON(t *testing.T) {
	job, err := ParseJobJSON([]byte(`{"command":"go build ./...","working_dir":".","subsystem":"cli","quiet":true}`))
	require.NoError(t, err)
	assert.Equal(t, "go build ./...", job.Command)
	assert.True(t, job.Flags.Has(FlagQuiet))
	assert.Equal(t, SubsystemCLI, job.Kind)
}

func TestParseJobJSONMissingCommand(t *testing.T) {
	_, err := ParseJobJSON([]byte(`{"working_dir":"."}`))
	assert.Error(t, err)
}

func TestParseJobJSONInvalidSubsystem(t *testing.T) {
	_, err := ParseJobJSON([]byte(`{"command":"ls","subsystem":"not-a-real-one"}`))
	assert.Error(t, err)
}

func TestParseJobJSONMalformed(t *testing.T) {
	_, err := ParseJobJSON([]byte(`not json`))
	assert.Error(t, err)
}
