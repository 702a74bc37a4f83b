package environment_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gradelab/grader/internal/environment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := environment.Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"python3"}, cfg.RunCommand)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, "grader.records", cfg.NatsSubject)
}

func TestLoadTomlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grader.toml")
	text := `spec = "assignment3.txt"
submissions = "/srv/submissions"
ignore_spacing = true
run_command = ["python3", "-u"]
timeout_ms = 2500
csv = "grades.csv"
`
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))

	cfg, err := environment.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "assignment3.txt", cfg.SpecPath)
	assert.Equal(t, "/srv/submissions", cfg.SubmissionsDir)
	assert.True(t, cfg.IgnoreSpacing)
	assert.Equal(t, []string{"python3", "-u"}, cfg.RunCommand)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout())
	assert.Equal(t, "grades.csv", cfg.CsvPath)
}

func TestLoadQueueEndpointsFromEnv(t *testing.T) {
	t.Setenv("GRADER_SQS_QUEUE_URL", "https://sqs.eu-central-1.amazonaws.com/1/grades")
	t.Setenv("GRADER_NATS_URL", "nats://localhost:4222")
	t.Setenv("GRADER_NATS_SUBJECT", "grades.session")

	cfg, err := environment.Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://sqs.eu-central-1.amazonaws.com/1/grades", cfg.SqsQueueUrl)
	assert.Equal(t, "nats://localhost:4222", cfg.NatsUrl)
	assert.Equal(t, "grades.session", cfg.NatsSubject)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := environment.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
