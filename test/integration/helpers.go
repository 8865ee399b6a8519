//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	Token      string
	Org        string
	Region     string
	BinaryPath string
	Verbose    bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	region := os.Getenv("FLYADMIN_TEST_REGION")
	if region == "" {
		region = "ams"
	}

	return &TestConfig{
		Token:      os.Getenv("FLY_API_TOKEN"),
		Org:        os.Getenv("FLYADMIN_TEST_ORG"),
		Region:     region,
		BinaryPath: getBinaryPath(),
		Verbose:    os.Getenv("FLYADMIN_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the flyadmin binary
func getBinaryPath() string {
	if path := os.Getenv("FLYADMIN_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../flyadmin",
		"./flyadmin",
		"../flyadmin",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "flyadmin"
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.Token == "" {
		t.Skip("FLY_API_TOKEN not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("flyadmin binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// SkipIfMissingOrg skips tests that create apps
func (config *TestConfig) SkipIfMissingOrg(t *testing.T) {
	t.Helper()

	if config.Org == "" {
		t.Skip("FLYADMIN_TEST_ORG not set, skipping app lifecycle test")
	}
}

// CommandRunner provides utilities for running flyadmin commands
type CommandRunner struct {
	config     *TestConfig
	t          *testing.T
	configFile string
}

// NewCommandRunner creates a new command runner with an isolated config file.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config:     config,
		t:          t,
		configFile: filepath.Join(t.TempDir(), "config.yml"),
	}
}

// Run executes a flyadmin command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	return runner.RunWithInput("", args...)
}

// RunWithInput executes a flyadmin command with stdin input
func (runner *CommandRunner) RunWithInput(input string, args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--config", runner.configFile}, args...)

	cmd := exec.Command(runner.config.BinaryPath, args...)
	cmd.Env = append(os.Environ(), "FLY_API_TOKEN="+runner.config.Token)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.Stdin = strings.NewReader(input)

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// RunJSON executes a command with JSON output and decodes it into out.
func (runner *CommandRunner) RunJSON(out interface{}, args ...string) error {
	stdout, stderr, err := runner.Run(append(args, "--output", "json")...)
	if err != nil {
		return fmt.Errorf("%w: %s", err, stderr)
	}

	return json.Unmarshal([]byte(stdout), out)
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// CleanupApp attempts to delete a test app
func (runner *CommandRunner) CleanupApp(name string) {
	stdout, stderr, err := runner.Run("apps", "delete", name, "--force")
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for app %s: %s\nStderr: %s", name, stdout, stderr)
	}
}

// WaitForCondition waits for a condition to be met with timeout
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, message string) {
	t.Helper()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	timeoutChan := time.After(timeout)

	for {
		select {
		case <-ticker.C:
			if condition() {
				return
			}
		case <-timeoutChan:
			t.Fatalf("Timeout waiting for condition: %s", message)
		}
	}
}
