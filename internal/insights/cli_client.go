package insights

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const cliTimeout = 60 * time.Second

// runFunc executes a command with stdin and returns its stdout and stderr.
type runFunc func(ctx context.Context, name string, args []string, stdin string) (stdout, stderr string, err error)

func execRun(ctx context.Context, name string, args []string, stdin string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// CLIClient asks a locally installed claude CLI for the insight summary.
// The user prompt goes in on stdin; the reply is read from stdout.
type CLIClient struct {
	cliPath string
	timeout time.Duration
	run     runFunc
}

func NewCLIClient(cliPath string) *CLIClient {
	return &CLIClient{cliPath: cliPath, timeout: cliTimeout, run: execRun}
}

func cliArgs(systemPrompt string) []string {
	return []string{
		"--print",
		"--output-format", "text",
		"--system-prompt", systemPrompt,
		"--max-turns", "1",
	}
}

func (c *CLIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	stdout, stderr, err := c.run(ctx, c.cliPath, cliArgs(systemPrompt), userPrompt)
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return nil, fmt.Errorf("insights cli %s: %w: %s", c.cliPath, err, msg)
		}
		return nil, fmt.Errorf("insights cli %s: %w", c.cliPath, err)
	}

	text := strings.TrimSpace(stdout)
	if text == "" {
		return nil, fmt.Errorf("insights cli %s: empty response", c.cliPath)
	}
	return &LLMResponse{Content: text}, nil
}
