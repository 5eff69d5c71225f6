package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 2 * time.Minute

// Result is the outcome of one run. Output holds stdout on success and
// stderr (or the failure message) otherwise.
type Result struct {
	Script   Script
	Output   string
	Err      error
	Duration time.Duration
}

// Runner executes scripts with their configured interpreter.
type Runner struct {
	Interpreters map[string]string
	Timeout      time.Duration
	// Env is added on top of the parent environment.
	Env map[string]string
}

// NewRunner returns a Runner with the default timeout.
func NewRunner(interpreters map[string]string, env map[string]string) *Runner {
	if len(interpreters) == 0 {
		interpreters = DefaultInterpreters()
	}
	return &Runner{Interpreters: interpreters, Timeout: DefaultTimeout, Env: env}
}

// Run executes s and blocks until it exits, times out, or ctx is done.
func (r *Runner) Run(ctx context.Context, s Script) Result {
	start := time.Now()
	res := Result{Script: s}

	interpreter, ok := r.Interpreters[strings.ToLower(filepath.Ext(s.Path))]
	if !ok {
		res.Err = fmt.Errorf("no interpreter configured for %s", filepath.Ext(s.Path))
		res.Output = res.Err.Error()
		return res
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, interpreter, s.Path)
	cmd.Dir = filepath.Dir(s.Path)
	cmd.Env = envWithOverrides(os.Environ(), r.Env)
	cmd.Stdin = bytes.NewReader(nil)
	// Children that inherit the output pipes must not hold Wait open.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res.Duration = time.Since(start)
	if err == nil {
		res.Output = stdout.String()
		return res
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.Err = fmt.Errorf("%s timed out after %s", s.Name, timeout)
	} else {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		res.Err = errors.New(msg)
	}
	res.Output = stderr.String()
	if res.Output == "" {
		res.Output = res.Err.Error()
	}
	return res
}

func envWithOverrides(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}
	out := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := overrides[key]; ok {
			continue
		}
		out = append(out, kv)
	}
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+overrides[k])
	}
	return out
}
