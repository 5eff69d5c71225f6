package script

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
}

func names(scripts []Script) []string {
	out := make([]string, len(scripts))
	for i, s := range scripts {
		out[i] = s.Name
	}
	return out
}

func TestDiscover_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scripts")

	scripts, err := Discover(dir, DefaultInterpreters(), nil)
	require.NoError(t, err)
	assert.Empty(t, scripts)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDiscover_RecursesAndFilters(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, "hello.py"), "print('hi')")
	writeScript(t, filepath.Join(dir, "notes.txt"), "not a script")
	writeScript(t, filepath.Join(dir, "nested", "deep", "report.py"), "print('r')")
	writeScript(t, filepath.Join(dir, ".hidden", "secret.py"), "print('s')")
	writeScript(t, filepath.Join(dir, "build.sh"), "echo hi")

	scripts, err := Discover(dir, DefaultInterpreters(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello.py", "report.py"}, names(scripts))

	for _, s := range scripts {
		assert.NotEmpty(t, s.ID)
		assert.True(t, filepath.IsAbs(s.Path) || strings.HasPrefix(s.Path, dir))
	}
	assert.Equal(t, "Python script: hello.py", scripts[0].Description)
	assert.Equal(t, "Python script: nested/deep/report.py", scripts[1].Description)
	assert.NotEqual(t, scripts[0].ID, scripts[1].ID)
}

func TestDiscover_ExtraInterpreters(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, "a.py"), "")
	writeScript(t, filepath.Join(dir, "b.sh"), "")
	writeScript(t, filepath.Join(dir, "c.zsh"), "")

	scripts, err := Discover(dir, map[string]string{".py": "python3", ".sh": "sh", ".zsh": "zsh"}, nil)
	require.NoError(t, err)
	require.Len(t, scripts, 3)
	assert.Equal(t, "Shell script: b.sh", scripts[1].Description)
	assert.Equal(t, "zsh script: c.zsh", scripts[2].Description)
}

func TestDiscover_SkipsUnreadableDir(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission checks do not apply")
	}
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, "ok.py"), "")
	locked := filepath.Join(dir, "locked")
	writeScript(t, filepath.Join(locked, "inside.py"), "")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	scripts, err := Discover(dir, DefaultInterpreters(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok.py"}, names(scripts))
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRunner_Success(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.sh")
	writeScript(t, path, "echo \"hello $TASKLINE_GREETING\"\necho noise >&2\n")

	r := NewRunner(map[string]string{".sh": "sh"}, map[string]string{"TASKLINE_GREETING": "world"})
	res := r.Run(context.Background(), Script{Name: "ok.sh", Path: path})

	require.NoError(t, res.Err)
	assert.Equal(t, "hello world\n", res.Output)
	assert.Equal(t, "ok.sh", res.Script.Name)
}

func TestRunner_FailureReturnsStderr(t *testing.T) {
	requireShell(t)
	path := filepath.Join(t.TempDir(), "bad.sh")
	writeScript(t, path, "echo partial\necho boom >&2\nexit 3\n")

	res := NewRunner(map[string]string{".sh": "sh"}, nil).Run(context.Background(), Script{Name: "bad.sh", Path: path})

	require.Error(t, res.Err)
	assert.Equal(t, "boom", res.Err.Error())
	assert.Equal(t, "boom\n", res.Output)
}

func TestRunner_Timeout(t *testing.T) {
	requireShell(t)
	path := filepath.Join(t.TempDir(), "slow.sh")
	writeScript(t, path, "sleep 5\n")

	r := NewRunner(map[string]string{".sh": "sh"}, nil)
	r.Timeout = 50 * time.Millisecond
	res := r.Run(context.Background(), Script{Name: "slow.sh", Path: path})

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "timed out")
	assert.Less(t, res.Duration, 5*time.Second)
}

func TestRunner_SpawnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.py")
	writeScript(t, path, "")

	r := NewRunner(map[string]string{".py": "definitely-not-an-interpreter-xyz"}, nil)
	res := r.Run(context.Background(), Script{Name: "x.py", Path: path})

	require.Error(t, res.Err)
	assert.NotEmpty(t, res.Output)
}

func TestRunner_UnknownExtension(t *testing.T) {
	res := NewRunner(nil, nil).Run(context.Background(), Script{Name: "x.rb", Path: "/tmp/x.rb"})
	require.Error(t, res.Err)
	assert.Contains(t, res.Output, "no interpreter")
}

func TestEnvWithOverrides(t *testing.T) {
	got := envWithOverrides([]string{"A=1", "B=2"}, map[string]string{"B": "3", "C": "4"})
	assert.Equal(t, []string{"A=1", "B=3", "C=4"}, got)
	assert.Equal(t, []string{"A=1"}, envWithOverrides([]string{"A=1"}, nil))
}
