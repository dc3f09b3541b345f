package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/sift/internal/testutil"
)

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	outputCh := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		_ = r.Close()
		outputCh <- buf.String()
	}()

	fn()

	os.Stdout = orig
	_ = w.Close()
	select {
	case out := <-outputCh:
		return out
	case <-time.After(5 * time.Second):
		t.Fatal("timed out reading captured stdout")
		return ""
	}
}

// resetFlags puts every flag on every command back to its default so one
// test's arguments do not leak into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

type cliEnv struct {
	dir      string
	config   string
	schema   string
	database string
}

// newCLIEnv writes the blog catalog and an empty config into a temp dir.
func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	return cliEnv{
		dir:      dir,
		config:   testutil.WriteFile(t, dir, "config.toml", "log_level = \"disabled\"\n"),
		schema:   testutil.WriteFile(t, dir, "schema.yaml", testutil.BlogSchema),
		database: filepath.Join(dir, "sift.db"),
	}
}

// run executes the root command with the env's paths prepended and returns
// captured stdout and the command error.
func (env cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	t.Cleanup(func() {
		resetFlags(rootCmd)
		cfg = nil
	})

	full := append([]string{"--config", env.config, "--schema", env.schema, "--database", env.database}, args...)
	rootCmd.SetArgs(full)
	var err error
	out := captureStdout(t, func() {
		err = rootCmd.Execute()
	})
	return out, err
}

// runJSON runs with --json and decodes the envelope.
func (env cliEnv) runJSON(t *testing.T, args ...string) Response {
	t.Helper()
	out, err := env.run(t, append(args, "--json")...)
	if err != nil {
		t.Fatalf("%v returned error in JSON mode: %v", args, err)
	}
	var resp Response
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode %v output: %v\n%s", args, err, out)
	}
	return resp
}

// dataMap re-decodes resp.Data as an object.
func dataMap(t *testing.T, resp Response) map[string]interface{} {
	t.Helper()
	m, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T, want object", resp.Data)
	}
	return m
}

func expectErrorCode(t *testing.T, resp Response, code string) {
	t.Helper()
	if resp.OK {
		t.Fatalf("expected error %s, got ok response: %+v", code, resp.Data)
	}
	if resp.Error == nil || resp.Error.Code != code {
		t.Fatalf("error = %+v, want code %s", resp.Error, code)
	}
}
