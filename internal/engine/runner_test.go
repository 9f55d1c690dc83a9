package engine

import (
	"bytes"
	"context"
	"os/exec"
	"testing"
)

func TestCmdRunnerCapture(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	script := []string{"-c", "echo out; echo oops >&2; exit 2"}

	tests := []struct {
		name       string
		passthru   bool
		wantStdout string
		wantStderr string
	}{
		{name: "captured", wantStdout: "out\n", wantStderr: "oops\n"},
		{name: "passthrough", passthru: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			opts := RunOptions{}
			if tt.passthru {
				opts.Stdout, opts.Stderr = &stdout, &stderr
			}

			res, err := CmdRunner{}.Run(context.Background(), "sh", script, opts)
			if code, ok := ExitCode(err); !ok || code != 2 {
				t.Fatalf("exit = %v, %v", code, err)
			}
			if string(res.Stdout) != tt.wantStdout || string(res.Stderr) != tt.wantStderr {
				t.Fatalf("captured stdout=%q stderr=%q", res.Stdout, res.Stderr)
			}
			if tt.passthru && (stdout.String() != "out\n" || stderr.String() != "oops\n") {
				t.Fatalf("streamed stdout=%q stderr=%q", stdout.String(), stderr.String())
			}
		})
	}
}
