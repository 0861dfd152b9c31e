package main

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// execRenderer shells out to an external command to render diagram
// source into markup. The command receives the source on stdin and is
// expected to write the result to stdout, e.g.
// "mmdc --input - --output - --outputFormat svg".
type execRenderer struct {
	command string
}

func (r execRenderer) Render(ctx context.Context, source []byte) ([]byte, error) {
	parts := strings.Fields(r.command)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty diagram command")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Stdin = bytes.NewReader(source)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%s: %w: %s", parts[0], err, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("%s: %w", parts[0], err)
	}
	return stdout.Bytes(), nil
}
