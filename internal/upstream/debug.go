package upstream

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var dumpMu sync.Mutex

// WriteDumpBlock writes data to w between BEGIN/END markers. Blocks written
// concurrently never interleave.
func WriteDumpBlock(w io.Writer, title string, data []byte) error {
	title = strings.TrimSpace(title)
	var b strings.Builder
	b.WriteString("===== " + title + " BEGIN =====\n")
	b.Write(data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		b.WriteByte('\n')
	}
	b.WriteString("===== " + title + " END =====\n")

	dumpMu.Lock()
	defer dumpMu.Unlock()
	_, err := io.WriteString(w, b.String())
	return err
}

// writeDebugDumpBlock dumps data when debug is on. Request bodies never
// contain the credential, which is added by the transport.
func (c *Client) writeDebugDumpBlock(title string, data []byte) {
	if c == nil || !c.Debug {
		return
	}
	var out io.Writer = os.Stderr
	if c.DumpTo != nil {
		out = c.DumpTo
	}
	if err := WriteDumpBlock(out, title, data); err != nil {
		slog.Error("upstream.dump.write.failed", "title", title, "error", err)
	}
}
