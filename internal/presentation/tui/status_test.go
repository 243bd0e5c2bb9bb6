package tui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/logstate/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() domain.Result {
	p, prev := "/new", "/old"
	return domain.Result{
		Snapshot: domain.Snapshot{Path: &p, PreviousPath: &prev, Active: true},
		Success:  true,
		Message:  domain.MsgStarted,
	}
}

func TestText_Ascii(t *testing.T) {
	out := Text(sample(), termenv.Ascii)
	assert.Equal(t, "✓ Logging started\n  state: active  path: /new  previous: /old\n", out)

	out = Text(domain.Result{Message: domain.MsgNotActive}, termenv.Ascii)
	assert.Equal(t, "• No logging was active\n  state: inactive  path: -  previous: -\n", out)
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sample())
	assert.Contains(t, md, "**Logging started**")
	assert.Contains(t, md, "| path | /new |")
	assert.Contains(t, md, "| previous path | /old |")
	assert.Contains(t, md, "| active | true |")
}

func TestMarkdown_EscapesTableCells(t *testing.T) {
	path := "/logs/a|b\nc"
	prev := `C:\logs`
	res := sample()
	res.Path = &path
	res.PreviousPath = &prev

	md := Markdown(res)
	assert.Contains(t, md, `| path | /logs/a\|b\nc |`)
	assert.Contains(t, md, `| previous path | C:\\logs |`)
	for _, line := range strings.Split(strings.TrimSpace(md), "\n")[2:] {
		assert.Equal(t, 3, strings.Count(line, "|")-strings.Count(line, `\|`), line)
	}
}

func TestWriteResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, FormatJSON, sample()))
	var wire map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &wire))
	assert.Equal(t, "/new", wire["path"])
	assert.Equal(t, true, wire["requestStatus"])

	// Not a terminal: markdown is printed raw, text without escapes.
	buf.Reset()
	require.NoError(t, WriteResult(&buf, FormatMarkdown, sample()))
	assert.Equal(t, Markdown(sample()), buf.String())

	buf.Reset()
	require.NoError(t, WriteResult(&buf, "", sample()))
	assert.Equal(t, Text(sample(), termenv.Ascii), buf.String())

	assert.Error(t, WriteResult(&buf, "xml", sample()))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3\n")
	assert.Contains(t, buf.String(), "logstate")
	assert.Contains(t, buf.String(), "v1.2.3")
}
