// MIT License
//
// # Copyright (c) 2017 Olivier Poitrey
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// Loosely based on https://github.com/rs/zerolog/blob/master/console.go.

// Package tracelog renders a run's slog output for a terminal, pulling
// "step" and "thread" to the front of the line and giving the interpreter's
// own vocabulary — scheduler decisions and action kinds — dedicated
// rendering instead of generic JSON dumping, so a run's log reads like a
// trace rather than an arbitrary event stream.
package tracelog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
	colorCyan
	colorWhite

	colorBold     = 1
	colorDarkGray = 90
)

// Writer formats JSON-encoded slog lines for a terminal, pulling "step" and
// "thread" to the front of the line, coloring the "decision" field and
// rendering the "woken" field as a thread list.
type Writer struct {
	out       io.Writer
	formatter formatter
}

// NewWriter creates a Writer over out, auto-detecting whether out is a
// terminal capable of ANSI color.
func NewWriter(out io.Writer) *Writer {
	w := Writer{out: out}

	noColor := (os.Getenv("NO_COLOR") != "") || os.Getenv("TERM") == "dumb" ||
		(!isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()))
	noColor = noColor && !(os.Getenv("FORCE_COLOR") != "")
	w.formatter = formatter{noColor: noColor}

	return &w
}

// New builds a ready-to-use *slog.Logger that writes pretty-printed JSON to
// out at or above level.
func New(out io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(NewWriter(out), &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

var writePool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 1024))
	},
}

// Write transforms the JSON input with formatters and appends to w.out.
func (w *Writer) Write(p []byte) (n int, err error) {
	buf := writePool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		writePool.Put(buf)
	}()

	i := 0
	for i < len(p) && p[i] == ' ' {
		i++
	}
	prefix := p[:i]
	p = p[i:]

	var evt map[string]interface{}
	d := json.NewDecoder(bytes.NewReader(p))
	d.UseNumber()
	err = d.Decode(&evt)
	if err != nil {
		w.out.Write(prefix)
		w.out.Write(p)
		return n, fmt.Errorf("cannot decode event: %s", err)
	}

	for _, part := range []string{
		"step",
		"thread",
		slog.TimeKey,
		slog.LevelKey,
		slog.MessageKey,
	} {
		w.writePart(buf, evt, part)
	}

	w.writeFields(evt, buf)

	err = buf.WriteByte('\n')
	if err != nil {
		return n, err
	}

	first := true
	buffer := buf.Bytes()
	for {
		idx := bytes.IndexByte(buffer, '\n')
		if idx == -1 {
			break
		}
		w.out.Write(prefix)
		if !first {
			w.out.Write([]byte("    "))
		}
		w.out.Write(buffer[:idx+1])
		first = false
		buffer = buffer[idx+1:]
	}
	if len(buffer) > 0 {
		w.out.Write(prefix)
		if !first {
			w.out.Write([]byte("    "))
		}
		w.out.Write(buffer)
	}

	return len(p), err
}

func jsonMarshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	b := buf.Bytes()
	if len(b) > 0 {
		return b[:len(b)-1], nil
	}
	return b, nil
}

func needsQuote(s string) bool {
	for i := range s {
		if s[i] < 0x20 || s[i] > 0x7e || s[i] == ' ' || s[i] == '\\' || s[i] == '"' {
			return true
		}
	}
	return false
}

const errorKey = "err"

// decisionColors mirrors DecisionKind: Start (a thread with no predecessor
// running) is green, Continue is left uncolored since it's the common case,
// and SwitchTo (a preemption) is yellow to draw the eye to interleavings.
var decisionColors = map[string]int{
	"Start":    colorGreen,
	"SwitchTo": colorYellow,
}

// blockedActionKinds are ActionKind names the driver only ever records when
// a thread failed to make progress; highlighting them in red makes stalled
// interleavings jump out of a long trace log.
var blockedActionKinds = map[string]bool{
	"BlockedPut": true, "BlockedRead": true, "BlockedTake": true, "BlockedThrowTo": true,
}

func (w Writer) writeFields(evt map[string]interface{}, buf *bytes.Buffer) {
	fields := make([]string, 0, len(evt))
	for field := range evt {
		switch field {
		case "step", "thread", slog.LevelKey, slog.TimeKey, slog.MessageKey:
			continue
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	ei := sort.Search(len(fields), func(i int) bool { return fields[i] >= errorKey })
	if ei < len(fields) && fields[ei] == errorKey {
		fields = append(slices.Insert(fields[:ei], 0, errorKey), fields[ei+1:]...)
	}

	for _, field := range fields {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(w.formatter.fieldName(field))

		switch field {
		case "decision":
			s, _ := evt[field].(string)
			if c, ok := decisionColors[s]; ok {
				buf.WriteString(w.formatter.colorize(s, colorBold, c))
			} else {
				buf.WriteString(s)
			}
			continue
		case "woken":
			buf.WriteString(w.formatter.threadList(evt[field]))
			continue
		}

		switch value := evt[field].(type) {
		case string:
			if needsQuote(value) {
				buf.WriteString(w.formatter.fieldValue(field, strconv.Quote(value)))
			} else {
				buf.WriteString(w.formatter.fieldValue(field, value))
			}
		case json.Number:
			buf.WriteString(w.formatter.fieldValue(field, value))
		default:
			b, err := jsonMarshal(value)
			if err != nil {
				fmt.Fprintf(buf, w.formatter.colorize("[error: %v]", colorRed), err)
			} else {
				buf.WriteString(w.formatter.fieldValue(field, b))
			}
		}
	}
}

var pad = "             "

func padLeft(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return pad[:n-len(s)] + s
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + pad[:n-len(s)]
}

func (w Writer) writePart(buf *bytes.Buffer, evt map[string]interface{}, p string) {
	var s string
	switch p {
	case slog.LevelKey:
		s = w.formatter.level(evt[p])
	case slog.TimeKey:
		s = w.formatter.timestamp(evt[p])
	case slog.MessageKey:
		s = w.formatter.actionKind(evt[p])
	case "thread":
		s = padRight(fmt.Sprintf("t%s", fmt.Sprint(evt["thread"])), 6)
	case "step":
		s = padLeft(fmt.Sprint(evt[p]), 5)
	default:
		s = w.formatter.fieldValue(p, evt[p])
	}

	if len(s) > 0 {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(s)
	}
}

type formatter struct {
	noColor bool
}

func (f *formatter) colorize(s interface{}, c ...int) string {
	if len(c) == 0 || (len(c) == 1 && c[0] == 0) || f.noColor {
		return fmt.Sprintf("%s", s)
	}
	for _, code := range c {
		s = fmt.Sprintf("\x1b[%dm%v\x1b[0m", code, s)
	}
	return s.(string)
}

const timeFormat = "15:04:05.000"

func (f *formatter) timestamp(i interface{}) string {
	if s, ok := i.(string); ok {
		ts, err := time.ParseInLocation(time.RFC3339Nano, s, time.UTC)
		if err == nil {
			i = ts.In(time.UTC).Format(timeFormat)
		}
	}
	return f.colorize(i, colorDarkGray)
}

var levelColors = map[slog.Level]int{
	slog.LevelDebug: colorMagenta,
	slog.LevelInfo:  colorGreen,
	slog.LevelWarn:  colorYellow,
	slog.LevelError: colorRed,
}

var formattedLevels = map[slog.Level]string{
	slog.LevelDebug: "DBG",
	slog.LevelInfo:  "INF",
	slog.LevelWarn:  "WRN",
	slog.LevelError: "ERR",
}

func (f *formatter) level(i interface{}) string {
	var l string
	if ll, ok := i.(string); ok {
		var level slog.Level
		level.UnmarshalText([]byte(ll))
		fl, ok := formattedLevels[level]
		if ok {
			l = f.colorize(fl, levelColors[level])
		} else {
			l = strings.ToUpper(ll)[0:3]
		}
	} else {
		if i == nil {
			l = "???"
		} else {
			l = strings.ToUpper(fmt.Sprintf("%s", i))[0:3]
		}
	}
	return l
}

// actionKind renders the log message, which logTrace sets to the
// ActionKind's name, bolding it red when it is one of the Blocked* kinds so
// a stalled thread stands out from ordinary progress in the log.
func (f *formatter) actionKind(i interface{}) string {
	if i == nil || i == "" {
		return ""
	}
	s := fmt.Sprintf("%s", i)
	if blockedActionKinds[s] {
		return f.colorize(s, colorBold, colorRed)
	}
	return f.colorize(s, colorBold)
}

// threadList renders a JSON array of thread IDs (the "woken" field) as
// "[t2 t3]" instead of the bare numeric array json.Marshal would produce.
func (f *formatter) threadList(v interface{}) string {
	ids, ok := v.([]interface{})
	if !ok || len(ids) == 0 {
		return "[]"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("t%v", id)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (f *formatter) fieldName(i interface{}) string {
	return f.colorize(fmt.Sprintf("%s=", i), colorCyan)
}

func (f *formatter) fieldValue(field string, i interface{}) string {
	if field == errorKey {
		return f.colorize(fmt.Sprintf("%s", i), colorBold, colorRed)
	}
	return fmt.Sprintf("%s", i)
}
