package cmd

import (
	"bytes"
	"flag"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-imsto/imwebp/batch"
	"github.com/go-imsto/imwebp/config"
	cimg "github.com/go-imsto/imwebp/image"
)

func sample(w, h int, alpha bool) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8(255)
			if alpha && y < h/2 {
				a = 0x80
			}
			m.SetNRGBA(x, y, color.NRGBA{uint8(x * 3), uint8(y * 5), 90, a})
		}
	}
	return m
}

func sampleDir(t *testing.T) string {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "a.jpg"))
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, sample(800, 400, false), nil))
	require.NoError(t, f.Close())

	f, err = os.Create(filepath.Join(dir, "b.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, sample(300, 200, true)))
	require.NoError(t, f.Close())
	return dir
}

// withIO swaps the terminal for buffers and resets the package state
func withIO(t *testing.T, input string) *bytes.Buffer {
	var out bytes.Buffer
	oldIn, oldOut, oldErr, oldSettings := stdin, stdout, stderr, settings
	stdin, stdout, stderr = strings.NewReader(input), &out, &out
	settings = config.Settings{MaxEdge: 1600, Quality: 75, ThumbEdge: 300,
		OutputDirName: batch.OutputDirName, Color: config.ColorNever}
	exitStatus = 0
	resetFlags()
	t.Cleanup(func() {
		stdin, stdout, stderr, settings = oldIn, oldOut, oldErr, oldSettings
		exitStatus = 0
		resetFlags()
	})
	return &out
}

func webpAttr(t *testing.T, fn string) *cimg.Attr {
	t.Helper()
	attr, err := cimg.ReadWebPAttr(fn)
	require.NoError(t, err)
	return attr
}

func TestConvert(t *testing.T) {
	dir := sampleDir(t)

	out := withIO(t, "")
	code := runCommand(cmdConvert, []string{"-dir", dir, "-quality", "abc"})
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), `quality "abc"`)
	_, err := os.Stat(filepath.Join(dir, batch.OutputDirName))
	assert.True(t, os.IsNotExist(err))

	out = withIO(t, "")
	code = runCommand(cmdConvert, []string{"-dir", dir, "-size", "400", "-quality", "80", "-thumb", "-thumb-size", "100"})
	assert.Equal(t, 0, code)
	text := out.String()
	t.Logf("output:\n%s", text)
	assert.Contains(t, text, "found 2 images, processing...")
	assert.Contains(t, text, "[1/2] ok a.jpg (800x400 -> 400x200) | thumb (800x400 -> 100x50)")
	assert.Contains(t, text, "[2/2] ok b.png (unchanged) | thumb (300x200 -> 100x67)")
	assert.Contains(t, text, "all images processed")
	assert.NotContains(t, text, "\x1b[")

	outDir := filepath.Join(dir, batch.OutputDirName)
	a := webpAttr(t, filepath.Join(outDir, "a.webp"))
	assert.Equal(t, cimg.Dimension(400), a.Width)
	b := webpAttr(t, filepath.Join(outDir, "b_thumb.webp"))
	assert.Equal(t, cimg.ModeRGBA, b.Mode)
}

func TestConvertPreset(t *testing.T) {
	dir := sampleDir(t)
	preset := filepath.Join(t.TempDir(), "small.yaml")
	require.NoError(t, os.WriteFile(preset, []byte("max_edge: 200\noutput_dir: small\n"), 0644))

	withIO(t, "")
	*cvDir, *cvPreset = dir, preset
	f, err := convertForm(settings)
	require.NoError(t, err)
	assert.Equal(t, "200", f.MaxEdge)
	assert.Equal(t, "small", f.OutputDirName)
	assert.Equal(t, dir, f.Dir)

	*cvPreset = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = convertForm(settings)
	assert.Error(t, err)
}

func TestShell(t *testing.T) {
	dir := sampleDir(t)
	// a bad quality is reported and asked again with the previous answers as defaults
	input := strings.Join([]string{dir, "400", "abc", "n", "n", "", "", "80", "n", "n", "n"}, "\n") + "\n"
	out := withIO(t, input)

	code := runCommand(cmdShell, nil)
	assert.Equal(t, 0, code)
	text := out.String()
	t.Logf("output:\n%s", text)
	assert.Contains(t, text, `! quality "abc": must be a number`)
	assert.Contains(t, text, "Quality (1-100) [abc]: ")
	assert.Contains(t, text, "[1/2] ok a.jpg (800x400 -> 400x200)")
	assert.Contains(t, text, "all images processed")
	assert.Contains(t, text, "all images processed\ndone\n")
	assert.Equal(t, 1, strings.Count(text, "found 2 images"))

	a := webpAttr(t, filepath.Join(dir, batch.OutputDirName, "a.webp"))
	assert.Equal(t, cimg.Dimension(200), a.Height)
	assert.True(t, fileExists(filepath.Join(dir, "a.jpg")))
}

func TestShellEmptyFolder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))
	input := strings.Join([]string{dir, "", "", "n", "n", "n"}, "\n") + "\n"
	out := withIO(t, input)

	assert.Equal(t, 0, runCommand(cmdShell, nil))
	text := out.String()
	assert.Contains(t, text, "no supported images found in the folder\n")
	assert.NotContains(t, text, "\ndone\n")
	assert.NotContains(t, text, "all images processed")
	assert.False(t, fileExists(filepath.Join(dir, batch.OutputDirName)))
}

func TestShellEOF(t *testing.T) {
	withIO(t, "")
	assert.Equal(t, 0, runCommand(cmdShell, nil))
}

func TestInfo(t *testing.T) {
	dir := sampleDir(t)
	out := withIO(t, "")
	code := runCommand(cmdInfo, []string{filepath.Join(dir, "a.jpg"), filepath.Join(dir, "b.png"), filepath.Join(dir, "none.bmp")})
	assert.Equal(t, 1, code)
	text := out.String()
	assert.Contains(t, text, "800x400")
	assert.Contains(t, text, "RGBA")
	assert.Contains(t, text, "none.bmp")
}

func resetFlags() {
	for _, cmd := range commands {
		cmd.Flag.VisitAll(func(f *flag.Flag) {
			_ = f.Value.Set(f.DefValue)
		})
	}
}

func fileExists(fn string) bool {
	_, err := os.Stat(fn)
	return err == nil
}

func TestSummaryTable(t *testing.T) {
	sum := &batch.Summary{Total: 2, Succeeded: 1, Failed: 1, InBytes: 4096, OutBytes: 1024}
	sum.Results = []batch.Result{
		{Task: batch.Task{Name: "a.jpg"}, Resize: cimg.Resized{FromW: 10, FromH: 10, ToW: 10, ToH: 10},
			InSize: 4096, OutSize: 1024, Deleted: true},
		{Task: batch.Task{Name: "c.jpg"}, InSize: 12, Err: os.ErrInvalid},
	}
	rows := summaryRows(sum)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"a.jpg", "ok, deleted", "unchanged", "-", "4.0 KiB", "1.0 KiB"}, rows[0])
	assert.Equal(t, "failed", rows[1][1])
	assert.Equal(t, "1/2", rows[2][1])
	assert.Equal(t, "1.0 KiB (75.0% saved)", rows[2][5])

	var buf bytes.Buffer
	require.NoError(t, renderSummary(&buf, sum))
	assert.Contains(t, buf.String(), "c.jpg")
	require.NoError(t, renderSummary(&buf, &batch.Summary{}))

	assert.Equal(t, "512 B", humanBytes(512))
	assert.Equal(t, "1.5 MiB", humanBytes(3<<19))
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, config.ColorNever)
	p.Report(batch.Event{Kind: batch.EventEmpty})
	p.Report(batch.Event{Kind: batch.EventSummary, Summary: &batch.Summary{Succeeded: 1}})
	p.Alert("bad %s", "thing")
	assert.Equal(t, "no supported images found in the folder\nall done: 1 succeeded, 0 failed, 0 deleted\n! bad thing\n", buf.String())

	buf.Reset()
	p = newPrinter(&buf, config.ColorAlways)
	p.Report(batch.Event{Kind: batch.EventFinished})
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "all images processed")
}
