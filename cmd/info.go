package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	cimg "github.com/go-imsto/imwebp/image"
)

var cmdInfo = &Command{
	UsageLine: "info filename...",
	Short:     "show the attributes of image files",
	Long: `
Prints format, dimensions, color mode and size of every file,
webp outputs included.
`,
}

func init() {
	cmdInfo.Run = infoApp
}

func readAttr(filename string) (*cimg.Attr, error) {
	if strings.EqualFold(filepath.Ext(filename), ".webp") {
		return cimg.ReadWebPAttr(filename)
	}
	_, attr, err := cimg.Open(filename)
	return attr, err
}

func infoApp(args []string) bool {
	if len(args) == 0 {
		errorf("no file given")
		return false
	}
	pr := newPrinter(stdout, settings.Color)
	table := newTable(stdout)
	table.Header([]string{"file", "type", "size", "mode", "bytes"})

	ok := true
	for _, fn := range args {
		attr, err := readAttr(fn)
		if err != nil {
			pr.Alert("%s: %s", fn, err)
			ok = false
			continue
		}
		logger().Debugw("attr", "file", fn, "attr", attr.ToMap())
		_ = table.Append([]string{fn, attr.Mime, fmt.Sprintf("%dx%d", attr.Width, attr.Height), attr.Mode.String(), humanBytes(int64(attr.Size))})
	}
	if err := table.Render(); err != nil {
		logger().Infow("render fail", "err", err)
	}
	return ok
}
