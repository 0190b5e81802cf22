package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/go-imsto/imwebp/batch"
	"github.com/go-imsto/imwebp/config"
	"github.com/go-imsto/imwebp/report"
)

var cmdConvert = &Command{
	UsageLine: "convert -dir DIR [-size 1600] [-quality 75] [-thumb] [-thumb-size 300] [-delete] [-preset FILE]",
	Short:     "convert the images of a folder to webp",
	Long: `
Converts every jpg, jpeg, png, bmp and tiff file directly inside DIR
into DIR/output_webp/<name>.webp, shrinking the long edge to -size.
With -thumb a <name>_thumb.webp is written too. With -delete the
original is removed once its outputs are on disk.
`,
}

var (
	cvDir       = cmdConvert.Flag.String("dir", "", "folder of source images")
	cvSize      = cmdConvert.Flag.String("size", "", "max long edge in pixels (default from IMWEBP_MAX_EDGE)")
	cvQuality   = cmdConvert.Flag.String("quality", "", "webp quality 1-100 (default from IMWEBP_QUALITY)")
	cvThumb     = cmdConvert.Flag.Bool("thumb", false, "also write thumbnails")
	cvThumbSize = cmdConvert.Flag.String("thumb-size", "", "thumbnail long edge in pixels (default from IMWEBP_THUMB_EDGE)")
	cvDelete    = cmdConvert.Flag.Bool("delete", false, "delete originals after conversion")
	cvPreset    = cmdConvert.Flag.String("preset", "", "yaml preset file")
)

func init() {
	cmdConvert.Run = runConvert
}

// convertForm merges settings, the preset and the flags given on the command line
func convertForm(s config.Settings) (batch.Form, error) {
	if *cvPreset != "" {
		p, err := config.LoadPreset(*cvPreset)
		if err != nil {
			return batch.Form{}, err
		}
		s = s.Apply(p)
	}
	f := s.Form(*cvDir)
	if *cvSize != "" {
		f.MaxEdge = *cvSize
	}
	if *cvQuality != "" {
		f.Quality = *cvQuality
	}
	if *cvThumbSize != "" {
		f.ThumbEdge = *cvThumbSize
	}
	f.Thumbnail = f.Thumbnail || *cvThumb
	f.DeleteOriginal = f.DeleteOriginal || *cvDelete
	return f, nil
}

func runConvert(args []string) bool {
	if *cvDir == "" && len(args) > 0 {
		*cvDir = args[0]
	}
	pr := newPrinter(stdout, settings.Color)

	form, err := convertForm(settings)
	if err != nil {
		pr.Alert("%s", err)
		return false
	}
	cfg, err := batch.ParseConfig(form)
	if err != nil {
		pr.Alert("%s", err)
		return false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := batch.NewRunner(batch.New(), batch.LogSink{}, report.Sink{})
	sum, err := runner.RunSync(ctx, cfg, pr)
	if err != nil {
		var se *batch.SetupError
		if errors.As(err, &se) {
			report.Error(err, map[string]string{"op": se.Op})
		}
		pr.Alert("%s", err)
		return false
	}
	if err = renderSummary(stdout, sum); err != nil {
		logger().Infow("render summary fail", "err", err)
	}
	if sum.Failed > 0 {
		setExitStatus(1)
	}
	logger().Debugw("convert done", "run", sum.RunID, "ok", sum.Succeeded)
	return true
}
