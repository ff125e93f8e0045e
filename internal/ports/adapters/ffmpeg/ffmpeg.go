// Package ffmpeg implements ports.Transcoder on top of ffmpeg-go.
//
// Commands run to completion once started: the pipeline offers no
// cancellation mid-encode, an abandoned request simply discards the output.
package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"clipforge/internal/types"
)

type Adapter struct {
	preset       string
	crf          int
	audioBitrate string
}

func New(preset string, crf int, audioBitrate string) *Adapter {
	if preset == "" {
		preset = "veryfast"
	}
	if crf == 0 {
		crf = 23
	}
	if audioBitrate == "" {
		audioBitrate = "128k"
	}
	return &Adapter{preset: preset, crf: crf, audioBitrate: audioBitrate}
}

type probeFormat struct {
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
	Size       string `json:"size"`
}

type probeStream struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

func (a *Adapter) Probe(_ context.Context, path string) (types.MediaInfo, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return types.MediaInfo{}, errors.Wrapf(err, "probe %s", path)
	}

	var data struct {
		Streams []probeStream `json:"streams"`
		Format  probeFormat   `json:"format"`
	}
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		return types.MediaInfo{}, errors.WithStack(err)
	}

	info := types.MediaInfo{ContainerFormat: data.Format.FormatName}
	if data.Format.Duration != "" {
		d, err := strconv.ParseFloat(strings.TrimSpace(data.Format.Duration), 64)
		if err != nil {
			return types.MediaInfo{}, errors.Wrapf(err, "parse duration %q", data.Format.Duration)
		}
		info.DurationSec = d
	}
	if data.Format.Size != "" {
		if sz, err := strconv.ParseInt(data.Format.Size, 10, 64); err == nil {
			info.SizeBytes = sz
		}
	}
	for _, s := range data.Streams {
		if s.CodecType == "video" {
			info.Width = s.Width
			info.Height = s.Height
			break
		}
	}
	if info.Width == 0 || info.Height == 0 {
		return types.MediaInfo{}, errors.Errorf("no video stream in %s", path)
	}
	if info.DurationSec <= 0 {
		return types.MediaInfo{}, errors.Errorf("no duration reported for %s", path)
	}
	return info, nil
}

func (a *Adapter) TrimScalePad(_ context.Context, inPath string, startSec, durationSec float64, targetW, targetH int, fillColor, outPath string) error {
	vf := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=%s",
		targetW, targetH, targetW, targetH, fillColor,
	)

	stream := ffmpeg.Input(inPath, ffmpeg.KwArgs{
		"ss": fmtSeconds(startSec),
	}).Output(outPath, ffmpeg.KwArgs{
		"t":       fmtSeconds(durationSec),
		"vf":      vf,
		"c:v":     "libx264",
		"preset":  a.preset,
		"crf":     strconv.Itoa(a.crf),
		"c:a":     "aac",
		"b:a":     a.audioBitrate,
		"pix_fmt": "yuv420p",
	}).OverWriteOutput()

	if err := stream.Run(); err != nil {
		return errors.Wrapf(err, "trim/scale/pad failed (command: %s)", stream.String())
	}
	return nil
}

func (a *Adapter) OverlayImage(_ context.Context, videoPath, imagePath string, x, y int, outPath string) error {
	video := ffmpeg.Input(videoPath)
	box := ffmpeg.Input(imagePath)
	burned := ffmpeg.Filter(
		[]*ffmpeg.Stream{video, box},
		"overlay",
		ffmpeg.Args{fmt.Sprintf("%d:%d", x, y)},
	)

	stream := ffmpeg.Output([]*ffmpeg.Stream{burned}, outPath, ffmpeg.KwArgs{
		// 0:a? keeps the original audio untouched and tolerates silent inputs.
		"map":     "0:a?",
		"c:a":     "copy",
		"c:v":     "libx264",
		"preset":  a.preset,
		"crf":     strconv.Itoa(a.crf),
		"pix_fmt": "yuv420p",
	}).OverWriteOutput()

	if err := stream.Run(); err != nil {
		return errors.Wrapf(err, "overlay failed (command: %s)", stream.String())
	}
	return nil
}

// ExtractAudioWAV writes mono 16kHz wav audio, the input format whisper.cpp
// expects.
func (a *Adapter) ExtractAudioWAV(_ context.Context, inPath, outWav string) error {
	stream := ffmpeg.Input(inPath).Output(outWav, ffmpeg.KwArgs{
		"vn": "",
		"ac": "1",
		"ar": "16000",
		"f":  "wav",
	}).OverWriteOutput()

	if err := stream.Run(); err != nil {
		return errors.Wrapf(err, "extract audio failed (command: %s)", stream.String())
	}
	return nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
