package pion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/KolpakovK/webrtc-rooms/internal/core/port"
	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/pion/webrtc/v4/pkg/media/ivfreader"
	"github.com/pion/webrtc/v4/pkg/media/oggreader"
	"github.com/rs/zerolog"
)

const (
	oggPageDuration      = 20 * time.Millisecond
	defaultFrameDuration = 33 * time.Millisecond
	opusSampleRate       = 48000
	streamID             = "local"
)

// FileSource is the local camera and microphone of a headless participant:
// a VP8 IVF file and an Opus OGG file played into sample tracks. A path left
// empty gives a track that never sends.
type FileSource struct {
	VideoPath string
	AudioPath string
	log       zerolog.Logger
}

func NewFileSource(videoPath, audioPath string, l zerolog.Logger) *FileSource {
	return &FileSource{VideoPath: videoPath, AudioPath: audioPath, log: l}
}

// Acquire opens the files and starts playing them until ctx is done.
func (s *FileSource) Acquire(ctx context.Context) ([]port.LocalTrack, error) {
	video, err := webrtc.NewTrackLocalStaticSample(webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8}, "video", streamID)
	if err != nil {
		return nil, err
	}
	audio, err := webrtc.NewTrackLocalStaticSample(webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus}, "audio", streamID)
	if err != nil {
		return nil, err
	}

	var videoFile, audioFile *os.File
	if s.VideoPath != "" {
		if videoFile, err = os.Open(s.VideoPath); err != nil {
			return nil, fmt.Errorf("open video: %w", err)
		}
	}
	if s.AudioPath != "" {
		if audioFile, err = os.Open(s.AudioPath); err != nil {
			closeFile(videoFile)
			return nil, fmt.Errorf("open audio: %w", err)
		}
	}

	var ivf *ivfreader.IVFReader
	var frameDuration time.Duration
	if videoFile != nil {
		reader, header, err := ivfreader.NewWith(videoFile)
		if err != nil {
			closeFile(videoFile)
			closeFile(audioFile)
			return nil, fmt.Errorf("read video header: %w", err)
		}
		ivf = reader
		if header.TimebaseDenominator > 0 {
			frameDuration = time.Duration(float64(header.TimebaseNumerator) / float64(header.TimebaseDenominator) * float64(time.Second))
		}
		if frameDuration <= 0 {
			frameDuration = defaultFrameDuration
		}
	}

	var ogg *oggreader.OggReader
	if audioFile != nil {
		reader, _, err := oggreader.NewWith(audioFile)
		if err != nil {
			closeFile(videoFile)
			closeFile(audioFile)
			return nil, fmt.Errorf("read audio header: %w", err)
		}
		ogg = reader
	}

	if ivf != nil {
		go func() {
			defer closeFile(videoFile)
			s.playVideo(ctx, ivf, frameDuration, video)
		}()
	}
	if ogg != nil {
		go func() {
			defer closeFile(audioFile)
			s.playAudio(ctx, ogg, audio)
		}()
	}

	s.log.Info().
		Str("video", s.VideoPath).
		Str("audio", s.AudioPath).
		Msg("Local media acquired")
	return []port.LocalTrack{video, audio}, nil
}

func (s *FileSource) playVideo(ctx context.Context, ivf *ivfreader.IVFReader, every time.Duration, track *webrtc.TrackLocalStaticSample) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frame, _, err := ivf.ParseNextFrame()
		if errors.Is(err, io.EOF) {
			s.log.Info().Msg("Video file finished")
			return
		}
		if err != nil {
			s.log.Error().Err(err).Msg("Error reading video frame")
			return
		}
		if err := track.WriteSample(media.Sample{Data: frame, Duration: every}); err != nil {
			s.log.Debug().Err(err).Msg("Error writing video sample")
		}
	}
}

func (s *FileSource) playAudio(ctx context.Context, ogg *oggreader.OggReader, track *webrtc.TrackLocalStaticSample) {
	ticker := time.NewTicker(oggPageDuration)
	defer ticker.Stop()

	var lastGranule uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		page, header, err := ogg.ParseNextPage()
		if errors.Is(err, io.EOF) {
			s.log.Info().Msg("Audio file finished")
			return
		}
		if err != nil {
			s.log.Error().Err(err).Msg("Error reading audio page")
			return
		}

		samples := float64(header.GranulePosition - lastGranule)
		lastGranule = header.GranulePosition
		duration := time.Duration(samples / opusSampleRate * float64(time.Second))

		if err := track.WriteSample(media.Sample{Data: page, Duration: duration}); err != nil {
			s.log.Debug().Err(err).Msg("Error writing audio sample")
		}
	}
}

func closeFile(f *os.File) {
	if f != nil {
		f.Close()
	}
}
