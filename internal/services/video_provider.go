package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	videointelligence "cloud.google.com/go/videointelligence/apiv1"
	vipb "cloud.google.com/go/videointelligence/apiv1/videointelligencepb"

	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/framecut/framecut-backend/internal/logger"
)

type VideoIntelligenceProviderService interface {
	AnnotateMediaGCS(ctx context.Context, gcsURI string, cfg VideoAIConfig) (*MediaAnnotations, error)
	Close() error
}

type VideoAIConfig struct {
	LanguageCode string
	Model        string // "default" or "video"

	EnableAutomaticPunctuation bool
	EnableSpeakerDiarization   bool
	MinSpeakerCount            int
	MaxSpeakerCount            int

	// Enable these features
	EnableShotChangeDetection bool
	EnableObjectTracking      bool
	EnableFaceDetection       bool
	EnablePersonDetection     bool
	EnableSpeechTranscription bool
}

// MediaAnnotations is the provider-neutral shape the ingestion layer turns
// into label rows. Times are seconds from the start of the media.
type MediaAnnotations struct {
	Provider  string `json:"provider"`
	SourceURI string `json:"source_uri"`

	Shots   []ShotAnnotation   `json:"shots,omitempty"`
	Objects []ObjectAnnotation `json:"objects,omitempty"`
	Faces   []TrackAnnotation  `json:"faces,omitempty"`
	People  []TrackAnnotation  `json:"people,omitempty"`
	Speech  []SpeechAnnotation `json:"speech,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}

type ShotAnnotation struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

type ObjectAnnotation struct {
	EntityID    string  `json:"entity_id"`
	Description string  `json:"description"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Confidence  float64 `json:"confidence"`
}

type TrackAnnotation struct {
	TrackID    string  `json:"track_id"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

type SpeechAnnotation struct {
	Transcript Transcript `json:"transcript"`
}

type Transcript struct {
	Text       string  `json:"text"`
	SpeakerTag int     `json:"speaker_tag"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

type videoIntelligenceProviderService struct {
	log    *logger.Logger
	client *videointelligence.Client

	maxRetries int
}

func NewVideoIntelligenceProviderService(log *logger.Logger) (VideoIntelligenceProviderService, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "VideoIntelligenceProviderService")

	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	ctx := context.Background()

	opts := []option.ClientOption{}
	if creds != "" {
		if strings.HasPrefix(strings.TrimSpace(creds), "{") {
			opts = append(opts, option.WithCredentialsJSON([]byte(creds)))
		} else {
			opts = append(opts, option.WithCredentialsFile(creds))
		}
	}

	c, err := videointelligence.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("videointelligence client: %w", err)
	}

	return &videoIntelligenceProviderService{
		log:        slog,
		client:     c,
		maxRetries: 4,
	}, nil
}

func (s *videoIntelligenceProviderService) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *videoIntelligenceProviderService) AnnotateMediaGCS(ctx context.Context, gcsURI string, cfg VideoAIConfig) (*MediaAnnotations, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	if !strings.HasPrefix(gcsURI, "gs://") {
		return nil, fmt.Errorf("gcsURI must be gs://... got %q", gcsURI)
	}

	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en-US"
	}
	if cfg.Model == "" {
		cfg.Model = "video"
	}
	if !cfg.EnableShotChangeDetection && !cfg.EnableObjectTracking && !cfg.EnableFaceDetection &&
		!cfg.EnablePersonDetection && !cfg.EnableSpeechTranscription {
		cfg.EnableShotChangeDetection = true
		cfg.EnableObjectTracking = true
	}

	features := []vipb.Feature{}
	if cfg.EnableShotChangeDetection {
		features = append(features, vipb.Feature_SHOT_CHANGE_DETECTION)
	}
	if cfg.EnableObjectTracking {
		features = append(features, vipb.Feature_OBJECT_TRACKING)
	}
	if cfg.EnableFaceDetection {
		features = append(features, vipb.Feature_FACE_DETECTION)
	}
	if cfg.EnablePersonDetection {
		features = append(features, vipb.Feature_PERSON_DETECTION)
	}
	if cfg.EnableSpeechTranscription {
		features = append(features, vipb.Feature_SPEECH_TRANSCRIPTION)
	}

	vcfg := &vipb.VideoContext{}
	if cfg.EnableSpeechTranscription {
		stc := &vipb.SpeechTranscriptionConfig{
			LanguageCode:               cfg.LanguageCode,
			EnableAutomaticPunctuation: cfg.EnableAutomaticPunctuation,
			FilterProfanity:            false,
			EnableWordConfidence:       true,
		}
		if cfg.EnableSpeakerDiarization {
			stc.EnableSpeakerDiarization = true
			if cfg.MinSpeakerCount > 0 {
				stc.DiarizationSpeakerCount = int32(cfg.MinSpeakerCount)
			}
		}
		vcfg.SpeechTranscriptionConfig = stc
	}
	if cfg.EnableFaceDetection {
		vcfg.FaceDetectionConfig = &vipb.FaceDetectionConfig{IncludeBoundingBoxes: true}
	}
	if cfg.EnablePersonDetection {
		vcfg.PersonDetectionConfig = &vipb.PersonDetectionConfig{IncludeBoundingBoxes: true}
	}

	req := &vipb.AnnotateVideoRequest{
		InputUri:     gcsURI,
		Features:     features,
		VideoContext: vcfg,
	}

	resp, err := s.retryAnnotate(ctx, func() (*vipb.AnnotateVideoResponse, error) {
		op, err := s.client.AnnotateVideo(ctx, req)
		if err != nil {
			return nil, err
		}
		return op.Wait(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("videointelligence AnnotateVideo: %w", err)
	}

	out := &MediaAnnotations{
		Provider:  "gcp_videointelligence",
		SourceURI: gcsURI,
	}

	if resp == nil || len(resp.AnnotationResults) == 0 || resp.AnnotationResults[0] == nil {
		out.Warnings = append(out.Warnings, "no annotation results")
		return out, nil
	}

	ar := resp.AnnotationResults[0]

	if cfg.EnableShotChangeDetection && len(ar.ShotAnnotations) > 0 {
		out.Shots = parseShots(ar.ShotAnnotations)
	}
	if cfg.EnableObjectTracking && len(ar.ObjectAnnotations) > 0 {
		out.Objects = parseObjects(ar.ObjectAnnotations)
	}
	if cfg.EnableFaceDetection && len(ar.FaceDetectionAnnotations) > 0 {
		out.Faces = parseFaceTracks(ar.FaceDetectionAnnotations)
	}
	if cfg.EnablePersonDetection && len(ar.PersonDetectionAnnotations) > 0 {
		out.People = parsePersonTracks(ar.PersonDetectionAnnotations)
	}
	if cfg.EnableSpeechTranscription && len(ar.SpeechTranscriptions) > 0 {
		out.Speech = parseSpeech(ar.SpeechTranscriptions)
	}

	return out, nil
}

func parseShots(shots []*vipb.VideoSegment) []ShotAnnotation {
	out := []ShotAnnotation{}
	for _, sh := range shots {
		if sh == nil {
			continue
		}
		out = append(out, ShotAnnotation{
			Start: durToSecVI(sh.StartTimeOffset),
			End:   durToSecVI(sh.EndTimeOffset),
			// Shot boundaries carry no model confidence, treat them as hard.
			Confidence: 1.0,
		})
	}
	return out
}

func parseObjects(ann []*vipb.ObjectTrackingAnnotation) []ObjectAnnotation {
	out := []ObjectAnnotation{}
	for _, oa := range ann {
		if oa == nil || oa.GetSegment() == nil {
			continue
		}
		entityID := ""
		description := ""
		if oa.Entity != nil {
			entityID = oa.Entity.EntityId
			description = oa.Entity.Description
		}
		out = append(out, ObjectAnnotation{
			EntityID:    entityID,
			Description: description,
			Start:       durToSecVI(oa.GetSegment().StartTimeOffset),
			End:         durToSecVI(oa.GetSegment().EndTimeOffset),
			Confidence:  float64(oa.Confidence),
		})
	}
	return out
}

func parseFaceTracks(ann []*vipb.FaceDetectionAnnotation) []TrackAnnotation {
	out := []TrackAnnotation{}
	idx := 0
	for _, fa := range ann {
		if fa == nil {
			continue
		}
		for _, tr := range fa.Tracks {
			if tr == nil || tr.Segment == nil {
				continue
			}
			out = append(out, TrackAnnotation{
				TrackID:    fmt.Sprintf("face_%d", idx),
				Start:      durToSecVI(tr.Segment.StartTimeOffset),
				End:        durToSecVI(tr.Segment.EndTimeOffset),
				Confidence: float64(tr.Confidence),
			})
			idx++
		}
	}
	return out
}

func parsePersonTracks(ann []*vipb.PersonDetectionAnnotation) []TrackAnnotation {
	out := []TrackAnnotation{}
	idx := 0
	for _, pa := range ann {
		if pa == nil {
			continue
		}
		for _, tr := range pa.Tracks {
			if tr == nil || tr.Segment == nil {
				continue
			}
			out = append(out, TrackAnnotation{
				TrackID:    fmt.Sprintf("person_%d", idx),
				Start:      durToSecVI(tr.Segment.StartTimeOffset),
				End:        durToSecVI(tr.Segment.EndTimeOffset),
				Confidence: float64(tr.Confidence),
			})
			idx++
		}
	}
	return out
}

func parseSpeech(st []*vipb.SpeechTranscription) []SpeechAnnotation {
	out := []SpeechAnnotation{}

	for _, tr := range st {
		if tr == nil || len(tr.Alternatives) == 0 || tr.Alternatives[0] == nil {
			continue
		}
		alt := tr.Alternatives[0]
		if strings.TrimSpace(alt.Transcript) == "" {
			continue
		}

		if len(alt.Words) == 0 {
			out = append(out, SpeechAnnotation{Transcript: Transcript{
				Text:       strings.TrimSpace(alt.Transcript),
				Confidence: float64(alt.Confidence),
			}})
			continue
		}

		curSpk := int(alt.Words[0].SpeakerTag)
		curStart := durToSecVI(alt.Words[0].StartTime)
		curEnd := durToSecVI(alt.Words[0].EndTime)
		var buf strings.Builder
		var confSum float64
		var confN int

		flush := func() {
			txt := strings.TrimSpace(buf.String())
			if txt == "" {
				return
			}
			c := 0.0
			if confN > 0 {
				c = confSum / float64(confN)
			}
			out = append(out, SpeechAnnotation{Transcript: Transcript{
				Text:       txt,
				SpeakerTag: curSpk,
				Start:      curStart,
				End:        curEnd,
				Confidence: c,
			}})
			buf.Reset()
			confSum = 0
			confN = 0
		}

		for _, w := range alt.Words {
			if w == nil {
				continue
			}
			spk := int(w.SpeakerTag)
			ws := durToSecVI(w.StartTime)
			we := durToSecVI(w.EndTime)

			if spk != 0 && spk != curSpk && buf.Len() > 0 {
				flush()
				curSpk = spk
				curStart = ws
				curEnd = we
			}

			if buf.Len() > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(w.Word)

			if we > curEnd {
				curEnd = we
			}
			if w.Confidence > 0 {
				confSum += float64(w.Confidence)
				confN++
			}
		}
		flush()
	}

	return out
}

func durToSecVI(d *durationpb.Duration) float64 {
	if d == nil {
		return 0
	}
	return float64(d.Seconds) + float64(d.Nanos)/1e9
}

func (s *videoIntelligenceProviderService) retryAnnotate(ctx context.Context, fn func() (*vipb.AnnotateVideoResponse, error)) (*vipb.AnnotateVideoResponse, error) {
	backoff := 750 * time.Millisecond
	var last error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		resp, err := fn()
		if err == nil {
			return resp, nil
		}
		last = err

		code := status.Code(err)
		if code != codes.Unavailable && code != codes.ResourceExhausted && code != codes.DeadlineExceeded {
			return nil, err
		}
		if attempt == s.maxRetries {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
	}
	return nil, last
}
