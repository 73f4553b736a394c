package api

import (
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/chenBenjamin97/distraction-detector/pkg/analysis"
	"github.com/chenBenjamin97/distraction-detector/pkg/inference"
	"github.com/chenBenjamin97/distraction-detector/pkg/severity"
	"github.com/chenBenjamin97/distraction-detector/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// ImageClassifier is what the handlers need from inference.Classifier.
type ImageClassifier interface {
	Available() bool
	ClassifyBytes(data []byte) (severity.Result, error)
	Classify(img image.Image) (severity.Result, error)
}

// VideoOpener opens a video file for frame reading.
type VideoOpener func(path string) (analysis.FrameReader, error)

type Options struct {
	MaxImageBytes int64
	MaxVideoBytes int64
	TempDir       string
	SampleRate    float64
}

type Handler struct {
	classifier ImageClassifier
	openVideo  VideoOpener
	opts       Options
	log        *logrus.Logger
	validate   *validator.Validate
}

type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

type analyzeVideoForm struct {
	SeverityThreshold string  `form:"severity_threshold" validate:"omitempty,oneof=Low Medium High"`
	SampleRate        float64 `form:"sample_rate" validate:"omitempty,gt=0"`
}

func NewHandler(classifier ImageClassifier, openVideo VideoOpener, opts Options, log *logrus.Logger) *Handler {
	if opts.SampleRate <= 0 {
		opts.SampleRate = utils.DefaultSampleRate
	}
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = utils.MegaBytes(utils.MaxImageSizeMB)
	}
	if opts.MaxVideoBytes <= 0 {
		opts.MaxVideoBytes = utils.MegaBytes(utils.MaxVideoSizeMB)
	}

	return &Handler{
		classifier: classifier,
		openVideo:  openVideo,
		opts:       opts,
		log:        log,
		validate:   validator.New(),
	}
}

func (h *Handler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, HealthResponse{Status: "healthy", ModelLoaded: h.classifier.Available()})
}

// DetectImage classifies a single uploaded image (multipart field "image").
func (h *Handler) DetectImage(ctx *gin.Context) {
	entry := h.log.WithField("request_id", requestIDFrom(ctx))

	if !h.classifier.Available() {
		h.respondError(ctx, ErrModelNotLoaded)
		return
	}

	file, fHeader, err := ctx.Request.FormFile("image")
	if err != nil {
		h.respondError(ctx, h.uploadError(err, ErrNoImage, h.opts.MaxImageBytes))
		return
	}
	defer file.Close()

	if fHeader.Filename == "" {
		h.respondError(ctx, ErrNoImage)
		return
	}

	if fHeader.Size > h.opts.MaxImageBytes {
		h.respondError(ctx, ErrTooLarge(h.opts.MaxImageBytes))
		return
	}

	if !strings.HasPrefix(fHeader.Header.Get("Content-Type"), "image/") {
		h.respondError(ctx, ErrNotAnImage)
		return
	}

	fileName := sanitizeFileName(fHeader.Filename)
	entry.Infof("api/detect-image: Received image: name - '%s', size - %.2f KB", fileName, float64(fHeader.Size)/1024)
	if ext := utils.Extension(fileName); !utils.InSlice(ext, utils.ImageExtensions) {
		entry.Debugf("api/detect-image: Unusual image extension '%s', relying on content type", ext)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		entry.Errorf("api/detect-image: Could not read uploaded file, got '%v'", err)
		h.respondError(ctx, ErrPredictionFailed)
		return
	}

	result, err := h.classifier.ClassifyBytes(data)
	if err != nil {
		if errors.Is(err, inference.ErrModelUnavailable) {
			h.respondError(ctx, ErrModelNotLoaded)
			return
		}
		entry.Errorf("api/detect-image: Prediction failed, got '%v'", err)
		h.respondError(ctx, ErrPredictionFailed)
		return
	}

	entry.Infof("api/detect-image: Prediction: class - '%s', severity - %s, score - %.3f", result.Class, result.Severity, result.Score)
	ctx.JSON(http.StatusOK, result)
}

// AnalyzeVideo samples and classifies an uploaded video (multipart field "video").
func (h *Handler) AnalyzeVideo(ctx *gin.Context) {
	entry := h.log.WithField("request_id", requestIDFrom(ctx))

	if !h.classifier.Available() {
		h.respondError(ctx, ErrModelNotLoaded)
		return
	}

	file, fHeader, err := ctx.Request.FormFile("video")
	if err != nil {
		h.respondError(ctx, h.uploadError(err, ErrNoVideo, h.opts.MaxVideoBytes))
		return
	}
	defer file.Close()

	if fHeader.Filename == "" {
		h.respondError(ctx, ErrNoVideo)
		return
	}

	fileName := sanitizeFileName(fHeader.Filename)
	ext := utils.Extension(fileName)
	if !utils.InSlice(ext, utils.VideoExtensions) {
		h.respondError(ctx, ErrNotAVideo)
		return
	}

	if fHeader.Size > h.opts.MaxVideoBytes {
		h.respondError(ctx, ErrTooLarge(h.opts.MaxVideoBytes))
		return
	}

	var form analyzeVideoForm
	if err := ctx.ShouldBind(&form); err != nil {
		entry.Warnf("api/analyze-video: Could not bind form, got '%v'", err)
		h.respondError(ctx, ErrInvalidForm)
		return
	}
	if err := h.validate.Struct(form); err != nil {
		entry.Warnf("api/analyze-video: Invalid form, got '%v'", err)
		h.respondError(ctx, ErrInvalidForm)
		return
	}

	threshold := severity.Low
	if form.SeverityThreshold != "" {
		threshold = severity.Level(form.SeverityThreshold)
	}
	sampleRate := h.opts.SampleRate
	if form.SampleRate > 0 {
		sampleRate = form.SampleRate
	}

	entry.Infof("api/analyze-video: Received video: name - '%s', size - %.2f MB, threshold - %s", fileName, float64(fHeader.Size)/(1<<20), threshold)

	tmpPath, err := h.stageUpload(file, ext)
	if tmpPath != "" {
		defer func() {
			if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
				entry.Warnf("api/analyze-video: Could not remove temp file '%s', got '%v'", tmpPath, err)
			}
		}()
	}
	if err != nil {
		entry.Errorf("api/analyze-video: Could not stage upload, got '%v'", err)
		h.respondError(ctx, ErrVideoAnalysis)
		return
	}

	reader, err := h.openVideo(tmpPath)
	if err != nil {
		entry.Errorf("api/analyze-video: Could not open video, got '%v'", err)
		h.respondError(ctx, ErrNoFramesExtracted)
		return
	}
	defer reader.Close()

	summary, err := analysis.Analyze(analysis.NewSampler(reader, sampleRate), h.classifier, threshold)
	if err != nil {
		entry.Errorf("api/analyze-video: Analysis failed, got '%v'", err)
		if errors.Is(err, analysis.ErrNoFrames) {
			h.respondError(ctx, ErrNoFramesExtracted)
		} else {
			h.respondError(ctx, ErrVideoAnalysis)
		}
		return
	}

	entry.Infof("api/analyze-video: Analyzed %d frames, %d distracted (%.2f%%)", summary.TotalFramesAnalyzed, summary.DistractedFrames, summary.DistractionPercentage)
	ctx.JSON(http.StatusOK, summary)
}

// stageUpload copies the upload into a temp file. The returned path is set
// whenever a file was created, even on error, so the caller can remove it.
func (h *Handler) stageUpload(src io.Reader, ext string) (string, error) {
	tmp, err := os.CreateTemp(h.opts.TempDir, "upload-*."+ext)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return tmp.Name(), fmt.Errorf("copy upload: %w", err)
	}

	return tmp.Name(), tmp.Close()
}

// uploadError tells a body that hit the size limit apart from a missing field.
func (h *Handler) uploadError(err error, missing error, limit int64) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return ErrTooLarge(limit)
	}
	return missing
}

func (h *Handler) respondError(ctx *gin.Context, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		h.log.WithField("request_id", requestIDFrom(ctx)).Errorf("api: Unexpected error '%v'", err)
		apiErr = ErrInternalServer.(*Error)
	}
	ctx.AbortWithStatusJSON(apiErr.Code, gin.H{"error": apiErr.Error()})
}

// sanitizeFileName drops any client supplied directory part.
func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
