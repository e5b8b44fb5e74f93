// Package app runs the try-on analysis flow: detect a pose, derive anchors and
// measurements, and record the session.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/sareefit/internal/body"
	"github.com/ayusman/sareefit/internal/logging"
	"github.com/ayusman/sareefit/internal/overlay"
	"github.com/ayusman/sareefit/internal/pose"
	"github.com/ayusman/sareefit/internal/store"
)

var (
	// ErrNoPoseDetected is returned when the detector finds no person in the image.
	ErrNoPoseDetected = errors.New("no pose detected, please ensure your full body is visible in the photo")

	// ErrDetectorUnavailable is returned by image operations when no detector is configured.
	ErrDetectorUnavailable = errors.New("pose detector unavailable")
)

// Config holds the dependencies of an App. Store and Detector are optional:
// without a store nothing is persisted, without a detector only landmark
// input is accepted.
type Config struct {
	Store     *store.Store
	Detector  pose.Detector
	Estimator *body.Estimator
	Logger    *logrus.Logger
}

// App orchestrates detection, estimation and persistence.
type App struct {
	store     *store.Store
	detector  pose.Detector
	estimator *body.Estimator
	log       *logrus.Logger
}

// New creates an App. A nil Estimator uses the default calibration.
func New(config Config) (*App, error) {
	est := config.Estimator
	if est == nil {
		var err error
		if est, err = body.NewEstimator(body.DefaultConfig()); err != nil {
			return nil, err
		}
	}

	logger := config.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &App{
		store:     config.Store,
		detector:  config.Detector,
		estimator: est,
		log:       logger,
	}, nil
}

// Estimator returns the estimator used for every analysis.
func (a *App) Estimator() *body.Estimator {
	return a.estimator
}

// Store returns the session store, or nil when persistence is off.
func (a *App) Store() *store.Store {
	return a.store
}

// Close releases the detector.
func (a *App) Close() error {
	if a.detector == nil {
		return nil
	}
	return a.detector.Close()
}

// Result is one completed analysis.
type Result struct {
	SessionID    string             `json:"session_id,omitempty"`
	DrapingStyle store.DrapingStyle `json:"draping_style"`
	ImageWidth   int                `json:"image_width"`
	ImageHeight  int                `json:"image_height"`
	Landmarks    *pose.LandmarkSet  `json:"landmarks"`
	body.Analysis
}

// Measure analyses a landmark set without recording a session.
func (a *App) Measure(ctx context.Context, landmarks *pose.LandmarkSet, imageWidth, imageHeight int) (body.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return body.Analysis{}, err
	}
	return a.estimator.Analyze(landmarks, imageWidth, imageHeight)
}

// AnalyzeLandmarks analyses client-supplied landmarks and records the session.
func (a *App) AnalyzeLandmarks(ctx context.Context, landmarks *pose.LandmarkSet, imageWidth, imageHeight int, style store.DrapingStyle) (*Result, error) {
	if landmarks == nil {
		return nil, fmt.Errorf("%w: no landmarks", pose.ErrInvalidLandmarkSet)
	}
	sess, err := a.startSession(ctx, imageWidth, imageHeight, style)
	if err != nil {
		return nil, err
	}
	return a.finish(ctx, sess, landmarks)
}

// AnalyzeImage decodes an uploaded photo, detects the pose and records the
// session. A photo without a person fails with ErrNoPoseDetected before any
// measurement is attempted.
func (a *App) AnalyzeImage(ctx context.Context, data []byte, style store.DrapingStyle) (*Result, error) {
	if a.detector == nil {
		return nil, ErrDetectorUnavailable
	}

	img, err := overlay.Decode(data)
	defer img.Close()
	if err != nil {
		return nil, err
	}

	sess, err := a.startSession(ctx, img.Cols(), img.Rows(), style)
	if err != nil {
		return nil, err
	}

	landmarks, err := a.detect(ctx, &img)
	if err != nil {
		a.fail(ctx, sess, err)
		return nil, err
	}

	return a.finish(ctx, sess, landmarks)
}

// RenderOverlay detects the pose in a photo and returns it as JPEG with the
// skeleton and anchors drawn on, along with the analysis.
func (a *App) RenderOverlay(ctx context.Context, data []byte) ([]byte, *Result, error) {
	if a.detector == nil {
		return nil, nil, ErrDetectorUnavailable
	}

	img, err := overlay.Decode(data)
	defer img.Close()
	if err != nil {
		return nil, nil, err
	}

	landmarks, err := a.detect(ctx, &img)
	if err != nil {
		return nil, nil, err
	}

	analysis, err := a.estimator.Analyze(landmarks, img.Cols(), img.Rows())
	if err != nil {
		return nil, nil, err
	}

	if err := overlay.Draw(&img, landmarks, &analysis.Anchors); err != nil {
		return nil, nil, err
	}
	out, err := overlay.EncodeJPEG(img)
	if err != nil {
		return nil, nil, err
	}

	return out, &Result{
		ImageWidth:  img.Cols(),
		ImageHeight: img.Rows(),
		Landmarks:   landmarks,
		Analysis:    analysis,
	}, nil
}

// detect runs the detector and drops the result if ctx ended meanwhile, so a
// superseded request never reaches estimation or storage.
func (a *App) detect(ctx context.Context, img *gocv.Mat) (*pose.LandmarkSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	landmarks, err := a.detector.Detect(img)
	if err != nil {
		return nil, fmt.Errorf("detect pose: %w", err)
	}
	if err := ctx.Err(); err != nil {
		a.log.WithField("error", err).Debug("Discarding stale detection result")
		return nil, err
	}
	if landmarks == nil {
		return nil, ErrNoPoseDetected
	}
	return landmarks, nil
}

// startSession records a session in the analyzing state. Without a store the
// session is returned unsaved with an empty ID.
func (a *App) startSession(ctx context.Context, imageWidth, imageHeight int, style store.DrapingStyle) (*store.Session, error) {
	if style == "" {
		style = store.DefaultDrapingStyle
	}
	if imageWidth <= 0 || imageHeight <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", body.ErrInvalidDimensions, imageWidth, imageHeight)
	}

	sess := &store.Session{
		ID:           uuid.New().String(),
		Status:       store.StatusAnalyzing,
		DrapingStyle: style,
		ImageWidth:   imageWidth,
		ImageHeight:  imageHeight,
	}
	if a.store == nil {
		sess.ID = ""
		return sess, nil
	}

	if err := a.store.Sessions().Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	a.log.WithFields(logging.Fields{
		"session_id":    sess.ID,
		"draping_style": sess.DrapingStyle,
		"image_width":   imageWidth,
		"image_height":  imageHeight,
	}).Info("Session started")
	return sess, nil
}

// finish computes the analysis and stores it with the landmarks.
func (a *App) finish(ctx context.Context, sess *store.Session, landmarks *pose.LandmarkSet) (*Result, error) {
	analysis, err := a.estimator.Analyze(landmarks, sess.ImageWidth, sess.ImageHeight)
	if err != nil {
		a.fail(ctx, sess, err)
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		a.fail(ctx, sess, err)
		return nil, err
	}

	if a.store != nil {
		if err := a.store.Landmarks().Save(ctx, sess.ID, landmarks); err != nil {
			a.fail(ctx, sess, err)
			return nil, fmt.Errorf("save landmarks: %w", err)
		}
		if err := a.store.Analyses().Save(ctx, sess.ID, analysis); err != nil {
			a.fail(ctx, sess, err)
			return nil, fmt.Errorf("save analysis: %w", err)
		}
		if err := a.store.Sessions().UpdateStatus(ctx, sess.ID, store.StatusCompleted, ""); err != nil {
			return nil, fmt.Errorf("complete session: %w", err)
		}
		a.log.WithFields(logging.Fields{
			"session_id":     sess.ID,
			"shoulder_width": analysis.Measurements.ShoulderWidth,
		}).Info("Session completed")
	}

	return &Result{
		SessionID:    sess.ID,
		DrapingStyle: sess.DrapingStyle,
		ImageWidth:   sess.ImageWidth,
		ImageHeight:  sess.ImageHeight,
		Landmarks:    landmarks,
		Analysis:     analysis,
	}, nil
}

// fail marks a stored session as failed, including when ctx is already done.
func (a *App) fail(ctx context.Context, sess *store.Session, cause error) {
	entry := a.log.WithFields(logging.Fields{
		"session_id": sess.ID,
		"error":      cause.Error(),
	})
	if a.store == nil {
		entry.Warn("Analysis failed")
		return
	}

	if err := a.store.Sessions().UpdateStatus(context.WithoutCancel(ctx), sess.ID, store.StatusFailed, cause.Error()); err != nil {
		entry.WithField("update_error", err.Error()).Error("Failed to mark session failed")
		return
	}
	entry.Warn("Session failed")
}
