package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/sareefit/internal/overlay"
	"github.com/ayusman/sareefit/internal/pose"
)

// multipartImage builds a multipart body with the given image bytes and fields.
func multipartImage(t *testing.T, image []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if image != nil {
		fw, err := mw.CreateFormFile("image", "photo.jpg")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		fw.Write(image)
	}
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func blankJPEG(t *testing.T) []byte {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping test that requires GoCV")
	}

	img := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer img.Close()
	data, err := overlay.EncodeJPEG(img)
	if err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	return data
}

func TestDetectHandler(t *testing.T) {
	data := blankJPEG(t)
	s := newTestStore(t)
	det := pose.NewMockDetector()
	det.SetPose(pose.StandingPose())
	handler := NewDetectHandler(newTestApp(t, s, det), nil)

	reqBody, contentType := multipartImage(t, data, map[string]string{"draping_style": "tamil_nadu"})
	req := httptest.NewRequest(http.MethodPost, "/api/detect", reqBody)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var response struct {
		SessionID    string          `json:"session_id"`
		DrapingStyle string          `json:"draping_style"`
		ImageWidth   int             `json:"image_width"`
		Landmarks    []pose.Landmark `json:"landmarks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.SessionID == "" {
		t.Error("expected session_id")
	}
	if response.DrapingStyle != "tamil_nadu" {
		t.Errorf("draping_style = %q, want tamil_nadu", response.DrapingStyle)
	}
	if response.ImageWidth != 640 {
		t.Errorf("image_width = %d, want 640", response.ImageWidth)
	}
	if len(response.Landmarks) != pose.NumLandmarks {
		t.Errorf("len(landmarks) = %d, want %d", len(response.Landmarks), pose.NumLandmarks)
	}
}

func TestDetectHandler_NoPose(t *testing.T) {
	data := blankJPEG(t)
	handler := NewDetectHandler(newTestApp(t, newTestStore(t), pose.NewMockDetector()), nil)

	reqBody, contentType := multipartImage(t, data, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/detect", reqBody)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
	}

	var response errorResponse
	json.NewDecoder(rec.Body).Decode(&response)
	if response.Error == "" {
		t.Error("expected a retry message")
	}
}

func TestDetectHandler_BadRequests(t *testing.T) {
	handler := NewDetectHandler(newTestApp(t, nil, pose.NewMockDetector()), nil)

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/detect", bytes.NewBufferString("{}"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("missing image", func(t *testing.T) {
		reqBody, contentType := multipartImage(t, nil, map[string]string{"draping_style": "nivi"})
		req := httptest.NewRequest(http.MethodPost, "/api/detect", reqBody)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("unknown draping style", func(t *testing.T) {
		reqBody, contentType := multipartImage(t, []byte{0xff, 0xd8}, map[string]string{"draping_style": "dhoti"})
		req := httptest.NewRequest(http.MethodPost, "/api/detect", reqBody)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("only allows POST", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/detect", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}

func TestDetectHandler_NoDetector(t *testing.T) {
	handler := NewDetectHandler(newTestApp(t, nil, nil), nil)

	reqBody, contentType := multipartImage(t, []byte{0xff, 0xd8}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/detect", reqBody)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
}

func TestOverlayHandler(t *testing.T) {
	data := blankJPEG(t)
	det := pose.NewMockDetector()
	det.SetPose(pose.StandingPose())
	handler := NewOverlayHandler(newTestApp(t, nil, det), nil)

	reqBody, contentType := multipartImage(t, data, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/overlay", reqBody)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q, want image/jpeg", ct)
	}
	if rec.Header().Get("X-Drape-Scale") != "0.6000" {
		t.Errorf("X-Drape-Scale = %q, want 0.6000", rec.Header().Get("X-Drape-Scale"))
	}

	img, err := overlay.Decode(rec.Body.Bytes())
	defer img.Close()
	if err != nil {
		t.Fatalf("response is not a decodable image: %v", err)
	}
}
