//go:build !ocr

package ocr

import (
	"errors"
	"image"
	"testing"
)

func TestStubNew(t *testing.T) {
	client, err := New()
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled, got %v", err)
	}
	if client != nil {
		t.Error("Stub New should return a nil client")
	}
}

func TestStubCloseIsSafe(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client should be a no-op, got %v", err)
	}
}

func TestStubMethods(t *testing.T) {
	client := &Client{}
	if err := client.SetLanguage("eng"); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled from SetLanguage, got %v", err)
	}
	if err := client.SetPageSegMode(PSM_AUTO); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled from SetPageSegMode, got %v", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if _, err := client.Tokens(img, 0); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled from Tokens, got %v", err)
	}
}
