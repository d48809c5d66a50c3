package exifloc

import (
	"bytes"
	"testing"
)

func TestFromPhotoRejectsNonImageData(t *testing.T) {
	if tag := FromPhoto(bytes.NewReader([]byte("definitely not a jpeg"))); tag != nil {
		t.Fatalf("expected nil geotag for non-image data, got %+v", tag)
	}
}

func TestFromPhotoRejectsEmptyStream(t *testing.T) {
	if tag := FromPhoto(bytes.NewReader(nil)); tag != nil {
		t.Fatalf("expected nil geotag for empty stream, got %+v", tag)
	}
}
