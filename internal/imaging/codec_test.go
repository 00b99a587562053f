package imaging

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"jpeg", FormatJPEG, false},
		{"JPG", FormatJPEG, false},
		{".png", FormatPNG, false},
		{" JPEG ", FormatJPEG, false},
		{"webp", "", true},
		{"gif", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat_MIMEType(t *testing.T) {
	if FormatJPEG.MIMEType() != "image/jpeg" || FormatPNG.MIMEType() != "image/png" {
		t.Error("unexpected MIME types")
	}
	if FormatJPEG.Extension() != "jpg" || FormatPNG.Extension() != "png" {
		t.Error("unexpected extensions")
	}
}

func TestEncodeDecode(t *testing.T) {
	src := createInMemoryImage(32, 24, color.RGBA{200, 40, 40, 255})

	for _, f := range []Format{FormatJPEG, FormatPNG} {
		t.Run(string(f), func(t *testing.T) {
			data, err := Encode(src, f, 90)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			img, format, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if format != string(f) {
				t.Errorf("format: got %s, want %s", format, f)
			}
			if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
				t.Errorf("dimensions: got %dx%d, want 32x24", b.Dx(), b.Dy())
			}
		})
	}
}

func TestEncode_PNGLossless(t *testing.T) {
	src := createInMemoryImage(4, 4, color.RGBA{1, 2, 3, 255})
	data, err := Encode(src, FormatPNG, 0)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	r, g, b, _ := img.At(2, 2).RGBA()
	if r>>8 != 1 || g>>8 != 2 || b>>8 != 3 {
		t.Errorf("pixel: got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestEncode_Unsupported(t *testing.T) {
	if _, err := Encode(createInMemoryImage(2, 2, color.White), Format("bmp"), 0); err == nil {
		t.Error("Encode should reject unsupported formats")
	}
}

func TestDecode_Invalid(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("definitely not an image")} {
		if _, _, err := Decode(data); err == nil {
			t.Errorf("Decode(%q) should fail", data)
		}
	}
}
