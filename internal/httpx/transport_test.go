package httpx

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

func compressedServer(t *testing.T, encoding string, data []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Encoding") != "gzip, br, zstd" {
			t.Errorf("Accept-Encoding = %q, want 'gzip, br, zstd'", r.Header.Get("Accept-Encoding"))
		}

		w.Header().Set("Content-Encoding", encoding)
		w.WriteHeader(http.StatusOK)

		switch encoding {
		case "gzip":
			gz := gzip.NewWriter(w)
			_, _ = gz.Write(data)
			_ = gz.Close()
		case "br":
			br := brotli.NewWriter(w)
			_, _ = br.Write(data)
			_ = br.Close()
		case "zstd":
			zw, _ := zstd.NewWriter(w)
			_, _ = zw.Write(data)
			_ = zw.Close()
		}
	}))
}

func TestCompressionTransport_Decompresses(t *testing.T) {
	testData := []byte("subtitle payload that should round-trip through compression")

	for _, encoding := range []string{"gzip", "br", "zstd"} {
		t.Run(encoding, func(t *testing.T) {
			server := compressedServer(t, encoding, testData)
			defer server.Close()

			client := &http.Client{Transport: NewCompressionTransport(nil)}

			resp, err := client.Get(server.URL)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			if !bytes.Equal(body, testData) {
				t.Errorf("body = %q, want %q", body, testData)
			}
			if resp.Header.Get("Content-Encoding") != "" {
				t.Errorf("Content-Encoding should be removed, got %q", resp.Header.Get("Content-Encoding"))
			}
		})
	}
}

func TestCompressionTransport_Identity(t *testing.T) {
	testData := []byte("plain body")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(testData)
	}))
	defer server.Close()

	client := &http.Client{Transport: NewCompressionTransport(nil)}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !bytes.Equal(body, testData) {
		t.Errorf("body = %q, want %q", body, testData)
	}
}

func TestParseContentEncoding(t *testing.T) {
	tests := []struct {
		header   string
		expected string
	}{
		{"", ""},
		{"gzip", "gzip"},
		{"GZIP ", "gzip"},
		{"gzip, br", "br"},
		{" br , zstd ", "zstd"},
	}
	for _, tt := range tests {
		if got := parseContentEncoding(tt.header); got != tt.expected {
			t.Errorf("parseContentEncoding(%q) = %q, want %q", tt.header, got, tt.expected)
		}
	}
}

func TestNewClient_Timeout(t *testing.T) {
	client := NewClient("", 5*time.Second)
	if client.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.Timeout)
	}
	if client.Transport == nil {
		t.Fatal("expected compression transport to be installed")
	}
}
