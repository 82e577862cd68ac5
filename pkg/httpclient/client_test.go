package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != defaultUserAgent {
			t.Errorf("Unexpected User-Agent %q", ua)
		}
		w.Write([]byte("<ok/>"))
	}))
	defer server.Close()

	body, err := NewClient(5 * time.Second).Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(body) != "<ok/>" {
		t.Errorf("Unexpected body %q", body)
	}
}

func TestGetServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient(5 * time.Second).Get(context.Background(), server.URL)
	var nerr *NetworkError
	if !errors.As(err, &nerr) {
		t.Fatalf("Expected *NetworkError, got %v", err)
	}
	if nerr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", nerr.StatusCode)
	}
}

func TestGetTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	_, err := NewClient(20 * time.Millisecond).Get(context.Background(), server.URL)
	var nerr *NetworkError
	if !errors.As(err, &nerr) {
		t.Fatalf("Expected *NetworkError, got %v", err)
	}
	if !nerr.Timeout() {
		t.Error("Expected the error to report a timeout")
	}
}

func TestGetConnectionRefused(t *testing.T) {
	_, err := NewClient(time.Second).Get(context.Background(), "http://127.0.0.1:1/none")
	var nerr *NetworkError
	if !errors.As(err, &nerr) {
		t.Fatalf("Expected *NetworkError, got %v", err)
	}
}
