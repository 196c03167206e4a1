package faceclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchUploadsImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recognize", r.URL.Path)
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "class.jpg", header.Filename)
		assert.Equal(t, []byte("jpeg-bytes"), data)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"labels":["CS001"," CS002","CS001",""]}`))
	}))
	defer srv.Close()

	labels, err := New(srv.URL+"/", time.Second).Match(context.Background(), []byte("jpeg-bytes"), "class.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"CS001", "CS002"}, labels)
}

func TestMatchSurfacesServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	labels, err := New(srv.URL, time.Second).Match(context.Background(), []byte("x"), "")
	require.Error(t, err)
	assert.Nil(t, labels)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestMatchRequiresImage(t *testing.T) {
	_, err := New("http://unused", time.Second).Match(context.Background(), nil, "a.jpg")
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	require.NoError(t, New(srv.URL, time.Second).Health(context.Background()))
}
