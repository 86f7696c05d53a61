package provision

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsure_FilePresentSkipsNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "dataset.db")
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0o644))

	p := &Provisioner{DBPath: path, URL: srv.URL, Quiet: true}
	require.NoError(t, p.Ensure(context.Background()))
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls), "provisioner must not touch the network when the file exists")
}

func TestEnsure_DownloadsWhenAbsent(t *testing.T) {
	payload := []byte("sqlite-ish payload bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "dataset.db")
	p := &Provisioner{DBPath: path, URL: srv.URL, Quiet: true}
	require.NoError(t, p.Ensure(context.Background()))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestEnsure_NoSourceConfigured(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.db")
	p := &Provisioner{DBPath: path, Quiet: true}

	err := p.Ensure(context.Background())
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestEnsure_EmptyBodyIsDistinctFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 with no body: the fetch "succeeds" but yields nothing usable.
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "dataset.db")
	p := &Provisioner{DBPath: path, URL: srv.URL, Quiet: true}

	err := p.Ensure(context.Background())
	assert.ErrorIs(t, err, ErrEmptyDataset)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "failed download must not leave a file behind")
}

func TestEnsure_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "dataset.db")
	p := &Provisioner{DBPath: path, URL: srv.URL, Quiet: true}

	err := p.Ensure(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyDataset)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestEnsure_ZeroByteLocalFileTriggersDownload(t *testing.T) {
	payload := []byte("fresh copy")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "dataset.db")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	p := &Provisioner{DBPath: path, URL: srv.URL, Quiet: true}
	require.NoError(t, p.Ensure(context.Background()))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}
