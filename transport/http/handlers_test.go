package http

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sui-direct/node/core"
	"github.com/sui-direct/node/ports"
	"github.com/sui-direct/node/service"
)

type stubCatalog struct {
	recs []core.RepositoryRecord
}

func (s *stubCatalog) Insert(context.Context, core.RepositoryRecord) error { return nil }

func (s *stubCatalog) Lookup(_ context.Context, key string) (*core.RepositoryRecord, error) {
	for _, rec := range s.recs {
		if rec.BlobID == key || rec.Name == key {
			r := rec
			return &r, nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *stubCatalog) ListByOwner(_ context.Context, owner string) ([]core.RepositoryRecord, error) {
	var out []core.RepositoryRecord
	for _, rec := range s.recs {
		if rec.Owner == owner {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *stubCatalog) Rename(context.Context, string, string) error { return nil }

type stubBlobs struct {
	blobs map[string][]byte
}

func (s *stubBlobs) WriteBlob(context.Context, []byte, *ecdsa.PrivateKey, ports.WriteOptions) (string, error) {
	return "", fmt.Errorf("read-only")
}

func (s *stubBlobs) ReadBlob(_ context.Context, blobID string) ([]byte, error) {
	data, ok := s.blobs[blobID]
	if !ok {
		return nil, fmt.Errorf("blob %s gone", blobID)
	}
	return data, nil
}

func (s *stubBlobs) StorageCost(context.Context, int64, int) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func newBrowsingRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := &stubCatalog{recs: []core.RepositoryRecord{
		{BlobID: "blob-1", Owner: "0xowner", Name: "witty-walrus", CreatedAt: time.Now()},
		{BlobID: "blob-2", Owner: "0xowner", Name: "serious-seal", CreatedAt: time.Now()},
	}}
	blobs := &stubBlobs{blobs: map[string][]byte{"blob-1": []byte("content")}}
	transfer := service.NewTransferService(nil, nil, catalog, blobs, nil, nil)

	router := gin.New()
	handlers := NewRepoHandlers("peer-node", transfer)
	router.GET("/peer-id", handlers.PeerID)
	router.GET("/ping", handlers.Ping)
	router.GET("/list/:owner", handlers.List)
	router.GET("/repo/:id", handlers.Content)
	router.GET("/repo/:id/metadata", handlers.Metadata)
	return router
}

func doGet(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestPeerIDAndPing(t *testing.T) {
	router := newBrowsingRouter(t)

	w := doGet(t, router, "/peer-id")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"peer-node"}`, w.Body.String())

	w = doGet(t, router, "/ping")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListEndpoint(t *testing.T) {
	router := newBrowsingRouter(t)

	w := doGet(t, router, "/list/0xowner")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Repositories []map[string]any `json:"repositories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Repositories, 2)

	w = doGet(t, router, "/list/0xnobody")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Repositories)
}

func TestMetadataEndpoint(t *testing.T) {
	router := newBrowsingRouter(t)

	for _, key := range []string{"witty-walrus", "blob-1"} {
		w := doGet(t, router, "/repo/"+key+"/metadata")
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "blob-1", body["blobId"])
		assert.Equal(t, "witty-walrus", body["id"])
		assert.Equal(t, "0xowner", body["owner"])
	}

	w := doGet(t, router, "/repo/missing/metadata")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContentEndpoint(t *testing.T) {
	router := newBrowsingRouter(t)

	w := doGet(t, router, "/repo/witty-walrus")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "content", w.Body.String())
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))

	// Cataloged but gone from the blob network.
	w = doGet(t, router, "/repo/serious-seal")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = doGet(t, router, "/repo/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
