package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/ibe"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/merkle"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/persistence/memory"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func serve(t *testing.T, handler http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHandleParams(t *testing.T) {
	svc := bootstrapped(t)
	handler := NewServer(svc, 0, zaptest.NewLogger(t)).GetHandler()

	t.Run("Method not allowed", func(t *testing.T) {
		w := serve(t, handler, http.MethodPost, "/params", nil)
		require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("Returns parameters", func(t *testing.T) {
		w := serve(t, handler, http.MethodGet, "/params", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp ParamsResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Equal(t, "ss65", resp.Curve)
		require.Equal(t, "weil", resp.Pairing)
		require.Equal(t, 2, resp.EmbeddingDegree)
		require.Equal(t, "2305843009213693921", resp.Order)

		params, err := svc.Params()
		require.NoError(t, err)
		require.Equal(t, hexutil.Encode(params.MasterPublicKey().Marshal()), resp.MasterPublicKey)
	})

	t.Run("Not bootstrapped", func(t *testing.T) {
		idle := newTestService(t, testConfig(), memory.NewMemoryPersistence(), nil)
		h := NewServer(idle, 0, nil).GetHandler()
		w := serve(t, h, http.MethodGet, "/params", nil)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)

		w = serve(t, h, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestHandlePublicKey(t *testing.T) {
	svc := bootstrapped(t)
	handler := NewServer(svc, 0, zaptest.NewLogger(t)).GetHandler()

	t.Run("Missing identity", func(t *testing.T) {
		w := serve(t, handler, http.MethodGet, "/pubkey", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Numeric kind rejects text", func(t *testing.T) {
		w := serve(t, handler, http.MethodGet, "/pubkey?id=alice&kind=numeric", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Kinds are distinct", func(t *testing.T) {
		w := serve(t, handler, http.MethodGet, "/pubkey?id=42", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var numeric PublicKeyResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&numeric))
		require.Equal(t, "numeric", numeric.Kind)

		w = serve(t, handler, http.MethodGet, "/pubkey?id=42&kind=textual", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var textual PublicKeyResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&textual))
		require.Equal(t, "textual", textual.Kind)

		require.NotEqual(t, numeric.QID, textual.QID)
		require.Equal(t, numeric.PPub, textual.PPub)
	})
}

func TestHandleExtract(t *testing.T) {
	svc := bootstrapped(t)
	handler := NewServer(svc, 0, zaptest.NewLogger(t)).GetHandler()

	t.Run("Method not allowed", func(t *testing.T) {
		w := serve(t, handler, http.MethodGet, "/extract", nil)
		require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		w := serve(t, handler, http.MethodPost, "/extract", []byte("invalid json"))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing identity", func(t *testing.T) {
		w := serve(t, handler, http.MethodPost, "/extract", []byte(`{}`))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Issued key decrypts", func(t *testing.T) {
		body, err := json.Marshal(ExtractRequest{Identity: "dave@example.com"})
		require.NoError(t, err)
		w := serve(t, handler, http.MethodPost, "/extract", body)
		require.Equal(t, http.StatusOK, w.Code)

		var resp ExtractResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Equal(t, "textual", resp.Kind)
		require.NotEmpty(t, resp.IssuanceID)

		params, err := svc.Params()
		require.NoError(t, err)
		raw, err := hexutil.Decode(resp.PrivateKey)
		require.NoError(t, err)
		did, err := params.ParsePoint(raw)
		require.NoError(t, err)

		pk, err := params.PublicKey(ibe.StringIdentity("dave@example.com"))
		require.NoError(t, err)
		ct, err := params.EncryptText([]byte("over http"), pk)
		require.NoError(t, err)
		msg, err := params.DecryptText(ct, &ibe.PrivateKey{DID: did})
		require.NoError(t, err)
		require.Equal(t, "over http", string(msg))
	})
}

func TestHandleIssuances(t *testing.T) {
	svc := bootstrapped(t)
	handler := NewServer(svc, 0, zaptest.NewLogger(t)).GetHandler()

	t.Run("Empty log", func(t *testing.T) {
		w := serve(t, handler, http.MethodGet, "/issuances/root", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	var issued []ExtractResponse
	for _, id := range []string{"alice", "bob"} {
		body, err := json.Marshal(ExtractRequest{Identity: id})
		require.NoError(t, err)
		w := serve(t, handler, http.MethodPost, "/extract", body)
		require.Equal(t, http.StatusOK, w.Code)
		var resp ExtractResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		issued = append(issued, resp)
	}

	t.Run("Root", func(t *testing.T) {
		w := serve(t, handler, http.MethodGet, "/issuances/root", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp IssuanceRootResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Equal(t, 2, resp.Count)
	})

	t.Run("Proof", func(t *testing.T) {
		w := serve(t, handler, http.MethodGet, "/issuances/proof?id="+issued[1].IssuanceID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp IssuanceProofResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

		proof := &merkle.MerkleProof{LeafIndex: resp.LeafIndex}
		copy(proof.Leaf[:], hexutil.MustDecode(resp.Leaf))
		for _, h := range resp.Proof {
			var sibling [32]byte
			copy(sibling[:], hexutil.MustDecode(h))
			proof.Proof = append(proof.Proof, sibling)
		}
		var root [32]byte
		copy(root[:], hexutil.MustDecode(resp.Root))
		require.True(t, merkle.VerifyProof(proof, root))
	})

	t.Run("Unknown issuance", func(t *testing.T) {
		w := serve(t, handler, http.MethodGet, "/issuances/proof?id=nope", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Health", func(t *testing.T) {
		w := serve(t, handler, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Store failure", func(t *testing.T) {
		failing := bootstrapped(t)
		h := NewServer(failing, 0, zaptest.NewLogger(t)).GetHandler()
		_, record, err := failing.ExtractPrivateKey(context.Background(), ibe.StringIdentity("alice"))
		require.NoError(t, err)
		require.NoError(t, failing.Close())

		w := serve(t, h, http.MethodGet, "/issuances/proof?id="+record.ID, nil)
		require.Equal(t, http.StatusInternalServerError, w.Code)

		w = serve(t, h, http.MethodGet, "/issuances/root", nil)
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
