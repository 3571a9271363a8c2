package authority

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/ibe"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	params, err := s.service.Params()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	curve, err := s.service.Curve()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, ParamsResponse{
		Curve:           string(curve.Name),
		Engine:          params.Engine().Name(),
		Pairing:         params.PairingKind().String(),
		Distortion:      params.Distortion().Name(),
		Order:           params.Order().String(),
		EmbeddingDegree: params.EmbeddingDegree(),
		Generator:       hexutil.Encode(params.Generator().Marshal()),
		MasterPublicKey: hexutil.Encode(params.MasterPublicKey().Marshal()),
	})
}

func (s *Server) handlePublicKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := ibe.ParseIdentityAs(r.URL.Query().Get("id"), r.URL.Query().Get("kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pk, err := s.service.PublicKey(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, PublicKeyResponse{
		Identity: id.String(),
		Kind:     id.Kind().String(),
		QID:      hexutil.Encode(pk.QID.Marshal()),
		PPub:     hexutil.Encode(pk.PPub.Marshal()),
	})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Failed to parse request: %v", err), http.StatusBadRequest)
		return
	}

	id, err := ibe.ParseIdentityAs(req.Identity, req.Kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sk, record, err := s.service.ExtractPrivateKey(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrNotBootstrapped):
			status = http.StatusServiceUnavailable
		case errors.Is(err, ErrRateLimited):
			status = http.StatusTooManyRequests
		}
		s.logger.Sugar().Warnw("Private key extraction failed", "error", err)
		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, ExtractResponse{
		IssuanceID: record.ID,
		Identity:   record.Identity,
		Kind:       record.Kind,
		PrivateKey: hexutil.Encode(sk.DID.Marshal()),
	})
}

func (s *Server) handleIssuanceRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tree, err := s.service.IssuanceTree()
	if err != nil {
		if errors.Is(err, ErrNoIssuances) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, IssuanceRootResponse{
		Root:  hexutil.Encode(tree.Root[:]),
		Count: len(tree.Leaves),
	})
}

func (s *Server) handleIssuanceProof(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	issuanceID := r.URL.Query().Get("id")
	if issuanceID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	proof, root, err := s.service.ProveIssuance(issuanceID)
	if err != nil {
		if errors.Is(err, ErrIssuanceNotFound) || errors.Is(err, ErrNoIssuances) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.logger.Sugar().Errorw("Failed to prove issuance", "issuance_id", issuanceID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	siblings := make([]string, len(proof.Proof))
	for i, h := range proof.Proof {
		siblings[i] = hexutil.Encode(h[:])
	}
	writeJSON(w, IssuanceProofResponse{
		IssuanceID: issuanceID,
		LeafIndex:  proof.LeafIndex,
		Leaf:       hexutil.Encode(proof.Leaf[:]),
		Proof:      siblings,
		Root:       hexutil.Encode(root[:]),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.service.HealthCheck(); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}
