package authority

// ParamsResponse is the public parameter set. Points are hex encoded.
type ParamsResponse struct {
	Curve           string `json:"curve"`
	Engine          string `json:"engine"`
	Pairing         string `json:"pairing"`
	Distortion      string `json:"distortion"`
	Order           string `json:"order"`
	EmbeddingDegree int    `json:"embeddingDegree"`
	Generator       string `json:"generator"`
	MasterPublicKey string `json:"masterPublicKey"`
}

// PublicKeyResponse is (Q_ID, P_pub) for one identity.
type PublicKeyResponse struct {
	Identity string `json:"identity"`
	Kind     string `json:"kind"`
	QID      string `json:"qId"`
	PPub     string `json:"pPub"`
}

// ExtractRequest asks for the private key of Identity. Identities made only of
// decimal digits are numeric unless Kind says "textual".
type ExtractRequest struct {
	Identity string `json:"identity"`
	Kind     string `json:"kind,omitempty"`
}

// ExtractResponse carries d_ID and the issuance log entry it produced.
type ExtractResponse struct {
	IssuanceID string `json:"issuanceId"`
	Identity   string `json:"identity"`
	Kind       string `json:"kind"`
	PrivateKey string `json:"privateKey"`
}

// IssuanceRootResponse is the merkle commitment to the issuance log.
type IssuanceRootResponse struct {
	Root  string `json:"root"`
	Count int    `json:"count"`
}

// IssuanceProofResponse proves one issuance against Root.
type IssuanceProofResponse struct {
	IssuanceID string   `json:"issuanceId"`
	LeafIndex  int      `json:"leafIndex"`
	Leaf       string   `json:"leaf"`
	Proof      []string `json:"proof"`
	Root       string   `json:"root"`
}
