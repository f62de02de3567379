package nodes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"simple-ledger-go/blocks"
)

const (
	BLOCKS_PATH  = "/api/blocks"
	MINE_PATH    = "/api/mine"
	OFFER_PATH   = "/api/offer"
	METRICS_PATH = "/metrics"

	MAX_BODY_BYTES = 8 << 20
)

// Payload accepts either a JSON array of byte values or a base64 string.
type Payload []byte

func (p *Payload) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var values []int
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return err
		}
		out := make([]byte, len(values))
		for i, v := range values {
			if v < 0 || v > 255 {
				return fmt.Errorf("byte %d out of range: %d", i, v)
			}
			out[i] = byte(v)
		}
		*p = out
		return nil
	}

	var b []byte
	if err := json.Unmarshal(trimmed, &b); err != nil {
		return err
	}
	*p = b
	return nil
}

// MarshalJSON writes the array form the mine endpoint always accepted.
func (p Payload) MarshalJSON() ([]byte, error) {
	values := make([]int, len(p))
	for i, b := range p {
		values[i] = int(b)
	}
	return json.Marshal(values)
}

type OfferResponse struct {
	Replaced bool `json:"replaced"`
	Length   int  `json:"length"`
}

func (n *Node) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(BLOCKS_PATH, n.handleBlocks)
	mux.HandleFunc(MINE_PATH, n.handleMine)
	mux.HandleFunc(OFFER_PATH, n.handleOffer)
	mux.Handle(METRICS_PATH, n.metrics.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writing response failed: %v\n", err)
	}
}

func (n *Node) handleBlocks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	chain, err := n.GetBlocks(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get blocks: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, chain)
}

func (n *Node) handleMine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var payload Payload
	body := http.MaxBytesReader(w, r.Body, MAX_BODY_BYTES)
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("Invalid payload: %v", err), http.StatusBadRequest)
		return
	}

	block, err := n.MineBlock(r.Context(), payload)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to mine block: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, block)
}

func (n *Node) handleOffer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var candidate []blocks.Block
	body := http.MaxBytesReader(w, r.Body, MAX_BODY_BYTES)
	if err := json.NewDecoder(body).Decode(&candidate); err != nil {
		http.Error(w, fmt.Sprintf("Invalid chain: %v", err), http.StatusBadRequest)
		return
	}

	replaced, length, err := n.Offer(r.Context(), candidate, r.RemoteAddr)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to offer chain: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, OfferResponse{Replaced: replaced, Length: length})
}
