package stratum

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ddobreff/miner/pkg/ethash"
)

// stratumCodec implements the plain STRATUM dialect: bare
// mining.subscribe, a follow-up mining.authorize, and mining.notify
// params carrying header/seed/boundary starting at index 1.
type stratumCodec struct{}

func (stratumCodec) Name() string { return "stratum" }

func (stratumCodec) LoginFrame(spec ConnectionSpec, email, agentVersion string) (string, string) {
	return `{"id": 1, "method": "mining.subscribe", "params": []}` + "\n", ""
}

func (stratumCodec) LoginImpliesAuth() bool { return false }

func (stratumCodec) PostLoginFrame() string { return "" }

func (stratumCodec) ParseSubscribeResult(result json.RawMessage, st *dialectState) error { return nil }

func (stratumCodec) AuthorizeFrame(spec ConnectionSpec) string {
	return fmt.Sprintf(`{"id": 3, "method": "mining.authorize", "params": ["%s","%s"]}`+"\n",
		spec.User, spec.Password)
}

func (stratumCodec) SubmitFrame(spec ConnectionSpec, worker string, sol Solution, extraNonceHexLen int) string {
	return fmt.Sprintf(
		`{"id": 4, "method": "mining.submit", "params": ["%s","%s","0x%s","0x%s","0x%s"]}`+"\n",
		spec.User, bareHex(sol.Job.JobID), hexNonce(sol.Nonce), bareHex(sol.Header), bareHex(sol.MixHash))
}

func (stratumCodec) HandleMessage(method string, payload json.RawMessage, st *dialectState, current Work) (Work, bool, error) {
	if method != "mining.notify" {
		return Work{}, false, nil
	}
	var params []interface{}
	if err := json.Unmarshal(payload, &params); err != nil {
		return Work{}, false, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return parseNotifyStratumLike(params, 1, current)
}

// parseNotifyStratumLike decodes the header/seed/boundary triple
// shared by STRATUM (headerIndex 1, since index 0 carries a distinct
// job id) and ETHPROXY (headerIndex 0, since eth_getWork's result has
// no separate job id — the header hash doubles as the job identifier,
// matching the source's params.get(0) read in both branches).
func parseNotifyStratumLike(params []interface{}, headerIndex int, current Work) (Work, bool, error) {
	jobID := stringAt(params, 0)
	index := headerIndex

	headerStr := stringAt(params, index)
	index++
	seedStr := stringAt(params, index)
	index++
	targetStr := stringAt(params, index)

	if headerStr == "" || seedStr == "" || targetStr == "" {
		return Work{}, false, nil
	}

	// coinmine.pl fix: some pools send a short (truncated) target.
	if l := len(targetStr); l > 2 && l < 66 {
		targetStr = "0x" + zeroPad(targetStr[2:], 64)
	}

	headerHash, err := ethash.HexToHash256(headerStr)
	if err != nil {
		return Work{}, false, fmt.Errorf("%w: header hash: %v", ErrParse, err)
	}
	if headerHash == current.HeaderHash {
		// Source only republishes work when the header actually
		// changes for these two dialects.
		return Work{}, false, nil
	}

	seedHash, err := ethash.HexToHash256(seedStr)
	if err != nil {
		return Work{}, false, fmt.Errorf("%w: seed hash: %v", ErrParse, err)
	}
	boundary, err := ethash.HexToHash256(targetStr)
	if err != nil {
		return Work{}, false, fmt.Errorf("%w: target: %v", ErrParse, err)
	}

	jobHash, _ := ethash.HexToHash256(jobID)
	return Work{
		JobID:      jobHash,
		SeedHash:   seedHash,
		HeaderHash: headerHash,
		Boundary:   boundary,
	}, true, nil
}

func stringAt(params []interface{}, i int) string {
	if i < 0 || i >= len(params) {
		return ""
	}
	s, _ := params[i].(string)
	return s
}

func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return fmt_repeat0(width-len(s)) + s
}

func fmt_repeat0(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}

func hexNonce(n uint64) string {
	return fmt.Sprintf("%016x", n)
}

// bareHex returns h's hex encoding without the "0x" prefix Hash256.Hex
// always adds, matching the source's h256::hex(), which never carries
// one; submit frames add "0x" themselves wherever the wire format
// wants it.
func bareHex(h ethash.Hash256) string {
	return strings.TrimPrefix(h.Hex(), "0x")
}
