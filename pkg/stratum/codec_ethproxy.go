package stratum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ethProxyCodec implements the ETHPROXY dialect: eth_submitLogin acts
// as both subscribe and authorize, work arrives as the result of
// eth_getWork (or an unsolicited push shaped the same way), and
// submissions use eth_submitWork.
type ethProxyCodec struct{}

func (ethProxyCodec) Name() string { return "ethproxy" }

// LoginFrame splits spec.User on the first '.' into the pool account
// name and a worker-name suffix, matching
// EthStratumClient.cpp's `user.find_first_of(".")` split.
func (ethProxyCodec) LoginFrame(spec ConnectionSpec, email, agentVersion string) (string, string) {
	user := spec.User
	worker := ""
	if p := strings.IndexByte(spec.User, '.'); p >= 0 {
		user = spec.User[:p]
		worker = spec.User[p+1:]
	}
	var frame string
	if email == "" {
		frame = fmt.Sprintf(`{"id": 1, "worker":"%s", "method": "eth_submitLogin", "params": ["%s"]}`+"\n", worker, user)
	} else {
		frame = fmt.Sprintf(`{"id": 1, "worker":"%s", "method": "eth_submitLogin", "params": ["%s", "%s"]}`+"\n", worker, user, email)
	}
	return frame, worker
}

func (ethProxyCodec) LoginImpliesAuth() bool { return true }

// PostLoginFrame sends the eth_getWork "kick" once login succeeds.
// Not strictly required by the protocol, but it speeds up receiving
// the first job, matching the source's comment verbatim in intent.
func (ethProxyCodec) PostLoginFrame() string {
	return `{"id": 5, "method": "eth_getWork", "params": []}` + "\n"
}

func (ethProxyCodec) AuthorizeFrame(spec ConnectionSpec) string { return "" }

func (ethProxyCodec) ParseSubscribeResult(result json.RawMessage, st *dialectState) error { return nil }

func (ethProxyCodec) SubmitFrame(spec ConnectionSpec, worker string, sol Solution, extraNonceHexLen int) string {
	return fmt.Sprintf(
		`{"id": 4, "worker":"%s", "method": "eth_submitWork", "params": ["0x%s","0x%s","0x%s"]}`+"\n",
		worker, hexNonce(sol.Nonce), bareHex(sol.Header), bareHex(sol.MixHash))
}

// HandleMessage treats every call as a notify attempt: ETHPROXY
// servers never send a "method" field, so the session always forces
// method to "mining.notify" for this dialect (mirroring the source's
// unconditional `method = "mining.notify"` in the default switch
// case) and passes the top-level "result" array as payload.
func (ethProxyCodec) HandleMessage(method string, payload json.RawMessage, st *dialectState, current Work) (Work, bool, error) {
	var params []interface{}
	if err := json.Unmarshal(payload, &params); err != nil {
		return Work{}, false, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return parseNotifyStratumLike(params, 0, current)
}
