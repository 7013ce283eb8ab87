package stratum

import (
	"encoding/json"
	"fmt"

	"github.com/ddobreff/miner/pkg/ethash"
)

// ethereumStratumCodec implements ETHEREUMSTRATUM/NiceHash: an
// extranonce-bearing subscribe, pool-managed share difficulty (rather
// than a per-job boundary), and a job/seed/header notify shape
// distinct from the other two dialects.
type ethereumStratumCodec struct{}

const stratumAgent = "ethminer-stratum"

func (ethereumStratumCodec) Name() string { return "ethereumstratum" }

func (ethereumStratumCodec) LoginFrame(spec ConnectionSpec, email, agentVersion string) (string, string) {
	agent := stratumAgent
	if agentVersion != "" {
		agent = stratumAgent + "/" + agentVersion
	}
	return fmt.Sprintf(`{"id": 1, "method": "mining.subscribe", "params": ["%s","EthereumStratum/1.0.0"]}`+"\n", agent), ""
}

func (ethereumStratumCodec) LoginImpliesAuth() bool { return false }

func (ethereumStratumCodec) PostLoginFrame() string {
	return `{"id": 2, "method": "mining.extranonce.subscribe", "params": []}` + "\n"
}

func (ethereumStratumCodec) AuthorizeFrame(spec ConnectionSpec) string {
	return fmt.Sprintf(`{"id": 3, "method": "mining.authorize", "params": ["%s","%s"]}`+"\n",
		spec.User, spec.Password)
}

// ParseSubscribeResult reads the extranonce out of the subscribe
// response's result array (index 1) and resets the share difficulty
// to 1, matching the source's id==1 handling for ETHEREUMSTRATUM.
func (ethereumStratumCodec) ParseSubscribeResult(result json.RawMessage, st *dialectState) error {
	var arr []interface{}
	if err := json.Unmarshal(result, &arr); err != nil {
		return nil // not array-shaped; nothing to extract
	}
	st.difficulty = 1
	if len(arr) < 2 {
		return nil
	}
	enonce, _ := arr[1].(string)
	if enonce == "" {
		return nil
	}
	return applyExtranonce(enonce, st)
}

func applyExtranonce(enonce string, st *dialectState) error {
	startNonce, exSizeBits, err := processExtranonce(enonce)
	if err != nil {
		return err
	}
	st.extraNonceHex = enonce
	st.startNonce = startNonce
	st.exSizeBits = exSizeBits
	return nil
}

// SubmitFrame truncates the job id back to its original length and
// submits only the low, miner-chosen suffix of the nonce (the high
// bits are the pool-fixed extranonce prefix the pool already knows).
func (ethereumStratumCodec) SubmitFrame(spec ConnectionSpec, worker string, sol Solution, extraNonceHexLen int) string {
	jobHex := bareHex(sol.Job.JobID)
	if int(sol.Job.JobLen) <= len(jobHex) {
		jobHex = jobHex[:sol.Job.JobLen]
	}
	nonceHex := hexNonce(sol.Nonce)
	suffix := nonceHex
	if extraNonceHexLen >= 0 && extraNonceHexLen <= len(nonceHex) {
		suffix = nonceHex[extraNonceHexLen:]
	}
	return fmt.Sprintf(`{"id": 4, "method": "mining.submit", "params": ["%s","%s","%s"]}`+"\n",
		spec.User, jobHex, suffix)
}

// HandleMessage dispatches mining.notify, mining.set_difficulty and
// mining.set_extranonce, the three server-initiated messages this
// dialect defines beyond what STRATUM/ETHPROXY share.
func (ethereumStratumCodec) HandleMessage(method string, payload json.RawMessage, st *dialectState, current Work) (Work, bool, error) {
	switch method {
	case "mining.notify":
		return parseEthereumStratumNotify(payload, st, current)
	case "mining.set_difficulty":
		var arr []interface{}
		if err := json.Unmarshal(payload, &arr); err != nil || len(arr) == 0 {
			return Work{}, false, nil
		}
		d, _ := arr[0].(float64)
		if d <= 0.0001 {
			d = 0.0001
		}
		st.difficulty = d
		return Work{}, false, nil
	case "mining.set_extranonce":
		var arr []interface{}
		if err := json.Unmarshal(payload, &arr); err != nil || len(arr) == 0 {
			return Work{}, false, nil
		}
		enonce, _ := arr[0].(string)
		if enonce == "" {
			return Work{}, false, nil
		}
		return Work{}, false, applyExtranonce(enonce, st)
	default:
		return Work{}, false, nil
	}
}

// parseEthereumStratumNotify decodes [job, seed, header, _, clean_jobs]
// and, unlike STRATUM/ETHPROXY, always republishes Work on a valid
// frame (the dialect has no header-equality guard in the source).
func parseEthereumStratumNotify(payload json.RawMessage, st *dialectState, current Work) (Work, bool, error) {
	var params []interface{}
	if err := json.Unmarshal(payload, &params); err != nil {
		return Work{}, false, fmt.Errorf("%w: %v", ErrParse, err)
	}

	job := stringAt(params, 0)
	seedStr := stringAt(params, 1)
	headerStr := stringAt(params, 2)
	if seedStr == "" || headerStr == "" {
		return Work{}, false, nil
	}

	headerHash, err := ethash.HexToHash256(headerStr)
	if err != nil {
		return Work{}, false, fmt.Errorf("%w: header hash: %v", ErrParse, err)
	}
	seedHash, err := ethash.HexToHash256(seedStr)
	if err != nil {
		return Work{}, false, fmt.Errorf("%w: seed hash: %v", ErrParse, err)
	}

	jobLen := len(job)
	jobPadded := job
	if len(jobPadded) < 64 {
		jobPadded = jobPadded + fmt_repeat0(64-len(jobPadded))
	}
	jobHash, err := ethash.HexToHash256(jobPadded)
	if err != nil {
		return Work{}, false, fmt.Errorf("%w: job id: %v", ErrParse, err)
	}

	return Work{
		JobID:      jobHash,
		SeedHash:   seedHash,
		HeaderHash: headerHash,
		Boundary:   diffToTarget(st.difficulty),
		StartNonce: st.startNonce,
		ExSizeBits: st.exSizeBits,
		JobLen:     uint8(jobLen),
	}, true, nil
}
