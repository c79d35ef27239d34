package wallet

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/Quillon-tech/quillon-vault/internal/log"
	"github.com/Quillon-tech/quillon-vault/internal/txparse"
	"github.com/Quillon-tech/quillon-vault/pkg/types"
)

// ReportedOutput is one non-change output surfaced for user confirmation:
// a decimal value string and the script hex.
type ReportedOutput struct {
	Value  string `json:"value"`
	Script string `json:"script"`
}

// AuditOutputs walks an encoded output section (as returned by
// txparse.OutputSection) and enforces the change policy: when the
// transaction has more than one output, at least one must pay back to the
// wallet's own key at changePath, or the whole transaction is rejected.
// A single-output transaction is exempt. Non-change outputs are handed to
// the Reporter and returned; change outputs are suppressed.
func (w *Wallet) AuditOutputs(section, changePath string) ([]ReportedOutput, error) {
	outputs, err := txparse.ParseOutputs(section)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	changeHash := ""
	if changePath != "" {
		node, err := w.deriveNode(changePath)
		if err != nil {
			return nil, err
		}
		hash := types.PubKeyHash(node.PubKey[:])
		node.Zero()
		changeHash = hex.EncodeToString(hash[:])
	}

	reported := make([]ReportedOutput, 0, len(outputs))
	changeCount := 0
	for _, out := range outputs {
		if changeHash != "" && w.isChangeScript(out.Script, changeHash) {
			changeCount++
			continue
		}
		r := ReportedOutput{
			Value:  strconv.FormatUint(out.Value, 10),
			Script: out.Script,
		}
		w.reporter.ReportOutput(r.Value, r.Script)
		reported = append(reported, r)
	}

	if changeCount == 0 && len(outputs) > 1 {
		log.Audit.Warn().Int("outputs", len(outputs)).Msg("multi-output transaction without a recognized change output")
		return nil, fmt.Errorf("%w: %d outputs, none to the wallet's change address", ErrPolicyNoChange, len(outputs))
	}
	log.Audit.Debug().Int("outputs", len(outputs)).Int("change", changeCount).Msg("output audit passed")
	return reported, nil
}

// isChangeScript tests whether a script pays the wallet's change hash.
// The default is the hex-substring match; strict mode demands the exact
// pay-to-pubkey-hash template.
func (w *Wallet) isChangeScript(script, changeHash string) bool {
	script = strings.ToLower(script)
	if w.strictChange {
		return script == "76a914"+changeHash+"88ac"
	}
	return strings.Contains(script, changeHash)
}
