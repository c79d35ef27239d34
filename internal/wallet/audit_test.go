package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Quillon-tech/quillon-vault/pkg/types"
)

// recordingReporter captures surfaced outputs.
type recordingReporter struct {
	outputs []ReportedOutput
}

func (r *recordingReporter) ReportOutput(value, script string) {
	r.outputs = append(r.outputs, ReportedOutput{Value: value, Script: script})
}

// changeHashHex derives the wallet's pubkey hash at path via its public
// reporting surface.
func changeHashHex(t *testing.T, w *Wallet, path string) string {
	t.Helper()
	addr, err := w.Address(path)
	if err != nil {
		t.Fatalf("Address(%q) error: %v", path, err)
	}
	_, hash, err := types.DecodeAddress(addr)
	if err != nil {
		t.Fatalf("DecodeAddress() error: %v", err)
	}
	return hex.EncodeToString(hash[:])
}

// txOut is one output for buildSection.
type txOut struct {
	value  uint64
	script string
}

// buildSection encodes an output section: count varint, then per output
// the 8-byte little-endian value and the length-prefixed script. Test
// counts and script lengths stay below the 0xFD varint boundary.
func buildSection(outs ...txOut) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%02x", len(outs))
	for _, out := range outs {
		for i := 0; i < 8; i++ {
			fmt.Fprintf(&b, "%02x", byte(out.value>>(8*i)))
		}
		fmt.Fprintf(&b, "%02x", len(out.script)/2)
		b.WriteString(out.script)
	}
	return b.String()
}

func p2pkhScript(hash20 string) string {
	return "76a914" + hash20 + "88ac"
}

func TestAuditOutputs_ChangePresent(t *testing.T) {
	reporter := &recordingReporter{}
	w := seededWallet(t, WithReporter(reporter))

	s1 := p2pkhScript(strings.Repeat("11", 20))
	s2 := p2pkhScript(changeHashHex(t, w, "m/1"))
	section := buildSection(txOut{1000, s1}, txOut{2000, s2})

	reported, err := w.AuditOutputs(section, "m/1")
	if err != nil {
		t.Fatalf("AuditOutputs() error: %v", err)
	}

	// Only the foreign output is surfaced; the change output is suppressed.
	if len(reported) != 1 {
		t.Fatalf("reported %d outputs, want 1", len(reported))
	}
	if reported[0].Value != "1000" || reported[0].Script != s1 {
		t.Errorf("reported = %+v, want (1000, %q)", reported[0], s1)
	}
	if len(reporter.outputs) != 1 || reporter.outputs[0] != reported[0] {
		t.Errorf("reporter saw %+v, want the same single output", reporter.outputs)
	}
}

func TestAuditOutputs_NoChangeAmongMany(t *testing.T) {
	w := seededWallet(t)

	section := buildSection(
		txOut{1000, p2pkhScript(strings.Repeat("11", 20))},
		txOut{2000, p2pkhScript(strings.Repeat("22", 20))},
	)
	_, err := w.AuditOutputs(section, "m/1")
	if !errors.Is(err, ErrPolicyNoChange) {
		t.Errorf("AuditOutputs() error = %v, want ErrPolicyNoChange", err)
	}
}

func TestAuditOutputs_SingleOutputExempt(t *testing.T) {
	reporter := &recordingReporter{}
	w := seededWallet(t, WithReporter(reporter))

	// One output, not ours: exempt from the change policy.
	section := buildSection(txOut{5000, p2pkhScript(strings.Repeat("33", 20))})
	reported, err := w.AuditOutputs(section, "m/1")
	if err != nil {
		t.Fatalf("AuditOutputs() error: %v", err)
	}
	if len(reported) != 1 || reported[0].Value != "5000" {
		t.Errorf("reported = %+v, want the single (5000, ...) output", reported)
	}
}

func TestAuditOutputs_NoChangePathMultiOutputFails(t *testing.T) {
	w := seededWallet(t)
	section := buildSection(
		txOut{1, p2pkhScript(strings.Repeat("11", 20))},
		txOut{2, p2pkhScript(strings.Repeat("22", 20))},
	)
	if _, err := w.AuditOutputs(section, ""); !errors.Is(err, ErrPolicyNoChange) {
		t.Errorf("AuditOutputs() error = %v, want ErrPolicyNoChange", err)
	}
}

func TestAuditOutputs_SubstringVsStrict(t *testing.T) {
	hash := ""
	{
		w := seededWallet(t)
		hash = changeHashHex(t, w, "m/1")
	}

	// The change hash embedded in a non-P2PKH script: the default
	// substring policy recognizes it, strict template matching does not.
	oddScript := "6a24" + hash + "00000000"
	section := buildSection(
		txOut{1000, p2pkhScript(strings.Repeat("11", 20))},
		txOut{2000, oddScript},
	)

	loose := seededWallet(t)
	if _, err := loose.AuditOutputs(section, "m/1"); err != nil {
		t.Errorf("substring policy rejected an embedded change hash: %v", err)
	}

	strict := seededWallet(t, WithStrictChange())
	if _, err := strict.AuditOutputs(section, "m/1"); !errors.Is(err, ErrPolicyNoChange) {
		t.Errorf("strict policy error = %v, want ErrPolicyNoChange", err)
	}

	// A real P2PKH change output satisfies both policies.
	section = buildSection(
		txOut{1000, p2pkhScript(strings.Repeat("11", 20))},
		txOut{2000, p2pkhScript(hash)},
	)
	if _, err := strict.AuditOutputs(section, "m/1"); err != nil {
		t.Errorf("strict policy rejected a canonical change output: %v", err)
	}
}

func TestAuditOutputs_MalformedSection(t *testing.T) {
	w := seededWallet(t)
	for _, section := range []string{"", "02", "01ffff"} {
		if _, err := w.AuditOutputs(section, "m/1"); !errors.Is(err, ErrFormat) {
			t.Errorf("AuditOutputs(%q) error = %v, want ErrFormat", section, err)
		}
	}
}

func TestAuditOutputs_UppercaseScript(t *testing.T) {
	w := seededWallet(t)
	hash := changeHashHex(t, w, "m/1")

	section := buildSection(
		txOut{1000, p2pkhScript(strings.Repeat("11", 20))},
		txOut{2000, strings.ToUpper(p2pkhScript(hash))},
	)
	if _, err := w.AuditOutputs(section, "m/1"); err != nil {
		t.Errorf("uppercase change script not recognized: %v", err)
	}
}
