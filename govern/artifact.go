package govern

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"gopkg.in/yaml.v3"

	"github.com/meridianlabs/govops/safeservice"
)

// batchArtifact is the audit record written before a batch submission, so
// signers can review exactly what was proposed.
type batchArtifact struct {
	Description  string       `yaml:"description"`
	CreatedAt    time.Time    `yaml:"createdAt"`
	Transactions []artifactTx `yaml:"transactions"`
}

type artifactTx struct {
	Op    string `yaml:"op"`
	To    string `yaml:"to"`
	Value string `yaml:"value"`
	Data  string `yaml:"data"`
}

func writeBatchArtifact(dir, description string, queue []queuedProposal, proposals []safeservice.Proposal) (string, error) {
	artifact := batchArtifact{
		Description:  description,
		CreatedAt:    time.Now().UTC(),
		Transactions: make([]artifactTx, 0, len(proposals)),
	}
	for i, p := range proposals {
		value := "0"
		if p.Value != nil {
			value = p.Value.String()
		}
		artifact.Transactions = append(artifact.Transactions, artifactTx{
			Op:    queue[i].name,
			To:    p.To.Hex(),
			Value: value,
			Data:  hexutil.Encode(p.Data),
		})
	}

	data, err := yaml.Marshal(artifact)
	if err != nil {
		return "", fmt.Errorf("failed to encode batch artifact: %w", err)
	}

	if err = os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifacts dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s.yaml", time.Now().UTC().Format("20060102T150405"), slugify(description))
	path := filepath.Join(dir, name)
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write batch artifact: %w", err)
	}

	return path, nil
}

func slugify(s string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, s)

	return strings.Trim(mapped, "-")
}
