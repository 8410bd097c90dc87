package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/treb-l2/internal/domain"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// DeploymentJSON is the --json shape of a deployment session
type DeploymentJSON struct {
	SessionID string `json:"sessionId,omitempty"`
	State     string `json:"state"`
	Network   string `json:"network,omitempty"`
	ChainID   uint64 `json:"chainId,omitempty"`
	L1Token   string `json:"l1Token"`
	L2Token   string `json:"l2Token,omitempty"`
	TxHash    string `json:"txHash,omitempty"`
	Explorer  string `json:"explorer,omitempty"`
	Error     string `json:"error,omitempty"`
}

// DeployRenderer renders the outcome of a deployment session
type DeployRenderer struct {
	out   io.Writer
	color bool
	json  bool
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer, color, json bool) *DeployRenderer {
	return &DeployRenderer{out: out, color: color, json: json}
}

func (r *DeployRenderer) Render(result *usecase.DeployL2TokenResult) error {
	row := ToDeploymentJSON(result)
	if r.json {
		return writeJSON(r.out, row)
	}

	session := result.Session
	switch session.State {
	case domain.StateDeployed:
		fmt.Fprintln(r.out, FormatSuccess("L2 token deployed"))
		fmt.Fprintln(r.out)
		fmt.Fprintf(r.out, "  L1 token:  %s\n", row.L1Token)
		fmt.Fprintf(r.out, "  L2 token:  %s\n", paint(r.color, okStyle, row.L2Token))
		fmt.Fprintf(r.out, "  Network:   %s (%d)\n", row.Network, row.ChainID)
		fmt.Fprintf(r.out, "  Tx:        %s\n", row.TxHash)
		if row.Explorer != "" {
			fmt.Fprintf(r.out, "  Explorer:  %s\n", paint(r.color, faintStyle, row.Explorer))
		}
	case domain.StateFailed:
		fmt.Fprintln(r.out, FormatError(fmt.Sprintf("deployment failed: %v", session.FailureReason)))
		if row.TxHash != "" {
			fmt.Fprintf(r.out, "  Tx: %s\n", row.TxHash)
		}
	case domain.StateNotStarted:
		fmt.Fprintln(r.out, FormatWarning("Deployment cancelled, the transaction was not signed"))
	default:
		fmt.Fprintf(r.out, "Deployment %s\n", session.State)
	}
	return nil
}

// ToDeploymentJSON flattens a deployment result for output
func ToDeploymentJSON(result *usecase.DeployL2TokenResult) DeploymentJSON {
	session := result.Session
	row := DeploymentJSON{
		SessionID: session.ID,
		State:     session.State.String(),
		L1Token:   session.SourceAddress.Hex(),
	}
	if result.Network != nil {
		row.Network = result.Network.Name
		row.ChainID = result.Network.ChainID
	}
	if session.ResultAddress != nil {
		row.L2Token = session.ResultAddress.Hex()
	}
	if session.TxHash != nil {
		row.TxHash = session.TxHash.Hex()
		if result.Network != nil && result.Network.ExplorerURL != "" {
			row.Explorer = fmt.Sprintf("%s/tx/%s", result.Network.ExplorerURL, row.TxHash)
		}
	}
	if session.FailureReason != nil {
		row.Error = session.FailureReason.Error()
	}
	return row
}

var _ Renderer[*usecase.DeployL2TokenResult] = (*DeployRenderer)(nil)
