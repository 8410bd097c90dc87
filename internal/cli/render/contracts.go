package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// Contract binding states as shown to users
const (
	ContractReady      = "ready"
	ContractConnecting = "connecting"
	ContractError      = "error"
)

// ContractJSON is the --json shape of one contracts row
type ContractJSON struct {
	Name       string `json:"name"`
	ChainID    uint64 `json:"chainId"`
	Network    string `json:"network,omitempty"`
	Address    string `json:"address"`
	ABI        string `json:"abi"`
	Status     string `json:"status"`
	Capability string `json:"capability,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ContractsRenderer renders manifest entries with their binding state
type ContractsRenderer struct {
	out   io.Writer
	color bool
	json  bool
}

// NewContractsRenderer creates a new contracts renderer
func NewContractsRenderer(out io.Writer, color, json bool) *ContractsRenderer {
	return &ContractsRenderer{out: out, color: color, json: json}
}

func (r *ContractsRenderer) Render(result *usecase.ListContractsResult) error {
	if r.json {
		rows := make([]ContractJSON, 0, len(result.Contracts))
		for _, c := range result.Contracts {
			rows = append(rows, ToContractJSON(c))
		}
		return writeJSON(r.out, rows)
	}

	if len(result.Contracts) == 0 {
		fmt.Fprintln(r.out, "No contracts in manifest")
		return nil
	}

	t := newTable(r.out)
	t.AppendHeader(table.Row{"CONTRACT", "CHAIN", "ADDRESS", "ABI", "STATUS"})
	for _, c := range result.Contracts {
		row := ToContractJSON(c)
		chain := fmt.Sprintf("%d", row.ChainID)
		if row.Network != "" {
			chain = fmt.Sprintf("%s (%d)", row.Network, row.ChainID)
		}
		t.AppendRow(table.Row{
			row.Name,
			chain,
			paint(r.color, addressStyle, row.Address),
			row.ABI,
			r.status(row),
		})
	}
	t.Render()
	return nil
}

func (r *ContractsRenderer) status(row ContractJSON) string {
	switch row.Status {
	case ContractReady:
		return paint(r.color, okStyle, fmt.Sprintf("%s (%s)", row.Status, row.Capability))
	case ContractConnecting:
		return paint(r.color, pendingStyle, row.Status)
	default:
		return paint(r.color, errorStyle, fmt.Sprintf("%s: %s", row.Status, row.Error))
	}
}

// ToContractJSON flattens a contract status for output
func ToContractJSON(c usecase.ContractStatus) ContractJSON {
	row := ContractJSON{
		Name:    c.Entry.Name,
		ChainID: c.Entry.ChainID,
		Network: c.Network,
		Address: c.Entry.Address.Hex(),
		ABI:     c.Entry.ABIName,
	}
	switch {
	case c.Error != nil:
		row.Status = ContractError
		row.Error = c.Error.Error()
	case c.Binding != nil:
		row.Status = ContractReady
		row.Capability = c.Binding.Adaptor.Capability().String()
	default:
		row.Status = ContractConnecting
	}
	return row
}

var _ Renderer[*usecase.ListContractsResult] = (*ContractsRenderer)(nil)
