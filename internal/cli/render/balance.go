package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// BalanceRenderer renders a token balance read
type BalanceRenderer struct {
	out   io.Writer
	color bool
	json  bool
}

// NewBalanceRenderer creates a new balance renderer
func NewBalanceRenderer(out io.Writer, color, json bool) *BalanceRenderer {
	return &BalanceRenderer{out: out, color: color, json: json}
}

func (r *BalanceRenderer) Render(result *usecase.ReadTokenBalanceResult) error {
	if r.json {
		return writeJSON(r.out, map[string]any{
			"contract": result.Binding.Name,
			"chainId":  result.Binding.ChainID,
			"token":    result.Binding.Address.Hex(),
			"account":  result.Account.Hex(),
			"balance":  result.Balance.String(),
		})
	}

	fmt.Fprintf(r.out, "%s on chain %d (%s)\n",
		result.Binding.Name, result.Binding.ChainID, paint(r.color, addressStyle, result.Binding.Address.Hex()))
	fmt.Fprintf(r.out, "  %s: %s\n", result.Account.Hex(), paint(r.color, okStyle, result.Balance.String()))
	return nil
}

var _ Renderer[*usecase.ReadTokenBalanceResult] = (*BalanceRenderer)(nil)
