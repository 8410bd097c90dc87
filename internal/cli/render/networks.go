package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out   io.Writer
	color bool
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, color bool) *NetworksRenderer {
	return &NetworksRenderer{
		out:   out,
		color: color,
	}
}

// Render renders the list of networks
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	fmt.Fprintln(r.out, paint(r.color, headerStyle, "🌐 Available Networks:"))
	fmt.Fprintln(r.out)

	t := newTable(r.out)
	t.AppendHeader(table.Row{"NETWORK", "CHAIN ID", "RPC", "ROLE", "STATUS"})
	for _, network := range result.Networks {
		t.AppendRow(table.Row{
			network.Name,
			network.ChainID,
			r.rpc(network),
			r.role(network),
			r.status(network),
		})
	}
	t.Render()
	return nil
}

func (r *NetworksRenderer) rpc(network usecase.NetworkStatus) string {
	if !network.Reachable {
		return paint(r.color, faintStyle, "-")
	}
	return network.RPCURL
}

func (r *NetworksRenderer) role(network usecase.NetworkStatus) string {
	switch {
	case network.Active:
		return paint(r.color, okStyle, "active")
	case network.Pinned:
		return paint(r.color, pendingStyle, "pinned")
	default:
		return ""
	}
}

func (r *NetworksRenderer) status(network usecase.NetworkStatus) string {
	if network.Error != nil {
		return paint(r.color, errorStyle, fmt.Sprintf("❌ %v", network.Error))
	}
	if network.Reachable {
		return "✅"
	}
	return paint(r.color, faintStyle, "no rpc")
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)
