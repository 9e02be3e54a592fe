package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railpath/pkg/errors"
	"github.com/matzehuels/railpath/pkg/network"
)

// citiesCommand lists the cities of the selected network.
func (c *CLI) citiesCommand() *cobra.Command {
	var asJSON, asTOML bool

	cmd := &cobra.Command{
		Use:     "cities",
		Aliases: []string{"network"},
		Short:   "List the cities and links of the selected network",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON && asTOML {
				return errors.New(errors.ErrCodeInvalidInput, "--json and --toml are mutually exclusive")
			}
			n, err := c.loadNetwork()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch {
			case asJSON:
				return network.WriteJSON(n, w)
			case asTOML:
				return network.WriteTOML(n, w)
			}

			title := n.Name
			if n.Title != "" {
				title = n.Title
			}
			fmt.Fprintln(w, StyleTitle.Render(title))
			fmt.Fprintln(w, citiesTable(n))
			fmt.Fprintf(w, "%s cities · %s links\n",
				StyleNumber.Render(fmt.Sprint(n.Graph.NodeCount())),
				StyleNumber.Render(fmt.Sprint(n.Graph.EdgeCount())))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the network as JSON")
	cmd.Flags().BoolVar(&asTOML, "toml", false, "print the network as TOML")
	return cmd
}
