package cmd

import (
	"github.com/spf13/cobra"
)

type lsArgs struct {
	json bool
}

func NewListCmd(c *Context) *cobra.Command {
	args := &lsArgs{}
	subc := &cobra.Command{
		Use:   "ls [path]",
		Short: "List the members of a collection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, params []string) error {
			p := "/"
			if len(params) > 0 {
				p = params[0]
			}
			ctx, cancel := c.withTimeout()
			defer cancel()
			rs, err := c.Client.GetChildResources(ctx, p)
			if err != nil {
				return err
			}
			if args.json {
				return printJSON(rs)
			}
			return printTable(rs)
		},
	}
	subc.Flags().BoolVar(&args.json, "json", false, "print as json")
	return subc
}

func init() {
	register(NewListCmd)
}
