package cmd

import (
	"github.com/spf13/cobra"
)

func NewMkdirCmd(c *Context) *cobra.Command {
	subc := &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a collection and its missing parents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.withTimeout()
			defer cancel()
			res, err := c.Client.CreateCollection(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	return subc
}

func init() {
	register(NewMkdirCmd)
}
