package cmd

import (
	"github.com/spf13/cobra"
)

func NewRemoveCmd(c *Context) *cobra.Command {
	subc := &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.withTimeout()
			defer cancel()
			res, err := c.Client.DeleteResource(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	return subc
}

func init() {
	register(NewRemoveCmd)
}
