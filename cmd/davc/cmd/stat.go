package cmd

import (
	"github.com/spf13/cobra"
)

func NewStatCmd(c *Context) *cobra.Command {
	subc := &cobra.Command{
		Use:   "stat <path>",
		Short: "Show the metadata of a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.withTimeout()
			defer cancel()
			res, err := c.Client.GetResource(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	return subc
}

func init() {
	register(NewStatCmd)
}
