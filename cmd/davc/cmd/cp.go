package cmd

import (
	"github.com/spf13/cobra"
	"github.com/xxxsen/davclient/webdav"
)

type copyArgs struct {
	noOverwrite bool
	shallow     bool
}

func (a *copyArgs) options() []webdav.CopyOption {
	return []webdav.CopyOption{
		webdav.WithOverwrite(!a.noOverwrite),
		webdav.WithShallow(a.shallow),
	}
}

func NewCopyCmd(c *Context) *cobra.Command {
	args := &copyArgs{}
	subc := &cobra.Command{
		Use:   "cp <src> <dst>",
		Short: "Copy a resource on the server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, params []string) error {
			ctx, cancel := c.withTimeout()
			defer cancel()
			res, err := c.Client.CopyResource(ctx, params[0], params[1], args.options()...)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	subc.Flags().BoolVar(&args.noOverwrite, "no-overwrite", false, "fail when the target exists")
	subc.Flags().BoolVar(&args.shallow, "shallow", false, "copy a collection without its members")
	return subc
}

func NewMoveCmd(c *Context) *cobra.Command {
	args := &copyArgs{}
	subc := &cobra.Command{
		Use:   "mv <src> <dst>",
		Short: "Move a resource on the server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, params []string) error {
			ctx, cancel := c.withTimeout()
			defer cancel()
			res, err := c.Client.MoveResource(ctx, params[0], params[1], args.options()...)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	subc.Flags().BoolVar(&args.noOverwrite, "no-overwrite", false, "fail when the target exists")
	return subc
}

func init() {
	register(NewCopyCmd)
	register(NewMoveCmd)
}
