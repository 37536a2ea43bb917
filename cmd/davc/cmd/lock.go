package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/xxxsen/davclient/entity"
)

type lockArgs struct {
	token   string
	timeout int64
}

type lockResult struct {
	Token    string           `json:"token"`
	Resource *entity.Resource `json:"resource"`
}

func NewLockCmd(c *Context) *cobra.Command {
	args := &lockArgs{}
	subc := &cobra.Command{
		Use:   "lock <path>",
		Short: "Create or refresh an exclusive write lock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, params []string) error {
			ctx, cancel := c.withTimeout()
			defer cancel()
			timeout := time.Duration(args.timeout) * time.Second
			if len(args.token) > 0 {
				res, err := c.Client.LockResource(ctx, params[0], args.token, timeout)
				if err != nil {
					return err
				}
				return printJSON(&lockResult{Token: args.token, Resource: res})
			}
			token, res, err := c.Client.AcquireLock(ctx, params[0], timeout)
			if err != nil {
				return err
			}
			return printJSON(&lockResult{Token: token, Resource: res})
		},
	}
	subc.Flags().StringVar(&args.token, "token", "", "refresh the lock with this token")
	subc.Flags().Int64Var(&args.timeout, "timeout", 600, "lock timeout in seconds, 0 means infinite")
	return subc
}

func NewUnlockCmd(c *Context) *cobra.Command {
	var token string
	subc := &cobra.Command{
		Use:   "unlock <path>",
		Short: "Release a lock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, params []string) error {
			ctx, cancel := c.withTimeout()
			defer cancel()
			res, err := c.Client.UnlockResource(ctx, params[0], token)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	subc.Flags().StringVar(&token, "token", "", "lock token")
	_ = subc.MarkFlagRequired("token")
	return subc
}

func init() {
	register(NewLockCmd)
	register(NewUnlockCmd)
}
