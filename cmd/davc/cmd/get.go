package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/davclient/utils"
	"go.uber.org/zap"
)

type getArgs struct {
	output string
}

func NewGetCmd(c *Context) *cobra.Command {
	args := &getArgs{}
	subc := &cobra.Command{
		Use:   "get <path>",
		Short: "Download a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, params []string) error {
			ctx, cancel := c.withTimeout()
			defer cancel()
			return onRunGet(ctx, c, params[0], args)
		},
	}
	subc.Flags().StringVarP(&args.output, "output", "o", "", "local file, defaults to the remote name")
	return subc
}

func onRunGet(ctx context.Context, c *Context, p string, args *getArgs) error {
	start := time.Now()
	stream, err := c.Client.GetResourceStream(ctx, p)
	if err != nil {
		return err
	}
	if stream == nil {
		return fmt.Errorf("no path specified")
	}
	defer stream.Close()
	dst := args.output
	if len(dst) == 0 {
		dst = stream.Filename()
	}
	if len(dst) == 0 {
		return fmt.Errorf("unable to decide local file name, path:%s", p)
	}
	n, err := utils.SaveStreamToFile(dst, stream)
	if err != nil {
		return fmt.Errorf("save stream failed, dst:%s, err:%w", dst, err)
	}
	logutil.GetLogger(ctx).Info("download file succ", zap.String("dst", dst),
		zap.String("size", humanize.IBytes(uint64(n))), zap.Duration("cost", time.Since(start)))
	return nil
}

func init() {
	register(NewGetCmd)
}
