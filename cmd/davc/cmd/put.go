package cmd

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/davclient/batch"
	"go.uber.org/zap"
)

type putArgs struct {
	files       []string
	dir         string
	target      string
	parents     bool
	contentType string
}

func NewPutCmd(c *Context) *cobra.Command {
	args := &putArgs{}
	subc := &cobra.Command{
		Use:   "put",
		Short: "Upload local files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := c.withTimeout()
			defer cancel()
			return onRunPut(ctx, c, args)
		},
	}
	subc.Flags().StringSliceVarP(&args.files, "file", "f", nil, "local files to upload")
	subc.Flags().StringVar(&args.dir, "dir", "/", "remote collection to upload into")
	subc.Flags().StringVar(&args.target, "target", "", "remote path, only for a single file")
	subc.Flags().BoolVarP(&args.parents, "parents", "p", false, "create missing parent collections")
	subc.Flags().StringVar(&args.contentType, "content-type", "", "content type, detected from the file when empty")
	return subc
}

func detectContentType(file string) string {
	mt, err := mimetype.DetectFile(file)
	if err != nil {
		return "application/octet-stream"
	}
	return mt.String()
}

func buildPutItems(args *putArgs) ([]*batch.Item, error) {
	if len(args.files) == 0 {
		return nil, fmt.Errorf("no upload file found")
	}
	if len(args.target) > 0 && len(args.files) > 1 {
		return nil, fmt.Errorf("target can only be used with a single file")
	}
	items := make([]*batch.Item, 0, len(args.files))
	for _, file := range args.files {
		target := args.target
		if len(target) == 0 {
			target = path.Join("/", args.dir, filepath.Base(file))
		}
		ct := args.contentType
		if len(ct) == 0 {
			ct = detectContentType(file)
		}
		items = append(items, &batch.Item{File: file, Target: target, ContentType: ct})
	}
	return items, nil
}

func onRunPut(ctx context.Context, c *Context, args *putArgs) error {
	items, err := buildPutItems(args)
	if err != nil {
		return err
	}
	up, err := batch.New(
		batch.WithClient(c.Client),
		batch.WithThread(c.Config.Thread),
		batch.WithRetry(c.Config.Retry, 2*time.Second),
		batch.WithParents(args.parents),
	)
	if err != nil {
		return fmt.Errorf("init uploader failed, err:%w", err)
	}
	start := time.Now()
	rs, err := up.Upload(ctx, items)
	if err != nil {
		return fmt.Errorf("upload files failed, err:%w", err)
	}
	logutil.GetLogger(ctx).Info("upload files succ", zap.Int("count", len(rs)), zap.Duration("cost", time.Since(start)))
	return printJSON(rs)
}

func init() {
	register(NewPutCmd)
}
