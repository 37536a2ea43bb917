package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/xxxsen/davclient/entity"
)

var stdout io.Writer = os.Stdout

func printJSON(v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output failed, err:%w", err)
	}
	_, err = fmt.Fprintln(stdout, string(raw))
	return err
}

func resourceSize(res *entity.Resource) string {
	if res.IsCollection {
		return "-"
	}
	v, ok := res.Property("getcontentlength")
	if !ok {
		return "-"
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return v
	}
	return humanize.IBytes(n)
}

func printTable(rs []*entity.Resource) error {
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, res := range rs {
		kind := "-"
		if res.IsCollection {
			kind = "d"
		}
		mtime, _ := res.Property("getlastmodified")
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", kind, resourceSize(res), mtime, res.DisplayName)
	}
	return w.Flush()
}
