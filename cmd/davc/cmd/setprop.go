package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func parsePropArgs(items []string) (map[string]string, error) {
	rs := make(map[string]string, len(items))
	for _, item := range items {
		idx := strings.LastIndex(item, "=")
		if idx <= 0 {
			return nil, fmt.Errorf("invalid property, should be name=value, item:%s", item)
		}
		rs[item[:idx]] = item[idx+1:]
	}
	return rs, nil
}

func NewSetPropCmd(c *Context) *cobra.Command {
	var props []string
	subc := &cobra.Command{
		Use:   "setprop <path>",
		Short: "Set dead properties, name can be {namespace}local",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, params []string) error {
			m, err := parsePropArgs(props)
			if err != nil {
				return err
			}
			if len(m) == 0 {
				return fmt.Errorf("no property found")
			}
			ctx, cancel := c.withTimeout()
			defer cancel()
			res, err := c.Client.SetProperties(ctx, params[0], m)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	subc.Flags().StringArrayVarP(&props, "prop", "p", nil, "property as name=value, repeatable")
	return subc
}

func init() {
	register(NewSetPropCmd)
}
