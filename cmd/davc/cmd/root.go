package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/davclient/config"
	"github.com/xxxsen/davclient/transport"
	_ "github.com/xxxsen/davclient/transport/register"
	"github.com/xxxsen/davclient/webdav"
	"go.uber.org/zap"
)

const (
	defaultConfigFileEnv = "DAVC_CONFIG"
)

var cmds []CreateFunc

type Context struct {
	Client *webdav.Client
	Config *config.Config
}

// withTimeout derives the per command deadline from the config.
func (c *Context) withTimeout() (context.Context, context.CancelFunc) {
	if c.Config == nil || c.Config.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), time.Duration(c.Config.Timeout)*time.Second)
}

type CreateFunc func(ctx *Context) *cobra.Command

func register(cr CreateFunc) {
	cmds = append(cmds, cr)
}

func loadConfig(cfgs []string) (*config.Config, error) {
	var lastErr error
	for _, cfg := range cfgs {
		if len(cfg) == 0 {
			continue
		}
		c, err := config.Parse(cfg)
		if err != nil {
			lastErr = err
			continue
		}
		return c, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no config file specified")
	}
	return nil, fmt.Errorf("no valid config file found, last err:%w", lastErr)
}

func initContext(ctx *Context, cfgs []string) error {
	c, err := loadConfig(cfgs)
	if err != nil {
		return err
	}
	ctx.Config = c
	logitem := c.LogInfo
	lg := logger.Init(logitem.File, logitem.Level, int(logitem.FileCount), int(logitem.FileSize), int(logitem.KeepDays), logitem.Console)
	lg.Debug("use transport", zap.String("name", c.Transport), zap.Strings("available", transport.List()))
	t, err := transport.Create(c.Transport, c.TransportConfig)
	if err != nil {
		return fmt.Errorf("create transport failed, name:%s, err:%w", c.Transport, err)
	}
	cli, err := webdav.New(c.Server, webdav.WithTransport(t))
	if err != nil {
		return err
	}
	ctx.Client = cli
	return nil
}

func NewRoot() *cobra.Command {
	var configFile string
	ctx := &Context{}
	var rootCmd = &cobra.Command{
		Use:           "davc",
		Short:         "WebDAV CLI tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	for _, cr := range cmds {
		rootCmd.AddCommand(cr(ctx))
	}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		envConfigFile, _ := os.LookupEnv(defaultConfigFileEnv)
		return initContext(ctx, []string{configFile, envConfigFile, "/etc/davc/davc_config.json"})
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file")
	return rootCmd
}
